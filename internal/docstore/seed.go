package docstore

import (
	"time"

	"github.com/kidandcat/firmportal/internal/upload"
)

type seedFile struct {
	name string
	size int64
	age  time.Duration
}

var seedLayout = []struct {
	folder string
	files  []seedFile
}{
	{"Laporan Keuangan", []seedFile{
		{"Neraca 2024.xlsx", 245 << 10, 72 * time.Hour},
		{"Laba Rugi 2024.pdf", 1200 << 10, 70 * time.Hour},
	}},
	{"Dokumen Pajak", []seedFile{
		{"SPT Tahunan 2024.pdf", 880 << 10, 240 * time.Hour},
	}},
	{"Korespondensi", nil},
}

// MockSeeder returns a Seeder that builds the demo folder layout used by the
// dashboard, stamping files relative to now().
func MockSeeder(now func() time.Time) Seeder {
	return func(_ string, t *Tree) {
		for _, s := range seedLayout {
			dir, err := t.AddFolder(t.Root(), s.folder)
			if err != nil {
				continue
			}
			for _, f := range s.files {
				file := upload.File{Name: f.name, Size: f.size, Type: upload.DetectType(f.name, "")}
				t.AddFile(dir.ID, file, now().Add(-f.age))
			}
		}
		t.AddFile(t.Root(), upload.File{
			Name: "Surat Penugasan.docx",
			Size: 56 << 10,
			Type: upload.DetectType("Surat Penugasan.docx", ""),
		}, now().Add(-400*time.Hour))
	}
}
