package content

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestLoadEmbedded(t *testing.T) {
	pages, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	for _, slug := range []string{"home", "about", "services", "team", "contact"} {
		p, ok := pages[slug]
		if !ok {
			t.Errorf("missing page %q", slug)
			continue
		}
		if p.Title == slug || p.Body == "" {
			t.Errorf("page %q not rendered: %+v", slug, p)
		}
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"p/x.md":     {Data: []byte("# Judul\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")},
		"p/skip.txt": {Data: []byte("ignored")},
	}
	pages, err := LoadFS(fsys, "p")
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 1 {
		t.Fatalf("pages = %v", pages)
	}
	p := pages["x"]
	if p.Title != "Judul" {
		t.Errorf("Title = %q", p.Title)
	}
	if !strings.Contains(string(p.Body), "<table>") || !strings.Contains(string(p.Body), `id="judul"`) {
		t.Errorf("Body = %s", p.Body)
	}
}
