package upload

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		file      File
		wantField string
	}{
		{"pdf at limit", File{Name: "a.pdf", Size: MaxBytes, Type: "application/pdf"}, ""},
		{"docx", File{Name: "a.docx", Size: 1, Type: "application/vnd.openxmlformats-officedocument.wordprocessingml.document"}, ""},
		{"png with params", File{Name: "a.png", Size: 1, Type: "image/png; charset=binary"}, ""},
		{"one byte over", File{Name: "big.pdf", Size: MaxBytes + 1, Type: "application/pdf"}, "size"},
		{"zip", File{Name: "a.zip", Size: 1, Type: "application/zip"}, "type"},
		{"blank name", File{Name: "  ", Size: 1, Type: "application/pdf"}, "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.file, MaxBytes)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestCheckSizeIgnoresType(t *testing.T) {
	if err := CheckSize(File{Name: "notes.txt", Size: 100, Type: "text/plain"}, MaxBytes); err != nil {
		t.Errorf("CheckSize() = %v, want nil", err)
	}
	if err := CheckSize(File{Name: "huge.txt", Size: 10485761}, MaxBytes); err == nil {
		t.Error("CheckSize() accepted a file over 10MB")
	}
}

func TestDetectType(t *testing.T) {
	tests := []struct {
		name, declared, want string
	}{
		{"report.PDF", "", "application/pdf"},
		{"sheet.xlsx", "application/octet-stream", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{"photo.jpg", "image/jpeg", "image/jpeg"},
		{"archive.zip", "", ""},
	}
	for _, tt := range tests {
		if got := DetectType(tt.name, tt.declared); got != tt.want {
			t.Errorf("DetectType(%q, %q) = %q, want %q", tt.name, tt.declared, got, tt.want)
		}
	}
}

func TestSizeLabel(t *testing.T) {
	if got := (File{Size: 2 << 20}).SizeLabel(); got != "2.0 MiB" {
		t.Errorf("SizeLabel() = %q, want %q", got, "2.0 MiB")
	}
	if got := (File{Size: 512}).SizeLabel(); got != "512 B" {
		t.Errorf("SizeLabel() = %q, want %q", got, "512 B")
	}
}
