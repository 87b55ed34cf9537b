// Package upload validates incoming file descriptors and tracks simulated
// upload tasks. File contents are never stored; only name, size and type.
package upload

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

// MaxBytes is the upload ceiling shared by the document store and chat.
const MaxBytes int64 = 10 * 1024 * 1024

// AllowedTypes maps accepted MIME types to a short display kind.
var AllowedTypes = map[string]string{
	"application/pdf":               "PDF",
	"application/msword":            "Word",
	"application/vnd.ms-excel":      "Excel",
	"application/vnd.ms-powerpoint": "PowerPoint",
	"image/jpeg":                    "JPEG",
	"image/png":                     "PNG",

	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   "Word",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         "Excel",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": "PowerPoint",
}

var extTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// File describes a selected file.
type File struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

// SizeLabel renders the byte count for display, e.g. "2.0 MiB".
func (f File) SizeLabel() string {
	if f.Size < 0 {
		return humanize.IBytes(0)
	}
	return humanize.IBytes(uint64(f.Size))
}

// Kind is the display kind of the file type, or "" if not accepted.
func (f File) Kind() string {
	return AllowedTypes[normalizeType(f.Type)]
}

// DetectType fills an empty or generic Type from the file extension.
func DetectType(name, declared string) string {
	t := normalizeType(declared)
	if t != "" && t != "application/octet-stream" {
		return t
	}
	if byExt, ok := extTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return byExt
	}
	return t
}

func normalizeType(t string) string {
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return strings.ToLower(strings.TrimSpace(t))
}

// ValidationError is a user-facing rejection of a file.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CheckSize rejects blank names and files above max bytes.
func CheckSize(f File, max int64) error {
	if strings.TrimSpace(f.Name) == "" {
		return &ValidationError{Field: "name", Message: "nama file wajib diisi"}
	}
	if f.Size < 0 {
		return &ValidationError{Field: "size", Message: "ukuran file tidak valid"}
	}
	if f.Size > max {
		return &ValidationError{
			Field:   "size",
			Message: fmt.Sprintf("%s melebihi batas %s", f.Name, humanize.IBytes(uint64(max))),
		}
	}
	return nil
}

// Validate applies CheckSize and the document type allow-list.
func Validate(f File, max int64) error {
	if err := CheckSize(f, max); err != nil {
		return err
	}
	if f.Kind() == "" {
		return &ValidationError{
			Field:   "type",
			Message: fmt.Sprintf("tipe file %q tidak didukung; gunakan PDF, Word, Excel, PowerPoint, JPEG atau PNG", f.Type),
		}
	}
	return nil
}
