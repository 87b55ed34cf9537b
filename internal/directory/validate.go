package directory

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
	"time"
)

// ValidationError collects per-field messages for a rejected form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validasi gagal: " + strings.Join(parts, "; ")
}

func fieldError(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// DateLayout is the wire format of schedule dates.
const DateLayout = "2006-01-02"

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9][0-9 \-]*$`)
)

type checker struct {
	fields map[string]string
}

func (c *checker) fail(field, msg string) {
	if c.fields == nil {
		c.fields = make(map[string]string)
	}
	if _, ok := c.fields[field]; !ok {
		c.fields[field] = msg
	}
}

func (c *checker) required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		c.fail(field, "wajib diisi")
		return false
	}
	return true
}

func (c *checker) email(field, value string) {
	if c.required(field, value) && !emailRe.MatchString(strings.TrimSpace(value)) {
		c.fail(field, "format email tidak valid")
	}
}

// phone accepts an optional leading +, digits, spaces and dashes with 8 to
// 15 digits in total. Empty is allowed unless required was checked first.
func (c *checker) phone(field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	digits := 0
	for _, r := range value {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if !phoneRe.MatchString(value) || digits < 8 || digits > 15 {
		c.fail(field, "format nomor telepon tidak valid")
	}
}

func (c *checker) date(field, value string) (time.Time, bool) {
	if !c.required(field, value) {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		c.fail(field, "tanggal harus berformat YYYY-MM-DD")
		return time.Time{}, false
	}
	return t, true
}

func (c *checker) oneOf(field, value string, allowed ...string) {
	if c.required(field, value) && !slices.Contains(allowed, value) {
		c.fail(field, "pilihan tidak valid")
	}
}

func (c *checker) err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: c.fields}
}
