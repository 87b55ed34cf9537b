// Package content holds the public marketing pages as embedded markdown.
package content

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

//go:embed pages/*.md
var pagesFS embed.FS

type Page struct {
	Slug  string
	Title string
	Body  template.HTML
}

// Pages maps a slug ("home", "about", ...) to its rendered page.
type Pages map[string]Page

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Typographer),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// Load renders every embedded page.
func Load() (Pages, error) {
	return LoadFS(pagesFS, "pages")
}

// LoadFS renders the *.md files directly under dir. The first "# " line of
// a file becomes its title.
func LoadFS(fsys fs.FS, dir string) (Pages, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read pages: %w", err)
	}
	pages := make(Pages, len(entries))
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".md" {
			continue
		}
		src, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		p, err := render(strings.TrimSuffix(e.Name(), ".md"), src)
		if err != nil {
			return nil, err
		}
		pages[p.Slug] = p
	}
	return pages, nil
}

func render(slug string, src []byte) (Page, error) {
	p := Page{Slug: slug, Title: slug}
	for _, line := range strings.Split(string(src), "\n") {
		if t, ok := strings.CutPrefix(line, "# "); ok {
			p.Title = strings.TrimSpace(t)
			break
		}
	}
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return Page{}, fmt.Errorf("render %s: %w", slug, err)
	}
	p.Body = template.HTML(buf.String())
	return p, nil
}
