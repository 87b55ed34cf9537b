// Package handlers serves the server-rendered pages: the public marketing
// site, the sign-in forms and the guarded dashboard shell.
package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/Masterminds/sprig/v3"
	"github.com/rs/zerolog/log"

	"github.com/kidandcat/firmportal/internal/auth"
	"github.com/kidandcat/firmportal/internal/content"
	"github.com/kidandcat/firmportal/internal/directory"
)

//go:embed templates/*.html
var templateFS embed.FS

type Handler struct {
	auth  *auth.Service
	pages content.Pages
	dir   *directory.Directory
	firm  string
	tmpl  *template.Template
}

func New(a *auth.Service, pages content.Pages, dir *directory.Directory, firm string) (*Handler, error) {
	funcMap := sprig.HtmlFuncMap()
	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Handler{auth: a, pages: pages, dir: dir, firm: firm, tmpl: tmpl}, nil
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.page("home"))
	mux.HandleFunc("GET /about", h.page("about"))
	mux.HandleFunc("GET /services", h.page("services"))
	mux.HandleFunc("GET /team", h.page("team"))
	mux.HandleFunc("GET /contact", h.contact)
	mux.HandleFunc("POST /contact", h.contact)

	mux.HandleFunc("GET /login", h.login)
	mux.HandleFunc("POST /login", h.login)
	mux.HandleFunc("POST /logout", h.logout)
	mux.HandleFunc("GET /lupa-password", h.forgotPassword)
	mux.HandleFunc("POST /lupa-password", h.forgotPassword)
	mux.HandleFunc("GET /reset-password", h.resetPassword)
	mux.HandleFunc("POST /reset-password", h.resetPassword)

	mux.Handle("GET /dashboard", h.auth.RequireSession(http.HandlerFunc(h.dashboard)))
	mux.Handle("GET /dashboard/{section...}", h.auth.RequireSession(http.HandlerFunc(h.dashboard)))
}

func (h *Handler) data(r *http.Request, title string) map[string]any {
	return map[string]any{
		"Firm":   h.firm,
		"Title":  title,
		"Viewer": h.auth.CurrentViewer(r),
	}
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("render template")
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
