// Package api is the JSON surface of the dashboard: session and menu,
// entity lists, per-client documents with uploads, and chat.
package api

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"

	"github.com/kidandcat/firmportal/internal/auth"
	"github.com/kidandcat/firmportal/internal/chat"
	"github.com/kidandcat/firmportal/internal/directory"
	"github.com/kidandcat/firmportal/internal/docstore"
	"github.com/kidandcat/firmportal/internal/role"
	"github.com/kidandcat/firmportal/internal/upload"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

type Server struct {
	auth *auth.Service
	docs *docstore.Registry
	chat *chat.Hub
	dir  *directory.Directory

	maxBytes int64
}

func New(a *auth.Service, docs *docstore.Registry, hub *chat.Hub, dir *directory.Directory, maxBytes int64) *Server {
	if maxBytes <= 0 {
		maxBytes = upload.MaxBytes
	}
	return &Server{auth: a, docs: docs, chat: hub, dir: dir, maxBytes: maxBytes}
}

// Register mounts every /api route behind the session guard.
func (s *Server) Register(mux *http.ServeMux) {
	api := http.NewServeMux()

	api.HandleFunc("GET /api/me", s.handleMe)
	api.HandleFunc("POST /api/logout", s.handleLogout)
	api.HandleFunc("GET /api/menu", s.handleMenu)

	registerCollection(api, s.dir.Clients)
	registerCollection(api, s.dir.Users)
	registerCollection(api, s.dir.Documents)
	registerCollection(api, s.dir.Schedules)
	registerCollection(api, s.dir.Team)

	s.registerDocuments(api)
	s.registerChat(api)

	mux.Handle("/api/", s.auth.RequireSession(api))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	codec.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeFields(w http.ResponseWriter, status int, msg string, fields map[string]string) {
	writeJSON(w, status, map[string]any{"error": msg, "fields": fields})
}

// fail maps a domain error onto a response. Anything unrecognised is logged
// and reported as a 500.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	var dve *directory.ValidationError
	var uve *upload.ValidationError
	switch {
	case errors.As(err, &dve):
		writeFields(w, http.StatusUnprocessableEntity, "validasi gagal", dve.Fields)
	case errors.As(err, &uve):
		writeFields(w, http.StatusUnprocessableEntity, uve.Message, map[string]string{uve.Field: uve.Message})
	case errors.Is(err, docstore.ErrBlankName), errors.Is(err, docstore.ErrInvalidName):
		writeFields(w, http.StatusUnprocessableEntity, err.Error(), map[string]string{"name": err.Error()})
	case errors.Is(err, chat.ErrEmptyMessage):
		writeFields(w, http.StatusUnprocessableEntity, err.Error(), map[string]string{"text": err.Error()})
	case errors.Is(err, directory.ErrForbidden), errors.Is(err, errForbidden):
		writeError(w, http.StatusForbidden, directory.ErrForbidden.Error())
	case errors.Is(err, directory.ErrNotFound), errors.Is(err, docstore.ErrNotFound),
		errors.Is(err, chat.ErrUnknownConversation):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, docstore.ErrRoot), errors.Is(err, docstore.ErrNotFolder):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, chat.ErrNoConversation):
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

var errForbidden = errors.New("forbidden")

// viewer returns the request's viewer and, when c is set, checks that the
// viewer's role grants it.
func viewer(w http.ResponseWriter, r *http.Request, c role.Capability) (*auth.Viewer, bool) {
	v, ok := auth.ViewerFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return nil, false
	}
	if c != "" && !role.Can(v.Role, c) {
		fail(w, r, errForbidden)
		return nil, false
	}
	return v, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := codec.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	return true
}
