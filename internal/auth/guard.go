package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"

	"github.com/kidandcat/firmportal/internal/db"
)

// State is where a request stands in resolving its identity.
type State int

const (
	// Unauthenticated: no usable session. Terminal for the request.
	Unauthenticated State = iota
	// Loading: a validly signed session whose identity could not be
	// resolved yet.
	Loading
	Ready
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	}
	return "unauthenticated"
}

// Resolve walks the cookie through the guard states.
func (s *Service) Resolve(r *http.Request) (State, *Viewer) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return Unauthenticated, nil
	}
	id, err := parseSession(s.secret, c.Value, s.now())
	if err != nil {
		return Unauthenticated, nil
	}
	u, err := s.store.GetUserBySession(id)
	switch {
	case errors.Is(err, db.ErrNotFound), errors.Is(err, db.ErrExpired):
		return Unauthenticated, nil
	case err != nil:
		log.Error().Err(err).Msg("resolve session")
		return Loading, nil
	}
	return Ready, viewerOf(u)
}

type viewerKey struct{}

func WithViewer(ctx context.Context, v *Viewer) context.Context {
	return context.WithValue(ctx, viewerKey{}, v)
}

// ViewerFrom returns the viewer stored by RequireSession.
func ViewerFrom(ctx context.Context) (*Viewer, bool) {
	v, ok := ctx.Value(viewerKey{}).(*Viewer)
	return v, ok && v != nil
}

// RequireSession lets only Ready requests through. Everything else gets a
// redirect to /login, or a JSON status for /api paths.
func (s *Service) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state, v := s.Resolve(r)
		api := strings.HasPrefix(r.URL.Path, "/api/")

		switch state {
		case Ready:
			next.ServeHTTP(w, r.WithContext(WithViewer(r.Context(), v)))
		case Loading:
			w.Header().Set("Retry-After", "1")
			if api {
				writeStatus(w, http.StatusServiceUnavailable, "session is loading")
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(loadingPage))
		default:
			if api {
				writeStatus(w, http.StatusUnauthorized, "unauthenticated")
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		}
	})
}

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

func writeStatus(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	codec.NewEncoder(w).Encode(map[string]string{"error": msg})
}

const loadingPage = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><meta http-equiv="refresh" content="1"><title>Memuat…</title></head>
<body><p>Memuat sesi…</p></body></html>`
