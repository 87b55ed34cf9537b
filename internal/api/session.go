package api

import (
	"net/http"

	"github.com/kidandcat/firmportal/internal/role"
)

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r, "")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          v,
		"role_label":    v.Role.Label(),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.SignOut(w, r)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r, "")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"role":         v.Role.String(),
		"menu":         role.Menu(v.Role),
		"capabilities": role.Granted(v.Role),
	})
}
