package api

import (
	"net/http"

	"github.com/kidandcat/firmportal/internal/directory"
)

func registerCollection[T any](mux *http.ServeMux, c *directory.Collection[T]) {
	base := "/api/" + c.Name()

	mux.HandleFunc("GET "+base, func(w http.ResponseWriter, r *http.Request) {
		v, ok := viewer(w, r, "")
		if !ok {
			return
		}
		if !c.CanView(v.Role) {
			fail(w, r, directory.ErrForbidden)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"items":   c.Search(r.URL.Query().Get("q")),
			"can_add": c.CanManage(v.Role),
		})
	})

	mux.HandleFunc("POST "+base, func(w http.ResponseWriter, r *http.Request) {
		v, ok := viewer(w, r, "")
		if !ok {
			return
		}
		var item T
		if !decode(w, r, &item) {
			return
		}
		created, err := c.Add(v.Role, item)
		if err != nil {
			fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	})

	mux.HandleFunc("PUT "+base+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		v, ok := viewer(w, r, "")
		if !ok {
			return
		}
		var item T
		if !decode(w, r, &item) {
			return
		}
		updated, err := c.Update(v.Role, r.PathValue("id"), item)
		if err != nil {
			fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	})

	mux.HandleFunc("DELETE "+base+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		v, ok := viewer(w, r, "")
		if !ok {
			return
		}
		if err := c.Delete(v.Role, r.PathValue("id")); err != nil {
			fail(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}
