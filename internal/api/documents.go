package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/kidandcat/firmportal/internal/docstore"
	"github.com/kidandcat/firmportal/internal/role"
	"github.com/kidandcat/firmportal/internal/upload"
)

func (s *Server) registerDocuments(mux *http.ServeMux) {
	base := "/api/clients/{client}"
	mux.HandleFunc("GET "+base+"/documents", s.handleListing)
	mux.HandleFunc("GET "+base+"/documents/search", s.handleSearch)
	mux.HandleFunc("POST "+base+"/folders", s.handleCreateFolder)
	mux.HandleFunc("PATCH "+base+"/nodes/{id}", s.handleRename)
	mux.HandleFunc("DELETE "+base+"/nodes/{id}", s.handleRemove)
	mux.HandleFunc("POST "+base+"/uploads", s.handleUpload)
	mux.HandleFunc("GET "+base+"/uploads", s.handleUploads)
	mux.HandleFunc("DELETE "+base+"/uploads", s.handleClearUploads)
	mux.HandleFunc("DELETE "+base+"/uploads/{task}", s.handleDismissUpload)
}

// workspace checks c and resolves the {client} segment to a known client's
// document workspace.
func (s *Server) workspace(w http.ResponseWriter, r *http.Request, c role.Capability) (*docstore.Workspace, bool) {
	if _, ok := viewer(w, r, c); !ok {
		return nil, false
	}
	id := r.PathValue("client")
	if _, ok := s.dir.Clients.Get(id); !ok {
		writeError(w, http.StatusNotFound, "unknown client")
		return nil, false
	}
	return s.docs.Workspace(id), true
}

func (s *Server) handleListing(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r, role.ViewDocuments)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ws.Browse(r.URL.Query().Get("path")).Current())
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r, role.ViewDocuments)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": ws.Tree.Search(r.URL.Query().Get("q"))})
}

func (s *Server) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r, role.ManageDocuments)
	if !ok {
		return
	}
	var req struct {
		Path string `json:"path"`
		Name string `json:"name"`
	}
	if !decode(w, r, &req) {
		return
	}
	n, err := ws.Browse(req.Path).CreateFolder(req.Name)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r, role.ManageDocuments)
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if !decode(w, r, &req) {
		return
	}
	n, err := ws.Tree.Rename(r.PathValue("id"), req.Name)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r, role.ManageDocuments)
	if !ok {
		return
	}
	if err := ws.Tree.Remove(r.PathValue("id")); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type rejected struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// handleUpload reads every "file" part of a multipart body, counting and
// discarding its bytes, and starts an upload task for each accepted file.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r, role.ManageDocuments)
	if !ok {
		return
	}
	files, err := s.readFiles(w, r)
	if err != nil {
		return
	}
	if len(files) == 0 {
		writeFields(w, http.StatusUnprocessableEntity, "tidak ada berkas", map[string]string{"file": "wajib diisi"})
		return
	}

	b := ws.Browse(r.URL.Query().Get("path"))
	tasks := []upload.Task{}
	var refused []rejected
	var firstErr error
	for _, f := range files {
		task, err := b.Upload(f)
		if err != nil {
			var ve *upload.ValidationError
			if !errors.As(err, &ve) {
				fail(w, r, err)
				return
			}
			if firstErr == nil {
				firstErr = err
			}
			refused = append(refused, rejected{Name: f.Name, Error: ve.Message})
			continue
		}
		tasks = append(tasks, task)
	}
	if len(tasks) == 0 {
		var ve *upload.ValidationError
		errors.As(firstErr, &ve)
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":    ve.Message,
			"fields":   map[string]string{ve.Field: ve.Message},
			"rejected": refused,
		})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{
		"path":     b.Path(),
		"tasks":    tasks,
		"rejected": refused,
	})
}

// readFiles writes the error response itself when it fails.
func (s *Server) readFiles(w http.ResponseWriter, r *http.Request) ([]upload.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, 8*s.maxBytes)
	mr, err := r.MultipartReader()
	if err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart/form-data")
		return nil, err
	}
	var files []upload.File
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return files, nil
		}
		if err != nil {
			return nil, uploadReadError(w, err)
		}
		if part.FormName() != "file" || part.FileName() == "" {
			part.Close()
			continue
		}
		n, err := io.Copy(io.Discard, part)
		part.Close()
		if err != nil {
			return nil, uploadReadError(w, err)
		}
		files = append(files, upload.File{
			Name: part.FileName(),
			Size: n,
			Type: part.Header.Get("Content-Type"),
		})
	}
}

func uploadReadError(w http.ResponseWriter, err error) error {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		writeError(w, http.StatusRequestEntityTooLarge, "request too large")
	} else {
		writeError(w, http.StatusBadRequest, "malformed upload")
	}
	return err
}

func (s *Server) handleUploads(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r, role.ViewDocuments)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": ws.Uploads.List()})
}

// handleClearUploads is the upload dialog being closed.
func (s *Server) handleClearUploads(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r, role.ManageDocuments)
	if !ok {
		return
	}
	ws.Uploads.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDismissUpload(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r, role.ManageDocuments)
	if !ok {
		return
	}
	if !ws.Uploads.Dismiss(r.PathValue("task")) {
		writeError(w, http.StatusNotFound, "unknown upload")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
