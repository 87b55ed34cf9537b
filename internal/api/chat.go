package api

import (
	"net/http"

	"github.com/kidandcat/firmportal/internal/chat"
	"github.com/kidandcat/firmportal/internal/role"
	"github.com/kidandcat/firmportal/internal/upload"
)

func (s *Server) registerChat(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/chat/roster", s.handleRoster)
	mux.HandleFunc("POST /api/chat/select", s.handleSelect)
	mux.HandleFunc("GET /api/chat/messages", s.handleMessages)
	mux.HandleFunc("POST /api/chat/messages", s.handleSend)
	mux.HandleFunc("POST /api/chat/attachments", s.handleAttachment)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*chat.Session, bool) {
	v, ok := viewer(w, r, role.Collaborate)
	if !ok {
		return nil, false
	}
	return s.chat.Session(chat.Sender{ID: v.ID, Name: v.Name}), true
}

func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	if _, ok := viewer(w, r, role.Collaborate); !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.chat.Roster())
}

func conversation(sess *chat.Session) map[string]any {
	out := map[string]any{"messages": sess.Messages()}
	if ref, ok := sess.Active(); ok {
		out["active"] = ref
	}
	return out
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var ref chat.Ref
	if !decode(w, r, &ref) {
		return
	}
	if err := sess.Select(ref); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, conversation(sess))
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, conversation(sess))
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if !decode(w, r, &req) {
		return
	}
	msg, err := sess.Send(req.Text)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (s *Server) handleAttachment(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	files, err := s.readFiles(w, r)
	if err != nil {
		return
	}
	if len(files) != 1 {
		writeFields(w, http.StatusUnprocessableEntity, "kirim tepat satu berkas", map[string]string{"file": "wajib diisi"})
		return
	}
	f := files[0]
	f.Type = upload.DetectType(f.Name, f.Type)
	msg, err := sess.SendAttachment(f)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}
