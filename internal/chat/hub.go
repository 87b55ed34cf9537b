package chat

import (
	"sync"
	"time"

	"github.com/kidandcat/firmportal/internal/upload"
)

// Hub keeps one Session per signed-in user.
type Hub struct {
	roster     Roster
	clock      Clock
	replyDelay time.Duration
	maxBytes   int64

	mu       sync.Mutex
	sessions map[string]*Session
}

type HubOption func(*Hub)

// WithMaxBytes overrides the attachment size ceiling.
func WithMaxBytes(n int64) HubOption { return func(h *Hub) { h.maxBytes = n } }

func NewHub(roster Roster, clock Clock, replyDelay time.Duration, opts ...HubOption) *Hub {
	if clock == nil {
		clock = SystemClock
	}
	h := &Hub{
		roster:     roster,
		clock:      clock,
		replyDelay: replyDelay,
		maxBytes:   upload.MaxBytes,
		sessions:   make(map[string]*Session),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

func (h *Hub) Roster() Roster { return h.roster }

// Session returns me's session, creating an empty one on first use.
func (h *Hub) Session(me Sender) *Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.sessions[me.ID]; ok {
		return s
	}
	s := &Session{
		me:         me,
		roster:     h.roster,
		clock:      h.clock,
		replyDelay: h.replyDelay,
		maxBytes:   h.maxBytes,
	}
	h.sessions[me.ID] = s
	return s
}

// End closes and forgets me's session, e.g. on sign-out.
func (h *Hub) End(userID string) {
	h.mu.Lock()
	s, ok := h.sessions[userID]
	delete(h.sessions, userID)
	h.mu.Unlock()
	if ok {
		s.Close()
	}
}
