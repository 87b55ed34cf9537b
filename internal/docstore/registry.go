package docstore

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kidandcat/firmportal/internal/upload"
)

// Seeder fills a freshly created tree for a client.
type Seeder func(clientID string, t *Tree)

// Registry hands out one workspace per client, creating it on first use.
type Registry struct {
	backend  upload.Backend
	seed     Seeder
	maxBytes int64
	now      func() time.Time

	mu     sync.Mutex
	spaces map[string]*Workspace
}

type Option func(*Registry)

// WithSeeder sets the function that populates new trees.
func WithSeeder(s Seeder) Option { return func(r *Registry) { r.seed = s } }

// WithMaxBytes overrides the upload size ceiling.
func WithMaxBytes(n int64) Option { return func(r *Registry) { r.maxBytes = n } }

// WithClock overrides the clock used for file timestamps.
func WithClock(now func() time.Time) Option { return func(r *Registry) { r.now = now } }

func NewRegistry(backend upload.Backend, opts ...Option) *Registry {
	r := &Registry{
		backend:  backend,
		maxBytes: upload.MaxBytes,
		now:      time.Now,
		spaces:   make(map[string]*Workspace),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Workspace returns the client's workspace.
func (r *Registry) Workspace(clientID string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ws, ok := r.spaces[clientID]; ok {
		return ws
	}
	ws := &Workspace{
		ClientID: clientID,
		Tree:     NewTree(),
		Uploads:  upload.NewTracker(r.backend),
		maxBytes: r.maxBytes,
		now:      r.now,
	}
	if r.seed != nil {
		r.seed(clientID, ws.Tree)
	}
	r.spaces[clientID] = ws
	log.Debug().Str("client_id", clientID).Int("nodes", ws.Tree.Len()).Msg("document workspace created")
	return ws
}

// Clients lists the ids of workspaces opened so far.
func (r *Registry) Clients() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.spaces))
	for id := range r.spaces {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
