package upload

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusUploading Status = "uploading"
	StatusSuccess   Status = "success"
	StatusError     Status = "error"
)

// ErrIncomplete is recorded when a backend stops before reaching 100%.
var ErrIncomplete = errors.New("transfer ended before completion")

// Task is a snapshot of one upload.
type Task struct {
	ID        string    `json:"id"`
	File      File      `json:"file"`
	Progress  int       `json:"progress"`
	Status    Status    `json:"status"`
	Error     string    `json:"error,omitempty"`
	StartedAt time.Time `json:"started_at"`
}

type entry struct {
	task   Task
	cancel context.CancelFunc
	done   chan struct{}

	// finish guards removed and is held while complete runs, so a task is
	// either dismissed before its file lands or after.
	finish  sync.Mutex
	removed bool
}

// Tracker owns the pending upload list of one upload dialog.
type Tracker struct {
	backend Backend

	mu      sync.Mutex
	entries []*entry
}

func NewTracker(b Backend) *Tracker {
	return &Tracker{backend: b}
}

// Start registers a task for f and drives it in the background. Once the
// backend has reported 100%, complete is called; its error marks the task
// failed. complete is not called for tasks dismissed before the transfer
// finished.
func (t *Tracker) Start(f File, complete func(File) error) Task {
	ctx, cancel := context.WithCancel(context.Background())
	e := &entry{
		task: Task{
			ID:        uuid.NewString(),
			File:      f,
			Status:    StatusUploading,
			StartedAt: time.Now(),
		},
		cancel: cancel,
		done:   make(chan struct{}),
	}

	t.mu.Lock()
	t.entries = append(t.entries, e)
	snapshot := e.task
	t.mu.Unlock()

	go t.run(ctx, e, complete)
	return snapshot
}

func (t *Tracker) run(ctx context.Context, e *entry, complete func(File) error) {
	defer close(e.done)
	defer e.cancel()

	for step := range t.backend.Transfer(ctx, e.task.File) {
		if t.advance(e, step) >= 100 {
			break
		}
	}

	t.mu.Lock()
	reached := e.task.Progress >= 100
	t.mu.Unlock()

	e.finish.Lock()
	if e.removed {
		e.finish.Unlock()
		return
	}
	var err error
	if !reached {
		err = ErrIncomplete
	} else {
		err = complete(e.task.File)
	}
	e.finish.Unlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		e.task.Status = StatusError
		e.task.Error = err.Error()
		return
	}
	e.task.Status = StatusSuccess
}

// advance applies one increment. Progress never decreases and stops at 100.
func (t *Tracker) advance(e *entry, step int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if step > 0 {
		e.task.Progress = min(100, e.task.Progress+step)
	}
	return e.task.Progress
}

// List returns the pending tasks in start order.
func (t *Tracker) List() []Task {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Task, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e.task)
	}
	return out
}

// Get returns the current snapshot of a task.
func (t *Tracker) Get(id string) (Task, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range t.entries {
		if e.task.ID == id {
			return e.task, true
		}
	}
	return Task{}, false
}

// Wait blocks until the task has finished or ctx is done, then returns its
// final snapshot. ok is false if the task is unknown or was dismissed.
func (t *Tracker) Wait(ctx context.Context, id string) (Task, bool) {
	t.mu.Lock()
	var found *entry
	for _, e := range t.entries {
		if e.task.ID == id {
			found = e
			break
		}
	}
	t.mu.Unlock()
	if found == nil {
		return Task{}, false
	}

	select {
	case <-found.done:
	case <-ctx.Done():
		return Task{}, false
	}
	return t.Get(id)
}

// Dismiss removes a task from the list, cancelling it if still running.
func (t *Tracker) Dismiss(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := slices.IndexFunc(t.entries, func(e *entry) bool { return e.task.ID == id })
	if i < 0 {
		return false
	}
	e := t.entries[i]
	e.markRemoved()
	t.entries = slices.Delete(t.entries, i, i+1)
	return true
}

// markRemoved cancels the transfer and waits out a complete call already
// in flight. Callers hold t.mu; run never takes t.mu while holding finish.
func (e *entry) markRemoved() {
	e.cancel()
	e.finish.Lock()
	e.removed = true
	e.finish.Unlock()
}

// Clear cancels every running task and empties the list, as when the
// upload dialog is closed.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range t.entries {
		e.markRemoved()
	}
	t.entries = nil
}
