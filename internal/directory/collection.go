// Package directory holds the dashboard's entity lists (clients, users,
// documents, audit schedules and team members) as in-memory collections
// with search, validation and role-gated mutations.
package directory

import (
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/kidandcat/firmportal/internal/role"
)

var (
	ErrForbidden = errors.New("anda tidak memiliki izin untuk tindakan ini")
	ErrNotFound  = errors.New("record not found")
)

// Schema describes how a collection treats its records.
type Schema[T any] struct {
	Name   string
	View   role.Capability
	Manage role.Capability
	// ID exposes the record's id field for reading and assignment.
	ID       func(*T) *string
	Validate func(T) error
	// Key, when set, must be unique across the collection (case-insensitive);
	// duplicates are reported on KeyField.
	Key      func(T) string
	KeyField string
	// Fields are the values matched by Search.
	Fields func(T) []string
}

// Collection is an ordered, mutex-guarded list of records.
type Collection[T any] struct {
	schema Schema[T]

	mu    sync.RWMutex
	items []T
}

func NewCollection[T any](s Schema[T], seed ...T) *Collection[T] {
	c := &Collection[T]{schema: s}
	for _, item := range seed {
		if id := s.ID(&item); *id == "" {
			*id = uuid.NewString()
		}
		c.items = append(c.items, item)
	}
	return c
}

func (c *Collection[T]) Name() string { return c.schema.Name }

// CanView and CanManage let the UI disable controls up front; the mutating
// methods check again.
func (c *Collection[T]) CanView(r role.Role) bool   { return role.Can(r, c.schema.View) }
func (c *Collection[T]) CanManage(r role.Role) bool { return role.Can(r, c.schema.Manage) }

func (c *Collection[T]) List() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

func fold(s string) string {
	return cases.Fold().String(s)
}

// Search keeps records where any field contains q, ignoring case. Order is
// preserved; a blank query returns everything.
func (c *Collection[T]) Search(q string) []T {
	q = fold(strings.TrimSpace(q))
	if q == "" {
		return c.List()
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := []T{}
	for _, item := range c.items {
		for _, f := range c.schema.Fields(item) {
			if strings.Contains(fold(f), q) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

func (c *Collection[T]) indexLocked(id string) int {
	return slices.IndexFunc(c.items, func(item T) bool { return *c.schema.ID(&item) == id })
}

func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexLocked(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

func (c *Collection[T]) checkKeyLocked(item T, skip int) error {
	if c.schema.Key == nil {
		return nil
	}
	key := fold(strings.TrimSpace(c.schema.Key(item)))
	for i, other := range c.items {
		if i != skip && fold(strings.TrimSpace(c.schema.Key(other))) == key {
			return fieldError(c.schema.KeyField, "sudah terdaftar")
		}
	}
	return nil
}

// Import appends records loaded from elsewhere, skipping any that fail
// validation or clash on Key. No role check applies. It returns how many
// were added.
func (c *Collection[T]) Import(items ...T) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, item := range items {
		if c.schema.Validate(item) != nil || c.checkKeyLocked(item, -1) != nil {
			continue
		}
		if id := c.schema.ID(&item); *id == "" {
			*id = uuid.NewString()
		}
		c.items = append(c.items, item)
		n++
	}
	return n
}

// Add validates item and appends it with a fresh id.
func (c *Collection[T]) Add(by role.Role, item T) (T, error) {
	var zero T
	if !c.CanManage(by) {
		return zero, ErrForbidden
	}
	if err := c.schema.Validate(item); err != nil {
		return zero, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkKeyLocked(item, -1); err != nil {
		return zero, err
	}
	*c.schema.ID(&item) = uuid.NewString()
	c.items = append(c.items, item)
	return item, nil
}

// Update replaces the record with the given id, keeping its position.
func (c *Collection[T]) Update(by role.Role, id string, item T) (T, error) {
	var zero T
	if !c.CanManage(by) {
		return zero, ErrForbidden
	}
	if err := c.schema.Validate(item); err != nil {
		return zero, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(id)
	if i < 0 {
		return zero, ErrNotFound
	}
	if err := c.checkKeyLocked(item, i); err != nil {
		return zero, err
	}
	*c.schema.ID(&item) = id
	c.items[i] = item
	return item, nil
}

func (c *Collection[T]) Delete(by role.Role, id string) error {
	if !c.CanManage(by) {
		return ErrForbidden
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(id)
	if i < 0 {
		return ErrNotFound
	}
	c.items = slices.Delete(c.items, i, i+1)
	return nil
}
