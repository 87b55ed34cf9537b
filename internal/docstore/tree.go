// Package docstore is the per-client document manager: an in-memory tree of
// folders and file descriptors with a browsing cursor and simulated uploads.
//
// Nodes live in an arena keyed by id and point at their parent; paths are
// derived when read, so renaming a folder never rewrites its descendants.
package docstore

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/kidandcat/firmportal/internal/upload"
)

var (
	ErrBlankName   = errors.New("nama tidak boleh kosong")
	ErrInvalidName = errors.New("nama tidak boleh mengandung '/'")
	ErrNotFound    = errors.New("node not found")
	ErrNotFolder   = errors.New("node is not a folder")
	ErrRoot        = errors.New("root folder cannot be changed")
)

type Kind string

const (
	KindFolder Kind = "folder"
	KindFile   Kind = "file"
)

type node struct {
	id       string
	kind     Kind
	name     string
	parent   string
	children []string

	size     int64
	mimeType string
	modified time.Time
}

// Node is a read-only snapshot of a folder or file.
type Node struct {
	ID           string     `json:"id"`
	Kind         Kind       `json:"kind"`
	Name         string     `json:"name"`
	Path         string     `json:"path"`
	Size         int64      `json:"size,omitempty"`
	SizeLabel    string     `json:"size_label,omitempty"`
	Type         string     `json:"type,omitempty"`
	LastModified *time.Time `json:"last_modified,omitempty"`
	Items        int        `json:"items,omitempty"`
}

func (n Node) IsFolder() bool { return n.Kind == KindFolder }

// Tree is one client's folder hierarchy rooted at "/".
type Tree struct {
	mu    sync.RWMutex
	root  string
	nodes map[string]*node
}

func NewTree() *Tree {
	root := &node{id: uuid.NewString(), kind: KindFolder}
	return &Tree{
		root:  root.id,
		nodes: map[string]*node{root.id: root},
	}
}

// Root returns the id of the root folder.
func (t *Tree) Root() string { return t.root }

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrBlankName
	}
	if strings.Contains(name, "/") {
		return "", ErrInvalidName
	}
	return name, nil
}

// pathOf walks parent pointers; callers hold t.mu.
func (t *Tree) pathOf(n *node) string {
	if n.id == t.root {
		return "/"
	}
	var parts []string
	for cur := n; cur != nil && cur.id != t.root; cur = t.nodes[cur.parent] {
		parts = append(parts, cur.name)
	}
	slices.Reverse(parts)
	return "/" + strings.Join(parts, "/")
}

func (t *Tree) snapshot(n *node) Node {
	out := Node{
		ID:   n.id,
		Kind: n.kind,
		Name: n.name,
		Path: t.pathOf(n),
	}
	if n.kind == KindFolder {
		out.Items = len(n.children)
		return out
	}
	f := upload.File{Name: n.name, Size: n.size, Type: n.mimeType}
	out.Size = n.size
	out.SizeLabel = f.SizeLabel()
	out.Type = f.Kind()
	modified := n.modified
	out.LastModified = &modified
	return out
}

// Resolve returns the id of the folder at path. Empty segments are ignored,
// so "", "/" and "//" all name the root. When siblings share a name the
// first one in insertion order wins.
func (t *Tree) Resolve(path string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	cur := t.nodes[t.root]
	for _, seg := range strings.Split(path, "/") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		var next *node
		for _, id := range cur.children {
			c := t.nodes[id]
			if c.kind == KindFolder && c.name == seg {
				next = c
				break
			}
		}
		if next == nil {
			return "", false
		}
		cur = next
	}
	return cur.id, true
}

// Get returns a snapshot of the node with the given id.
func (t *Tree) Get(id string) (Node, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.nodes[id]
	if !ok {
		return Node{}, false
	}
	return t.snapshot(n), true
}

// IsFolder reports whether id names a folder still attached to the tree.
func (t *Tree) IsFolder(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.nodes[id]
	return ok && n.kind == KindFolder
}

// Children lists a folder's children in insertion order.
func (t *Tree) Children(id string) ([]Node, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.nodes[id]
	if !ok {
		return nil, ErrNotFound
	}
	if n.kind != KindFolder {
		return nil, ErrNotFolder
	}
	out := make([]Node, 0, len(n.children))
	for _, c := range n.children {
		out = append(out, t.snapshot(t.nodes[c]))
	}
	return out, nil
}

// Ancestors returns the folders from the root down to id, inclusive.
func (t *Tree) Ancestors(id string) []Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []Node
	for cur := t.nodes[id]; cur != nil; cur = t.nodes[cur.parent] {
		out = append(out, t.snapshot(cur))
		if cur.id == t.root {
			break
		}
	}
	slices.Reverse(out)
	return out
}

func (t *Tree) attach(parentID string, n *node) error {
	parent, ok := t.nodes[parentID]
	if !ok {
		return ErrNotFound
	}
	if parent.kind != KindFolder {
		return ErrNotFolder
	}
	n.id = uuid.NewString()
	n.parent = parentID
	t.nodes[n.id] = n
	parent.children = append(parent.children, n.id)
	return nil
}

// AddFolder appends an empty folder to parentID.
func (t *Tree) AddFolder(parentID, name string) (Node, error) {
	name, err := cleanName(name)
	if err != nil {
		return Node{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	n := &node{kind: KindFolder, name: name}
	if err := t.attach(parentID, n); err != nil {
		return Node{}, err
	}
	return t.snapshot(n), nil
}

// AddFile appends a file descriptor to parentID.
func (t *Tree) AddFile(parentID string, f upload.File, modified time.Time) (Node, error) {
	name, err := cleanName(f.Name)
	if err != nil {
		return Node{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	n := &node{kind: KindFile, name: name, size: f.Size, mimeType: f.Type, modified: modified}
	if err := t.attach(parentID, n); err != nil {
		return Node{}, err
	}
	return t.snapshot(n), nil
}

// Rename changes a node's name in place.
func (t *Tree) Rename(id, name string) (Node, error) {
	name, err := cleanName(name)
	if err != nil {
		return Node{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if id == t.root {
		return Node{}, ErrRoot
	}
	n, ok := t.nodes[id]
	if !ok {
		return Node{}, ErrNotFound
	}
	n.name = name
	return t.snapshot(n), nil
}

// Remove detaches a node and discards its whole subtree.
func (t *Tree) Remove(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id == t.root {
		return ErrRoot
	}
	n, ok := t.nodes[id]
	if !ok {
		return ErrNotFound
	}
	parent := t.nodes[n.parent]
	parent.children = slices.DeleteFunc(parent.children, func(c string) bool { return c == id })

	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stack = append(stack, t.nodes[cur].children...)
		delete(t.nodes, cur)
	}
	return nil
}

// Walk visits every node below the root depth-first in insertion order
// until fn returns false.
func (t *Tree) Walk(fn func(Node) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	t.walk(t.nodes[t.root], fn)
}

func (t *Tree) walk(n *node, fn func(Node) bool) bool {
	for _, id := range n.children {
		c := t.nodes[id]
		if !fn(t.snapshot(c)) {
			return false
		}
		if c.kind == KindFolder && !t.walk(c, fn) {
			return false
		}
	}
	return true
}

// Len counts the nodes below the root.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.nodes) - 1
}

// fold is built per call: a cases.Caser must not be shared between goroutines.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Search returns nodes whose name contains q, ignoring case, in tree order.
// A blank query matches nothing.
func (t *Tree) Search(q string) []Node {
	q = fold(strings.TrimSpace(q))
	if q == "" {
		return nil
	}
	var out []Node
	t.Walk(func(n Node) bool {
		if strings.Contains(fold(n.Name), q) {
			out = append(out, n)
		}
		return true
	})
	return out
}
