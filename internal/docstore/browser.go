package docstore

import (
	"time"

	"github.com/kidandcat/firmportal/internal/upload"
)

// Workspace bundles a client's tree with its pending uploads.
type Workspace struct {
	ClientID string
	Tree     *Tree
	Uploads  *upload.Tracker

	maxBytes int64
	now      func() time.Time
}

// Browse opens a cursor on the folder at path, falling back to the root.
func (w *Workspace) Browse(path string) *Browser {
	b := &Browser{ws: w, current: w.Tree.Root()}
	b.Navigate(path)
	return b
}

// Browser is a view over a workspace positioned at one folder.
type Browser struct {
	ws      *Workspace
	current string
}

// Listing is what the document view renders for the current folder.
type Listing struct {
	Path        string `json:"path"`
	FolderID    string `json:"folder_id"`
	Breadcrumbs []Node `json:"breadcrumbs"`
	Entries     []Node `json:"entries"`
}

// cursor returns the current folder, resetting to the root if it has been
// removed since the browser was positioned.
func (b *Browser) cursor() string {
	if !b.ws.Tree.IsFolder(b.current) {
		b.current = b.ws.Tree.Root()
	}
	return b.current
}

// Navigate moves to the folder at path and returns the path actually shown.
// A path that does not resolve to a folder resets the view to the root.
func (b *Browser) Navigate(path string) string {
	id, ok := b.ws.Tree.Resolve(path)
	if !ok {
		id = b.ws.Tree.Root()
	}
	b.current = id
	return b.Path()
}

// Path is the current folder's path.
func (b *Browser) Path() string {
	n, _ := b.ws.Tree.Get(b.cursor())
	return n.Path
}

// Current lists the current folder.
func (b *Browser) Current() Listing {
	id := b.cursor()
	entries, err := b.ws.Tree.Children(id)
	if err != nil {
		// removed between cursor() and Children()
		return b.rootListing()
	}
	crumbs := b.ws.Tree.Ancestors(id)
	if len(crumbs) == 0 {
		return b.rootListing()
	}
	return Listing{
		Path:        crumbs[len(crumbs)-1].Path,
		FolderID:    id,
		Breadcrumbs: crumbs,
		Entries:     entries,
	}
}

func (b *Browser) rootListing() Listing {
	b.current = b.ws.Tree.Root()
	entries, _ := b.ws.Tree.Children(b.current)
	root, _ := b.ws.Tree.Get(b.current)
	return Listing{Path: "/", FolderID: b.current, Breadcrumbs: []Node{root}, Entries: entries}
}

// CreateFolder adds an empty folder to the current folder.
func (b *Browser) CreateFolder(name string) (Node, error) {
	return b.ws.Tree.AddFolder(b.cursor(), name)
}

// Rename renames a node anywhere in the tree.
func (b *Browser) Rename(id, name string) (Node, error) {
	return b.ws.Tree.Rename(id, name)
}

// Remove deletes a node and everything below it. Confirmation is the
// caller's job.
func (b *Browser) Remove(id string) error {
	if err := b.ws.Tree.Remove(id); err != nil {
		return err
	}
	b.cursor()
	return nil
}

// Upload validates f and starts a simulated upload into the current folder.
// The file node appears once the task reaches 100%.
func (b *Browser) Upload(f upload.File) (upload.Task, error) {
	f.Type = upload.DetectType(f.Name, f.Type)
	if err := upload.Validate(f, b.ws.maxBytes); err != nil {
		return upload.Task{}, err
	}
	target := b.cursor()
	tree, now := b.ws.Tree, b.ws.now
	task := b.ws.Uploads.Start(f, func(f upload.File) error {
		_, err := tree.AddFile(target, f, now())
		return err
	})
	return task, nil
}
