package vfs

import "time"

// Kind distinguishes directories from files
type Kind string

const (
	KindDirectory Kind = "directory"
	KindFile      Kind = "file"
)

// Entry is the unit stored per canonical path
type Entry struct {
	Kind      Kind
	Children  []string
	Content   string
	CreatedAt time.Time
}

// IsDir reports whether the entry is a directory
func (e *Entry) IsDir() bool {
	return e.Kind == KindDirectory
}

// Session is the mutable working-directory context of one shell or view.
// Only ChangeDirectory mutates it.
type Session struct {
	Cwd string
}

// NewSession creates a session rooted at cwd (home when empty)
func NewSession(cwd string) *Session {
	if cwd == "" {
		return &Session{Cwd: HomePath}
	}
	return &Session{Cwd: Resolve(cwd, Root)}
}

// Info describes an entry for listings and stat calls
type Info struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Kind      Kind      `json:"kind"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
	Children  int       `json:"children,omitempty"`
}

// IsDir reports whether the described entry is a directory
func (i Info) IsDir() bool {
	return i.Kind == KindDirectory
}
