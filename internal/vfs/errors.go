package vfs

import (
	"errors"
	"fmt"
)

// ErrorKind tags a filesystem failure
type ErrorKind int

const (
	AlreadyExists ErrorKind = iota + 1
	NoSuchEntry
	NoSuchParent
	NotADirectory
	IsADirectory
	Busy
)

// String returns the kind name
func (k ErrorKind) String() string {
	switch k {
	case AlreadyExists:
		return "AlreadyExists"
	case NoSuchEntry:
		return "NoSuchEntry"
	case NoSuchParent:
		return "NoSuchParent"
	case NotADirectory:
		return "NotADirectory"
	case IsADirectory:
		return "IsADirectory"
	case Busy:
		return "Busy"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Message returns the POSIX-style text for the kind
func (k ErrorKind) Message() string {
	switch k {
	case AlreadyExists:
		return "File exists"
	case NoSuchEntry, NoSuchParent:
		return "No such file or directory"
	case NotADirectory:
		return "Not a directory"
	case IsADirectory:
		return "Is a directory"
	case Busy:
		return "Device or resource busy"
	default:
		return "Unknown error"
	}
}

// Error is a tagged filesystem failure
type Error struct {
	Kind ErrorKind
	Op   string
	Path string
}

// Sentinels for errors.Is
var (
	ErrAlreadyExists = &Error{Kind: AlreadyExists}
	ErrNoSuchEntry   = &Error{Kind: NoSuchEntry}
	ErrNoSuchParent  = &Error{Kind: NoSuchParent}
	ErrNotADirectory = &Error{Kind: NotADirectory}
	ErrIsADirectory  = &Error{Kind: IsADirectory}
	ErrBusy          = &Error{Kind: Busy}
)

func newError(kind ErrorKind, op, path string) *Error {
	return &Error{Kind: kind, Op: op, Path: path}
}

func (e *Error) Error() string {
	if e.Path == "" {
		return e.Kind.Message()
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Kind.Message())
}

// Is matches any *Error of the same kind, so sentinels compare by kind only
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf extracts the kind of a filesystem error, or 0 if err is not one
func KindOf(err error) ErrorKind {
	var fsErr *Error
	if errors.As(err, &fsErr) {
		return fsErr.Kind
	}
	return 0
}
