package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// DefaultKey is where the filesystem snapshot lives
const DefaultKey = "webos.vfs"

var (
	// ErrNotFound is returned by Get for a key that was never written
	ErrNotFound = errors.New("storage: key not found")
	// ErrClosed is returned after Close
	ErrClosed = errors.New("storage: backend closed")
)

// KV is a minimal key-value backend
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

func validateKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("storage: invalid key %q", key)
	}
	return nil
}
