// Package vfs provides the in-memory virtual filesystem behind the WebOS shell.
//
// The tree is a flat map from canonical absolute path to Entry. Directories keep an
// ordered list of child names, files keep their text content and creation time.
//
// Features:
//   - Purely syntactic path resolution (absolute, relative, ~, ., ..)
//   - Primitive operations: mkdir, touch, read, write/append, list, remove, copy, move, cd
//   - Typed errors with POSIX-style messages
//   - Full-snapshot persistence after every mutation
//
// Concurrency:
//   - The Store takes no locks. Callers that share a Store across goroutines
//     must serialize access themselves.
//
// Example Usage:
//
//	store := vfs.Open(adapter, vfs.WithLogger(logger))
//	sess := vfs.NewSession(vfs.HomePath)
//	if err := store.MakeDirectory(sess, "Projects"); err != nil {
//	    return err
//	}
//	_ = store.WriteFile(sess, "Projects/notes.txt", "hello\n", false)
package vfs
