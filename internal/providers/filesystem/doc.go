// Package filesystem exposes the virtual filesystem as a service provider.
//
// This is the surface used by the file explorer and editor views. Every tool
// accepts an optional "cwd" parameter that relative paths resolve against, so
// independent views can browse the same tree without sharing a session.
//
// Features:
//   - Directory listing with hidden entry filtering
//   - Read, write and append with implicit file creation
//   - Copy, move and recursive delete
//   - Metadata with MIME type detection
//   - Glob search over a subtree
//
// Tools:
//   - filesystem.list: List directory contents
//   - filesystem.mkdir: Create a directory
//   - filesystem.read: Read file contents
//   - filesystem.write: Write or append to a file
//   - filesystem.touch: Create an empty file
//   - filesystem.delete: Remove a file or directory
//   - filesystem.copy: Copy a file
//   - filesystem.move: Move a file
//   - filesystem.exists: Check whether a path exists
//   - filesystem.stat: Entry metadata
//   - filesystem.find: Glob search by base name
//
// Example Usage:
//
//	fs := filesystem.NewProvider(store, &mu, logger)
//	result, _ := fs.Execute(ctx, "filesystem.list", map[string]interface{}{
//	    "path": "Documents",
//	    "cwd":  "~",
//	}, nil)
package filesystem
