// vsh is an interactive shell over a persisted WebOS filesystem.
//
// Usage:
//
//	vsh                      Start the interactive shell
//	vsh exec -- <line>       Run one command line and exit
//	vsh tree [path]          Print the tree under path
//	vsh tree --json          Dump the persisted snapshot
//	vsh import <dir> [dst]   Copy a host directory into the tree
//
// The snapshot backend is chosen with --storage (or STORAGE_BACKEND) and
// shares its settings with the server.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
