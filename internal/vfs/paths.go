package vfs

import (
	"path"
	"strings"
)

// Mount points
const (
	Root = "/"
	Home = "/home"
	Tmp  = "/tmp"
)

// HomePath is the fixed home directory of the single user
const HomePath = "/home/user"

// User subdirectories
const (
	Desktop   = "/home/user/Desktop"
	Documents = "/home/user/Documents"
	Downloads = "/home/user/Downloads"
)

// StandardDirectories returns the directories of the default layout, parents first
func StandardDirectories() []string {
	return []string{
		Home,
		HomePath,
		Desktop,
		Documents,
		Downloads,
		Tmp,
	}
}

// Resolve turns a path expression into a canonical absolute path.
// It never consults the tree and never fails.
func Resolve(expr, cwd string) string {
	if cwd == "" {
		cwd = Root
	}

	switch {
	case strings.HasPrefix(expr, "/"):
		return path.Clean(expr)
	case expr == "~":
		return HomePath
	case strings.HasPrefix(expr, "~/"):
		return path.Clean(HomePath + "/" + expr[2:])
	case expr == "" || expr == ".":
		return path.Clean(cwd)
	case expr == "..":
		return Dir(path.Clean(cwd))
	}

	return path.Clean(strings.TrimSuffix(cwd, "/") + "/" + expr)
}

// Dir returns the parent of a canonical path; the parent of root is root
func Dir(p string) string {
	return path.Dir(p)
}

// Base returns the last segment of a canonical path
func Base(p string) string {
	return path.Base(p)
}

// Join constructs a child path from parent + name
func Join(parent, name string) string {
	if parent == Root {
		return Root + name
	}
	return parent + "/" + name
}

// Abbreviate replaces a leading home path with ~
func Abbreviate(p string) string {
	if p == HomePath {
		return "~"
	}
	if rest, ok := strings.CutPrefix(p, HomePath+"/"); ok {
		return "~/" + rest
	}
	return p
}
