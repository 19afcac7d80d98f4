// Package server assembles the web OS: it opens the configured storage backend,
// restores the filesystem from it, registers the service providers and mounts
// the REST, WebSocket and metrics routes on one gin router.
package server
