// Package http provides the REST handlers for the web OS.
//
// Endpoints:
//   - Health: / and /health
//   - Services: /services, /services/execute
//   - Shell sessions: /shell, /shell/:session, /shell/:session/exec
//   - Filesystem: /vfs/snapshot
//   - Metrics: /metrics/summary (Prometheus exposition lives at /metrics)
//
// Example Usage:
//
//	handlers := http.NewHandlers(deps)
//	router.GET("/health", handlers.Health)
//	router.POST("/shell/:session/exec", handlers.ExecShell)
package http
