// Package main is the entry point for the WebOS server.
//
// The server restores the virtual filesystem from the configured snapshot
// backend and serves it over REST, WebSocket terminals and Prometheus metrics.
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# File-backed snapshot in ./data
//	./server --port 8000
//
//	# MinIO-backed snapshot, development logging
//	STORAGE_BACKEND=s3 S3_ENDPOINT=http://localhost:9000 ./server --dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
