/*
Package monitoring provides Prometheus metrics for the server.

# Overview

Every collector lives on a private registry owned by Metrics, so several
servers (or tests) in one process never collide on registration.

# Features

- HTTP request metrics keyed by route template
- Service tool call counts and latency
- Shell command counts by verb and outcome
- Snapshot load and save outcomes from the storage adapter
- Terminal session and WebSocket connection gauges

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	storage.NewAdapter(kv, storage.WithObserver(metrics.RecordSnapshot))
	shell.WithObserver(metrics.RecordShellCommand)

	timer := monitoring.NewTimer(metrics, "filesystem.read")
	// ... perform operation ...
	timer.Stop(false)
*/
package monitoring
