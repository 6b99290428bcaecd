/*
Package monitoring provides metrics collection for the desktop service.

# Overview

Metrics are Prometheus collectors on a registry owned by each Metrics
instance, so several desktops (or tests) can run in one process.

# Features

- Window lifecycle metrics (opens, closes, open gauge, focus changes)
- App initialization metrics (duration, failures, stale completions)
- HTTP request metrics (latency, status)
- Event stream metrics (connections, messages, dropped events)

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	manager := window.NewManager(cfg, desktop, dispatcher, catalog).WithMetrics(metrics)

A nil *Metrics is valid and records nothing.
*/
package monitoring
