// Package main is the entry point for the desktop server.
//
// The server hosts a windowed desktop: a fixed catalog of apps, each with
// one window element, a taskbar and a single active window. Clients drive
// it over REST and watch it over a WebSocket event stream.
//
// Architecture:
//
//	Client → REST /apps/:id/*  → Window Manager → App collaborators
//	       ← WebSocket /stream ← Event Bus      ←
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./server -port 8000 -catalog apps.yaml
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown, closing every open window
package main
