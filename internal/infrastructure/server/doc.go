// Package server assembles the desktop: catalog, window elements, app
// collaborators, window manager, event bus, HTTP routes and the
// WebSocket stream.
//
// Server Lifecycle:
//  1. Load configuration from environment/flags
//  2. Build logger, metrics and tracer
//  3. Load the app catalog and create one window element per app
//  4. Register app collaborators with the dispatcher
//  5. Setup HTTP routes and middleware
//  6. Start HTTP server
//  7. Graceful shutdown: drain requests, close windows, flush logs
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.NewServer(cfg)
//	go srv.Run()
//	defer srv.Shutdown(ctx)
package server
