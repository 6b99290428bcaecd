// Package http exposes the desktop over a REST API built on Gin.
//
// Endpoints:
//   - Health: / and /health
//   - Windows: /apps, /apps/:id, /apps/:id/{open,close,minimize,maximize,focus,taskbar}
//   - Desktop: /active/close, /taskbar, /zindex, /desktop, /events
//   - Collaborators: /minesweeper/:id, /calculator/:id, /paint/:id, /media/:id
//   - Metrics: /metrics (Prometheus)
//
// Window operations on an app that is not open answer 200 with
// "success": false, mirroring the no-op semantics of the manager.
//
// Example Usage:
//
//	handlers := http.NewHandlers(manager, catalog, desktop, suite, bus, metrics)
//	handlers.Routes(router)
package http
