// Package ws streams desktop events over WebSocket and accepts window
// commands from the client.
//
// Each connection gets a uuid and its own bus subscription. A slow client
// misses events rather than stalling the window manager.
//
// Message Types (Client → Server):
//   - open, close, minimize, maximize, focus, taskbar: window commands with app_id
//   - close_active: close the active window (the shell's Escape key)
//   - zindex: allocate a stacking index for desktop chrome
//   - snapshot: current windows and taskbar
//   - ping: Keep-alive ping
//
// Message Types (Server → Client):
//   - system: welcome with connection_id
//   - event: a desktop event envelope
//   - ack: command result
//   - zindex, snapshot, pong: query replies
//   - error: Error occurred
//
// Example Usage:
//
//	handler := ws.NewHandler(manager, bus, logger).WithTracer(tracer)
//	router.GET("/stream", handler.HandleConnection)
package ws
