// Package middleware provides the gin middleware in front of the desktop
// API: CORS for the browser shell, per-client rate limiting, request ids
// and access logging.
package middleware
