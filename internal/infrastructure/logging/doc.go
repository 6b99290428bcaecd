// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: colored console output for humans
//
// Desktop components take a plain *zap.Logger; ForApp hands app
// collaborators a child logger tagged with their identifier.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Server starting", zap.String("port", "8000"))
//	logger.ForApp("paint").Debug("Critique tick")
package logging
