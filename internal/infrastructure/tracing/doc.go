/*
Package tracing wraps desktop operations in lightweight spans.

HTTP requests and WebSocket commands each get a span; finished spans are
collected on a buffered channel and written to the structured log. The
trace id travels in the X-Trace-ID header so a client can correlate an
open request with the events it caused.

# Usage

	tracer := tracing.New("desktop", logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	err := tracer.Trace(ctx, "ws.open", func(ctx context.Context) error {
		_, err := manager.OpenApp(ctx, appID)
		return err
	})
*/
package tracing
