// Package logger provides structured logging for the campus client with
// context extraction and optional Sentry error reporting.
//
// It extends log/slog with two capabilities: attributes extracted from
// context at log time, and fan-out of warnings and errors to Sentry. If no
// Sentry DSN is configured the logger degrades to stderr-only output, so
// development and production share one code path.
//
// # Usage
//
//	log := logger.NewWithSentry(logger.SentryConfig{
//		DSN: os.Getenv("CAMPUS_SENTRY_DSN"),
//	})
//
//	log.InfoContext(ctx, "session renewed", slog.String("mode", "student"))
//
// Context extractors stamp request-scoped values on every record:
//
//	requestID := func(ctx context.Context) (slog.Attr, bool) {
//		if id, ok := ctx.Value(ctxKeyRequestID).(string); ok && id != "" {
//			return slog.String("request_id", id), true
//		}
//		return slog.Attr{}, false
//	}
//	log := logger.New(requestID)
package logger
