// Package middleware provides HTTP middleware for the web application.
package middleware

import (
	"context"
	"log/slog"

	"github.com/ellarises/webapp/internal/web"
	"github.com/ellarises/webapp/pkg/id"
	"github.com/ellarises/webapp/pkg/logger"
)

// requestIDKey is the context key for storing the request ID.
type requestIDKey struct{}

// requestIDHeaders are checked in order for an existing request ID.
var requestIDHeaders = []string{"X-Request-ID", "X-Request-Id", "X-Correlation-ID"}

// RequestID assigns a unique request ID to each request. The ID is taken
// from an incoming header when present (preserves upstream tracing IDs),
// generated otherwise, stored in the context, and echoed on the response.
func RequestID() web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(c web.Context) error {
			var reqID string
			for _, header := range requestIDHeaders {
				if v := c.Header(header); v != "" {
					reqID = v
					break
				}
			}

			if reqID == "" {
				reqID = id.NewULID()
			}

			c.Set(requestIDKey{}, reqID)
			c.SetHeader("X-Request-ID", reqID)

			return next(c)
		}
	}
}

// GetRequestID extracts the request ID from the context.
// Returns an empty string if no request ID is set.
func GetRequestID(c web.Context) string {
	if v, ok := c.Get(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// RequestIDExtractor returns a ContextExtractor for use with WithLogger.
// Adds "request_id" to all log entries made within a request.
func RequestIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v, ok := ctx.Value(requestIDKey{}).(string); ok && v != "" {
			return slog.String("request_id", v), true
		}
		return slog.Attr{}, false
	}
}
