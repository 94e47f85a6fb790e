package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"oha-portal/pkg/logger"
)

// ContextKey is the type for context keys set by middleware.
type ContextKey string

// RequestIDContextKey is the key for the request id in context.
const RequestIDContextKey ContextKey = "request_id"

// RequestID creates a middleware that tags each request with a unique
// id, echoes it in the X-Request-ID header and logs the request.
func RequestID(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.NewString()

			ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)
			r = r.WithContext(ctx)

			w.Header().Set("X-Request-ID", requestID)

			start := time.Now()
			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"request_id": requestID,
				"method":     r.Method,
				"path":       r.URL.Path,
				"duration":   time.Since(start).String(),
			}).Debug("Request handled")
		})
	}
}

// GetRequestID returns the request id from a request context, or "".
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDContextKey).(string); ok {
		return id
	}
	return ""
}
