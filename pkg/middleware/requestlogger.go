package middleware

import (
	"log/slog"
	"net/http"

	"github.com/shopcart/backend/pkg/logger"
)

// RequestLogger stores a request-scoped logger, enriched with correlation_id
// and the active trace/span IDs, in the request context. Downstream code
// retrieves it with logger.FromContext.
//
// Mount AFTER RequestLogging (which sets correlation_id) and Tracing (which
// sets the OpenTelemetry span context).
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			enriched := logger.WithContext(ctx, base)
			next.ServeHTTP(w, r.WithContext(logger.NewContext(ctx, enriched)))
		})
	}
}
