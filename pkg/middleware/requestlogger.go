package middleware

import (
	"log/slog"
	"net/http"

	"catalogue-service/pkg/logger"
)

// RequestLogger builds a request-scoped logger enriched with correlation_id
// and trace context, then stores it via logger.NewContext so handlers can
// retrieve it with logger.FromContext.
//
// Mount AFTER RequestLogging, which sets the correlation ID.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			enriched := logger.WithContext(ctx, base)
			ctx = logger.NewContext(ctx, enriched)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
