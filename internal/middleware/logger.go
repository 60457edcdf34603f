package middleware

import (
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/souzacred/crm-backend/pkg/logger"
)

type loggerMiddleware struct {
	log *slog.Logger
}

func NewLoggerMiddleware(log *slog.Logger) *loggerMiddleware {
	return &loggerMiddleware{log: log}
}

// LoggerMiddleware seeds the request context with a logger carrying the
// request id, method and path, so every layer below logs with request
// correlation. Mount it after chi's RequestID and before the auth middleware.
func (m *loggerMiddleware) LoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		enriched := m.log.With(
			"request_id", chimiddleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
		)
		next.ServeHTTP(w, r.WithContext(logger.ToContext(r.Context(), enriched)))
	})
}
