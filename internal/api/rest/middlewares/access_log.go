package middlewares

import (
	"log/slog"
	"net/http"
	"time"
)

// AccessLogMiddleware emits one log line per handled request.
type AccessLogMiddleware struct {
	logger *slog.Logger
}

func (m *AccessLogMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := m.logger.With("request_id", RequestIDFrom(ctx))
		logger.DebugContext(ctx, "received request", "method", r.Method, "path", r.URL.Path, "headers", r.Header)

		rw := newResponseWriter(w)
		start := time.Now()
		next.ServeHTTP(rw, r)

		logger.InfoContext(ctx, "handled request",
			"method", r.Method,
			"path", r.URL.Path,
			"status_code", rw.StatusCode(),
			"response_bytes", rw.responseBytes,
			"duration_ms", float64(time.Since(start).Microseconds())/1000,
		)
	})
}

// NewAccessLogMiddleware returns a Middleware logging every request through logger.
func NewAccessLogMiddleware(logger *slog.Logger) Middleware {
	return &AccessLogMiddleware{logger: logger}
}
