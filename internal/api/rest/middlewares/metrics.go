package middlewares

import (
	"net/http"
)

// RequestObserver records the outcome of inbound requests.
// *metrics.Metrics satisfies it.
type RequestObserver interface {
	RequestStarted(method, route string) func(statusCode int)
}

// MetricsMiddleware observes request latency and in-flight requests per route.
// It must wrap handlers registered on a ServeMux so that the matched pattern is known.
type MetricsMiddleware struct {
	observer RequestObserver
}

func (m *MetricsMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}

		rw := newResponseWriter(w)
		done := m.observer.RequestStarted(r.Method, route)
		defer func() {
			if recovered := recover(); recovered != nil {
				done(http.StatusInternalServerError)
				panic(recovered)
			}
			done(rw.StatusCode())
		}()

		next.ServeHTTP(rw, r)
	})
}

// NewMetricsMiddleware returns a Middleware reporting to observer.
func NewMetricsMiddleware(observer RequestObserver) Middleware {
	return &MetricsMiddleware{observer: observer}
}
