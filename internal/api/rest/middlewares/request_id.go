package middlewares

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID between the caller, the gateway and the state store.
const RequestIDHeader = "X-Request-ID"

type requestIDContextKey struct{}

// WithRequestID returns a copy of ctx carrying requestID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, requestID)
}

// RequestIDFrom returns the request ID stored in ctx, or the empty string.
func RequestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDContextKey{}).(string); ok {
		return v
	}

	return ""
}

// PropagateRequestID copies the request ID found in ctx onto an outbound request.
func PropagateRequestID(ctx context.Context, req *http.Request) {
	if requestID := RequestIDFrom(ctx); requestID != "" {
		req.Header.Set(RequestIDHeader, requestID)
	}
}

// RequestIDMiddleware reuses the inbound X-Request-ID or generates one, stores it in the
// request context and echoes it on the response.
type RequestIDMiddleware struct {
	generate func() string
}

func (m *RequestIDMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = m.generate()
		}

		w.Header().Set(RequestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), requestID)))
	})
}

// NewRequestIDMiddleware returns a Middleware generating random UUIDs for requests without an ID.
func NewRequestIDMiddleware() Middleware {
	return &RequestIDMiddleware{generate: uuid.NewString}
}
