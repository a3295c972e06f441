package middlewares

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/CameronXie/order-gateway/internal/api/rest/response"
)

const internalServerErrorMessage = "internal server error"

// RecoveryMiddleware turns a handler panic into a 500 response so that a failing
// request never takes the process down.
type RecoveryMiddleware struct {
	logger *slog.Logger
}

func (m *RecoveryMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := newResponseWriter(w)
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}

			if recovered == http.ErrAbortHandler {
				panic(recovered)
			}

			m.logger.ErrorContext(r.Context(), "recovered from panic",
				"error", fmt.Sprint(recovered),
				"request_id", RequestIDFrom(r.Context()),
				"stack", string(debug.Stack()),
			)

			if !rw.wroteHeader() {
				response.JSONErrorResponse(rw, http.StatusInternalServerError, internalServerErrorMessage)
			}
		}()

		next.ServeHTTP(rw, r)
	})
}

// NewRecoveryMiddleware returns a Middleware recovering panics and logging them through logger.
func NewRecoveryMiddleware(logger *slog.Logger) Middleware {
	return &RecoveryMiddleware{logger: logger}
}
