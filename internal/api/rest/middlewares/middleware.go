package middlewares

import "net/http"

// Middleware decorates an http.Handler.
type Middleware interface {
	Handle(next http.Handler) http.Handler
}

// MiddlewareFunc adapts an ordinary function to the Middleware interface.
type MiddlewareFunc func(next http.Handler) http.Handler

// Handle calls f(next).
func (f MiddlewareFunc) Handle(next http.Handler) http.Handler {
	return f(next)
}

// Chain wraps h so that the first middleware is the outermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i].Handle(h)
	}

	return h
}
