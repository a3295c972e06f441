package rest

import (
	"net/http"

	"github.com/CameronXie/order-gateway/internal/api/rest/middlewares"
)

type RouterConfig struct {
	GetOrderHandler    http.Handler
	SubmitOrderHandler http.Handler
	HealthHandler      http.Handler
	MetricsHandler     http.Handler

	// RouteMiddlewares wrap each order route individually, after the route has been matched.
	RouteMiddlewares []middlewares.Middleware
}

// NewMuxWithHandlers initializes a new HTTP mux with routes defined by the given RouterConfig.
func NewMuxWithHandlers(cfg *RouterConfig) *http.ServeMux {
	router := http.NewServeMux()

	router.Handle("GET /order", middlewares.Chain(cfg.GetOrderHandler, cfg.RouteMiddlewares...))
	router.Handle("POST /neworder", middlewares.Chain(cfg.SubmitOrderHandler, cfg.RouteMiddlewares...))

	if cfg.HealthHandler != nil {
		router.Handle("GET /health", cfg.HealthHandler)
	}

	if cfg.MetricsHandler != nil {
		router.Handle("GET /metrics", cfg.MetricsHandler)
	}

	return router
}
