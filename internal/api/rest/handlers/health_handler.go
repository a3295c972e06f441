package handlers

import (
	"net/http"

	"github.com/CameronXie/order-gateway/internal/api/rest/response"
	"github.com/CameronXie/order-gateway/internal/version"
)

// HealthHandler reports liveness of the gateway. It does not call the state store.
type HealthHandler struct{}

// ServeHTTP responds with the health status and build version.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	response.JSONResponse(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": version.Version,
	})
}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler() http.Handler {
	return &HealthHandler{}
}
