package handlers

import (
	"net/http"

	"github.com/santekene/ai-service/internal/application/services"
)

// HealthHandler serves the root and health endpoints
type HealthHandler struct {
	health      *services.HealthService
	serviceName string
	version     string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(health *services.HealthService, serviceName, version string) *HealthHandler {
	return &HealthHandler{
		health:      health,
		serviceName: serviceName,
		version:     version,
	}
}

// Root handles GET /
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Santé Kènè AI Service is running.",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Health handles GET /health. It always answers 200; the body carries the status.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.health.Check(r.Context()))
}
