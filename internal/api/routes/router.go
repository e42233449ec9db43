package routes

import (
	"net/http"

	"github.com/santekene/ai-service/internal/api/handlers"
	"github.com/santekene/ai-service/internal/api/middleware"
	"github.com/santekene/ai-service/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	aiHandler     *handlers.AIHandler
	healthHandler *handlers.HealthHandler

	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	aiHandler *handlers.AIHandler,
	healthHandler *handlers.HealthHandler,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:            http.NewServeMux(),
		aiHandler:      aiHandler,
		healthHandler:  healthHandler,
		allowedOrigins: allowedOrigins,
		metrics:        metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Liveness endpoints
	r.mux.HandleFunc("GET /{$}", r.healthHandler.Root)
	r.mux.HandleFunc("GET /health", r.healthHandler.Health)

	// AI endpoints
	r.mux.HandleFunc("POST /api/ai/transcribe", r.aiHandler.Transcribe)
	r.mux.HandleFunc("POST /api/ai/triage", r.aiHandler.Triage)
	r.mux.HandleFunc("POST /api/ai/medical-assistant", r.aiHandler.MedicalAssistant)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.RequestIDMiddleware(handler)

	// CORS wraps everything so preflight requests never reach the mux
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
