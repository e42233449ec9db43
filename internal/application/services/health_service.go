package services

import (
	"context"
	"time"

	"github.com/santekene/ai-service/internal/domain/entities"
	"github.com/santekene/ai-service/internal/domain/providers"
	"github.com/santekene/ai-service/internal/infrastructure/observability"
)

const healthCheckTimeout = 5 * time.Second

// HealthService probes upstream connectivity
type HealthService struct {
	llm               providers.LLMProvider
	transcriptionMode string
	cache             providers.CacheProvider
}

// NewHealthService creates a health service. cache may be nil.
func NewHealthService(llm providers.LLMProvider, transcriptionMode string, cache providers.CacheProvider) *HealthService {
	return &HealthService{
		llm:               llm,
		transcriptionMode: transcriptionMode,
		cache:             cache,
	}
}

// Check pings the LLM provider with the configured key. It never returns an
// error; failures are reported in the status.
func (s *HealthService) Check(ctx context.Context) entities.HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	status := entities.HealthStatus{
		Status:        "healthy",
		Provider:      s.llm.Name(),
		Model:         s.llm.Model(),
		Transcription: s.transcriptionMode,
	}

	if err := s.llm.Ping(ctx); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("provider", s.llm.Name()).Msg("health check failed")
		status.Status = "error"
		status.Message = err.Error()
	}

	if s.cache != nil {
		status.Cache = "ok"
		if err := s.cache.Ping(ctx); err != nil {
			status.Cache = "unavailable"
		}
	}

	return status
}
