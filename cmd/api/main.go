package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/santekene/ai-service/internal/adapters/cache"
	"github.com/santekene/ai-service/internal/adapters/recommendations"
	"github.com/santekene/ai-service/internal/api/handlers"
	"github.com/santekene/ai-service/internal/api/routes"
	"github.com/santekene/ai-service/internal/application/services"
	"github.com/santekene/ai-service/internal/domain/providers"
	"github.com/santekene/ai-service/internal/infrastructure/clients/backendapi"
	"github.com/santekene/ai-service/internal/infrastructure/clients/openai"
	"github.com/santekene/ai-service/internal/infrastructure/clients/redis"
	"github.com/santekene/ai-service/internal/infrastructure/observability"
	"github.com/santekene/ai-service/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		observability.GetLogger().Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)
	logger := observability.GetLogger()

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	logger.Info().Str("provider", cfg.LLM.Provider).Str("model", cfg.ActiveModel()).Msg("initializing LLM provider")
	llm, err := newLLMProvider(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}
	defer llm.Close()

	var transcriber providers.Transcriber
	if cfg.Transcription.Mode == config.TranscriptionWhisper {
		whisper, err := openai.NewWhisperClient(&cfg.OpenAI)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialize transcription client, transcription disabled")
		} else {
			transcriber = whisper
		}
	}

	// Redis is optional; without it recommendation lookups go straight to the backend
	var cacheProvider providers.CacheProvider
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialize Redis client, continuing without cache")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient)
			logger.Info().Msg("Redis client initialized")
		}
	}

	var recommendationProvider providers.RecommendationProvider = backendapi.NewClient(&cfg.BackendAPI)
	if cacheProvider != nil {
		recommendationProvider = recommendations.NewCachedAdapter(recommendationProvider, cacheProvider, cfg.BackendAPI.CacheTTLSeconds)
	}

	specialties, err := services.NewSpecialtyCatalog(cfg.BackendAPI.SpecialtyCatalogPath)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.BackendAPI.SpecialtyCatalogPath).Msg("specialty catalog unavailable, specialties passed through as generated")
	} else {
		logger.Info().Int("names", specialties.Len()).Msg("specialty catalog loaded")
	}

	// Initialize services
	triageService := services.NewTriageService(llm, recommendationProvider, services.TriageOptions{
		MaxAttempts:       cfg.LLM.MaxAttempts,
		HealthCenterLimit: cfg.BackendAPI.HealthCenterLimit,
		Specialties:       specialties,
	})
	assistantService := services.NewMedicalAssistantService(llm, cfg.LLM.MaxAttempts)
	transcriptionService := services.NewTranscriptionService(transcriber, cfg.Transcription.Mode)
	healthService := services.NewHealthService(llm, transcriptionService.Mode(), cacheProvider)

	// Initialize handlers
	aiHandler := handlers.NewAIHandler(
		triageService,
		assistantService,
		transcriptionService,
		cfg.Transcription.MaxUploadBytes(),
	)
	healthHandler := handlers.NewHealthHandler(healthService, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion)

	router := routes.NewRouter(aiHandler, healthHandler, cfg.CORS.AllowedOrigins, metrics)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           router.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info().
			Str("addr", serverAddr).
			Str("transcription", transcriptionService.Mode()).
			Strs("allowed_origins", cfg.CORS.AllowedOrigins).
			Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during server shutdown")
	}

	logger.Info().Msg("server stopped")
}

func newLLMProvider(cfg *config.Config) (*openai.ChatClient, error) {
	switch cfg.LLM.Provider {
	case config.ProviderOpenAI:
		return openai.NewOpenAIChatClient(&cfg.OpenAI)
	case config.ProviderGroq:
		return openai.NewGroqChatClient(&cfg.Groq)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.LLM.Provider)
	}
}
