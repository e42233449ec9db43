package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"

	"github.com/santekene/ai-service/internal/domain/entities"
	"github.com/santekene/ai-service/internal/domain/providers"
	"github.com/santekene/ai-service/internal/infrastructure/observability"
	apperrors "github.com/santekene/ai-service/pkg/errors"
	"github.com/santekene/ai-service/pkg/retry"
)

const triageOperation = "triage"

// TriageOptions tunes the triage service
type TriageOptions struct {
	// MaxAttempts is the number of LLM calls before falling back (minimum 1).
	MaxAttempts int
	// HealthCenterLimit caps the nearby facilities returned.
	HealthCenterLimit int
	// Specialties maps model-produced specialty names to directory names. Optional.
	Specialties *SpecialtyCatalog
}

// TriageService classifies symptoms and attaches nearby doctors and facilities.
type TriageService struct {
	llm               providers.LLMProvider
	recommendations   providers.RecommendationProvider
	validate          *validator.Validate
	retryConfig       retry.Config
	healthCenterLimit int
	specialties       *SpecialtyCatalog
}

// NewTriageService creates a triage service. recommendations may be nil, in
// which case results never carry doctors or health centers.
func NewTriageService(llm providers.LLMProvider, recommendations providers.RecommendationProvider, opts TriageOptions) *TriageService {
	limit := opts.HealthCenterLimit
	if limit <= 0 {
		limit = 3
	}
	return &TriageService{
		llm:               llm,
		recommendations:   recommendations,
		validate:          validator.New(),
		retryConfig:       retryConfig(opts.MaxAttempts, triageOperation),
		healthCenterLimit: limit,
		specialties:       opts.Specialties,
	}
}

// Triage runs the full triage pipeline. The only error it returns is a
// validation error for blank symptoms; upstream failures yield a degraded outcome.
func (s *TriageService) Triage(ctx context.Context, req entities.TriageRequest) (entities.TriageOutcome, error) {
	req.Symptoms = strings.TrimSpace(req.Symptoms)
	if err := s.validate.StructPartialCtx(ctx, req, "Symptoms"); err != nil {
		return entities.TriageOutcome{}, apperrors.NewValidationError("Les symptômes sont requis pour le triage.")
	}

	ctx, span := observability.StartSpan(ctx, "TriageService.Triage")
	defer span.End()
	logger := observability.LoggerFromContext(ctx)

	location := s.validLocation(ctx, req.Location)

	prompt := BuildTriagePrompt(req.Symptoms)
	raw, err := completeWithRetry(ctx, s.llm, s.retryConfig, prompt.completionRequest(triageParams))

	var outcome entities.TriageOutcome
	switch {
	case err != nil:
		logger.Error().Err(err).Str("provider", s.llm.Name()).Msg("triage completion failed, serving fallback")
		observability.RecordError(span, err)
		outcome = entities.TriageOutcome{
			Variant: entities.OutcomeDegraded,
			Reason:  entities.ReasonProviderError,
			Result:  triageFallback(entities.ReasonProviderError, ""),
			Err:     err,
		}
	default:
		result, ok := NormalizeTriage(ctx, raw)
		outcome = entities.TriageOutcome{Variant: entities.OutcomeSuccess, Result: result}
		if !ok {
			outcome.Variant = entities.OutcomeDegraded
			outcome.Reason = entities.ReasonParseError
		}
	}

	outcome.Result.Specialties = s.specialties.Canonicalize(outcome.Result.Specialties)
	EnrichTriage(&outcome.Result)

	if location != nil && s.recommendations != nil {
		outcome.Result.Doctors, outcome.Result.HealthCenters = s.lookupRecommendations(ctx, outcome.Result.Specialties, *location, req.AuthToken)
	}

	if outcome.Degraded() {
		observability.RecordDegraded(ctx, triageOperation, string(outcome.Reason))
	}
	observability.SetSpanAttributes(span,
		attribute.String("triage.variant", string(outcome.Variant)),
		attribute.String("triage.severity", string(outcome.Result.Severity)),
		attribute.Bool("triage.geo", location != nil),
	)

	return outcome, nil
}

// validLocation drops coordinates that are out of range.
func (s *TriageService) validLocation(ctx context.Context, location *entities.Coordinates) *entities.Coordinates {
	if location == nil {
		return nil
	}
	if err := s.validate.StructCtx(ctx, location); err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Float64("latitude", location.Latitude).
			Float64("longitude", location.Longitude).
			Msg("ignoring invalid coordinates")
		return nil
	}
	return location
}

// lookupRecommendations queries doctors and health centers concurrently.
// A failed lookup yields an empty list.
func (s *TriageService) lookupRecommendations(ctx context.Context, specialties []string, location entities.Coordinates, authToken string) ([]entities.Doctor, []entities.HealthCenter) {
	logger := observability.LoggerFromContext(ctx)
	doctors := []entities.Doctor{}
	centers := []entities.HealthCenter{}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		found, err := s.recommendations.RecommendedDoctors(ctx, specialties, authToken)
		if err != nil {
			logger.Warn().Err(err).Strs("specialties", specialties).Msg("doctor lookup failed")
			observability.RecordEnrichmentFailure(ctx, "doctors")
			return
		}
		if found != nil {
			doctors = found
		}
	}()

	go func() {
		defer wg.Done()
		found, err := s.recommendations.RecommendedHealthCenters(ctx, location, s.healthCenterLimit, authToken)
		if err != nil {
			logger.Warn().Err(err).Msg("health center lookup failed")
			observability.RecordEnrichmentFailure(ctx, "health_centers")
			return
		}
		if found != nil {
			centers = found
		}
	}()

	wg.Wait()
	return doctors, centers
}

func retryConfig(maxAttempts int, operation string) retry.Config {
	cfg := retry.DefaultConfig(maxAttempts)
	cfg.OnRetry = func(attempt int, err error, nextDelay time.Duration) {
		observability.GetLogger().Warn().
			Err(err).
			Str("operation", operation).
			Int("attempt", attempt).
			Dur("next_delay", nextDelay).
			Msg("retrying LLM completion")
	}
	return cfg
}

// completeWithRetry calls the provider, stopping early on an unauthorized key.
func completeWithRetry(ctx context.Context, llm providers.LLMProvider, cfg retry.Config, req providers.CompletionRequest) (string, error) {
	var raw string
	err := retry.Do(ctx, cfg, func(ctx context.Context) error {
		text, err := llm.Complete(ctx, req)
		if err != nil {
			if errors.Is(err, providers.ErrProviderUnauthorized) {
				return retry.Permanent(err)
			}
			return err
		}
		raw = text
		return nil
	})
	if err != nil {
		return "", apperrors.NewExternalError("LLM completion failed", err)
	}
	return raw, nil
}
