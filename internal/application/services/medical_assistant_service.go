package services

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/santekene/ai-service/internal/domain/entities"
	"github.com/santekene/ai-service/internal/domain/providers"
	"github.com/santekene/ai-service/internal/infrastructure/observability"
	"github.com/santekene/ai-service/pkg/retry"
)

const medicalAssistantOperation = "medical_assistant"

// MedicalAssistantService produces clinical decision support for doctors.
type MedicalAssistantService struct {
	llm         providers.LLMProvider
	retryConfig retry.Config
}

// NewMedicalAssistantService creates a medical assistant service
func NewMedicalAssistantService(llm providers.LLMProvider, maxAttempts int) *MedicalAssistantService {
	return &MedicalAssistantService{
		llm:         llm,
		retryConfig: retryConfig(maxAttempts, medicalAssistantOperation),
	}
}

// Analyze never fails: blank symptoms, provider errors and unparseable output
// all yield a degraded outcome.
func (s *MedicalAssistantService) Analyze(ctx context.Context, req entities.MedicalAssistantRequest) entities.MedicalAssistantOutcome {
	ctx, span := observability.StartSpan(ctx, "MedicalAssistantService.Analyze")
	defer span.End()
	logger := observability.LoggerFromContext(ctx)

	outcome := s.analyze(ctx, req)
	EnrichMedicalAssistant(&outcome.Result)

	if outcome.Degraded() {
		logger.Warn().Err(outcome.Err).Str("reason", string(outcome.Reason)).Msg("serving medical assistant fallback")
		observability.RecordDegraded(ctx, medicalAssistantOperation, string(outcome.Reason))
	}
	observability.SetSpanAttributes(span,
		attribute.String("medical_assistant.variant", string(outcome.Variant)),
		attribute.String("medical_assistant.confidence", string(outcome.Result.ConfidenceLevel)),
	)
	return outcome
}

func (s *MedicalAssistantService) analyze(ctx context.Context, req entities.MedicalAssistantRequest) entities.MedicalAssistantOutcome {
	req.Symptoms = strings.TrimSpace(req.Symptoms)
	if req.Symptoms == "" {
		return entities.MedicalAssistantOutcome{
			Variant: entities.OutcomeDegraded,
			Reason:  entities.ReasonMissingInput,
			Result:  medicalAssistantFallback(entities.ReasonMissingInput, ""),
		}
	}

	prompt := BuildMedicalAssistantPrompt(req)
	raw, err := completeWithRetry(ctx, s.llm, s.retryConfig, prompt.completionRequest(medicalAssistantParams))
	if err != nil {
		return entities.MedicalAssistantOutcome{
			Variant: entities.OutcomeDegraded,
			Reason:  entities.ReasonProviderError,
			Result:  medicalAssistantFallback(entities.ReasonProviderError, ""),
			Err:     err,
		}
	}

	result, ok := NormalizeMedicalAssistant(ctx, raw)
	if !ok {
		return entities.MedicalAssistantOutcome{
			Variant: entities.OutcomeDegraded,
			Reason:  entities.ReasonParseError,
			Result:  result,
		}
	}
	return entities.MedicalAssistantOutcome{Variant: entities.OutcomeSuccess, Result: result}
}
