package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/santekene/ai-service/internal/application/services"
	"github.com/santekene/ai-service/internal/domain/entities"
	"github.com/santekene/ai-service/internal/domain/providers"
)

const medicalAssistantJSON = `{
  "differential_diagnosis": ["Pneumopathie communautaire", "Tuberculose pulmonaire"],
  "recommended_tests": ["Radiographie thoracique", "Recherche de BAAR"],
  "treatment_suggestions": ["Amoxicilline, posologie à adapter au patient"],
  "red_flags": ["Hémoptysie", "Détresse respiratoire"],
  "precautions": ["Port du masque"],
  "follow_up": "Contrôle à 48 heures",
  "confidence_level": "medium",
  "explanation": "Toux fébrile avec crépitants en base droite.",
  "disclaimer": "Aide à la décision uniquement."
}`

func TestMedicalAssistantService_Success(t *testing.T) {
	llm := newLLM()
	llm.On("Complete", mock.Anything, mock.MatchedBy(func(req providers.CompletionRequest) bool {
		return req.Temperature == 0.3 && req.MaxTokens == 2000 && req.JSONMode
	})).Return(medicalAssistantJSON, nil)

	service := services.NewMedicalAssistantService(llm, 1)
	outcome := service.Analyze(context.Background(), entities.MedicalAssistantRequest{
		Symptoms:    "Toux et fièvre depuis une semaine",
		PatientInfo: "Homme, 52 ans",
	})

	assert.Equal(t, entities.OutcomeSuccess, outcome.Variant)
	assert.Equal(t, entities.ConfidenceMedium, outcome.Result.ConfidenceLevel)
	assert.Equal(t, "Confiance moyenne", outcome.Result.ConfidenceLabel)
	assert.Equal(t, "Contrôle à 48 heures", outcome.Result.FollowUp)
	assert.Equal(t, "Aide à la décision uniquement.", outcome.Result.Disclaimer)
	assert.Len(t, outcome.Result.DifferentialDiagnosis, 2)
	assert.False(t, outcome.Result.Fallback)
}

func TestMedicalAssistantService_BlankSymptoms(t *testing.T) {
	llm := newLLM()
	service := services.NewMedicalAssistantService(llm, 1)

	outcome := service.Analyze(context.Background(), entities.MedicalAssistantRequest{Symptoms: "  "})

	assert.Equal(t, entities.OutcomeDegraded, outcome.Variant)
	assert.Equal(t, entities.ReasonMissingInput, outcome.Reason)
	assert.True(t, outcome.Result.Fallback)
	assert.Equal(t, "Confiance faible", outcome.Result.ConfidenceLabel)
	llm.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestMedicalAssistantService_ProviderError(t *testing.T) {
	llm := newLLM()
	llm.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("upstream 500"))

	outcome := services.NewMedicalAssistantService(llm, 1).
		Analyze(context.Background(), entities.MedicalAssistantRequest{Symptoms: "céphalées"})

	assert.Equal(t, entities.ReasonProviderError, outcome.Reason)
	assert.Error(t, outcome.Err)
	assert.Equal(t, services.DegradedMessage(entities.ReasonProviderError), outcome.Result.Message)
	assert.NotEmpty(t, outcome.Result.Disclaimer)
}

func TestMedicalAssistantService_Malformed(t *testing.T) {
	llm := newLLM()
	llm.On("Complete", mock.Anything, mock.Anything).Return("Diagnostic : migraine", nil)

	outcome := services.NewMedicalAssistantService(llm, 1).
		Analyze(context.Background(), entities.MedicalAssistantRequest{Symptoms: "céphalées"})

	assert.Equal(t, entities.ReasonParseError, outcome.Reason)
	assert.Equal(t, "Diagnostic : migraine", outcome.Result.RawResponse)
	assert.Equal(t, entities.ConfidenceLow, outcome.Result.ConfidenceLevel)
}
