package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/santekene/ai-service/internal/api/handlers"
	"github.com/santekene/ai-service/internal/application/services"
	"github.com/santekene/ai-service/internal/domain/entities"
	"github.com/santekene/ai-service/internal/domain/providers/mocks"
	"github.com/santekene/ai-service/pkg/config"
)

const triageJSON = `{
  "severity": "low",
  "summary": "Rhume banal sans signe de gravité.",
  "recommendations": ["Se reposer", "Boire beaucoup d'eau"],
  "specialties": ["Médecine générale"],
  "urgency_level": 1,
  "facility_type": "pharmacy",
  "consultation_type": "self-care"
}`

type handlerDeps struct {
	llm             *mocks.MockLLMProvider
	transcriber     *mocks.MockTranscriber
	recommendations *mocks.MockRecommendationProvider
}

func newAIHandler(t *testing.T, transcriptionMode string, maxUpload int64) (*handlers.AIHandler, handlerDeps) {
	t.Helper()
	deps := handlerDeps{
		llm:             new(mocks.MockLLMProvider),
		transcriber:     new(mocks.MockTranscriber),
		recommendations: new(mocks.MockRecommendationProvider),
	}
	deps.llm.On("Name").Return("openai").Maybe()
	deps.llm.On("Model").Return("gpt-4o-mini").Maybe()

	triage := services.NewTriageService(deps.llm, deps.recommendations, services.TriageOptions{MaxAttempts: 1})
	assistant := services.NewMedicalAssistantService(deps.llm, 1)
	transcription := services.NewTranscriptionService(nil, config.TranscriptionDisabled)
	if transcriptionMode == config.TranscriptionWhisper {
		transcription = services.NewTranscriptionService(deps.transcriber, transcriptionMode)
	}
	return handlers.NewAIHandler(triage, assistant, transcription, maxUpload), deps
}

func postForm(handler http.HandlerFunc, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/ai/triage", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer patient-token")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func audioRequest(t *testing.T, field, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/ai/transcribe", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestAIHandler_Triage_ReturnsEnrichedResult(t *testing.T) {
	handler, deps := newAIHandler(t, config.TranscriptionDisabled, 1<<20)
	deps.llm.On("Complete", mock.Anything, mock.Anything).Return(triageJSON, nil).Once()
	deps.recommendations.On("RecommendedDoctors", mock.Anything, []string{"Médecine générale"}, "patient-token").
		Return([]entities.Doctor{{ID: "d1", Name: "Dr Traoré", Specialty: "Médecine générale", Available: true}}, nil).Once()
	deps.recommendations.On("RecommendedHealthCenters", mock.Anything, entities.Coordinates{Latitude: 12.6392, Longitude: -8.0029}, 3, "patient-token").
		Return([]entities.HealthCenter{{ID: "h1", Name: "CSCom Hamdallaye"}}, nil).Once()

	rec := postForm(handler.Triage, url.Values{
		"symptoms":  {"Nez qui coule et éternuements"},
		"latitude":  {"12.6392"},
		"longitude": {"-8.0029"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "low", body["severity"])
	assert.Equal(t, "Faible", body["severity_label"])
	assert.Equal(t, "green", body["severity_color"])
	assert.Equal(t, float64(1), body["urgency_level"])
	assert.Len(t, body["doctors"], 1)
	assert.Len(t, body["health_centers"], 1)
	assert.NotContains(t, body, "fallback")
	deps.recommendations.AssertExpectations(t)
}

func TestAIHandler_Triage_BlankSymptoms(t *testing.T) {
	handler, deps := newAIHandler(t, config.TranscriptionDisabled, 1<<20)

	rec := postForm(handler.Triage, url.Values{"symptoms": {"   "}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["detail"])
	deps.llm.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestAIHandler_Triage_UnreadableForm(t *testing.T) {
	handler, deps := newAIHandler(t, config.TranscriptionDisabled, 1<<20)

	req := httptest.NewRequest(http.MethodPost, "/api/ai/triage", strings.NewReader("not a multipart body"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=missing")
	rec := httptest.NewRecorder()
	handler.Triage(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Formulaire invalide.", body["detail"])
	deps.llm.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestAIHandler_Triage_InvalidCoordinatesSkipLookups(t *testing.T) {
	handler, deps := newAIHandler(t, config.TranscriptionDisabled, 1<<20)
	deps.llm.On("Complete", mock.Anything, mock.Anything).Return(triageJSON, nil).Once()

	rec := postForm(handler.Triage, url.Values{
		"symptoms":  {"Toux sèche"},
		"latitude":  {"abc"},
		"longitude": {"-8.0"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	deps.recommendations.AssertNotCalled(t, "RecommendedDoctors", mock.Anything, mock.Anything, mock.Anything)
	deps.recommendations.AssertNotCalled(t, "RecommendedHealthCenters", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAIHandler_Triage_ProviderFailureServesFallback(t *testing.T) {
	handler, deps := newAIHandler(t, config.TranscriptionDisabled, 1<<20)
	deps.llm.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("connection reset")).Once()

	rec := postForm(handler.Triage, url.Values{"symptoms": {"Maux de tête"}})

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["fallback"])
	assert.Equal(t, "moderate", body["severity"])
	assert.Equal(t, float64(2), body["urgency_level"])
	assert.NotEmpty(t, body["message"])
}

func TestAIHandler_MedicalAssistant(t *testing.T) {
	handler, deps := newAIHandler(t, config.TranscriptionDisabled, 1<<20)
	deps.llm.On("Complete", mock.Anything, mock.Anything).Return(`{
	  "differential_diagnosis": ["Paludisme simple"],
	  "recommended_tests": ["TDR paludisme"],
	  "treatment_suggestions": ["ACT"],
	  "red_flags": [],
	  "confidence_level": "medium",
	  "explanation": "Fièvre en zone d'endémie."
	}`, nil).Once()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("symptoms", "Fièvre et frissons"))
	require.NoError(t, writer.WriteField("patient_info", "Homme, 34 ans"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/ai/medical-assistant", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.MedicalAssistant(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var result entities.MedicalAssistantResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, []string{"Paludisme simple"}, result.DifferentialDiagnosis)
	assert.Equal(t, entities.ConfidenceMedium, result.ConfidenceLevel)
	assert.NotEmpty(t, result.ConfidenceLabel)
	assert.NotEmpty(t, result.Disclaimer)
	assert.False(t, result.Fallback)
}

func TestAIHandler_MedicalAssistant_BlankSymptomsStillOK(t *testing.T) {
	handler, deps := newAIHandler(t, config.TranscriptionDisabled, 1<<20)

	req := httptest.NewRequest(http.MethodPost, "/api/ai/medical-assistant", strings.NewReader("symptoms="))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.MedicalAssistant(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var result entities.MedicalAssistantResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Fallback)
	assert.Equal(t, entities.ConfidenceLow, result.ConfidenceLevel)
	deps.llm.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestAIHandler_Transcribe_Disabled(t *testing.T) {
	handler, _ := newAIHandler(t, config.TranscriptionDisabled, 1<<20)

	rec := httptest.NewRecorder()
	handler.Transcribe(rec, audioRequest(t, "audio_file", "note.webm", "audio/webm", []byte("voice")))

	require.Equal(t, http.StatusNotImplemented, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not_implemented", body["status"])
	assert.NotEmpty(t, body["message"])
}

func TestAIHandler_Transcribe_ReturnsText(t *testing.T) {
	handler, deps := newAIHandler(t, config.TranscriptionWhisper, 1<<20)
	deps.transcriber.On("Transcribe", mock.Anything, "note.webm", mock.Anything).
		Return("J'ai mal au ventre depuis hier", nil).Once()

	rec := httptest.NewRecorder()
	handler.Transcribe(rec, audioRequest(t, "audio_file", "note.webm", "audio/webm", []byte("voice")))

	require.Equal(t, http.StatusOK, rec.Code)
	var result entities.TranscriptionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "J'ai mal au ventre depuis hier", result.Transcription)
	assert.False(t, result.Fallback)
}

func TestAIHandler_Transcribe_NonAudio(t *testing.T) {
	handler, deps := newAIHandler(t, config.TranscriptionWhisper, 1<<20)

	rec := httptest.NewRecorder()
	handler.Transcribe(rec, audioRequest(t, "audio_file", "notes.pdf", "application/pdf", []byte("%PDF-1.4")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	deps.transcriber.AssertNotCalled(t, "Transcribe", mock.Anything, mock.Anything, mock.Anything)
}

func TestAIHandler_Transcribe_MissingFile(t *testing.T) {
	handler, _ := newAIHandler(t, config.TranscriptionWhisper, 1<<20)

	rec := httptest.NewRecorder()
	handler.Transcribe(rec, audioRequest(t, "other_field", "note.webm", "audio/webm", []byte("voice")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAIHandler_Transcribe_TooLarge(t *testing.T) {
	handler, deps := newAIHandler(t, config.TranscriptionWhisper, 64)

	rec := httptest.NewRecorder()
	handler.Transcribe(rec, audioRequest(t, "audio_file", "note.webm", "audio/webm", bytes.Repeat([]byte("a"), 4096)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	deps.transcriber.AssertNotCalled(t, "Transcribe", mock.Anything, mock.Anything, mock.Anything)
}

func TestAIHandler_Transcribe_ProviderFailure(t *testing.T) {
	handler, deps := newAIHandler(t, config.TranscriptionWhisper, 1<<20)
	deps.transcriber.On("Transcribe", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("upstream 503")).Once()

	rec := httptest.NewRecorder()
	handler.Transcribe(rec, audioRequest(t, "audio_file", "note.webm", "audio/webm", []byte("voice")))

	require.Equal(t, http.StatusOK, rec.Code)
	var result entities.TranscriptionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Fallback)
	assert.Empty(t, result.Transcription)
	assert.NotEmpty(t, result.Message)
}
