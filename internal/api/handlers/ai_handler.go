package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/santekene/ai-service/internal/application/services"
	"github.com/santekene/ai-service/internal/domain/entities"
	"github.com/santekene/ai-service/internal/infrastructure/observability"
)

const (
	maxFormBytes      = 1 << 20
	multipartMemBytes = 32 << 20
)

// AIHandler serves the triage, medical-assistant and transcription endpoints
type AIHandler struct {
	triage         *services.TriageService
	assistant      *services.MedicalAssistantService
	transcription  *services.TranscriptionService
	maxUploadBytes int64
}

// NewAIHandler creates a new AI handler
func NewAIHandler(
	triage *services.TriageService,
	assistant *services.MedicalAssistantService,
	transcription *services.TranscriptionService,
	maxUploadBytes int64,
) *AIHandler {
	return &AIHandler{
		triage:         triage,
		assistant:      assistant,
		transcription:  transcription,
		maxUploadBytes: maxUploadBytes,
	}
}

// Triage handles POST /api/ai/triage
func (h *AIHandler) Triage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := parseForm(r); err != nil {
		respondWithError(w, http.StatusBadRequest, "Formulaire invalide.")
		return
	}

	req := entities.TriageRequest{
		Symptoms:  r.FormValue("symptoms"),
		Location:  parseLocation(r),
		AuthToken: bearerToken(r),
	}

	outcome, err := h.triage.Triage(r.Context(), req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, outcome.Result)
}

// MedicalAssistant handles POST /api/ai/medical-assistant
func (h *AIHandler) MedicalAssistant(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := parseForm(r); err != nil {
		observability.LoggerFromContext(r.Context()).Warn().Err(err).Msg("unreadable medical assistant form")
	}

	outcome := h.assistant.Analyze(r.Context(), entities.MedicalAssistantRequest{
		Symptoms:        r.FormValue("symptoms"),
		PatientInfo:     r.FormValue("patient_info"),
		MedicalHistory:  r.FormValue("medical_history"),
		CurrentFindings: r.FormValue("current_findings"),
	})

	respondWithJSON(w, http.StatusOK, outcome.Result)
}

// Transcribe handles POST /api/ai/transcribe
func (h *AIHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	if !h.transcription.Enabled() {
		respondWithJSON(w, http.StatusNotImplemented, map[string]string{
			"status":  "not_implemented",
			"message": "La transcription audio n'est pas disponible sur ce service. Veuillez saisir vos symptômes par écrit.",
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondWithError(w, http.StatusRequestEntityTooLarge, "Le fichier audio est trop volumineux.")
			return
		}
		respondWithError(w, http.StatusBadRequest, "Le fichier audio est requis.")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("audio_file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Le fichier audio est requis.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Impossible de lire le fichier audio.")
		return
	}

	result, err := h.transcription.Transcribe(r.Context(), entities.AudioUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// parseForm accepts both multipart and urlencoded bodies
func parseForm(r *http.Request) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return r.ParseMultipartForm(maxFormBytes)
	}
	return r.ParseForm()
}

// parseLocation returns coordinates only when both are present and numeric
func parseLocation(r *http.Request) *entities.Coordinates {
	latRaw := strings.TrimSpace(r.FormValue("latitude"))
	lonRaw := strings.TrimSpace(r.FormValue("longitude"))
	if latRaw == "" || lonRaw == "" {
		return nil
	}

	lat, latErr := strconv.ParseFloat(latRaw, 64)
	lon, lonErr := strconv.ParseFloat(lonRaw, 64)
	if latErr != nil || lonErr != nil {
		observability.LoggerFromContext(r.Context()).Warn().
			Str("latitude", latRaw).
			Str("longitude", lonRaw).
			Msg("ignoring non-numeric coordinates")
		return nil
	}
	return &entities.Coordinates{Latitude: lat, Longitude: lon}
}
