package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/santekene/ai-service/internal/infrastructure/observability"
	apperrors "github.com/santekene/ai-service/pkg/errors"
)

// errorResponse is the error body the frontend reads (data.detail)
type errorResponse struct {
	Detail string `json:"detail"`
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		observability.GetLogger().Error().Err(err).Msg("failed to encode response")
	}
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, errorResponse{Detail: message})
}

// respondWithAppError maps an AppError to its HTTP status
func respondWithAppError(w http.ResponseWriter, err error) {
	if appErr, ok := apperrors.As(err); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeValidation, apperrors.ErrorTypeUnsupportedMedia:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
			return
		}
	}
	respondWithError(w, http.StatusInternalServerError, "Erreur interne du serveur.")
}

// bearerToken extracts the token from an "Authorization: Bearer" header
func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
