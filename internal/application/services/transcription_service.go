package services

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/santekene/ai-service/internal/domain/entities"
	"github.com/santekene/ai-service/internal/domain/providers"
	"github.com/santekene/ai-service/internal/infrastructure/observability"
	"github.com/santekene/ai-service/pkg/config"
	apperrors "github.com/santekene/ai-service/pkg/errors"
)

const transcriptionOperation = "transcription"

// ErrTranscriptionDisabled is returned when the service runs without speech-to-text.
var ErrTranscriptionDisabled = errors.New("transcription is disabled")

const transcriptionUnavailableMessage = "Transcription temporairement indisponible. Veuillez saisir vos symptômes par écrit."

// TranscriptionService forwards patient voice notes to a speech-to-text provider.
type TranscriptionService struct {
	transcriber providers.Transcriber
	mode        string
}

// NewTranscriptionService creates a transcription service. transcriber may be
// nil when mode is config.TranscriptionDisabled.
func NewTranscriptionService(transcriber providers.Transcriber, mode string) *TranscriptionService {
	if transcriber == nil {
		mode = config.TranscriptionDisabled
	}
	return &TranscriptionService{
		transcriber: transcriber,
		mode:        mode,
	}
}

// Enabled reports whether uploads are forwarded to a provider
func (s *TranscriptionService) Enabled() bool {
	return s.mode == config.TranscriptionWhisper
}

// Mode returns the configured transcription mode
func (s *TranscriptionService) Mode() string {
	return s.mode
}

// Transcribe validates the upload and returns the provider's text unmodified.
// Provider failures produce a fallback result, not an error.
func (s *TranscriptionService) Transcribe(ctx context.Context, upload entities.AudioUpload) (entities.TranscriptionResult, error) {
	if !s.Enabled() {
		return entities.TranscriptionResult{}, ErrTranscriptionDisabled
	}
	if !strings.HasPrefix(strings.ToLower(upload.ContentType), "audio/") {
		return entities.TranscriptionResult{}, apperrors.NewUnsupportedMediaError("Le fichier doit être un fichier audio.")
	}
	if len(upload.Data) == 0 {
		return entities.TranscriptionResult{}, apperrors.NewValidationError("Le fichier audio est vide.")
	}

	ctx, span := observability.StartSpan(ctx, "TranscriptionService.Transcribe")
	defer span.End()
	logger := observability.LoggerFromContext(ctx)

	filename := uploadFilename(upload)
	text, err := s.transcriber.Transcribe(ctx, filename, bytes.NewReader(upload.Data))
	if err != nil {
		logger.Error().Err(err).Str("filename", filename).Int("bytes", len(upload.Data)).Msg("transcription failed, serving fallback")
		observability.RecordError(span, err)
		observability.RecordDegraded(ctx, transcriptionOperation, string(entities.ReasonProviderError))
		return entities.TranscriptionResult{
			Transcription: "",
			Fallback:      true,
			Message:       transcriptionUnavailableMessage,
		}, nil
	}

	return entities.TranscriptionResult{Transcription: text}, nil
}

// uploadFilename makes sure the name sent upstream carries an audio
// extension, since the provider infers the container format from it.
func uploadFilename(upload entities.AudioUpload) string {
	name := filepath.Base(strings.TrimSpace(upload.Filename))
	if name == "." || name == "/" || name == "" {
		name = "audio"
	}
	if filepath.Ext(name) != "" {
		return name
	}

	ext := mimetype.Detect(upload.Data).Extension()
	if ext == "" {
		if declared := mimetype.Lookup(strings.ToLower(strings.TrimSpace(strings.Split(upload.ContentType, ";")[0]))); declared != nil {
			ext = declared.Extension()
		}
	}
	if ext == "" {
		ext = ".webm"
	}
	return name + ext
}
