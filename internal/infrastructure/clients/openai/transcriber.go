package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/santekene/ai-service/internal/domain/providers"
	"github.com/santekene/ai-service/internal/infrastructure/observability"
	"github.com/santekene/ai-service/pkg/config"
)

// WhisperClient implements providers.Transcriber with the audio transcription API.
type WhisperClient struct {
	model  string
	client *goopenai.Client
}

var _ providers.Transcriber = (*WhisperClient)(nil)

// NewWhisperClient creates a transcription client.
func NewWhisperClient(cfg *config.OpenAIConfig) (*WhisperClient, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}

	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	model := cfg.TranscriptionModel
	if model == "" {
		model = goopenai.Whisper1
	}

	return &WhisperClient{
		model:  model,
		client: goopenai.NewClientWithConfig(clientCfg),
	}, nil
}

// Transcribe uploads audio and returns the plain-text transcription as produced.
func (c *WhisperClient) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	start := time.Now()
	resp, err := c.client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    c.model,
		FilePath: filename,
		Reader:   audio,
		Format:   goopenai.AudioResponseFormatText,
	})
	if err != nil {
		status := statusCodeOf(err)
		observability.RecordLLMCall(ctx, config.ProviderOpenAI, c.model, status, time.Since(start), err)
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			return "", fmt.Errorf("%w: transcription failed with status %d", providers.ErrProviderUnauthorized, status)
		}
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	observability.RecordLLMCall(ctx, config.ProviderOpenAI, c.model, http.StatusOK, time.Since(start), nil)
	return resp.Text, nil
}
