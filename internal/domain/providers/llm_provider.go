package providers

import (
	"context"
	"errors"
)

// ErrProviderUnauthorized indicates the provider rejected the configured API key.
var ErrProviderUnauthorized = errors.New("llm provider unauthorized")

// CompletionRequest holds a prompt and its generation parameters
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float32
	MaxTokens    int
	// JSONMode asks the provider to constrain output to a JSON object.
	JSONMode bool
}

// LLMProvider generates text for a prompt. OpenAI and Groq are interchangeable
// implementations.
type LLMProvider interface {
	// Name returns the provider identifier (e.g. "openai", "groq")
	Name() string

	// Model returns the chat model used for completions
	Model() string

	// Complete returns the generated text for the request
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// Ping verifies the API key against the provider
	Ping(ctx context.Context) error
}
