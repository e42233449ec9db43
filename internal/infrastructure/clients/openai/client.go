package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/santekene/ai-service/internal/domain/providers"
	"github.com/santekene/ai-service/internal/infrastructure/observability"
	"github.com/santekene/ai-service/pkg/config"
)

const (
	defaultOpenAIModel = "gpt-4o-mini"
	defaultGroqModel   = "llama-3.3-70b-versatile"
	defaultGroqBaseURL = "https://api.groq.com/openai/v1"
)

// ChatOptions configures a ChatClient against any OpenAI-compatible endpoint.
type ChatOptions struct {
	Provider       string
	APIKey         string
	BaseURL        string
	Model          string
	Timeout        time.Duration
	RateLimitRPM   int
	RateLimitBurst int
}

// ChatClient implements providers.LLMProvider over the chat-completions API.
// OpenAI and Groq share the wire format and differ only in base URL and model.
type ChatClient struct {
	provider string
	model    string
	client   *goopenai.Client
	limiter  *tokenBucket
}

var _ providers.LLMProvider = (*ChatClient)(nil)

// NewChatClient creates a chat client from explicit options.
func NewChatClient(opts ChatOptions) (*ChatClient, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("%s api key is required", opts.Provider)
	}
	if opts.Model == "" {
		return nil, fmt.Errorf("%s model is required", opts.Provider)
	}

	clientCfg := goopenai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	return &ChatClient{
		provider: opts.Provider,
		model:    opts.Model,
		client:   goopenai.NewClientWithConfig(clientCfg),
		limiter:  newTokenBucket(opts.RateLimitRPM, opts.RateLimitBurst),
	}, nil
}

// NewOpenAIChatClient creates a chat client for api.openai.com.
func NewOpenAIChatClient(cfg *config.OpenAIConfig) (*ChatClient, error) {
	if cfg == nil {
		return nil, errors.New("openai config is required")
	}
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	return NewChatClient(ChatOptions{
		Provider:     config.ProviderOpenAI,
		APIKey:       cfg.APIKey,
		BaseURL:      cfg.BaseURL,
		Model:        model,
		Timeout:      cfg.Timeout,
		RateLimitRPM: -1,
	})
}

// NewGroqChatClient creates a chat client for Groq's OpenAI-compatible endpoint.
func NewGroqChatClient(cfg *config.GroqConfig) (*ChatClient, error) {
	if cfg == nil {
		return nil, errors.New("groq config is required")
	}
	model := cfg.Model
	if model == "" {
		model = defaultGroqModel
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGroqBaseURL
	}
	return NewChatClient(ChatOptions{
		Provider:       config.ProviderGroq,
		APIKey:         cfg.APIKey,
		BaseURL:        baseURL,
		Model:          model,
		Timeout:        cfg.Timeout,
		RateLimitRPM:   cfg.RateLimitRPM,
		RateLimitBurst: cfg.RateLimitBurst,
	})
}

// Close stops the rate limiter's refill goroutine
func (c *ChatClient) Close() {
	if c.limiter != nil {
		c.limiter.Stop()
	}
}

// Name returns the provider identifier
func (c *ChatClient) Name() string {
	return c.provider
}

// Model returns the chat model
func (c *ChatClient) Model() string {
	return c.model
}

// Complete sends one chat completion and returns the first choice's text.
func (c *ChatClient) Complete(ctx context.Context, req providers.CompletionRequest) (string, error) {
	if c.limiter != nil {
		waitStart := time.Now()
		if err := c.limiter.Wait(ctx); err != nil {
			observability.RecordLLMCall(ctx, c.provider, c.model, 0, 0, err)
			return "", err
		}
		observability.RecordRateLimitWait(ctx, c.provider, c.model, time.Since(waitStart))
	}

	chatReq := goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: req.UserPrompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSONMode {
		chatReq.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		status := statusCodeOf(err)
		observability.RecordLLMCall(ctx, c.provider, c.model, status, time.Since(start), err)
		return "", c.wrapError("chat completion", status, err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		err := fmt.Errorf("%s response missing output text", c.provider)
		observability.RecordLLMCall(ctx, c.provider, c.model, http.StatusOK, time.Since(start), err)
		return "", err
	}

	observability.RecordLLMCall(ctx, c.provider, c.model, http.StatusOK, time.Since(start), nil)
	return resp.Choices[0].Message.Content, nil
}

// Ping lists the provider's models to check that the API key is accepted.
func (c *ChatClient) Ping(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return c.wrapError("list models", statusCodeOf(err), err)
	}
	return nil
}

func (c *ChatClient) wrapError(op string, status int, err error) error {
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return fmt.Errorf("%w: %s %s failed with status %d", providers.ErrProviderUnauthorized, c.provider, op, status)
	}
	return fmt.Errorf("%s %s failed: %w", c.provider, op, err)
}

// statusCodeOf extracts the HTTP status from go-openai errors, or 0.
func statusCodeOf(err error) int {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
