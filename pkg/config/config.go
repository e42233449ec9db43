package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"

	"github.com/santekene/ai-service/pkg/secrets"
)

// Supported LLM providers
const (
	ProviderOpenAI = "openai"
	ProviderGroq   = "groq"
)

// Supported transcription modes
const (
	TranscriptionWhisper  = "whisper"
	TranscriptionDisabled = "disabled"
)

var defaultAllowedOrigins = []string{
	"http://localhost:3000",
	"http://localhost:3001",
}

// Config holds all application configuration
type Config struct {
	Env           string
	Server        ServerConfig
	LLM           LLMConfig
	OpenAI        OpenAIConfig
	Groq          GroqConfig
	Transcription TranscriptionConfig
	BackendAPI    BackendAPIConfig
	CORS          CORSConfig
	Redis         RedisConfig
	OTEL          OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// LLMConfig selects the chat-completion provider
type LLMConfig struct {
	Provider    string
	MaxAttempts int
}

// OpenAIConfig holds OpenAI configuration
type OpenAIConfig struct {
	APIKey             string
	BaseURL            string
	Model              string
	TranscriptionModel string
	Timeout            time.Duration
}

// GroqConfig holds Groq configuration
type GroqConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	Timeout        time.Duration
	RateLimitRPM   int
	RateLimitBurst int
}

// TranscriptionConfig holds audio transcription configuration
type TranscriptionConfig struct {
	Mode        string
	MaxUploadMB int
}

// BackendAPIConfig holds the doctor / health-center lookup service configuration
type BackendAPIConfig struct {
	BaseURL           string
	DoctorsPath       string
	HealthCentersPath string
	Timeout           time.Duration
	DoctorLimit       int
	HealthCenterLimit int
	CacheTTLSeconds   int
	// SpecialtyCatalogPath points at the JSON alias table for specialty names.
	SpecialtyCatalogPath string
}

// CORSConfig holds the cross-origin allow-list
type CORSConfig struct {
	AllowedOrigins []string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// environment mirrors the process environment one variable per field.
type environment struct {
	Env string `env:"ENV,default=production"`

	ServerHost string `env:"SERVER_HOST,default=0.0.0.0"`
	ServerPort int    `env:"SERVER_PORT,default=8000"`

	LLMProvider    string `env:"LLM_PROVIDER,default=groq"`
	LLMMaxAttempts int    `env:"LLM_MAX_ATTEMPTS,default=1"`

	OpenAIAPIKey             string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL            string        `env:"OPENAI_BASE_URL"`
	OpenAIModel              string        `env:"OPENAI_MODEL,default=gpt-4o-mini"`
	OpenAITranscriptionModel string        `env:"OPENAI_TRANSCRIPTION_MODEL,default=whisper-1"`
	OpenAITimeout            time.Duration `env:"OPENAI_TIMEOUT,default=60s"`

	GroqAPIKey         string        `env:"GROQ_API_KEY"`
	GroqBaseURL        string        `env:"GROQ_BASE_URL,default=https://api.groq.com/openai/v1"`
	GroqModel          string        `env:"GROQ_MODEL,default=llama-3.3-70b-versatile"`
	GroqTimeout        time.Duration `env:"GROQ_TIMEOUT,default=60s"`
	GroqRateLimitRPM   int           `env:"GROQ_RATE_LIMIT_RPM,default=30"`
	GroqRateLimitBurst int           `env:"GROQ_RATE_LIMIT_BURST,default=5"`

	TranscriptionMode        string `env:"TRANSCRIPTION_MODE"`
	TranscriptionMaxUploadMB int    `env:"TRANSCRIPTION_MAX_UPLOAD_MB,default=25"`

	BackendAPIURL            string        `env:"BACKEND_API_URL,default=http://localhost:5000"`
	BackendDoctorsPath       string        `env:"BACKEND_DOCTORS_PATH,default=/api/ai/recommended-doctors"`
	BackendHealthCentersPath string        `env:"BACKEND_HEALTH_CENTERS_PATH,default=/api/ai/recommended-healthcenters"`
	BackendTimeout           time.Duration `env:"BACKEND_API_TIMEOUT,default=5s"`
	BackendDoctorLimit       int           `env:"BACKEND_DOCTOR_LIMIT,default=5"`
	BackendHealthCenterLimit int           `env:"BACKEND_HEALTH_CENTER_LIMIT,default=3"`
	BackendCacheTTLSeconds   int           `env:"BACKEND_CACHE_TTL_SECONDS,default=300"`
	SpecialtyCatalogPath     string        `env:"SPECIALTY_CATALOG_PATH,default=config/specialties.json"`

	AllowedOrigins string `env:"CORS_ALLOWED_ORIGINS"`

	RedisEnabled  bool   `env:"REDIS_ENABLED,default=false"`
	RedisHost     string `env:"REDIS_HOST,default=localhost"`
	RedisPort     int    `env:"REDIS_PORT,default=6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB,default=0"`

	OTELServiceName    string `env:"OTEL_SERVICE_NAME,default=santekene-ai"`
	OTELServiceVersion string `env:"OTEL_SERVICE_VERSION,default=0.1.0"`
	OTELEndpoint       string `env:"OTEL_ENDPOINT"`
	OTELEnabled        bool   `env:"OTEL_ENABLED,default=false"`
}

// Load loads configuration from a .env file (when present), Vault (when
// VAULT_ENABLED=true) and environment variables. It fails when the API key of
// the selected LLM provider is missing.
func Load() (*Config, error) {
	_ = godotenv.Load()

	vault, err := secrets.LoadVaultConfig()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), vault.Timeout+time.Second)
	defer cancel()
	if _, err := secrets.Apply(ctx, vault); err != nil {
		return nil, fmt.Errorf("failed to load secrets from vault: %w", err)
	}

	return FromEnviron()
}

// FromEnviron builds the configuration from the current process environment only.
func FromEnviron() (*Config, error) {
	var e environment
	if _, err := env.UnmarshalFromEnviron(&e); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	cfg := &Config{
		Env: e.Env,
		Server: ServerConfig{
			Host: e.ServerHost,
			Port: e.ServerPort,
		},
		LLM: LLMConfig{
			Provider:    strings.ToLower(strings.TrimSpace(e.LLMProvider)),
			MaxAttempts: e.LLMMaxAttempts,
		},
		OpenAI: OpenAIConfig{
			APIKey:             e.OpenAIAPIKey,
			BaseURL:            e.OpenAIBaseURL,
			Model:              e.OpenAIModel,
			TranscriptionModel: e.OpenAITranscriptionModel,
			Timeout:            e.OpenAITimeout,
		},
		Groq: GroqConfig{
			APIKey:         e.GroqAPIKey,
			BaseURL:        e.GroqBaseURL,
			Model:          e.GroqModel,
			Timeout:        e.GroqTimeout,
			RateLimitRPM:   e.GroqRateLimitRPM,
			RateLimitBurst: e.GroqRateLimitBurst,
		},
		Transcription: TranscriptionConfig{
			Mode:        strings.ToLower(strings.TrimSpace(e.TranscriptionMode)),
			MaxUploadMB: e.TranscriptionMaxUploadMB,
		},
		BackendAPI: BackendAPIConfig{
			BaseURL:              e.BackendAPIURL,
			DoctorsPath:          e.BackendDoctorsPath,
			HealthCentersPath:    e.BackendHealthCentersPath,
			Timeout:              e.BackendTimeout,
			DoctorLimit:          e.BackendDoctorLimit,
			HealthCenterLimit:    e.BackendHealthCenterLimit,
			CacheTTLSeconds:      e.BackendCacheTTLSeconds,
			SpecialtyCatalogPath: e.SpecialtyCatalogPath,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(e.AllowedOrigins, defaultAllowedOrigins),
		},
		Redis: RedisConfig{
			Enabled:  e.RedisEnabled,
			Host:     e.RedisHost,
			Port:     e.RedisPort,
			Password: e.RedisPassword,
			DB:       e.RedisDB,
		},
		OTEL: OTELConfig{
			ServiceName:    e.OTELServiceName,
			ServiceVersion: e.OTELServiceVersion,
			Endpoint:       e.OTELEndpoint,
			Enabled:        e.OTELEnabled,
		},
	}

	if cfg.LLM.MaxAttempts < 1 {
		cfg.LLM.MaxAttempts = 1
	}

	// The Groq-based service no longer ships transcription; the OpenAI one proxies Whisper.
	if cfg.Transcription.Mode == "" {
		if cfg.LLM.Provider == ProviderOpenAI {
			cfg.Transcription.Mode = TranscriptionWhisper
		} else {
			cfg.Transcription.Mode = TranscriptionDisabled
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the process cannot start without.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return errors.New("OPENAI_API_KEY is not set")
		}
	case ProviderGroq:
		if c.Groq.APIKey == "" {
			return errors.New("GROQ_API_KEY is not set")
		}
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.LLM.Provider)
	}

	switch c.Transcription.Mode {
	case TranscriptionDisabled:
	case TranscriptionWhisper:
		if c.OpenAI.APIKey == "" {
			return errors.New("OPENAI_API_KEY is required when TRANSCRIPTION_MODE=whisper")
		}
	default:
		return fmt.Errorf("unsupported TRANSCRIPTION_MODE %q", c.Transcription.Mode)
	}
	return nil
}

// ActiveModel returns the chat model of the selected provider
func (c *Config) ActiveModel() string {
	if c.LLM.Provider == ProviderOpenAI {
		return c.OpenAI.Model
	}
	return c.Groq.Model
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MaxUploadBytes returns the audio upload limit in bytes
func (c *TranscriptionConfig) MaxUploadBytes() int64 {
	if c.MaxUploadMB <= 0 {
		return 25 << 20
	}
	return int64(c.MaxUploadMB) << 20
}

func splitList(value string, fallback []string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), fallback...)
	}
	return out
}
