// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/kfreiman/interviewprep/internal/telemetry"
)

// Supported model providers
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config holds the configuration shared by the chat and mcp-server commands
type Config struct {
	Provider       string        `env:"INTERVIEW_PROVIDER" env-default:"openai" env-description:"Model provider (openai or gemini)"`
	OpenAIKey      string        `env:"OPENAI_API_KEY" env-description:"OpenAI API key"`
	OpenAIBaseURL  string        `env:"OPENAI_BASE_URL" env-default:"https://api.openai.com/v1" env-description:"OpenAI-compatible API base URL"`
	GeminiKey      string        `env:"GEMINI_API_KEY" env-description:"Gemini API key"`
	Model          string        `env:"INTERVIEW_MODEL" env-description:"Default model id (overrides the profile default)"`
	RequestTimeout time.Duration `env:"INTERVIEW_REQUEST_TIMEOUT" env-default:"60s" env-description:"Timeout for a single model call"`
	Moderation     bool          `env:"INTERVIEW_MODERATION" env-default:"false" env-description:"Run answers through the OpenAI moderation endpoint"`

	ExportPath   string        `env:"INTERVIEW_EXPORT_PATH" env-default:"./exports" env-description:"Export directory path"`
	ExportTTL    time.Duration `env:"INTERVIEW_EXPORT_TTL" env-default:"720h" env-description:"Age after which exports are cleaned up"`
	ExportRedact bool          `env:"INTERVIEW_EXPORT_REDACT" env-default:"false" env-description:"Redact personal data from exported transcripts"`

	Port int `env:"PORT" env-default:"8080" env-description:"HTTP server port"`

	OTELEnabled  bool   `env:"OTEL_ENABLED" env-default:"false" env-description:"Export metrics over OTLP gRPC"`
	OTELEndpoint string `env:"OTEL_ENDPOINT" env-default:"localhost:4317" env-description:"OTLP gRPC collector endpoint"`
	OTELInsecure bool   `env:"OTEL_INSECURE" env-default:"true" env-description:"Disable TLS for the OTLP connection"`

	LogFormat string `env:"LOG_FORMAT" env-default:"text" env-description:"Log output format (text or json)"`
	LogLevel  string `env:"LOG_LEVEL" env-default:"info" env-description:"Log level (debug, info, warn, error)"`
}

// Load reads optional .env files and then the environment.
// Missing .env files are ignored; variables already set in the environment win.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to read environment: %w", err)
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))

	return cfg, cfg.Validate()
}

// Validate checks cross-field constraints cleanenv cannot express
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unsupported provider %q: want %s or %s", c.Provider, ProviderOpenAI, ProviderGemini)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must not be negative: %s", c.RequestTimeout)
	}
	if c.ExportTTL < 0 {
		return fmt.Errorf("export ttl must not be negative: %s", c.ExportTTL)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	return nil
}

// APIKey returns the key for the configured provider
func (c Config) APIKey() string {
	if c.Provider == ProviderGemini {
		return c.GeminiKey
	}
	return c.OpenAIKey
}

// Telemetry returns the metrics exporter configuration
func (c Config) Telemetry() telemetry.Config {
	return telemetry.Config{
		Endpoint: c.OTELEndpoint,
		Enabled:  c.OTELEnabled,
		Insecure: c.OTELInsecure,
	}
}

// Usage renders the environment variable help text
func Usage() string {
	var cfg Config
	header := "Environment variables:"
	text, err := cleanenv.GetDescription(&cfg, &header)
	if err != nil {
		return header
	}
	return text
}
