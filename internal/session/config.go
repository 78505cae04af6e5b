package session

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultModel is the model used when a configuration does not name one
const DefaultModel = "gpt-4o-mini"

// ValidationError represents an invalid configuration value
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" && e.Value != "" {
		return fmt.Sprintf("validation failed for %s '%s': %s", e.Field, e.Value, e.Reason)
	}
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

// SamplingParams are forwarded verbatim to the language model provider
type SamplingParams struct {
	Temperature      float64 `json:"temperature" yaml:"temperature"`
	MaxTokens        int     `json:"max_tokens" yaml:"max_tokens"`
	TopP             float64 `json:"top_p" yaml:"top_p"`
	FrequencyPenalty float64 `json:"frequency_penalty" yaml:"frequency_penalty"`
	PresencePenalty  float64 `json:"presence_penalty" yaml:"presence_penalty"`
}

// DefaultSampling returns the sampling parameters used for a new interview
func DefaultSampling() SamplingParams {
	return SamplingParams{
		Temperature:      0.7,
		MaxTokens:        800,
		TopP:             1.0,
		FrequencyPenalty: 0,
		PresencePenalty:  0,
	}
}

// Clamp pulls every parameter into the range the provider accepts
func (p SamplingParams) Clamp() SamplingParams {
	return SamplingParams{
		Temperature:      clampFloat64(p.Temperature, 0, 2),
		MaxTokens:        clampInt(p.MaxTokens, 200, 2000),
		TopP:             clampFloat64(p.TopP, 0, 1),
		FrequencyPenalty: clampFloat64(p.FrequencyPenalty, -2, 2),
		PresencePenalty:  clampFloat64(p.PresencePenalty, -2, 2),
	}
}

// Config is the full interview configuration for a single turn.
// It may be replaced wholesale between turns.
type Config struct {
	Role      Role           `json:"role"`
	Level     Level          `json:"level"`
	Domain    Domain         `json:"domain"`
	Tone      Tone           `json:"tone"`
	Technique Technique      `json:"technique"`
	ModelID   string         `json:"model_id"`
	Sampling  SamplingParams `json:"sampling"`
}

// DefaultConfig returns the configuration a fresh interview starts with
func DefaultConfig() Config {
	return Config{
		Role:      RoleBackendDeveloper,
		Level:     LevelMid,
		Domain:    DomainGeneral,
		Tone:      ToneProfessional,
		Technique: TechniqueZeroShot,
		ModelID:   DefaultModel,
		Sampling:  DefaultSampling(),
	}
}

// Profile is the YAML representation of an interview configuration.
// Empty fields fall back to DefaultConfig.
type Profile struct {
	Role      string `yaml:"role"`
	Level     string `yaml:"level"`
	Domain    string `yaml:"domain"`
	Tone      string `yaml:"tone"`
	Technique string `yaml:"technique"`
	Model     string `yaml:"model"`
	Sampling  struct {
		Temperature      *float64 `yaml:"temperature"`
		MaxTokens        *int     `yaml:"max_tokens"`
		TopP             *float64 `yaml:"top_p"`
		FrequencyPenalty *float64 `yaml:"frequency_penalty"`
		PresencePenalty  *float64 `yaml:"presence_penalty"`
	} `yaml:"sampling"`
}

// LoadProfile reads an interview profile from a YAML file
func LoadProfile(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("read profile %s: %w", filename, err)
	}

	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return Config{}, fmt.Errorf("parse profile %s: %w", filename, err)
	}

	cfg, err := ParseConfig(profile)
	if err != nil {
		return Config{}, fmt.Errorf("invalid profile %s: %w", filename, err)
	}
	return cfg, nil
}

// ParseConfig validates a profile and converts it into a Config
func ParseConfig(p Profile) (Config, error) {
	return p.Apply(DefaultConfig())
}

// Apply overrides base with every non-empty field of the profile
func (p Profile) Apply(base Config) (Config, error) {
	cfg := base
	var err error

	if p.Role != "" {
		if cfg.Role, err = ParseRole(p.Role); err != nil {
			return Config{}, err
		}
	}
	if p.Level != "" {
		if cfg.Level, err = ParseLevel(p.Level); err != nil {
			return Config{}, err
		}
	}
	if p.Domain != "" {
		if cfg.Domain, err = ParseDomain(p.Domain); err != nil {
			return Config{}, err
		}
	}
	if p.Tone != "" {
		if cfg.Tone, err = ParseTone(p.Tone); err != nil {
			return Config{}, err
		}
	}
	if p.Technique != "" {
		if cfg.Technique, err = ParseTechnique(p.Technique); err != nil {
			return Config{}, err
		}
	}
	if p.Model != "" {
		cfg.ModelID = p.Model
	}

	s := p.Sampling
	if s.Temperature != nil {
		cfg.Sampling.Temperature = *s.Temperature
	}
	if s.MaxTokens != nil {
		cfg.Sampling.MaxTokens = *s.MaxTokens
	}
	if s.TopP != nil {
		cfg.Sampling.TopP = *s.TopP
	}
	if s.FrequencyPenalty != nil {
		cfg.Sampling.FrequencyPenalty = *s.FrequencyPenalty
	}
	if s.PresencePenalty != nil {
		cfg.Sampling.PresencePenalty = *s.PresencePenalty
	}
	cfg.Sampling = cfg.Sampling.Clamp()

	return cfg, nil
}

func clampFloat64(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func clampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
