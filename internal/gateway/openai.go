package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultOpenAIBaseURL is the public OpenAI API root
const DefaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIConfig configures the OpenAI-compatible provider
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client // Optional: overrides Timeout
}

// OpenAIProvider calls an OpenAI-compatible chat completions endpoint
type OpenAIProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOpenAIBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &OpenAIProvider{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  client,
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

type chatRequest struct {
	Model            string          `json:"model"`
	Messages         []Message       `json:"messages"`
	Temperature      float64         `json:"temperature"`
	MaxTokens        int             `json:"max_tokens"`
	TopP             float64         `json:"top_p"`
	FrequencyPenalty float64         `json:"frequency_penalty"`
	PresencePenalty  float64         `json:"presence_penalty"`
	ResponseFormat   *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

type apiErrorBody struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete implements Provider
func (p *OpenAIProvider) Complete(ctx context.Context, req Request) (string, error) {
	body := chatRequest{
		Model:            req.ModelID,
		Messages:         req.Messages,
		Temperature:      req.Sampling.Temperature,
		MaxTokens:        req.Sampling.MaxTokens,
		TopP:             req.Sampling.TopP,
		FrequencyPenalty: req.Sampling.FrequencyPenalty,
		PresencePenalty:  req.Sampling.PresencePenalty,
	}
	if req.Structured {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	var resp chatResponse
	if err := p.postJSON(ctx, "/chat/completions", body, &resp); err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", &GatewayError{Provider: p.Name(), Err: errors.New("empty response: no choices")}
	}
	return resp.Choices[0].Message.Content, nil
}

// postJSON sends body to path and decodes a 200 response into out
func (p *OpenAIProvider) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &GatewayError{Provider: p.Name(), Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return &GatewayError{Provider: p.Name(), Err: fmt.Errorf("failed to create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return &GatewayError{Provider: p.Name(), Err: err}
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return &GatewayError{Provider: p.Name(), StatusCode: httpResp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr apiErrorBody
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != nil {
			return &GatewayError{Provider: p.Name(), StatusCode: httpResp.StatusCode, Err: errors.New(apiErr.Error.Message)}
		}
		return &GatewayError{Provider: p.Name(), StatusCode: httpResp.StatusCode, Err: errors.New(strings.TrimSpace(string(data)))}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &GatewayError{Provider: p.Name(), StatusCode: httpResp.StatusCode, Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	return nil
}
