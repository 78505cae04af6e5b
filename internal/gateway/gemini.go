package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is used when the configured model is not a Gemini model
const DefaultGeminiModel = "gemini-1.5-flash"

// geminiOpening stands in for the candidate when a transcript opens with the interviewer
const geminiOpening = "Let's start the interview."

// GeminiProvider calls Google's Gemini API through the generative-ai-go client.
// Frequency and presence penalties are not forwarded.
type GeminiProvider struct {
	client *genai.Client
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiProvider{client: client}, nil
}

func (p *GeminiProvider) Name() string { return "gemini" }

// Close releases the underlying client
func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

// Complete implements Provider
func (p *GeminiProvider) Complete(ctx context.Context, req Request) (string, error) {
	system, history, last, err := toGeminiContents(req.Messages)
	if err != nil {
		return "", &GatewayError{Provider: p.Name(), Err: err}
	}

	modelID := req.ModelID
	if !strings.HasPrefix(modelID, "gemini") {
		modelID = DefaultGeminiModel
	}

	model := p.client.GenerativeModel(modelID)
	model.SetTemperature(float32(req.Sampling.Temperature))
	model.SetTopP(float32(req.Sampling.TopP))
	model.SetMaxOutputTokens(int32(req.Sampling.MaxTokens))
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}
	if req.Structured {
		model.ResponseMIMEType = "application/json"
	}

	chat := model.StartChat()
	chat.History = history

	resp, err := chat.SendMessage(ctx, genai.Text(last))
	if err != nil {
		return "", &GatewayError{Provider: p.Name(), Err: err}
	}

	text := responseText(resp)
	if text == "" {
		return "", &GatewayError{Provider: p.Name(), Err: errors.New("empty response: no text candidates")}
	}
	return text, nil
}

// toGeminiContents splits messages into the system instruction, prior history
// and the final user message Gemini expects to be sent separately
func toGeminiContents(messages []Message) (system string, history []*genai.Content, last string, err error) {
	var systemParts []string
	var rest []Message
	for _, m := range messages {
		if m.Role == RoleSystem {
			systemParts = append(systemParts, m.Content)
			continue
		}
		rest = append(rest, m)
	}
	system = strings.Join(systemParts, "\n\n")

	if len(rest) == 0 || rest[len(rest)-1].Role != RoleUser {
		return "", nil, "", errors.New("transcript must end with a user message")
	}
	last = rest[len(rest)-1].Content
	rest = rest[:len(rest)-1]

	if len(rest) > 0 && rest[0].Role == RoleAssistant {
		history = append(history, &genai.Content{Role: "user", Parts: []genai.Part{genai.Text(geminiOpening)}})
	}
	for _, m := range rest {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Content)}})
	}

	return system, history, last, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
		if b.Len() > 0 {
			break
		}
	}
	return b.String()
}
