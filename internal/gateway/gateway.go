// Package gateway sends an interview transcript to a language model provider.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/kfreiman/interviewprep/internal/session"
)

// MessageRole tags a message in the provider request
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is one role-tagged entry of a provider request
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// Request is everything a provider needs for one completion
type Request struct {
	ModelID  string
	Messages []Message
	Sampling session.SamplingParams
	// Structured asks for the provider's machine-parseable output mode
	Structured bool
}

// Provider is a remote chat-completion service
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}

// GatewayError is returned for any provider failure. The turn that
// triggered it must not be recorded.
type GatewayError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *GatewayError) Error() string {
	msg := fmt.Sprintf("model gateway failure (%s)", e.Provider)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("model gateway failure (%s, status %d)", e.Provider, e.StatusCode)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// BuildTranscript converts session turns into role-tagged messages, oldest first
func BuildTranscript(turns []session.Turn) []Message {
	messages := make([]Message, 0, len(turns))
	for _, turn := range turns {
		role := RoleUser
		if turn.Speaker == session.SpeakerAssistant {
			role = RoleAssistant
		}
		messages = append(messages, Message{Role: role, Content: turn.Text})
	}
	return messages
}

// Gateway is the single boundary between the interview and the model provider
type Gateway struct {
	provider Provider
	logger   *slog.Logger
}

// New creates a new gateway for the provider
func New(provider Provider) *Gateway {
	return &Gateway{
		provider: provider,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithLogger sets the logger for the gateway
func (g *Gateway) WithLogger(logger *slog.Logger) *Gateway {
	g.logger = logger
	return g
}

// Provider returns the name of the configured provider
func (g *Gateway) Provider() string {
	return g.provider.Name()
}

// Complete sends [instruction, ...transcript] to the provider and returns its raw text.
// Every failure, including cancellation, is returned as *GatewayError.
func (g *Gateway) Complete(ctx context.Context, instruction string, transcript []Message, cfg session.Config, structured bool) (string, error) {
	messages := make([]Message, 0, len(transcript)+1)
	messages = append(messages, Message{Role: RoleSystem, Content: instruction})
	messages = append(messages, transcript...)

	req := Request{
		ModelID:    cfg.ModelID,
		Messages:   messages,
		Sampling:   cfg.Sampling,
		Structured: structured,
	}

	start := time.Now()
	text, err := g.provider.Complete(ctx, req)
	if err != nil {
		var gerr *GatewayError
		if !errors.As(err, &gerr) {
			gerr = &GatewayError{Provider: g.provider.Name(), Err: err}
		}
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(gerr, ctxErr) {
			gerr = &GatewayError{Provider: g.provider.Name(), Err: fmt.Errorf("%w: %v", ctxErr, err)}
		}
		return "", gerr
	}

	g.logger.DebugContext(ctx, "model completion received",
		"provider", g.provider.Name(),
		"model", cfg.ModelID,
		"messages", len(messages),
		"structured", structured,
		"duration", time.Since(start),
	)

	return text, nil
}
