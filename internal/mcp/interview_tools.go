package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kfreiman/interviewprep/internal/coach"
	"github.com/kfreiman/interviewprep/internal/interpret"
	"github.com/kfreiman/interviewprep/internal/session"
	"github.com/kfreiman/interviewprep/internal/storage"
)

// configArgs are the optional configuration parameters of start_interview and update_config
type configArgs struct {
	Role             string   `json:"role"`
	Level            string   `json:"level"`
	Domain           string   `json:"domain"`
	Tone             string   `json:"tone"`
	Technique        string   `json:"technique"`
	Model            string   `json:"model"`
	Temperature      *float64 `json:"temperature"`
	MaxTokens        *int     `json:"max_tokens"`
	TopP             *float64 `json:"top_p"`
	FrequencyPenalty *float64 `json:"frequency_penalty"`
	PresencePenalty  *float64 `json:"presence_penalty"`
}

// apply overrides base with every field the caller set
func (a configArgs) apply(base session.Config) (session.Config, error) {
	p := session.Profile{
		Role:      a.Role,
		Level:     a.Level,
		Domain:    a.Domain,
		Tone:      a.Tone,
		Technique: a.Technique,
		Model:     a.Model,
	}
	p.Sampling.Temperature = a.Temperature
	p.Sampling.MaxTokens = a.MaxTokens
	p.Sampling.TopP = a.TopP
	p.Sampling.FrequencyPenalty = a.FrequencyPenalty
	p.Sampling.PresencePenalty = a.PresencePenalty
	return p.Apply(base)
}

type sessionArgs struct {
	SessionID string `json:"session_id"`
}

// InterviewTools implements the interview tools on top of a session registry
type InterviewTools struct {
	registry *coach.Registry
	exporter *storage.Exporter
	defaults session.Config
	logger   *slog.Logger
}

// NewInterviewTools creates the interview tools
func NewInterviewTools(registry *coach.Registry, exporter *storage.Exporter, defaults session.Config) *InterviewTools {
	return &InterviewTools{
		registry: registry,
		exporter: exporter,
		defaults: defaults,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithLogger sets the logger for the tools
func (t *InterviewTools) WithLogger(logger *slog.Logger) *InterviewTools {
	t.logger = logger
	return t
}

// decode unmarshals tool arguments; an absent argument object decodes to the zero value
func decode(tool string, request *mcp.CallToolRequest, out any) error {
	if request.Params == nil || len(request.Params.Arguments) == 0 {
		return nil
	}
	if err := json.Unmarshal(request.Params.Arguments, out); err != nil {
		return &ArgumentError{Tool: tool, Err: err}
	}
	return nil
}

func requireSession(tool string, id string) error {
	if strings.TrimSpace(id) == "" {
		return &ArgumentError{Tool: tool, Err: fmt.Errorf("session_id is required")}
	}
	return nil
}

// StartInterview implements start_interview
func (t *InterviewTools) StartInterview(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args configArgs
	if err := decode("start_interview", request, &args); err != nil {
		return errorResult(err), nil
	}

	cfg, err := args.apply(t.defaults)
	if err != nil {
		t.logger.InfoContext(ctx, "rejected interview configuration",
			"error", err,
			"operation", "start_interview",
		)
		return errorResult(err), nil
	}

	s := t.registry.Start(cfg)

	t.logger.InfoContext(ctx, "interview started",
		"session_id", s.ID,
		"role", cfg.Role,
		"level", cfg.Level,
		"technique", cfg.Technique,
		"model", cfg.ModelID,
	)

	welcome := ""
	if len(s.Turns) > 0 {
		welcome = s.Turns[0].Text
	}

	return textResult(fmt.Sprintf("Session ID: %s\n\n%s", s.ID, welcome)), nil
}

// SubmitAnswer implements submit_answer
func (t *InterviewTools) SubmitAnswer(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		SessionID string `json:"session_id"`
		Answer    string `json:"answer"`
	}
	if err := decode("submit_answer", request, &args); err != nil {
		return errorResult(err), nil
	}
	if err := requireSession("submit_answer", args.SessionID); err != nil {
		return errorResult(err), nil
	}

	s, outcome, err := t.registry.Submit(ctx, args.SessionID, args.Answer)
	if err != nil {
		return errorResult(err), nil
	}

	var b strings.Builder
	b.WriteString(outcome.Reply)

	score := outcome.PlainScore
	if outcome.Structured != nil && outcome.Structured.OverallScore != nil {
		score = outcome.Structured.OverallScore
	}
	if score != nil {
		fmt.Fprintf(&b, "\n\n---\nScore: %s/10", interpret.FormatScore(*score))
	}
	if s.Scored() {
		fmt.Fprintf(&b, " | Average: %.1f/10 over %d answers", s.AverageScore(), len(s.ResponseScores))
	}
	if outcome.ClassifierErr != nil {
		b.WriteString("\n(Content moderation was unavailable for this answer.)")
	}

	return textResult(b.String()), nil
}

// UpdateConfig implements update_config
func (t *InterviewTools) UpdateConfig(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		sessionArgs
		configArgs
	}
	if err := decode("update_config", request, &args); err != nil {
		return errorResult(err), nil
	}
	if err := requireSession("update_config", args.SessionID); err != nil {
		return errorResult(err), nil
	}

	s, err := t.registry.UpdateConfig(args.SessionID, args.configArgs.apply)
	if err != nil {
		return errorResult(err), nil
	}

	t.logger.InfoContext(ctx, "interview configuration updated",
		"session_id", s.ID,
		"technique", s.Config.Technique,
		"tone", s.Config.Tone,
		"model", s.Config.ModelID,
	)

	data, err := json.MarshalIndent(s.Config, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return textResult("Configuration updated. It applies from your next answer.\n\n" + string(data)), nil
}

// EndInterview implements end_interview. The session is forgotten; an
// export written before remains on disk.
func (t *InterviewTools) EndInterview(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args sessionArgs
	if err := decode("end_interview", request, &args); err != nil {
		return errorResult(err), nil
	}
	if err := requireSession("end_interview", args.SessionID); err != nil {
		return errorResult(err), nil
	}

	s, err := t.registry.Get(args.SessionID)
	if err != nil {
		return errorResult(err), nil
	}
	if err := t.registry.Delete(args.SessionID); err != nil {
		return errorResult(err), nil
	}

	summary := s.Summarize(t.registry.Now())
	t.logger.InfoContext(ctx, "interview ended",
		"session_id", s.ID,
		"questions", summary.QuestionCount,
		"average_score", summary.AverageScore,
	)

	return textResult(fmt.Sprintf("Interview ended after %d questions. Average score: %s/10 over %d scored answers. Duration: %s.",
		summary.QuestionCount, interpret.FormatScore(summary.AverageScore), summary.ScoredAnswers, summary.Duration)), nil
}

// SessionStats implements session_stats
func (t *InterviewTools) SessionStats(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args sessionArgs
	if err := decode("session_stats", request, &args); err != nil {
		return errorResult(err), nil
	}
	if err := requireSession("session_stats", args.SessionID); err != nil {
		return errorResult(err), nil
	}

	s, err := t.registry.Get(args.SessionID)
	if err != nil {
		return errorResult(err), nil
	}

	data, err := json.MarshalIndent(s.Summarize(t.registry.Now()), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal summary: %w", err)
	}
	return textResult(string(data)), nil
}

// ResetSession implements reset_session
func (t *InterviewTools) ResetSession(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args sessionArgs
	if err := decode("reset_session", request, &args); err != nil {
		return errorResult(err), nil
	}
	if err := requireSession("reset_session", args.SessionID); err != nil {
		return errorResult(err), nil
	}

	s, err := t.registry.Reset(args.SessionID)
	if err != nil {
		return errorResult(err), nil
	}

	t.logger.InfoContext(ctx, "interview reset", "session_id", s.ID)

	return textResult("Interview reset.\n\n" + s.Turns[0].Text), nil
}

// ExportSession implements export_session
func (t *InterviewTools) ExportSession(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args sessionArgs
	if err := decode("export_session", request, &args); err != nil {
		return errorResult(err), nil
	}
	if err := requireSession("export_session", args.SessionID); err != nil {
		return errorResult(err), nil
	}

	s, err := t.registry.Get(args.SessionID)
	if err != nil {
		return errorResult(err), nil
	}

	path, err := t.exporter.Save(ctx, s.Export(t.registry.Now()))
	if err != nil {
		return errorResult(err), nil
	}

	name := filepath.Base(path)
	return textResult(fmt.Sprintf("Session exported.\n\nName: %s\nResource: export://%s", name, name)), nil
}

// OptionsListing is the list_options payload
type OptionsListing struct {
	Roles      []string `json:"roles"`
	Levels     []string `json:"levels"`
	Domains    []string `json:"domains"`
	Tones      []string `json:"tones"`
	Techniques []string `json:"techniques"`
	Models     []string `json:"models"`
}

// Options returns every valid configuration value
func Options() OptionsListing {
	return OptionsListing{
		Roles:      labels(session.Roles),
		Levels:     labels(session.Levels),
		Domains:    labels(session.Domains),
		Tones:      labels(session.Tones),
		Techniques: labels(session.Techniques),
		Models:     append([]string(nil), session.Models...),
	}
}

// ListOptions implements list_options
func (t *InterviewTools) ListOptions(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(Options(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal options: %w", err)
	}
	return textResult(string(data)), nil
}
