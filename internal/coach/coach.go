// Package coach runs one interview turn end to end: resolve the instruction,
// screen the input, call the model, interpret the reply and fold it into the state.
package coach

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/kfreiman/interviewprep/internal/gateway"
	"github.com/kfreiman/interviewprep/internal/interpret"
	"github.com/kfreiman/interviewprep/internal/prompt"
	"github.com/kfreiman/interviewprep/internal/safety"
	"github.com/kfreiman/interviewprep/internal/session"
	"github.com/kfreiman/interviewprep/internal/telemetry"
)

// Completer is the model boundary used by the coach
type Completer interface {
	Complete(ctx context.Context, instruction string, transcript []gateway.Message, cfg session.Config, structured bool) (string, error)
	Provider() string
}

// Outcome is what one successful turn produced
type Outcome struct {
	Reply      string
	PlainScore *float64
	Structured *session.StructuredEvaluation
	// ClassifierErr is set when moderation was unavailable and the input was accepted anyway
	ClassifierErr error
}

// Coach drives interview turns. It holds no session state of its own.
type Coach struct {
	gate     *safety.Gate
	model    Completer
	recorder telemetry.Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a new coach
func New(gate *safety.Gate, model Completer) *Coach {
	if gate == nil {
		gate = safety.NewGate(nil)
	}
	return &Coach{
		gate:     gate,
		model:    model,
		recorder: telemetry.NewNoop(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
}

// WithLogger sets the logger for the coach
func (c *Coach) WithLogger(logger *slog.Logger) *Coach {
	c.logger = logger
	return c
}

// WithRecorder sets the metrics recorder
func (c *Coach) WithRecorder(recorder telemetry.Recorder) *Coach {
	c.recorder = recorder
	return c
}

// WithClock overrides time.Now
func (c *Coach) WithClock(now func() time.Time) *Coach {
	c.now = now
	return c
}

// Now returns the coach's current time
func (c *Coach) Now() time.Time {
	return c.now()
}

// Start creates a fresh interview whose first turn is the welcome message
func (c *Coach) Start(cfg session.Config) session.State {
	s := session.New(cfg, c.now())
	return session.Record(s, session.SpeakerAssistant, prompt.Welcome(cfg), nil, nil)
}

// Submit processes one candidate answer. On any error the returned state is
// the input state unchanged and the answer may be resubmitted.
func (c *Coach) Submit(ctx context.Context, s session.State, input string) (session.State, Outcome, error) {
	inst := prompt.Resolve(s.Config)

	verdict := c.gate.Inspect(ctx, input)
	if verdict.Unsafe {
		c.logger.InfoContext(ctx, "answer rejected by safety gate",
			"session_id", s.ID,
			"reason", verdict.Reason,
			"detail", verdict.Detail,
		)
		c.recorder.RecordRejection(ctx, string(verdict.Reason))
		return s, Outcome{}, verdict.Err()
	}

	if err := safety.CheckInstruction(inst.Text); err != nil {
		c.logger.ErrorContext(ctx, "system instruction failed tamper check",
			"error", err,
			"session_id", s.ID,
			"technique", s.Config.Technique,
		)
		c.recorder.RecordRejection(ctx, "tampered_instruction")
		return s, Outcome{}, err
	}

	transcript := append(gateway.BuildTranscript(s.Turns), gateway.Message{Role: gateway.RoleUser, Content: input})

	start := c.now()
	raw, err := c.model.Complete(ctx, inst.Text, transcript, s.Config, inst.Structured)
	if err != nil {
		c.logger.ErrorContext(ctx, "model call failed",
			"error", err,
			"session_id", s.ID,
			"model", s.Config.ModelID,
		)
		c.recorder.RecordRejection(ctx, "gateway_failure")
		return s, Outcome{}, err
	}
	elapsed := c.now().Sub(start)

	res := interpret.Interpret(raw, inst.Structured)
	if inst.Structured && res.Structured == nil {
		c.logger.WarnContext(ctx, "structured reply did not contain a JSON evaluation",
			"session_id", s.ID,
		)
	}

	next := session.Apply(s, session.Exchange{
		Answer:     input,
		Reply:      res.DisplayText,
		RawReply:   raw,
		PlainScore: res.PlainScore,
		Structured: res.Structured,
	})

	metrics := telemetry.TurnMetrics{
		Provider:   c.model.Provider(),
		Model:      s.Config.ModelID,
		Technique:  string(s.Config.Technique),
		Structured: inst.Structured,
		Tokens:     next.TotalEstimatedTokens - s.TotalEstimatedTokens,
		CostUSD:    next.TotalEstimatedCost - s.TotalEstimatedCost,
		Duration:   elapsed,
	}
	if res.PlainScore != nil {
		metrics.Scored = true
		metrics.Score = *res.PlainScore
	}
	c.recorder.RecordTurn(ctx, metrics)

	c.logger.InfoContext(ctx, "interview turn recorded",
		"session_id", next.ID,
		"question", next.QuestionCount,
		"scored", res.PlainScore != nil,
		"structured", res.Structured != nil,
		"average_score", next.AverageScore(),
	)

	return next, Outcome{
		Reply:         res.DisplayText,
		PlainScore:    res.PlainScore,
		Structured:    res.Structured,
		ClassifierErr: verdict.ClassifierErr,
	}, nil
}
