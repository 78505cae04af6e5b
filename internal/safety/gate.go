// Package safety screens candidate input and system instructions before a model call.
package safety

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxInputLength is the longest answer, in characters, the gate accepts
const MaxInputLength = 2000

// Classifier is an external content moderation service
type Classifier interface {
	Classify(ctx context.Context, text string) (flagged bool, err error)
}

// NoopClassifier never flags anything
type NoopClassifier struct{}

func (NoopClassifier) Classify(context.Context, string) (bool, error) { return false, nil }

type injectionPattern struct {
	name string
	re   *regexp.Regexp
}

var injectionPatterns = []injectionPattern{
	{"ignore previous instructions", regexp.MustCompile(`(?i)\bignore\s+(?:all\s+|any\s+)?(?:the\s+|your\s+)?(?:previous|prior|above|earlier|preceding)\s+(?:instructions|prompts?|rules|directions|messages)`)},
	{"disregard above", regexp.MustCompile(`(?i)\bdisregard\s+(?:all\s+|any\s+)?(?:the\s+|your\s+)?(?:above|previous|prior|earlier|preceding)\b`)},
	{"forget instructions", regexp.MustCompile(`(?i)\bforget\s+(?:all\s+|everything\s+)?(?:your|the|previous|prior)\s+(?:previous\s+|prior\s+)?(?:instructions|rules|prompts?)`)},
	{"you are now", regexp.MustCompile(`(?i)\byou\s+are\s+now\b`)},
	{"new instructions", regexp.MustCompile(`(?i)\bnew\s+instructions?\s*:`)},
	{"system role spoofing", regexp.MustCompile(`(?im)^\s*[\[<]?\s*system\s*[\]>]?\s*:`)},
	{"chat control token", regexp.MustCompile(`(?i)<\|[a-z_]+\|>|\[/?inst\]|<</?sys>>|###\s*(?:system|instruction)`)},
	// DAN is matched in capitals only after "act as" so the name Dan passes
	{"jailbreak persona", regexp.MustCompile(`(?i:\bdan\s+mode\b|\bdo\s+anything\s+now\b)|(?i:\bact\s+as\s+)DAN\b`)},
}

// Verdict is the outcome of inspecting one input
type Verdict struct {
	Unsafe bool
	Reason RejectReason
	Detail string
	// ClassifierErr is set when the classifier failed and the gate failed open
	ClassifierErr error
}

// Err converts an unsafe verdict into a *RejectedInputError, or nil when safe
func (v Verdict) Err() error {
	if !v.Unsafe {
		return nil
	}
	return &RejectedInputError{Reason: v.Reason, Detail: v.Detail}
}

// Gate rejects candidate input before it reaches the model
type Gate struct {
	classifier Classifier
	logger     *slog.Logger
}

// NewGate creates a new safety gate. A nil classifier disables moderation.
func NewGate(classifier Classifier) *Gate {
	if classifier == nil {
		classifier = NoopClassifier{}
	}
	return &Gate{
		classifier: classifier,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithLogger sets the logger for the gate
func (g *Gate) WithLogger(logger *slog.Logger) *Gate {
	g.logger = logger
	return g
}

// Inspect runs every rule in order: empty, length, injection patterns, classifier.
// A classifier failure is logged and treated as safe.
func (g *Gate) Inspect(ctx context.Context, input string) Verdict {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Verdict{Unsafe: true, Reason: ReasonEmpty, Detail: "input is empty"}
	}

	if n := utf8.RuneCountInString(input); n > MaxInputLength {
		return Verdict{
			Unsafe: true,
			Reason: ReasonTooLong,
			Detail: fmt.Sprintf("%d characters exceeds limit of %d", n, MaxInputLength),
		}
	}

	for _, p := range injectionPatterns {
		if p.re.MatchString(input) {
			return Verdict{Unsafe: true, Reason: ReasonInjection, Detail: p.name}
		}
	}

	flagged, err := g.classifier.Classify(ctx, input)
	if err != nil {
		g.logger.WarnContext(ctx, "content classifier unavailable, accepting input",
			"error", err,
			"input_length", len(input),
		)
		return Verdict{ClassifierErr: err}
	}
	if flagged {
		return Verdict{Unsafe: true, Reason: ReasonFlagged, Detail: "flagged by content classifier"}
	}

	return Verdict{}
}

// IsUnsafe reports whether the input must be rejected
func (g *Gate) IsUnsafe(ctx context.Context, input string) bool {
	return g.Inspect(ctx, input).Unsafe
}

// Check returns a *RejectedInputError for unsafe input
func (g *Gate) Check(ctx context.Context, input string) error {
	return g.Inspect(ctx, input).Err()
}
