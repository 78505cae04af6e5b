// Package redaction scrubs personal data from interview transcripts before export.
package redaction

import (
	"maps"
	"regexp"
	"slices"

	"github.com/kfreiman/interviewprep/internal/session"
)

type rule struct {
	re          *regexp.Regexp
	placeholder string
}

// PIIRedactor replaces personal data with placeholders
type PIIRedactor struct {
	rules []rule
}

// NewPIIRedactor creates a new PII redactor
func NewPIIRedactor() *PIIRedactor {
	// Order matters: card numbers must be replaced before phones would match their digit runs
	return &PIIRedactor{rules: []rule{
		{regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`), "[EMAIL_REDACTED]"},
		{regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`), "[SSN_REDACTED]"},
		{regexp.MustCompile(`\b(?:\d[ -]?){12,18}\d\b`), "[CREDIT_CARD_REDACTED]"},
		{regexp.MustCompile(`(?:\+\d{1,3}[\s.-]?)?\(?\b\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}\b`), "[PHONE_REDACTED]"},
	}}
}

// Redact removes PII from the text
func (r *PIIRedactor) Redact(text string) string {
	for _, rule := range r.rules {
		text = rule.re.ReplaceAllString(text, rule.placeholder)
	}
	return text
}

// RedactDocument returns a deep copy of the export document with every
// free-text field redacted: turn texts, structured evaluations and the
// feedback kept in the structured score log.
func (r *PIIRedactor) RedactDocument(doc session.ExportDocument) session.ExportDocument {
	turns := make([]session.Turn, len(doc.Turns))
	for i, turn := range doc.Turns {
		turn.Text = r.Redact(turn.Text)
		turn.StructuredScores = r.redactEvaluation(turn.StructuredScores)
		turns[i] = turn
	}
	doc.Turns = turns

	if doc.StructuredScoreLog != nil {
		log := make([]session.StructuredScoreEntry, len(doc.StructuredScoreLog))
		for i, entry := range doc.StructuredScoreLog {
			entry.Details = r.redactCategories(entry.Details)
			log[i] = entry
		}
		doc.StructuredScoreLog = log
	}
	return doc
}

func (r *PIIRedactor) redactEvaluation(eval *session.StructuredEvaluation) *session.StructuredEvaluation {
	if eval == nil {
		return nil
	}

	out := *eval
	out.Question = r.Redact(eval.Question)
	out.Recommendation = r.Redact(eval.Recommendation)
	out.NextQuestionHint = r.Redact(eval.NextQuestionHint)
	out.Strengths = r.redactList(eval.Strengths)
	out.Improvements = r.redactList(eval.Improvements)
	out.Evaluation = r.redactCategories(eval.Evaluation)
	return &out
}

func (r *PIIRedactor) redactList(items []string) []string {
	if items == nil {
		return nil
	}
	out := slices.Clone(items)
	for i, item := range out {
		out[i] = r.Redact(item)
	}
	return out
}

func (r *PIIRedactor) redactCategories(categories map[string]session.CategoryScore) map[string]session.CategoryScore {
	if categories == nil {
		return nil
	}
	out := maps.Clone(categories)
	for name, c := range out {
		c.Feedback = r.Redact(c.Feedback)
		out[name] = c
	}
	return out
}

// DefaultRedactor is the default PII redactor instance
var DefaultRedactor = NewPIIRedactor()

// RedactDocument is a convenience function that uses the default redactor
func RedactDocument(doc session.ExportDocument) session.ExportDocument {
	return DefaultRedactor.RedactDocument(doc)
}
