// Package interpret extracts scores and structured evaluations from model replies.
package interpret

import (
	"regexp"
	"strconv"

	"github.com/kfreiman/interviewprep/internal/session"
)

// scorePattern matches "Score: 7/10" with optional markdown emphasis around the number.
// The denominator must end at 10, so "85/100" is not a score.
var scorePattern = regexp.MustCompile(`(?i)score:\s*\**\s*(\d+(?:\.\d+)?)\s*\**\s*/\s*10\b`)

// Result is everything recovered from one model reply
type Result struct {
	// PlainScore is the first inline score, clamped to [1,10]; nil when absent
	PlainScore *float64
	// Structured is set only in structured mode when the reply contains a JSON object
	Structured *session.StructuredEvaluation
	// DisplayText is what the candidate sees and what the transcript keeps
	DisplayText string
}

// Interpret parses a raw model reply. It never fails: anything it cannot
// find is left nil and the raw text is displayed unchanged.
func Interpret(raw string, structured bool) Result {
	res := Result{
		PlainScore:  PlainScore(raw),
		DisplayText: raw,
	}

	if !structured {
		return res
	}

	obj, ok := extractObject(raw)
	if !ok {
		return res
	}

	res.Structured = decodeEvaluation(obj)
	if text := Render(res.Structured); text != "" {
		res.DisplayText = text
	}
	return res
}

// PlainScore returns the first "Score: N/10" value in the text clamped to [1,10], or nil
func PlainScore(raw string) *float64 {
	m := scorePattern.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	v = session.ClampScore(v)
	return &v
}
