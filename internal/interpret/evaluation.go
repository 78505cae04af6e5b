package interpret

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kfreiman/interviewprep/internal/session"
)

func decodeEvaluation(obj map[string]any) *session.StructuredEvaluation {
	eval := &session.StructuredEvaluation{
		Question:         stringField(obj, "question"),
		Recommendation:   stringField(obj, "recommendation"),
		NextQuestionHint: stringField(obj, "next_question_hint"),
		Strengths:        stringList(obj["strengths"]),
		Improvements:     stringList(obj["improvements"]),
	}

	if v, ok := number(obj["overall_score"]); ok {
		v = clampCategory(v)
		eval.OverallScore = &v
	}

	if categories, ok := obj["evaluation"].(map[string]any); ok {
		for name, raw := range categories {
			entry, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			score, _ := number(entry["score"])
			if eval.Evaluation == nil {
				eval.Evaluation = make(map[string]session.CategoryScore)
			}
			eval.Evaluation[name] = session.CategoryScore{
				Score:    clampCategory(score),
				Feedback: stringField(entry, "feedback"),
			}
		}
	}

	return eval
}

func clampCategory(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return strings.TrimSpace(s)
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

// number accepts JSON numbers and numeric strings such as "7" or "7.5/10"
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		s := strings.TrimSpace(n)
		if i := strings.IndexByte(s, '/'); i >= 0 {
			s = strings.TrimSpace(s[:i])
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// FormatScore renders a score without trailing zeros, e.g. 7.5 or 8
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// CategoryTitle turns "technical_accuracy" into "Technical Accuracy"
func CategoryTitle(name string) string {
	spaced := strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return cases.Title(language.English).String(spaced)
}

// Render formats a structured evaluation for display. Sections whose
// fields are absent are skipped; an empty evaluation renders as "".
func Render(eval *session.StructuredEvaluation) string {
	if eval == nil {
		return ""
	}

	var sections []string

	if eval.OverallScore != nil {
		sections = append(sections, fmt.Sprintf("**Overall Score:** %s/10", FormatScore(*eval.OverallScore)))
	}

	if names := eval.CategoryNames(); len(names) > 0 {
		var b strings.Builder
		b.WriteString("**Detailed Feedback:**")
		for _, name := range names {
			c := eval.Evaluation[name]
			fmt.Fprintf(&b, "\n\n**%s:** %s/10", CategoryTitle(name), FormatScore(c.Score))
			if c.Feedback != "" {
				b.WriteString("\n" + c.Feedback)
			}
		}
		sections = append(sections, b.String())
	}

	if len(eval.Strengths) > 0 {
		sections = append(sections, bullets("**Strengths:**", eval.Strengths))
	}
	if len(eval.Improvements) > 0 {
		sections = append(sections, bullets("**Areas for Improvement:**", eval.Improvements))
	}
	if eval.Recommendation != "" {
		sections = append(sections, "**Recommendation:**\n"+eval.Recommendation)
	}

	switch {
	case eval.Question != "":
		sections = append(sections, "**Next Question:**\n"+eval.Question)
	case eval.NextQuestionHint != "":
		sections = append(sections, "**Next Question:**\n"+eval.NextQuestionHint)
	}

	return strings.Join(sections, "\n\n")
}

func bullets(title string, items []string) string {
	var b strings.Builder
	b.WriteString(title)
	for _, item := range items {
		b.WriteString("\n- " + item)
	}
	return b.String()
}
