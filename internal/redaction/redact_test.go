package redaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kfreiman/interviewprep/internal/session"
)

func TestRedact_Emails(t *testing.T) {
	redacted := DefaultRedactor.Redact("Contact me at john.doe@example.com or support@company.org")

	assert.NotContains(t, redacted, "john.doe@example.com")
	assert.NotContains(t, redacted, "support@company.org")
	assert.Contains(t, redacted, "[EMAIL_REDACTED]")
}

func TestRedact_Phones(t *testing.T) {
	redacted := DefaultRedactor.Redact("Call me at 555-123-4567 or +1 (800) 555-0123")

	assert.NotContains(t, redacted, "555-123-4567")
	assert.NotContains(t, redacted, "555-0123")
	assert.Contains(t, redacted, "[PHONE_REDACTED]")
}

func TestRedact_SSNs(t *testing.T) {
	redacted := DefaultRedactor.Redact("SSN: 123-45-6789")

	assert.NotContains(t, redacted, "123-45-6789")
	assert.Contains(t, redacted, "[SSN_REDACTED]")
}

func TestRedact_CreditCards(t *testing.T) {
	redacted := DefaultRedactor.Redact("Card number: 4111 1111 1111 1111")

	assert.NotContains(t, redacted, "4111")
	assert.Contains(t, redacted, "[CREDIT_CARD_REDACTED]")
}

func TestRedact_NoPII(t *testing.T) {
	text := "I reduced p99 latency from 800ms to 120ms over 3 months in 2023."
	assert.Equal(t, text, DefaultRedactor.Redact(text))
}

func TestRedact_ScoreLinesSurvive(t *testing.T) {
	text := "Great answer.\n\n**Score: 8/10**"
	assert.Equal(t, text, DefaultRedactor.Redact(text))
}

func TestRedactDocument(t *testing.T) {
	doc := session.ExportDocument{
		Turns: []session.Turn{
			{Speaker: session.SpeakerAssistant, Text: "Tell me about yourself."},
			{Speaker: session.SpeakerUser, Text: "I'm Jane, reach me at jane@corp.com"},
		},
	}

	redacted := RedactDocument(doc)

	assert.Equal(t, "I'm Jane, reach me at [EMAIL_REDACTED]", redacted.Turns[1].Text)
	assert.Equal(t, "I'm Jane, reach me at jane@corp.com", doc.Turns[1].Text)
	assert.Equal(t, doc.Turns[0], redacted.Turns[0])
}

func TestRedactDocument_StructuredFields(t *testing.T) {
	overall := 7.0
	eval := &session.StructuredEvaluation{
		Question: "Jane, what would you change?",
		Evaluation: map[string]session.CategoryScore{
			"communication": {Score: 7, Feedback: "Mentions jane.doe@example.com unprompted"},
		},
		OverallScore:     &overall,
		Strengths:        []string{"Shared a contact number 555-123-4567"},
		Improvements:     []string{"Avoid quoting SSN 123-45-6789"},
		Recommendation:   "Follow up at jane.doe@example.com",
		NextQuestionHint: "Ask about 555-123-4567",
	}
	doc := session.ExportDocument{
		Turns: []session.Turn{
			{Speaker: session.SpeakerAssistant, Text: "rendered", StructuredScores: eval},
		},
		StructuredScoreLog: []session.StructuredScoreEntry{
			{TurnIndex: 0, OverallScore: &overall, Details: eval.Evaluation},
		},
	}

	redacted := RedactDocument(doc)
	data, err := redacted.ToJSON()
	require.NoError(t, err)

	out := string(data)
	assert.NotContains(t, out, "jane.doe@example.com")
	assert.NotContains(t, out, "555-123-4567")
	assert.NotContains(t, out, "123-45-6789")
	assert.Contains(t, out, "[EMAIL_REDACTED]")
	assert.Contains(t, out, "[PHONE_REDACTED]")
	assert.Equal(t, 7.0, *redacted.Turns[0].StructuredScores.OverallScore)

	// the source document is untouched
	assert.Equal(t, "Mentions jane.doe@example.com unprompted", eval.Evaluation["communication"].Feedback)
	assert.Equal(t, "Shared a contact number 555-123-4567", eval.Strengths[0])
	assert.Equal(t, "Mentions jane.doe@example.com unprompted", doc.StructuredScoreLog[0].Details["communication"].Feedback)
}
