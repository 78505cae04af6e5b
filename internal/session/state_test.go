package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func newTestState(technique Technique) State {
	cfg := DefaultConfig()
	cfg.Technique = technique
	return New(cfg, time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC))
}

func TestNew(t *testing.T) {
	s := newTestState(TechniqueZeroShot)

	assert.NotEmpty(t, s.ID)
	assert.Empty(t, s.Turns)
	assert.Equal(t, 0.0, s.AverageScore())
	assert.False(t, s.Scored())
	assert.Equal(t, 0, s.QuestionCount)
}

func TestRecord_AverageScore(t *testing.T) {
	t.Run("mean over every recorded score", func(t *testing.T) {
		s := newTestState(TechniqueZeroShot)
		for _, score := range []float64{6, 8, 10} {
			s = Record(s, SpeakerUser, "answer", nil, nil)
			s = Record(s, SpeakerAssistant, "feedback", ptr(score), nil)
		}

		require.Len(t, s.ResponseScores, 3)
		assert.Equal(t, 8.0, s.AverageScore())

		s = Record(s, SpeakerUser, "answer", nil, nil)
		s = Record(s, SpeakerAssistant, "no score here", nil, nil)

		assert.Len(t, s.ResponseScores, 3)
		assert.Equal(t, 8.0, s.AverageScore())
		assert.Len(t, s.Turns, 8)
	})

	t.Run("turn index points at the scored assistant turn", func(t *testing.T) {
		s := newTestState(TechniqueZeroShot)
		s = Record(s, SpeakerAssistant, "welcome", nil, nil)
		s = Record(s, SpeakerUser, "answer", nil, nil)
		s = Record(s, SpeakerAssistant, "**Score: 7/10**", ptr(7), nil)

		require.Len(t, s.ResponseScores, 1)
		assert.Equal(t, 2, s.ResponseScores[0].TurnIndex)
		require.NotNil(t, s.Turns[2].ParsedScore)
		assert.Equal(t, 7.0, *s.Turns[2].ParsedScore)
	})

	t.Run("scores are clamped before storage", func(t *testing.T) {
		s := newTestState(TechniqueZeroShot)
		s = Record(s, SpeakerAssistant, "a", ptr(13.5), nil)
		s = Record(s, SpeakerAssistant, "b", ptr(0), nil)

		assert.Equal(t, 10.0, s.ResponseScores[0].OverallScore)
		assert.Equal(t, 1.0, s.ResponseScores[1].OverallScore)
	})
}

func TestRecord_DoesNotMutateInput(t *testing.T) {
	before := newTestState(TechniqueZeroShot)
	before = Record(before, SpeakerAssistant, "first", ptr(5), nil)

	after := Record(before, SpeakerAssistant, "second", ptr(9), nil)

	assert.Len(t, before.Turns, 1)
	assert.Len(t, before.ResponseScores, 1)
	assert.Equal(t, 5.0, before.AverageScore())
	assert.Len(t, after.Turns, 2)
	assert.Equal(t, 7.0, after.AverageScore())
}

func TestRecord_StructuredLog(t *testing.T) {
	eval := &StructuredEvaluation{
		OverallScore: ptr(7),
		Evaluation: map[string]CategoryScore{
			"communication": {Score: 8, Feedback: "clear"},
		},
	}

	t.Run("logged while structured technique is active", func(t *testing.T) {
		s := newTestState(TechniqueStructuredJSON)
		s = Record(s, SpeakerAssistant, "display", ptr(6), eval)

		require.Len(t, s.StructuredScoreLog, 1)
		entry := s.StructuredScoreLog[0]
		assert.Equal(t, 0, entry.TurnIndex)
		assert.Equal(t, 7.0, *entry.OverallScore)
		assert.Equal(t, "clear", entry.Details["communication"].Feedback)

		// The two logs are kept independently
		assert.Equal(t, 6.0, s.ResponseScores[0].OverallScore)
	})

	t.Run("ignored for other techniques", func(t *testing.T) {
		s := newTestState(TechniqueFewShot)
		s = Record(s, SpeakerAssistant, "display", nil, eval)

		assert.Empty(t, s.StructuredScoreLog)
		assert.Nil(t, s.Turns[0].StructuredScores)
	})
}

func TestApply(t *testing.T) {
	s := newTestState(TechniqueZeroShot)
	s = Apply(s, Exchange{
		Answer:     "one two three four five six seven eight nine ten",
		Reply:      "great answer **Score: 8/10**",
		RawReply:   "great answer **Score: 8/10**",
		PlainScore: ptr(8),
	})

	require.Len(t, s.Turns, 2)
	assert.Equal(t, SpeakerUser, s.Turns[0].Speaker)
	assert.Equal(t, SpeakerAssistant, s.Turns[1].Speaker)
	assert.Equal(t, 1, s.QuestionCount)
	assert.Equal(t, 1, s.ResponseScores[0].TurnIndex)

	// 14 words * 1.3 = 18.2
	assert.Equal(t, 18, s.TotalEstimatedTokens)
	assert.InDelta(t, 18.2/1000*0.00015, s.TotalEstimatedCost, 1e-12)
}

func TestAccountUsage(t *testing.T) {
	s := newTestState(TechniqueZeroShot)
	s.Config.ModelID = "some-unknown-model"

	s = AccountUsage(s, "ten words of input for the model to read here", "")

	assert.Equal(t, 13, s.TotalEstimatedTokens)
	assert.InDelta(t, 13.0/1000*DefaultRatePer1K, s.TotalEstimatedCost, 1e-12)
}

func TestCategoryNames(t *testing.T) {
	eval := &StructuredEvaluation{
		Evaluation: map[string]CategoryScore{
			"creativity":         {},
			"completeness":       {},
			"technical_accuracy": {},
			"authenticity":       {},
		},
	}

	assert.Equal(t,
		[]string{"technical_accuracy", "completeness", "authenticity", "creativity"},
		eval.CategoryNames(),
	)

	var empty *StructuredEvaluation
	assert.Nil(t, empty.CategoryNames())
}
