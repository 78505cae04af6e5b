package interpret

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kfreiman/interviewprep/internal/session"
)

func TestPlainScore(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *float64
	}{
		{"clamps high", "Nice work.\n\n**Score: 13.5/10**", ptr(10)},
		{"clamps low", "**Score: 0/10**", ptr(1)},
		{"decimal", "**Score: 7.5/10**", ptr(7.5)},
		{"emphasis around number", "**Score:** 8/10", ptr(8)},
		{"no emphasis", "Score: 6 / 10", ptr(6)},
		{"first match wins", "**Score: 4/10** ... later **Score: 9/10**", ptr(4)},
		{"lowercase", "score: 5/10", ptr(5)},
		{"no match", "Good answer, next question please.", nil},
		{"different denominator", "Score: 4/5", nil},
		{"out of a hundred", "Overall Score: 85/100 on the rubric.", nil},
		{"out of a hundred then out of ten", "Score: 85/100, which is **Score: 8.5/10**", ptr(8.5)},
		{"trailing period", "Score: 9/10.", ptr(9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlainScore(tt.raw)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestInterpret_NonStructured(t *testing.T) {
	raw := "```json\n{\"overall_score\": 7}\n```\n**Score: 7/10**"
	res := Interpret(raw, false)

	assert.Nil(t, res.Structured)
	assert.Equal(t, raw, res.DisplayText)
	require.NotNil(t, res.PlainScore)
	assert.Equal(t, 7.0, *res.PlainScore)
}

func TestInterpret_FencedBlock(t *testing.T) {
	raw := "Here is my evaluation of your answer.\n\n```json\n" + `{
  "question": "How would you shard a user table?",
  "evaluation": {
    "technical_accuracy": {"score": 8, "feedback": "Correct use of indexes"},
    "communication": {"score": 6, "feedback": "A bit rushed"}
  },
  "overall_score": 7,
  "strengths": ["Clear structure", "Good trade-off discussion"],
  "improvements": ["Mention monitoring"],
  "recommendation": "Practice capacity estimates"
}` + "\n```\nGood luck!"

	res := Interpret(raw, true)

	require.NotNil(t, res.Structured)
	require.NotNil(t, res.Structured.OverallScore)
	assert.Equal(t, 7.0, *res.Structured.OverallScore)
	assert.Len(t, res.Structured.Strengths, 2)
	assert.Equal(t, 8.0, res.Structured.Evaluation["technical_accuracy"].Score)

	assert.Contains(t, res.DisplayText, "**Overall Score:** 7/10")
	assert.Contains(t, res.DisplayText, "**Technical Accuracy:** 8/10\nCorrect use of indexes")
	assert.Contains(t, res.DisplayText, "- Good trade-off discussion")
	assert.Contains(t, res.DisplayText, "**Areas for Improvement:**\n- Mention monitoring")
	assert.Contains(t, res.DisplayText, "**Next Question:**\nHow would you shard a user table?")
	assert.NotContains(t, res.DisplayText, "Good luck!")
	assert.Nil(t, res.PlainScore)
}

func TestInterpret_FallbackOrder(t *testing.T) {
	t.Run("whole document", func(t *testing.T) {
		res := Interpret(`{"overall_score": 9, "recommendation": "Hire"}`, true)
		require.NotNil(t, res.Structured)
		assert.Equal(t, 9.0, *res.Structured.OverallScore)
		assert.Equal(t, "**Overall Score:** 9/10\n\n**Recommendation:**\nHire", res.DisplayText)
	})

	t.Run("brace span inside prose", func(t *testing.T) {
		raw := `Sure! {"overall_score": 5, "strengths": ["Honest"]} Hope that helps.`
		res := Interpret(raw, true)
		require.NotNil(t, res.Structured)
		assert.Equal(t, 5.0, *res.Structured.OverallScore)
		assert.Equal(t, []string{"Honest"}, res.Structured.Strengths)
	})

	t.Run("brace span skips non-json braces", func(t *testing.T) {
		raw := `Use a map like {key -> value}. {"overall_score": 6}`
		res := Interpret(raw, true)
		require.NotNil(t, res.Structured)
		assert.Equal(t, 6.0, *res.Structured.OverallScore)
	})

	t.Run("braces inside strings", func(t *testing.T) {
		raw := `Result: {"recommendation": "Write {clean} code", "overall_score": 8}`
		res := Interpret(raw, true)
		require.NotNil(t, res.Structured)
		assert.Equal(t, "Write {clean} code", res.Structured.Recommendation)
	})

	t.Run("json array is not an evaluation", func(t *testing.T) {
		res := Interpret(`[1, 2, 3]`, true)
		assert.Nil(t, res.Structured)
	})

	t.Run("malformed json", func(t *testing.T) {
		raw := "```json\n{\"overall_score\": 7,\n```"
		res := Interpret(raw, true)
		assert.Nil(t, res.Structured)
		assert.Equal(t, raw, res.DisplayText)
	})
}

func TestInterpret_StructuredProse(t *testing.T) {
	raw := "That was a solid answer with good examples.\n\n**Score: 8/10**\n\nNext: describe a conflict you resolved."
	res := Interpret(raw, true)

	assert.Nil(t, res.Structured)
	assert.Equal(t, raw, res.DisplayText)
	require.NotNil(t, res.PlainScore)
	assert.Equal(t, 8.0, *res.PlainScore)
}

func TestInterpret_Tolerance(t *testing.T) {
	raw := `{
  "evaluation": {
    "completeness": {"score": "12", "feedback": "ok"},
    "problem_solving": "great",
    "communication": {"score": -3}
  },
  "overall_score": "7.5/10",
  "strengths": ["a", 3, ""]
}`
	res := Interpret(raw, true)
	require.NotNil(t, res.Structured)

	eval := res.Structured
	assert.Equal(t, 10.0, eval.Evaluation["completeness"].Score)
	assert.Equal(t, 0.0, eval.Evaluation["communication"].Score)
	assert.NotContains(t, eval.Evaluation, "problem_solving")
	assert.Equal(t, 7.5, *eval.OverallScore)
	assert.Equal(t, []string{"a"}, eval.Strengths)

	// canonical categories render first
	assert.Less(t,
		strings.Index(res.DisplayText, "**Communication:**"),
		strings.Index(res.DisplayText, "**Completeness:**"),
	)
}

func TestInterpret_EmptyObjectIsAbsent(t *testing.T) {
	for _, raw := range []string{
		`{}`,
		"Sure! {} Here is my next question.",
		"```json\n{}\n```",
	} {
		res := Interpret(raw, true)
		assert.Nil(t, res.Structured, raw)
		assert.Equal(t, raw, res.DisplayText)
	}

	// a later non-empty object is still found
	res := Interpret(`Sure! {} then {"overall_score": 6}`, true)
	require.NotNil(t, res.Structured)
	assert.Equal(t, 6.0, *res.Structured.OverallScore)
}

func TestInterpret_Idempotent(t *testing.T) {
	raw := "```json\n{\"overall_score\": 7, \"strengths\": [\"x\", \"y\"], \"evaluation\": {\"communication\": {\"score\": 7, \"feedback\": \"f\"}, \"leadership\": {\"score\": 5}}}\n```\n**Score: 7/10**"

	first := Interpret(raw, true)
	second := Interpret(raw, true)
	assert.Equal(t, first, second)
}

func TestCategoryTitle(t *testing.T) {
	assert.Equal(t, "Technical Accuracy", CategoryTitle("technical_accuracy"))
	assert.Equal(t, "Problem Solving", CategoryTitle("problem-solving"))
	assert.Equal(t, "Leadership", CategoryTitle("leadership"))
}

func TestRender_Nil(t *testing.T) {
	assert.Equal(t, "", Render(nil))
	assert.Equal(t, "", Render(&session.StructuredEvaluation{}))
}

func ptr(f float64) *float64 { return &f }
