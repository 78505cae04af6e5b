package session

import (
	"maps"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Plain scores are always stored inside this range
const (
	MinScore = 1.0
	MaxScore = 10.0
)

// Speaker identifies who produced a turn
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// CategoryScore is one scored dimension of a structured evaluation
type CategoryScore struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

// canonicalCategories are listed first, in this order, when rendering an evaluation
var canonicalCategories = []string{
	"technical_accuracy",
	"communication",
	"problem_solving",
	"completeness",
}

// StructuredEvaluation is the machine-parseable scoring object returned in structured mode
type StructuredEvaluation struct {
	Question         string                   `json:"question,omitempty"`
	Evaluation       map[string]CategoryScore `json:"evaluation,omitempty"`
	OverallScore     *float64                 `json:"overall_score,omitempty"`
	Strengths        []string                 `json:"strengths,omitempty"`
	Improvements     []string                 `json:"improvements,omitempty"`
	Recommendation   string                   `json:"recommendation,omitempty"`
	NextQuestionHint string                   `json:"next_question_hint,omitempty"`
}

// CategoryNames returns the evaluation categories in display order:
// the canonical four first, then anything else alphabetically
func (e *StructuredEvaluation) CategoryNames() []string {
	if e == nil || len(e.Evaluation) == 0 {
		return nil
	}

	names := make([]string, 0, len(e.Evaluation))
	for _, name := range canonicalCategories {
		if _, ok := e.Evaluation[name]; ok {
			names = append(names, name)
		}
	}

	var extra []string
	for name := range e.Evaluation {
		if !slices.Contains(canonicalCategories, name) {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)

	return append(names, extra...)
}

// Turn is a single immutable entry in the transcript
type Turn struct {
	Speaker          Speaker               `json:"speaker"`
	Text             string                `json:"text"`
	ParsedScore      *float64              `json:"parsed_score,omitempty"`
	StructuredScores *StructuredEvaluation `json:"structured_scores,omitempty"`
}

// ScoreEntry is a plain score extracted from an assistant turn
type ScoreEntry struct {
	TurnIndex    int     `json:"turn_index"`
	OverallScore float64 `json:"overall_score"`
}

// StructuredScoreEntry is a structured evaluation extracted from an assistant turn
type StructuredScoreEntry struct {
	TurnIndex    int                      `json:"turn_index"`
	OverallScore *float64                 `json:"overall_score"`
	Details      map[string]CategoryScore `json:"details"`
}

// State is the complete record of one interview. Operations take a State
// value and return a new one; the value passed in is never modified.
type State struct {
	ID                   string                 `json:"id"`
	Config               Config                 `json:"config"`
	Turns                []Turn                 `json:"turns"`
	ResponseScores       []ScoreEntry           `json:"response_scores"`
	StructuredScoreLog   []StructuredScoreEntry `json:"structured_score_log"`
	QuestionCount        int                    `json:"question_count"`
	TotalEstimatedTokens int                    `json:"total_estimated_tokens"`
	TotalEstimatedCost   float64                `json:"total_estimated_cost"`
	StartedAt            time.Time              `json:"started_at"`
}

// New creates an empty interview state
func New(cfg Config, now time.Time) State {
	return State{
		ID:        uuid.NewString(),
		Config:    cfg,
		StartedAt: now,
	}
}

// Clone returns a copy whose slices do not alias the receiver's
func (s State) Clone() State {
	c := s
	c.Turns = slices.Clone(s.Turns)
	c.ResponseScores = slices.Clone(s.ResponseScores)
	c.StructuredScoreLog = slices.Clone(s.StructuredScoreLog)
	return c
}

// AverageScore is the mean over every recorded plain score, or 0 when none exist
func (s State) AverageScore() float64 {
	if len(s.ResponseScores) == 0 {
		return 0
	}
	var sum float64
	for _, entry := range s.ResponseScores {
		sum += entry.OverallScore
	}
	return sum / float64(len(s.ResponseScores))
}

// Scored reports whether at least one plain score has been recorded
func (s State) Scored() bool {
	return len(s.ResponseScores) > 0
}

// ClampScore pulls a plain score into [MinScore, MaxScore]
func ClampScore(score float64) float64 {
	return clampFloat64(score, MinScore, MaxScore)
}

// Record appends a turn and folds its scores into the running statistics.
// Structured evaluations are only logged while the structured technique is active.
func Record(s State, speaker Speaker, text string, plain *float64, structured *StructuredEvaluation) State {
	next := s.Clone()
	index := len(next.Turns)

	turn := Turn{Speaker: speaker, Text: text}

	if plain != nil {
		score := ClampScore(*plain)
		turn.ParsedScore = &score
		next.ResponseScores = append(next.ResponseScores, ScoreEntry{
			TurnIndex:    index,
			OverallScore: score,
		})
	}

	if structured != nil && next.Config.Technique.IsStructured() {
		turn.StructuredScores = structured
		next.StructuredScoreLog = append(next.StructuredScoreLog, StructuredScoreEntry{
			TurnIndex:    index,
			OverallScore: structured.OverallScore,
			Details:      maps.Clone(structured.Evaluation),
		})
	}

	next.Turns = append(next.Turns, turn)
	return next
}

// Exchange is one answered question: the candidate's answer and the interpreted reply
type Exchange struct {
	Answer     string
	Reply      string
	RawReply   string
	PlainScore *float64
	Structured *StructuredEvaluation
}

// Apply records both sides of an exchange, bumps the question counter and
// accounts for the estimated token usage of the call
func Apply(s State, ex Exchange) State {
	next := Record(s, SpeakerUser, ex.Answer, nil, nil)
	next = Record(next, SpeakerAssistant, ex.Reply, ex.PlainScore, ex.Structured)
	next.QuestionCount++
	return AccountUsage(next, ex.Answer, ex.RawReply)
}

// AccountUsage adds the estimated tokens and cost of one model call
func AccountUsage(s State, input, output string) State {
	next := s.Clone()
	tokens := EstimateTokens(input, output)
	next.TotalEstimatedTokens += int(tokens)
	next.TotalEstimatedCost += EstimateCost(tokens, next.Config.ModelID)
	return next
}
