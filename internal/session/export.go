package session

import (
	"encoding/json"
	"fmt"
	"time"
)

// ExportDocument is the one-way JSON snapshot written on an explicit export
type ExportDocument struct {
	SessionID            string                 `json:"session_id"`
	Role                 Role                   `json:"role"`
	Level                Level                  `json:"level"`
	Domain               Domain                 `json:"domain"`
	Tone                 Tone                   `json:"tone"`
	Technique            Technique              `json:"technique"`
	ModelID              string                 `json:"model_id"`
	Turns                []Turn                 `json:"turns"`
	ResponseScores       []ScoreEntry           `json:"response_scores"`
	StructuredScoreLog   []StructuredScoreEntry `json:"structured_score_log"`
	AverageScore         float64                `json:"average_score"`
	QuestionCount        int                    `json:"question_count"`
	SessionDuration      string                 `json:"session_duration"`
	TotalEstimatedTokens int                    `json:"total_estimated_tokens"`
	TotalEstimatedCost   float64                `json:"total_estimated_cost"`
	StartedAt            time.Time              `json:"started_at"`
	ExportedAt           time.Time              `json:"exported_at"`
}

// Export snapshots the state into an export document
func (s State) Export(now time.Time) ExportDocument {
	c := s.Clone()

	// Encode empty logs as [] rather than null
	if c.Turns == nil {
		c.Turns = []Turn{}
	}
	if c.ResponseScores == nil {
		c.ResponseScores = []ScoreEntry{}
	}
	if c.StructuredScoreLog == nil {
		c.StructuredScoreLog = []StructuredScoreEntry{}
	}

	return ExportDocument{
		SessionID:            c.ID,
		Role:                 c.Config.Role,
		Level:                c.Config.Level,
		Domain:               c.Config.Domain,
		Tone:                 c.Config.Tone,
		Technique:            c.Config.Technique,
		ModelID:              c.Config.ModelID,
		Turns:                c.Turns,
		ResponseScores:       c.ResponseScores,
		StructuredScoreLog:   c.StructuredScoreLog,
		AverageScore:         c.AverageScore(),
		QuestionCount:        c.QuestionCount,
		SessionDuration:      now.Sub(c.StartedAt).Round(time.Second).String(),
		TotalEstimatedTokens: c.TotalEstimatedTokens,
		TotalEstimatedCost:   c.TotalEstimatedCost,
		StartedAt:            c.StartedAt,
		ExportedAt:           now,
	}
}

// ToJSON renders the document as indented JSON
func (d ExportDocument) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export document: %w", err)
	}
	return data, nil
}

// Summary is the running statistics shown while an interview is in progress
type Summary struct {
	SessionID            string    `json:"session_id"`
	QuestionCount        int       `json:"question_count"`
	ScoredAnswers        int       `json:"scored_answers"`
	AverageScore         float64   `json:"average_score"`
	Duration             string    `json:"duration"`
	TotalEstimatedTokens int       `json:"total_estimated_tokens"`
	TotalEstimatedCost   float64   `json:"total_estimated_cost"`
	Technique            Technique `json:"technique"`
	ModelID              string    `json:"model_id"`
}

// Summarize reports the running statistics of the interview
func (s State) Summarize(now time.Time) Summary {
	return Summary{
		SessionID:            s.ID,
		QuestionCount:        s.QuestionCount,
		ScoredAnswers:        len(s.ResponseScores),
		AverageScore:         s.AverageScore(),
		Duration:             now.Sub(s.StartedAt).Round(time.Second).String(),
		TotalEstimatedTokens: s.TotalEstimatedTokens,
		TotalEstimatedCost:   s.TotalEstimatedCost,
		Technique:            s.Config.Technique,
		ModelID:              s.Config.ModelID,
	}
}
