package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kfreiman/interviewprep/internal/safety"
	"github.com/kfreiman/interviewprep/internal/session"
)

func TestResolve_AllCombinations(t *testing.T) {
	for _, role := range session.Roles {
		for _, level := range session.Levels {
			for _, domain := range session.Domains {
				for _, technique := range session.Techniques {
					cfg := session.DefaultConfig()
					cfg.Role, cfg.Level, cfg.Domain, cfg.Technique = role, level, domain, technique

					inst := Resolve(cfg)

					assert.NotEmpty(t, inst.Text)
					assert.Contains(t, inst.Text, string(role))
					assert.False(t, safety.IsTampered(inst.Text), "%s/%s/%s/%s", role, level, domain, technique)

					if technique.IsStructured() {
						assert.True(t, inst.Structured)
						assert.Contains(t, inst.Text, `"overall_score"`)
						assert.Contains(t, inst.Text, `"next_question_hint"`)
					} else {
						assert.False(t, inst.Structured)
						assert.Contains(t, inst.Text, ScoreDirective)
					}
				}
			}
		}
	}
}

func TestResolve_Tone(t *testing.T) {
	cfg := session.DefaultConfig()

	for tone, block := range toneBlocks {
		cfg.Tone = tone
		assert.Contains(t, Resolve(cfg).Text, block)
	}

	cfg.Tone = "Sarcastic"
	assert.Contains(t, Resolve(cfg).Text, "TONE: Professional and Balanced")
}

func TestResolve_UnknownTechniqueFallsBack(t *testing.T) {
	cfg := session.DefaultConfig()
	cfg.Technique = "Tree-of-Thought"

	inst := Resolve(cfg)
	assert.False(t, inst.Structured)
	assert.Contains(t, inst.Text, "Ask one question at a time")
	assert.Contains(t, inst.Text, ScoreDirective)
}

func TestResolve_SwitchingTechnique(t *testing.T) {
	cfg := session.DefaultConfig()
	cfg.Technique = session.TechniqueStructuredJSON
	assert.True(t, Resolve(cfg).Structured)

	cfg.Technique = session.TechniqueFewShot
	assert.False(t, Resolve(cfg).Structured)
}

func TestResolve_Deterministic(t *testing.T) {
	cfg := session.DefaultConfig()
	cfg.Technique = session.TechniqueMixed
	assert.Equal(t, Resolve(cfg), Resolve(cfg))
}

func TestWelcome(t *testing.T) {
	cfg := session.DefaultConfig()
	cfg.Role = session.RoleDataAnalyst

	msg := Welcome(cfg)
	assert.Contains(t, msg, "Welcome to your interview preparation session.")
	assert.Contains(t, msg, "- Role: Mid Data Analyst")
	assert.Contains(t, msg, "Tell me about yourself and why you're interested in this Data Analyst position.")
	assert.Contains(t, msg, "Remember:")

	cfg.Tone = session.ToneStrict
	assert.Contains(t, Welcome(cfg), "I maintain high standards.")
}
