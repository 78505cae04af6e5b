// Package prompt derives the interviewer's system instruction from an interview configuration.
package prompt

import (
	"strings"

	"github.com/kfreiman/interviewprep/internal/session"
)

// Instruction is the resolved system instruction for one turn
type Instruction struct {
	Text string
	// Structured asks the gateway for the provider's JSON output mode
	Structured bool
}

// Resolve builds the system instruction for the given configuration.
// It is recomputed for every turn and never fails: an unknown technique
// or tone falls back to generic text.
func Resolve(cfg session.Config) Instruction {
	build, ok := builders[cfg.Technique]
	if !ok {
		build = generic
	}

	tone, ok := toneBlocks[cfg.Tone]
	if !ok {
		tone = toneBlocks[session.ToneProfessional]
	}

	structured := cfg.Technique.IsStructured()
	closing := scoringBlock
	if structured {
		closing = schemaBlock
	}

	parts := []string{
		strings.TrimSpace(build(cfg.Role, cfg.Level, cfg.Domain)),
		tone,
		closing,
	}

	return Instruction{
		Text:       strings.Join(parts, "\n\n"),
		Structured: structured,
	}
}
