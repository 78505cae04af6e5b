package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kfreiman/interviewprep/internal/prompt"
	"github.com/kfreiman/interviewprep/internal/safety"
	"github.com/kfreiman/interviewprep/internal/session"
)

// InstructionPrompt handles the interview_instruction prompt
type InstructionPrompt struct {
	defaults session.Config
}

// NewInstructionPrompt creates a new interview instruction prompt
func NewInstructionPrompt(defaults session.Config) *InstructionPrompt {
	return &InstructionPrompt{
		defaults: defaults,
	}
}

// Handle implements the prompt handler interface
func (p *InstructionPrompt) Handle(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	args := req.Params.Arguments

	cfg, err := session.Profile{
		Role:      args["role"],
		Level:     args["level"],
		Domain:    args["domain"],
		Tone:      args["tone"],
		Technique: args["technique"],
	}.Apply(p.defaults)
	if err != nil {
		return nil, err
	}

	instruction := prompt.Resolve(cfg)
	if err := safety.CheckInstruction(instruction.Text); err != nil {
		return nil, err
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("%s interview instruction for a %s %s", cfg.Technique, cfg.Level, cfg.Role),
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: instruction.Text,
				},
			},
		},
	}, nil
}
