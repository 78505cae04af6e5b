package mcp

import (
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kfreiman/interviewprep/internal/coach"
	"github.com/kfreiman/interviewprep/internal/gateway"
	"github.com/kfreiman/interviewprep/internal/safety"
	"github.com/kfreiman/interviewprep/internal/session"
	"github.com/kfreiman/interviewprep/internal/storage"
)

// ArgumentError represents a tool call with malformed arguments
type ArgumentError struct {
	Tool string
	Err  error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %v", e.Tool, e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// userMessage maps a domain error onto the text the client should show.
// Internal detail stays in the logs.
func userMessage(err error) string {
	var (
		rejected  *safety.RejectedInputError
		tampered  *safety.TamperedInstructionError
		gwErr     *gateway.GatewayError
		invalid   *session.ValidationError
		storeErr  *storage.StorageError
		argsError *ArgumentError
	)

	switch {
	case errors.As(err, &rejected):
		return rejected.UserMessage()
	case errors.Is(err, coach.ErrSessionNotFound):
		return "Interview session not found. Start a new one with start_interview."
	case errors.Is(err, coach.ErrTurnInProgress):
		return "The interviewer is still answering your previous message. Please wait."
	case errors.As(err, &tampered):
		return "The interview configuration produced an unsafe instruction. Choose a different configuration."
	case errors.As(err, &gwErr):
		return "The interviewer is unavailable right now. Your answer was not recorded; please try again."
	case errors.As(err, &invalid):
		return invalid.Error()
	case errors.As(err, &storeErr):
		return "Failed to write the export. Check the export directory and try again."
	case errors.As(err, &argsError):
		return argsError.Error()
	default:
		return "Unexpected error: " + err.Error()
	}
}

// errorResult reports a failed tool call to the client
func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: userMessage(err)},
		},
	}
}

// textResult wraps plain text in a tool result
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}
