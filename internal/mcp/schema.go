package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kfreiman/interviewprep/internal/session"
)

const (
	serverName    = "InterviewPrepServer"
	serverVersion = "1.0.0"
	serviceName   = "interviewprep-mcp"
)

// ServerInstructions contains the MCP server instructions for clients
const ServerInstructions = `InterviewPrep Server - Mock Interview Assistant

This server runs practice interviews. An AI interviewer asks questions for a
chosen role, level and industry, scores each answer out of 10 and keeps
running statistics for the session.

## Transport

This server uses streamable HTTP transport only. Connect via:
- POST /mcp  - Streamable HTTP transport

## Tools

### start_interview
Start a new interview. Every parameter is optional.
Parameters: role, level, domain, tone, technique, model, temperature,
max_tokens, top_p, frequency_penalty, presence_penalty

Example: {"role": "Data Scientist", "level": "Senior", "technique": "structured-json"}

Returns the session_id and the interviewer's welcome message.

### submit_answer
Send the candidate's answer and receive the interviewer's reply.
Parameters:
- session_id: Session returned by start_interview
- answer: The candidate's answer (max 2000 characters)

### update_config
Change any configuration field between turns. Takes the same optional
parameters as start_interview plus session_id.

### session_stats
Running statistics: questions asked, average score, estimated tokens and cost.

### reset_session
Clear every turn and statistic and start over with the same configuration.

### end_interview
End an interview and free its session (export first to keep it).

### export_session
Write the full session as JSON to the export directory.

### list_options
List valid roles, levels, domains, tones, techniques and models.

### list_exports
List stored session exports, newest first.

### cleanup_exports
Remove exports older than the TTL (e.g. "720h").

## Resources

- export://{name}: Read a stored session export

## Prompts

### interview_instruction
Render the system instruction the interviewer receives for a configuration.
`

// configProperties are the optional interview configuration parameters shared by several tools
func configProperties() map[string]interface{} {
	return map[string]interface{}{
		"role": map[string]interface{}{
			"type":        "string",
			"description": "Target role, e.g. 'Backend Developer' or 'backend-developer'",
			"enum":        labels(session.Roles),
		},
		"level": map[string]interface{}{
			"type":        "string",
			"description": "Seniority level",
			"enum":        labels(session.Levels),
		},
		"domain": map[string]interface{}{
			"type":        "string",
			"description": "Industry focus",
			"enum":        labels(session.Domains),
		},
		"tone": map[string]interface{}{
			"type":        "string",
			"description": "Interviewer tone",
			"enum":        labels(session.Tones),
		},
		"technique": map[string]interface{}{
			"type":        "string",
			"description": "Prompt technique. 'Structured JSON' returns a per-category evaluation.",
			"enum":        labels(session.Techniques),
		},
		"model": map[string]interface{}{
			"type":        "string",
			"description": "Model id, e.g. 'gpt-4o-mini'",
		},
		"temperature": map[string]interface{}{
			"type":    "number",
			"minimum": 0,
			"maximum": 2,
		},
		"max_tokens": map[string]interface{}{
			"type":    "integer",
			"minimum": 200,
			"maximum": 2000,
		},
		"top_p": map[string]interface{}{
			"type":    "number",
			"minimum": 0,
			"maximum": 1,
		},
		"frequency_penalty": map[string]interface{}{
			"type":    "number",
			"minimum": -2,
			"maximum": 2,
		},
		"presence_penalty": map[string]interface{}{
			"type":    "number",
			"minimum": -2,
			"maximum": 2,
		},
	}
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session id returned by start_interview",
	}
}

func withSession(props map[string]interface{}) map[string]interface{} {
	props["session_id"] = sessionProperty()
	return props
}

func labels[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// ToolDefinitions contains the MCP tool definitions
var ToolDefinitions = map[string]*mcp.Tool{
	"start_interview": {
		Name:        "start_interview",
		Description: "Start a new mock interview. Returns a session id and the interviewer's welcome message with the first question.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": configProperties(),
			"required":   []string{},
		},
	},
	"submit_answer": {
		Name:        "submit_answer",
		Description: "Submit the candidate's answer. Returns the interviewer's feedback, the parsed score and the next question.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"session_id": sessionProperty(),
				"answer": map[string]interface{}{
					"type":        "string",
					"description": "The candidate's answer",
					"maxLength":   2000,
				},
			},
			"required": []string{"session_id", "answer"},
		},
	},
	"update_config": {
		Name:        "update_config",
		Description: "Change the interview configuration. Applies from the next answer on; earlier turns are kept.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": withSession(configProperties()),
			"required":   []string{"session_id"},
		},
	},
	"session_stats": {
		Name:        "session_stats",
		Description: "Running statistics for an interview: questions asked, average score, estimated tokens and cost.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": withSession(map[string]interface{}{}),
			"required":   []string{"session_id"},
		},
	},
	"reset_session": {
		Name:        "reset_session",
		Description: "Discard every turn and statistic of an interview and start over with the same configuration.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": withSession(map[string]interface{}{}),
			"required":   []string{"session_id"},
		},
	},
	"end_interview": {
		Name:        "end_interview",
		Description: "End an interview and free its session. Export it first to keep the transcript.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": withSession(map[string]interface{}{}),
			"required":   []string{"session_id"},
		},
	},
	"export_session": {
		Name:        "export_session",
		Description: "Write the full interview (configuration, transcript, scores, statistics) as JSON. Returns the export name.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": withSession(map[string]interface{}{}),
			"required":   []string{"session_id"},
		},
	},
	"list_options": {
		Name:        "list_options",
		Description: "List valid roles, levels, domains, tones, techniques and models.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
			"required":   []string{},
		},
	},
	"list_exports": {
		Name:        "list_exports",
		Description: "List stored session exports, newest first. Read one through the export://{name} resource.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
			"required":   []string{},
		},
	},
	"cleanup_exports": {
		Name:        "cleanup_exports",
		Description: "Remove session exports older than the specified TTL.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"ttl": map[string]interface{}{
					"type":        "string",
					"description": "Time to live (e.g., '720h', or hours as number). Uses default TTL if not specified.",
				},
			},
			"required": []string{},
		},
	},
}

// PromptDefinitions contains the MCP prompt definitions
var PromptDefinitions = []*mcp.Prompt{
	{
		Name:        "interview_instruction",
		Description: "Render the system instruction the interviewer receives for a configuration",
		Arguments: []*mcp.PromptArgument{
			{Name: "role", Title: "Role", Description: "Target role"},
			{Name: "level", Title: "Level", Description: "Seniority level"},
			{Name: "domain", Title: "Domain", Description: "Industry focus"},
			{Name: "tone", Title: "Tone", Description: "Interviewer tone"},
			{Name: "technique", Title: "Technique", Description: "Prompt technique"},
		},
	},
}

// ResourceTemplateDefinitions contains the MCP resource template definitions
var ResourceTemplateDefinitions = []mcp.ResourceTemplate{
	{
		URITemplate: "export://{name}",
		Name:        "Session Export",
		Description: "A stored interview session export",
		MIMEType:    "application/json",
	},
}
