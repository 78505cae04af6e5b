package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kfreiman/interviewprep/internal/storage"
)

// ListExportsTool handles listing stored session exports
type ListExportsTool struct {
	exporter *storage.Exporter
}

// NewListExportsTool creates a new list exports tool
func NewListExportsTool(exporter *storage.Exporter) *ListExportsTool {
	return &ListExportsTool{
		exporter: exporter,
	}
}

// Call implements the MCP tool interface
func (t *ListExportsTool) Call(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exports, err := t.exporter.List()
	if err != nil {
		return errorResult(err), nil
	}

	if len(exports) == 0 {
		return textResult("No session exports found."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Session Exports (%d):\n\n", len(exports))
	for _, exp := range exports {
		fmt.Fprintf(&b, "- export://%s (%d bytes, %s)\n", exp.Name, exp.Size, exp.ModTime.UTC().Format("2006-01-02 15:04:05"))
	}

	return textResult(b.String()), nil
}
