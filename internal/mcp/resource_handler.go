package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kfreiman/interviewprep/internal/storage"
)

const exportScheme = "export://"

// ExportResourceHandler handles export:// resource requests
type ExportResourceHandler struct {
	exporter *storage.Exporter
}

// NewExportResourceHandler creates a new export resource handler
func NewExportResourceHandler(exporter *storage.Exporter) *ExportResourceHandler {
	return &ExportResourceHandler{
		exporter: exporter,
	}
}

// ReadResource returns the JSON of a stored export
func (h *ExportResourceHandler) ReadResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI

	if !strings.HasPrefix(uri, exportScheme) {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	content, err := h.exporter.Read(strings.TrimPrefix(uri, exportScheme))
	if err != nil {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(content),
		}},
	}, nil
}
