package mcp

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kfreiman/interviewprep/internal/storage"
)

// CleanupExportsTool handles export cleanup
type CleanupExportsTool struct {
	exporter *storage.Exporter
	logger   *slog.Logger
}

// NewCleanupExportsTool creates a new cleanup exports tool
func NewCleanupExportsTool(exporter *storage.Exporter) *CleanupExportsTool {
	return &CleanupExportsTool{
		exporter: exporter,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithLogger sets the logger for the tool
func (t *CleanupExportsTool) WithLogger(logger *slog.Logger) *CleanupExportsTool {
	t.logger = logger
	return t
}

// parseTTL accepts a duration string ("720h") or a whole number of hours
func parseTTL(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	if ttl, err := time.ParseDuration(raw); err == nil {
		return ttl, nil
	}
	hours, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid TTL format %q: use a duration string (e.g. '720h') or hours as number", raw)
	}
	return time.Duration(hours) * time.Hour, nil
}

// Call implements the MCP tool interface
func (t *CleanupExportsTool) Call(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		TTL string `json:"ttl"`
	}
	if err := decode("cleanup_exports", request, &args); err != nil {
		return errorResult(err), nil
	}

	ttl, err := parseTTL(args.TTL)
	if err != nil {
		t.logger.ErrorContext(ctx, "invalid TTL format",
			"error", err,
			"ttl_input", args.TTL,
			"operation", "cleanup_exports",
		)
		return errorResult(&ArgumentError{Tool: "cleanup_exports", Err: err}), nil
	}

	before, err := t.exporter.List()
	if err != nil {
		return errorResult(err), nil
	}

	removed, err := t.exporter.Cleanup(ttl)
	if err != nil {
		t.logger.ErrorContext(ctx, "cleanup operation failed",
			"error", err,
			"ttl", ttl,
			"operation", "cleanup_exports",
		)
		return errorResult(err), nil
	}

	ttlDisplay := "default"
	if ttl > 0 {
		ttlDisplay = ttl.String()
	}

	t.logger.InfoContext(ctx, "export cleanup completed via tool",
		"ttl", ttlDisplay,
		"removed", removed,
		"before", len(before),
	)

	return textResult(fmt.Sprintf(`Export cleanup completed!

TTL used: %s
Exports before: %d
Exports removed: %d`, ttlDisplay, len(before), removed)), nil
}

// StartCleanupRoutine removes expired exports every interval until ctx is done
func StartCleanupRoutine(ctx context.Context, exporter *storage.Exporter, interval, ttl time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed, err := exporter.Cleanup(ttl); err == nil {
					logger.InfoContext(ctx, "periodic export cleanup completed",
						"removed", removed,
						"interval", interval,
						"ttl", ttl,
					)
				}
			}
		}
	}()
}
