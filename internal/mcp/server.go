// Package mcp exposes mock interviews as MCP tools over streamable HTTP.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kfreiman/interviewprep/internal/coach"
	"github.com/kfreiman/interviewprep/internal/storage"
)

// Server encapsulates the MCP server with all its dependencies
type Server struct {
	mcpServer *mcp.Server
	registry  *coach.Registry
	exporter  *storage.Exporter
	logger    *slog.Logger
	config    Config
}

// NewServer creates a new MCP server with the given configuration
func NewServer(cfg Config, registry *coach.Registry, exporter *storage.Exporter, logger *slog.Logger) (*Server, error) {
	if registry == nil {
		return nil, fmt.Errorf("session registry is required")
	}
	if exporter == nil {
		return nil, fmt.Errorf("exporter is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		registry: registry,
		exporter: exporter,
		logger:   logger,
		config:   cfg,
	}

	impl := &mcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}

	s.mcpServer = mcp.NewServer(impl, &mcp.ServerOptions{
		Instructions: ServerInstructions,
	})

	s.registerHandlers()

	return s, nil
}

// registerHandlers registers all resources, tools, and prompts on the MCP server
func (s *Server) registerHandlers() {
	s.registerResources()
	s.registerTools()
	s.registerPrompts()
}

func (s *Server) registerResources() {
	exportHandler := NewExportResourceHandler(s.exporter)
	for _, template := range ResourceTemplateDefinitions {
		s.mcpServer.AddResourceTemplate(&template, exportHandler.ReadResource)
	}
}

func (s *Server) registerTools() {
	interview := NewInterviewTools(s.registry, s.exporter, s.config.Defaults).WithLogger(s.logger)
	s.mcpServer.AddTool(ToolDefinitions["start_interview"], interview.StartInterview)
	s.mcpServer.AddTool(ToolDefinitions["submit_answer"], interview.SubmitAnswer)
	s.mcpServer.AddTool(ToolDefinitions["update_config"], interview.UpdateConfig)
	s.mcpServer.AddTool(ToolDefinitions["end_interview"], interview.EndInterview)
	s.mcpServer.AddTool(ToolDefinitions["session_stats"], interview.SessionStats)
	s.mcpServer.AddTool(ToolDefinitions["reset_session"], interview.ResetSession)
	s.mcpServer.AddTool(ToolDefinitions["export_session"], interview.ExportSession)
	s.mcpServer.AddTool(ToolDefinitions["list_options"], interview.ListOptions)

	listExports := NewListExportsTool(s.exporter)
	s.mcpServer.AddTool(ToolDefinitions["list_exports"], listExports.Call)

	cleanup := NewCleanupExportsTool(s.exporter).WithLogger(s.logger)
	s.mcpServer.AddTool(ToolDefinitions["cleanup_exports"], cleanup.Call)
}

func (s *Server) registerPrompts() {
	instructionPrompt := NewInstructionPrompt(s.config.Defaults)
	for _, promptDef := range PromptDefinitions {
		s.mcpServer.AddPrompt(promptDef, instructionPrompt.Handle)
	}
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	httpHandler := mcp.NewStreamableHTTPHandler(func(req *http.Request) *mcp.Server {
		return s.mcpServer
	}, &mcp.StreamableHTTPOptions{
		JSONResponse: true,
	})

	mux := http.NewServeMux()
	mux.Handle("/mcp", httpHandler)
	mux.HandleFunc("/health/live", LivenessHandler(s.logger))
	mux.HandleFunc("/health/ready", ReadinessHandler(s.exporter, func() int { return len(s.registry.IDs()) }, s.logger))
	mux.HandleFunc("/", s.indexHandler)
	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	StartCleanupRoutine(ctx, s.exporter, s.config.CleanupInterval, s.config.ExportTTL, s.logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.InfoContext(ctx, "starting MCP server",
		"port", s.config.Port,
		"export_dir", s.exporter.Dir(),
		"endpoints", []string{"/mcp", "/health/live", "/health/ready", "/"},
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.InfoContext(ctx, "shutting down MCP server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// indexHandler returns the server information page
func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintf(w, "InterviewPrep MCP Server\n\n")
	fmt.Fprintf(w, "Endpoints:\n")
	fmt.Fprintf(w, "  POST /mcp          - Streamable HTTP transport\n")
	fmt.Fprintf(w, "  GET  /health/live  - Liveness probe\n")
	fmt.Fprintf(w, "  GET  /health/ready - Readiness probe\n")
	fmt.Fprintf(w, "  GET  /             - This help message\n\n")
	fmt.Fprintf(w, "Server: %s %s\n", serverName, serverVersion)
}
