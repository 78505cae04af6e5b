package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	slogzerolog "github.com/samber/slog-zerolog"
	"github.com/spf13/cobra"

	"github.com/kfreiman/interviewprep/internal/coach"
	"github.com/kfreiman/interviewprep/internal/config"
	"github.com/kfreiman/interviewprep/internal/mcp"
)

// logConfig holds the logging part of the configuration
type logConfig struct {
	Format string
	Level  string
}

// createLogger creates a slog logger from the configuration
func createLogger(conf logConfig) *slog.Logger {
	var level slog.Level
	switch conf.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var zerologLogger zerolog.Logger
	if conf.Format == "json" {
		zerologLogger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		zerologLogger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Caller().Logger()
	}

	handler := slogzerolog.Option{
		Level:  level,
		Logger: &zerologLogger,
	}.NewZerologHandler()

	logger := slog.New(handler)

	log.SetFlags(0)
	slog.SetDefault(logger)

	return logger
}

// loadConfig reads the environment and builds the logger
func loadConfig() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, err
	}
	logger := createLogger(logConfig{Format: cfg.LogFormat, Level: cfg.LogLevel})
	return cfg, logger, nil
}

var mcpServerCmd = &cobra.Command{
	Use:   "mcp-server",
	Short: "Serve mock interviews as MCP tools over streamable HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, logger, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		a, err := newApp(ctx, cfg, logger)
		if err != nil {
			logger.ErrorContext(ctx, "failed to initialize interview components",
				"error", err,
				"provider", cfg.Provider,
			)
			return err
		}
		defer func() {
			if err := a.Close(context.Background()); err != nil {
				logger.WarnContext(ctx, "shutdown incomplete", "error", err)
			}
		}()

		serverCfg := mcp.FromEnv(cfg).WithDefaults(defaultInterview(cfg))

		logger.InfoContext(ctx, "mcp server starting",
			"port", serverCfg.Port,
			"provider", cfg.Provider,
			"model", serverCfg.Defaults.ModelID,
			"export_path", cfg.ExportPath,
			"export_ttl", cfg.ExportTTL,
			"moderation", cfg.Moderation,
		)

		srv, err := mcp.NewServer(serverCfg, coach.NewRegistry(a.coach), a.exporter, logger)
		if err != nil {
			logger.ErrorContext(ctx, "failed to create MCP server",
				"error", err,
			)
			return err
		}

		if err := srv.ListenAndServe(ctx); err != nil {
			logger.ErrorContext(ctx, "MCP server stopped",
				"error", err,
			)
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpServerCmd)
}
