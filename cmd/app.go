package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kfreiman/interviewprep/internal/coach"
	"github.com/kfreiman/interviewprep/internal/config"
	"github.com/kfreiman/interviewprep/internal/gateway"
	"github.com/kfreiman/interviewprep/internal/redaction"
	"github.com/kfreiman/interviewprep/internal/safety"
	"github.com/kfreiman/interviewprep/internal/session"
	"github.com/kfreiman/interviewprep/internal/storage"
	"github.com/kfreiman/interviewprep/internal/telemetry"
)

const defaultGeminiModel = "gemini-1.5-flash"

// app is the wired set of components shared by chat and mcp-server
type app struct {
	coach    *coach.Coach
	exporter *storage.Exporter
	recorder telemetry.Recorder
	logger   *slog.Logger
	closers  []func() error
}

// newApp builds the provider, safety gate, telemetry and export storage from cfg
func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	a := &app{logger: logger}

	provider, err := a.newProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	gate := safety.NewGate(a.newClassifier(ctx, cfg, provider)).WithLogger(logger)
	model := gateway.New(provider).WithLogger(logger)

	a.recorder = telemetry.NewNoop()
	if cfg.OTELEnabled {
		exp, err := telemetry.NewExporter(ctx, cfg.Telemetry())
		if err != nil {
			logger.WarnContext(ctx, "metrics disabled",
				"error", err,
				"endpoint", cfg.OTELEndpoint,
			)
		} else {
			a.recorder = exp
			logger.InfoContext(ctx, "metrics exporter started", "endpoint", cfg.OTELEndpoint)
		}
	}

	a.coach = coach.New(gate, model).WithLogger(logger).WithRecorder(a.recorder)

	exportCfg := storage.ExportConfig{
		BasePath:   cfg.ExportPath,
		DefaultTTL: cfg.ExportTTL,
		Logger:     logger,
	}
	if cfg.ExportRedact {
		exportCfg.Redact = redaction.RedactDocument
	}
	a.exporter, err = storage.NewExporter(exportCfg)
	if err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("export storage: %w", err)
	}

	return a, nil
}

func (a *app) newProvider(ctx context.Context, cfg config.Config) (gateway.Provider, error) {
	if cfg.APIKey() == "" {
		return nil, fmt.Errorf("no API key configured for provider %q", cfg.Provider)
	}

	switch cfg.Provider {
	case config.ProviderGemini:
		p, err := gateway.NewGeminiProvider(ctx, cfg.GeminiKey)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, p.Close)
		return p, nil
	default:
		return gateway.NewOpenAIProvider(gateway.OpenAIConfig{
			APIKey:  cfg.OpenAIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Timeout: cfg.RequestTimeout,
		}), nil
	}
}

// newClassifier returns the moderation classifier, or nil when moderation is off
func (a *app) newClassifier(ctx context.Context, cfg config.Config, provider gateway.Provider) safety.Classifier {
	if !cfg.Moderation {
		return nil
	}

	openai, ok := provider.(*gateway.OpenAIProvider)
	if !ok {
		if cfg.OpenAIKey == "" {
			a.logger.WarnContext(ctx, "moderation requires OPENAI_API_KEY; continuing without it")
			return nil
		}
		openai = gateway.NewOpenAIProvider(gateway.OpenAIConfig{
			APIKey:  cfg.OpenAIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Timeout: cfg.RequestTimeout,
		})
	}
	return gateway.NewModerationClassifier(openai, "")
}

// Close flushes metrics and releases provider clients
func (a *app) Close(ctx context.Context) error {
	var errs []error
	if a.recorder != nil {
		errs = append(errs, a.recorder.Close(ctx))
	}
	for _, closeFn := range a.closers {
		errs = append(errs, closeFn())
	}
	return errors.Join(errs...)
}

// defaultInterview is the configuration new interviews start from
func defaultInterview(cfg config.Config) session.Config {
	defaults := session.DefaultConfig()
	switch {
	case cfg.Model != "":
		defaults.ModelID = cfg.Model
	case cfg.Provider == config.ProviderGemini:
		defaults.ModelID = defaultGeminiModel
	}
	return defaults
}
