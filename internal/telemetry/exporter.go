package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	serviceName    = "interviewprep"
	serviceVersion = "1.0.0"
)

// Exporter exports interview metrics to an OTEL Collector.
type Exporter struct {
	provider      *sdkmetric.MeterProvider
	turnsTotal    metric.Int64Counter
	tokensTotal   metric.Int64Counter
	costTotal     metric.Float64Counter
	scoreHist     metric.Float64Histogram
	latencyHist   metric.Float64Histogram
	rejectedTotal metric.Int64Counter
}

// NewExporter creates a new OTEL metrics exporter.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	return newExporter(provider)
}

func newExporter(provider *sdkmetric.MeterProvider) (*Exporter, error) {
	meter := provider.Meter(serviceName)

	turnsTotal, err := meter.Int64Counter(
		"interview_turns_total",
		metric.WithDescription("Total number of answered interview questions"),
		metric.WithUnit("{turn}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating turns counter: %w", err)
	}

	tokensTotal, err := meter.Int64Counter(
		"interview_estimated_tokens_total",
		metric.WithDescription("Estimated tokens exchanged with the model"),
		metric.WithUnit("{token}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tokens counter: %w", err)
	}

	costTotal, err := meter.Float64Counter(
		"interview_estimated_cost_usd",
		metric.WithDescription("Estimated model cost in USD"),
		metric.WithUnit("USD"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating cost counter: %w", err)
	}

	scoreHist, err := meter.Float64Histogram(
		"interview_answer_score",
		metric.WithDescription("Plain score given to each answer"),
		metric.WithUnit("{score}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating score histogram: %w", err)
	}

	latencyHist, err := meter.Float64Histogram(
		"interview_model_latency_seconds",
		metric.WithDescription("Time spent waiting for the model"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating latency histogram: %w", err)
	}

	rejectedTotal, err := meter.Int64Counter(
		"interview_rejected_turns_total",
		metric.WithDescription("Turns rejected before reaching the model"),
		metric.WithUnit("{turn}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rejection counter: %w", err)
	}

	return &Exporter{
		provider:      provider,
		turnsTotal:    turnsTotal,
		tokensTotal:   tokensTotal,
		costTotal:     costTotal,
		scoreHist:     scoreHist,
		latencyHist:   latencyHist,
		rejectedTotal: rejectedTotal,
	}, nil
}

// RecordTurn records the metrics of one completed turn.
func (e *Exporter) RecordTurn(ctx context.Context, m TurnMetrics) {
	opt := metric.WithAttributes(
		attribute.String("provider", m.Provider),
		attribute.String("model", m.Model),
		attribute.String("technique", m.Technique),
		attribute.Bool("structured", m.Structured),
	)

	e.turnsTotal.Add(ctx, 1, opt)
	e.tokensTotal.Add(ctx, int64(m.Tokens), opt)
	e.costTotal.Add(ctx, m.CostUSD, opt)
	e.latencyHist.Record(ctx, m.Duration.Seconds(), opt)
	if m.Scored {
		e.scoreHist.Record(ctx, m.Score, opt)
	}
}

// RecordRejection counts a turn stopped before the model call.
func (e *Exporter) RecordRejection(ctx context.Context, kind string) {
	e.rejectedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
