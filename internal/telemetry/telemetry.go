// Package telemetry records per-turn interview metrics.
package telemetry

import (
	"context"
	"time"
)

// TurnMetrics describes one completed interview turn
type TurnMetrics struct {
	Provider   string
	Model      string
	Technique  string
	Structured bool
	// Score is meaningful only when Scored is true
	Scored   bool
	Score    float64
	Tokens   int
	CostUSD  float64
	Duration time.Duration
}

// Recorder receives interview metrics
type Recorder interface {
	RecordTurn(ctx context.Context, m TurnMetrics)
	RecordRejection(ctx context.Context, kind string)
	Close(ctx context.Context) error
}

// Config holds OTEL exporter configuration.
type Config struct {
	Endpoint string
	Enabled  bool
	Insecure bool
}

// Noop is a recorder that does nothing.
type Noop struct{}

// NewNoop creates a new no-op recorder for graceful degradation.
func NewNoop() *Noop {
	return &Noop{}
}

func (Noop) RecordTurn(context.Context, TurnMetrics) {}

func (Noop) RecordRejection(context.Context, string) {}

func (Noop) Close(context.Context) error { return nil }
