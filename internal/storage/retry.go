package storage

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// RetryConfig holds configuration for retrying export writes
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Jitter      bool
}

// DefaultRetryConfig retries a failed write twice with exponential backoff
var DefaultRetryConfig = RetryConfig{
	MaxAttempts: 3,
	BaseDelay:   200 * time.Millisecond,
	MaxDelay:    2 * time.Second,
	Jitter:      true,
}

// retry runs fn until it succeeds, returns a non-retryable error, or attempts run out
func retry(ctx context.Context, cfg RetryConfig, fn func(attempt int) error) error {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err := fn(attempt)
		if err == nil {
			return nil
		}
		lastErr = err

		var serr *StorageError
		if errors.As(err, &serr) && !serr.IsRetryable() {
			return err
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		delay := backoff(cfg, attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		}
	}

	return fmt.Errorf("giving up after %d attempts: %w", cfg.MaxAttempts, lastErr)
}

// backoff is baseDelay * 2^(attempt-1), capped at MaxDelay, with optional ±25% jitter
func backoff(cfg RetryConfig, attempt int) time.Duration {
	delay := cfg.BaseDelay << (attempt - 1)
	if cfg.MaxDelay > 0 && (delay > cfg.MaxDelay || delay <= 0) {
		delay = cfg.MaxDelay
	}
	if cfg.Jitter {
		jitter := (rand.Float64() - 0.5) * 0.5
		delay = time.Duration(float64(delay) * (1 + jitter))
	}
	return delay
}
