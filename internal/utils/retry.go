// Package utils holds helpers shared by the data and agent layers.
package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/dyike/SageDesk/config"
)

// RetryConfig configures retry behavior for one external call.
type RetryConfig struct {
	// Retries is the number of extra attempts after the first one.
	Retries int
	// Timeout bounds each attempt.
	Timeout time.Duration
	// Delay is the fixed pause between attempts.
	Delay time.Duration
}

// DefaultRetryConfig is one retry, a 20s attempt timeout and a 500ms pause.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Retries: 1,
		Timeout: 20 * time.Second,
		Delay:   500 * time.Millisecond,
	}
}

// RetryConfigFrom derives the retry policy from the application config.
func RetryConfigFrom(cfg *config.Config) RetryConfig {
	rc := DefaultRetryConfig()
	rc.Retries = cfg.RetryAttempts
	if cfg.RequestTimeout > 0 {
		rc.Timeout = cfg.RequestTimeout
	}
	return rc
}

// WithRetry runs fn until it succeeds or the attempts run out. Each attempt
// gets its own deadline; cancelling ctx stops immediately.
func WithRetry(ctx context.Context, rc RetryConfig, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= rc.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(rc.Delay):
			}
		}

		if err := runAttempt(ctx, rc.Timeout, fn); err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}
		return nil
	}

	return fmt.Errorf("giving up after %d attempts: %w", rc.Retries+1, lastErr)
}

func runAttempt(ctx context.Context, timeout time.Duration, fn func(ctx context.Context) error) error {
	if timeout <= 0 {
		return fn(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(attemptCtx)
}
