// Package retry runs an operation with bounded attempts and backoff.
package retry

import (
	"context"
	"fmt"
	"time"
)

type Config struct {
	Attempts int
	Delay    time.Duration
	Backoff  bool // double the delay after each failed attempt
}

// Do calls fn until it succeeds, attempts are exhausted, or ctx is done.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	if cfg.Attempts <= 0 {
		cfg.Attempts = 1
	}
	var lastErr error
	delay := cfg.Delay
	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if attempt == cfg.Attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		if cfg.Backoff {
			delay *= 2
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", cfg.Attempts, lastErr)
}
