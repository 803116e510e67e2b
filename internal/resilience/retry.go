// Package resilience provides the optional retry layer for upstream
// requests. A single attempt is the default; retries only happen when
// configured explicitly.
package resilience

import (
	"context"
	"time"
)

// RetryConfig holds configuration for retry logic
type RetryConfig struct {
	MaxAttempts    int           // Total attempts including the first; 1 disables retries
	InitialBackoff time.Duration // Backoff before the first retry
	MaxBackoff     time.Duration // Cap on backoff growth
	Multiplier     float64       // Exponential growth factor per retry
}

// SingleAttempt returns the no-retry configuration.
func SingleAttempt() *RetryConfig {
	return &RetryConfig{MaxAttempts: 1}
}

// FromSettings builds a retry configuration from the environment knobs.
// maxAttempts of one or less yields the single-attempt default.
func FromSettings(maxAttempts, initialBackoffMillis int) *RetryConfig {
	if maxAttempts <= 1 {
		return SingleAttempt()
	}
	return &RetryConfig{
		MaxAttempts:    maxAttempts,
		InitialBackoff: time.Duration(initialBackoffMillis) * time.Millisecond,
		MaxBackoff:     5 * time.Second,
		Multiplier:     2.0,
	}
}

// IsRetryableError decides whether a failure is worth retrying.
type IsRetryableError func(error) bool

// Do executes fn up to MaxAttempts times, sleeping with exponential backoff
// between attempts. It stops early when fn succeeds, when isRetryable
// rejects the error, or when the context is done.
func Do(ctx context.Context, cfg *RetryConfig, fn func() error, isRetryable IsRetryableError) error {
	if cfg == nil || cfg.MaxAttempts < 1 {
		cfg = SingleAttempt()
	}

	var lastErr error
	backoff := cfg.InitialBackoff

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if isRetryable != nil && !isRetryable(lastErr) {
			return lastErr
		}

		// Don't sleep after the last attempt
		if attempt == cfg.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		if cfg.Multiplier > 1 {
			backoff = time.Duration(float64(backoff) * cfg.Multiplier)
		}
		if cfg.MaxBackoff > 0 && backoff > cfg.MaxBackoff {
			backoff = cfg.MaxBackoff
		}
	}

	return lastErr
}
