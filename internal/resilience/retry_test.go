package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDo_Success(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), SingleAttempt(), func() error {
		attempts++
		return nil
	}, nil)

	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt, got %d", attempts)
	}
}

func TestDo_SingleAttemptNeverRetries(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), SingleAttempt(), func() error {
		attempts++
		return errors.New("persistent error")
	}, nil)

	if err == nil {
		t.Error("Expected error")
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt, got %d", attempts)
	}
}

func TestDo_FailureThenSuccess(t *testing.T) {
	cfg := &RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		Multiplier:     2.0,
	}

	attempts := 0
	err := Do(context.Background(), cfg, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	}, nil)

	if err != nil {
		t.Errorf("Expected no error after retries, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

func TestDo_MaxAttempts(t *testing.T) {
	cfg := &RetryConfig{
		MaxAttempts:    2,
		InitialBackoff: time.Millisecond,
	}

	attempts := 0
	err := Do(context.Background(), cfg, func() error {
		attempts++
		return errors.New("persistent error")
	}, nil)

	if err == nil {
		t.Error("Expected error after max attempts")
	}
	if attempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts)
	}
}

func TestDo_NonRetryableError(t *testing.T) {
	cfg := &RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
	}

	attempts := 0
	err := Do(context.Background(), cfg, func() error {
		attempts++
		return errors.New("non-retryable error")
	}, func(error) bool { return false })

	if err == nil {
		t.Error("Expected error")
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt for non-retryable error, got %d", attempts)
	}
}

func TestDo_ContextCancelStopsRetries(t *testing.T) {
	cfg := &RetryConfig{
		MaxAttempts:    5,
		InitialBackoff: time.Hour, // would block forever without cancellation
	}

	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	done := make(chan error, 1)
	go func() {
		done <- Do(ctx, cfg, func() error {
			attempts++
			return errors.New("failing")
		}, nil)
	}()

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Do did not return after context cancellation")
	}

	if attempts != 1 {
		t.Errorf("Expected 1 attempt before cancellation, got %d", attempts)
	}
}

func TestDo_NilConfigDefaultsToSingleAttempt(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), nil, func() error {
		attempts++
		return errors.New("failing")
	}, nil)

	if err == nil {
		t.Error("Expected error")
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt, got %d", attempts)
	}
}

func TestFromSettings(t *testing.T) {
	tests := []struct {
		name             string
		maxAttempts      int
		backoffMillis    int
		expectedAttempts int
	}{
		{"zero attempts", 0, 100, 1},
		{"one attempt", 1, 100, 1},
		{"three attempts", 3, 100, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := FromSettings(tt.maxAttempts, tt.backoffMillis)
			if cfg.MaxAttempts != tt.expectedAttempts {
				t.Errorf("Expected MaxAttempts %d, got %d", tt.expectedAttempts, cfg.MaxAttempts)
			}
		})
	}

	cfg := FromSettings(3, 250)
	if cfg.InitialBackoff != 250*time.Millisecond {
		t.Errorf("Expected InitialBackoff 250ms, got %v", cfg.InitialBackoff)
	}
}
