package transport

import (
	"context"
	"time"
)

// RetryConfig bounds how often a call is attempted when the exchange itself fails.
type RetryConfig struct {
	Attempts int
	Delay    time.Duration
}

func (r RetryConfig) MaxAttempts() int {
	if r.Attempts < 1 {
		return 1
	}

	return r.Attempts
}

// Retry runs op until it returns a nil error or the attempts are spent. Only the error
// channel triggers a retry; whatever op reports through its value is final.
// It returns the value, the number of attempts made and the last error.
func Retry[T any](ctx context.Context, cfg RetryConfig, op func(ctx context.Context, attempt int) (T, error)) (T, int, error) {
	var (
		zero    T
		lastErr error
	)

	maxAttempts := cfg.MaxAttempts()

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 && cfg.Delay > 0 {
			timer := time.NewTimer(cfg.Delay)
			select {
			case <-ctx.Done():
				timer.Stop()

				return zero, attempt - 1, lastErr
			case <-timer.C:
			}
		}

		value, err := op(ctx, attempt)
		if err == nil {
			return value, attempt, nil
		}

		lastErr = err

		if ctx.Err() != nil {
			return zero, attempt, lastErr
		}
	}

	return zero, maxAttempts, lastErr
}
