package resilience

import (
	"context"
	"time"

	"github.com/devpulse/devpulse/internal/errors"
)

// RetryConfig holds configuration for retry behavior. Backoff is linear:
// the wait after attempt n is BaseDelay * n.
type RetryConfig struct {
	MaxRetries int                  `json:"max_retries"`
	BaseDelay  time.Duration        `json:"base_delay"`
	Retryable  func(err error) bool `json:"-"`
}

// DefaultRetryConfig returns the standard policy: three attempts, one second
// base delay, retrying any error.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		Retryable:  func(error) bool { return true },
	}
}

// UpstreamRetryConfig retries only errors the taxonomy marks transient.
func UpstreamRetryConfig() RetryConfig {
	cfg := DefaultRetryConfig()
	cfg.Retryable = errors.IsRetryableError
	return cfg
}

// WithRetry runs op up to cfg.MaxRetries times, waiting BaseDelay * attempt
// between attempts. The last error is returned only after every attempt is
// exhausted; waits respect context cancellation.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 1
	}
	if cfg.Retryable == nil {
		cfg.Retryable = func(error) bool { return true }
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxRetries; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}

		lastErr = err

		if !cfg.Retryable(err) || attempt == cfg.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(cfg.BaseDelay * time.Duration(attempt)):
		}
	}

	return zero, lastErr
}

// Retry is the error-only convenience wrapper around WithRetry.
func Retry(ctx context.Context, cfg RetryConfig, op func(ctx context.Context) error) error {
	_, err := WithRetry(ctx, cfg, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}
