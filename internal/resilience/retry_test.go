package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/devpulse/devpulse/internal/errors"
)

func TestWithRetrySucceedsAfterTransientFailures(t *testing.T) {
	cfg := RetryConfig{
		MaxRetries: 3,
		BaseDelay:  10 * time.Millisecond,
		Retryable:  func(error) bool { return true },
	}

	calls := 0
	var gaps []time.Duration
	last := time.Now()

	result, err := WithRetry(context.Background(), cfg, func(ctx context.Context) (string, error) {
		now := time.Now()
		if calls > 0 {
			gaps = append(gaps, now.Sub(last))
		}
		last = now
		calls++
		if calls < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls, "fails twice then succeeds on the third attempt")

	// Linear backoff: first gap ~1x base, second gap ~2x base.
	require.Len(t, gaps, 2)
	assert.GreaterOrEqual(t, gaps[0], 10*time.Millisecond)
	assert.GreaterOrEqual(t, gaps[1], 20*time.Millisecond)
	assert.Less(t, gaps[0], gaps[1])
}

func TestWithRetryExhaustionReturnsLastError(t *testing.T) {
	cfg := RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
		Retryable:  func(error) bool { return true },
	}

	calls := 0
	lastErr := errors.New("attempt 3")
	_, err := WithRetry(context.Background(), cfg, func(ctx context.Context) (int, error) {
		calls++
		if calls == 3 {
			return 0, lastErr
		}
		return 0, errors.New("earlier attempt")
	})

	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, lastErr)
}

func TestWithRetryStopsOnNonRetryableError(t *testing.T) {
	cfg := UpstreamRetryConfig()
	cfg.BaseDelay = time.Millisecond

	calls := 0
	_, err := WithRetry(context.Background(), cfg, func(ctx context.Context) (int, error) {
		calls++
		return 0, apperrors.NewValidationError("bad input")
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls, "validation errors are not retried")
}

func TestWithRetryRespectsContextCancellation(t *testing.T) {
	cfg := RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		Retryable:  func(error) bool { return true },
	}

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	done := make(chan error, 1)
	go func() {
		_, err := WithRetry(ctx, cfg, func(ctx context.Context) (int, error) {
			calls++
			return 0, errors.New("transient")
		})
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls, "cancellation interrupts the backoff wait")
	case <-time.After(time.Second):
		t.Fatal("retry did not observe cancellation")
	}
}

func TestRetryErrorOnlyWrapper(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond}

	calls := 0
	err := Retry(context.Background(), cfg, func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("transient")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}
