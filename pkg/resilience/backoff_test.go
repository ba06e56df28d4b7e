package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultExponentialBackoff(t *testing.T) {
	backoff := DefaultExponentialBackoff()

	assert.Equal(t, 250*time.Millisecond, backoff.BaseDelay)
	assert.Equal(t, 10*time.Second, backoff.MaxDelay)
	assert.Equal(t, 2.0, backoff.Multiplier)
	assert.Equal(t, 0.1, backoff.Jitter)
}

func TestExponentialBackoff_NextDelay(t *testing.T) {
	backoff := &ExponentialBackoff{
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   10 * time.Second,
		Multiplier: 2.0,
		Jitter:     0.0,
	}

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 400 * time.Millisecond},
		{3, 800 * time.Millisecond},
		{6, 6400 * time.Millisecond},
		{7, 10 * time.Second}, // 12.8s capped
		{10, 10 * time.Second},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, backoff.NextDelay(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestExponentialBackoff_WithJitter(t *testing.T) {
	backoff := &ExponentialBackoff{
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   10 * time.Second,
		Multiplier: 2.0,
		Jitter:     0.1,
	}

	minExpected := 720 * time.Millisecond
	maxExpected := 880 * time.Millisecond

	seen := make(map[time.Duration]struct{})
	for i := 0; i < 100; i++ {
		delay := backoff.NextDelay(3)
		assert.GreaterOrEqual(t, delay, minExpected)
		assert.LessOrEqual(t, delay, maxExpected)
		seen[delay] = struct{}{}
	}
	assert.Greater(t, len(seen), 1, "jitter should spread delays")
}

func TestExponentialBackoff_NegativeAttempt(t *testing.T) {
	backoff := DefaultExponentialBackoff()
	assert.Equal(t, backoff.BaseDelay, backoff.NextDelay(-1))
}

func TestReportBackoff(t *testing.T) {
	backoff := ReportBackoff()
	backoff.Jitter = 0

	expected := []time.Duration{
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second,
	}
	for attempt, want := range expected {
		assert.Equal(t, want, backoff.NextDelay(attempt), "attempt %d", attempt)
	}
}

func TestFixedBackoff(t *testing.T) {
	backoff := &FixedBackoff{Delay: time.Second}
	for attempt := 0; attempt < 5; attempt++ {
		assert.Equal(t, time.Second, backoff.NextDelay(attempt))
	}
}

func TestRetry(t *testing.T) {
	fast := &FixedBackoff{Delay: time.Millisecond}
	errTransient := errors.New("connection reset")
	errFatal := errors.New("bad input")

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		var retried []int
		err := Retry(context.Background(), RetryPolicy{
			MaxRetries: 3,
			Backoff:    fast,
			OnRetry:    func(attempt int, err error) { retried = append(retried, attempt) },
		}, func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return errTransient
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []int{0, 1}, retried)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), RetryPolicy{MaxRetries: 2, Backoff: fast}, func(ctx context.Context) error {
			calls++
			return errTransient
		})

		assert.ErrorIs(t, err, errTransient)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on non-retryable error", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), RetryPolicy{
			MaxRetries: 5,
			Backoff:    fast,
			Retryable:  func(err error) bool { return !errors.Is(err, errFatal) },
		}, func(ctx context.Context) error {
			calls++
			return errFatal
		})

		assert.ErrorIs(t, err, errFatal)
		assert.Equal(t, 1, calls)
	})

	t.Run("zero retries runs once", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), RetryPolicy{}, func(ctx context.Context) error {
			calls++
			return errTransient
		})

		assert.ErrorIs(t, err, errTransient)
		assert.Equal(t, 1, calls)
	})

	t.Run("stops once the context is done", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		err := Retry(ctx, RetryPolicy{MaxRetries: 3, Backoff: fast}, func(ctx context.Context) error {
			calls++
			cancel()
			return errTransient
		})

		assert.ErrorIs(t, err, errTransient)
		assert.Equal(t, 1, calls)
	})

	t.Run("deadline while waiting", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := Retry(ctx, RetryPolicy{MaxRetries: 3, Backoff: &FixedBackoff{Delay: time.Hour}}, func(ctx context.Context) error {
			return errTransient
		})

		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Contains(t, err.Error(), "retry cancelled")
	})
}
