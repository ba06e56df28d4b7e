package resilience

import (
	"context"
	"fmt"
	"time"
)

// RetryPolicy bounds how often an operation is retried.
type RetryPolicy struct {
	MaxRetries int
	Backoff    BackoffStrategy
	// Retryable decides whether an error is worth another attempt.
	// A nil Retryable retries every error.
	Retryable func(error) bool
	// OnRetry is called before each wait, with the failed attempt (0-indexed).
	OnRetry func(attempt int, err error)
}

// Retry runs fn until it succeeds, fails with a non-retryable error, or the
// policy's retries are used up. The last error is returned as is.
func Retry(ctx context.Context, policy RetryPolicy, fn func(ctx context.Context) error) error {
	backoff := policy.Backoff
	if backoff == nil {
		backoff = DefaultExponentialBackoff()
	}

	var err error
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := backoff.NextDelay(attempt - 1)
			if policy.OnRetry != nil {
				policy.OnRetry(attempt-1, err)
			}

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("retry cancelled: %w", ctx.Err())
			case <-timer.C:
			}
		}

		err = fn(ctx)
		if err == nil {
			return nil
		}
		if policy.Retryable != nil && !policy.Retryable(err) {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
	}
	return err
}
