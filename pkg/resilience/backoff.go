package resilience

import (
	"math"
	"math/rand"
	"time"
)

// BackoffStrategy defines retry backoff behavior
type BackoffStrategy interface {
	NextDelay(attempt int) time.Duration
}

// ExponentialBackoff implements exponential backoff with jitter
type ExponentialBackoff struct {
	BaseDelay  time.Duration // Initial delay
	MaxDelay   time.Duration // Upper bound on any single delay
	Multiplier float64       // Growth per attempt, typically 2.0
	Jitter     float64       // Fraction of the delay to randomize (0.0-1.0)
}

// DefaultExponentialBackoff returns the delays used between BlueSnap lookups.
//
// Sequence with defaults (±10% jitter):
//   - Attempt 0: ~250ms
//   - Attempt 1: ~500ms
//   - Attempt 2: ~1s
//   - Attempt 3: ~2s
//   - Attempt 4+: ~4s, then capped at 10s
func DefaultExponentialBackoff() *ExponentialBackoff {
	return &ExponentialBackoff{
		BaseDelay:  250 * time.Millisecond,
		MaxDelay:   10 * time.Second,
		Multiplier: 2.0,
		Jitter:     0.1,
	}
}

// ReportBackoff is slower: report rendering on BlueSnap's side can take
// tens of seconds, so retrying quickly only adds load.
func ReportBackoff() *ExponentialBackoff {
	return &ExponentialBackoff{
		BaseDelay:  2 * time.Second,
		MaxDelay:   30 * time.Second,
		Multiplier: 2.0,
		Jitter:     0.1,
	}
}

// NextDelay returns BaseDelay * Multiplier^attempt ± jitter, capped at MaxDelay.
// attempt is 0-indexed.
func (eb *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	if attempt < 0 {
		return eb.BaseDelay
	}

	delay := float64(eb.BaseDelay) * math.Pow(eb.Multiplier, float64(attempt))
	if delay > float64(eb.MaxDelay) {
		delay = float64(eb.MaxDelay)
	}

	jitterAmount := delay * eb.Jitter
	jitter := (rand.Float64()*2 - 1) * jitterAmount

	finalDelay := time.Duration(delay + jitter)
	if finalDelay < 0 {
		finalDelay = eb.BaseDelay
	}

	return finalDelay
}

// FixedBackoff waits the same delay before every retry
type FixedBackoff struct {
	Delay time.Duration
}

// NextDelay returns the fixed delay regardless of attempt number
func (fb *FixedBackoff) NextDelay(attempt int) time.Duration {
	return fb.Delay
}
