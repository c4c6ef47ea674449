package retry

import (
	"math"
	"math/rand"
	"time"

	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

// ExponentialBackoff implements exponential backoff with jitter.
//
// It is the pgfleet.BackoffStrategy behind both database connects and HTTP
// manifest fetches. Values are read-only after construction, so one instance
// may be shared by concurrent executors.
type ExponentialBackoff struct {
	// initialDelay is the delay before the first retry
	initialDelay time.Duration

	// maxDelay caps every computed delay, before jitter is applied
	maxDelay time.Duration

	// multiplier is the growth factor between retries (typically 2.0)
	multiplier float64

	// maxAttempts is the number of retries after the first call
	// (-1 = unlimited, 0 = no retries)
	maxAttempts int

	// jitter spreads delays of targets retrying at the same time (0.0-1.0).
	// Jitter of 0.1 means +/- 10% randomness
	jitter float64

	// jitterFunc yields random values in [0, 1); tests pin it for
	// deterministic delays
	jitterFunc func() float64
}

// BackoffOption is a functional option for configuring ExponentialBackoff.
type BackoffOption func(*ExponentialBackoff)

// WithInitialDelay sets the initial delay for the first retry attempt.
func WithInitialDelay(d time.Duration) BackoffOption {
	return func(b *ExponentialBackoff) { b.initialDelay = d }
}

// WithMaxDelay sets the maximum delay between retry attempts.
func WithMaxDelay(d time.Duration) BackoffOption {
	return func(b *ExponentialBackoff) { b.maxDelay = d }
}

// WithMultiplier sets the factor by which delay increases between attempts.
func WithMultiplier(m float64) BackoffOption {
	return func(b *ExponentialBackoff) { b.multiplier = m }
}

// WithJitter sets the jitter factor (0.0-1.0) that randomizes each delay.
func WithJitter(j float64) BackoffOption {
	return func(b *ExponentialBackoff) { b.jitter = j }
}

// WithJitterFunc sets a source of random values in [0, 1) for jitter.
func WithJitterFunc(f func() float64) BackoffOption {
	return func(b *ExponentialBackoff) { b.jitterFunc = f }
}

// NewExponentialBackoff creates a backoff strategy with the pgfleet retry
// defaults: pgfleet.DefaultRetryInitialDelay doubling up to
// pgfleet.DefaultRetryMaxDelay, with 10% jitter. Options adjust any of them.
//
// Example:
//
//	backoff := retry.NewExponentialBackoff(3,
//	    retry.WithInitialDelay(200*time.Millisecond),
//	    retry.WithJitter(0.2),
//	)
//	executor := retry.NewExecutor(retry.NewHTTPErrorClassifier(), backoff)
func NewExponentialBackoff(maxAttempts int, opts ...BackoffOption) *ExponentialBackoff {
	b := &ExponentialBackoff{
		initialDelay: pgfleet.DefaultRetryInitialDelay,
		maxDelay:     pgfleet.DefaultRetryMaxDelay,
		multiplier:   2.0,
		maxAttempts:  maxAttempts,
		jitter:       0.1,
		jitterFunc:   rand.Float64,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NextDelay calculates the delay before the given zero-based retry:
// initialDelay * multiplier^attempt, capped at maxDelay, then scaled by a
// random factor in [1-jitter, 1+jitter).
//
// Example: with the defaults and no jitter, retries wait 100ms, 200ms, 400ms.
func (b *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	delayMs := float64(b.initialDelay.Milliseconds()) * math.Pow(b.multiplier, float64(attempt))
	if capMs := float64(b.maxDelay.Milliseconds()); delayMs > capMs {
		delayMs = capMs
	}

	if b.jitter > 0 {
		// Map [0,1) to [-1,1)
		offset := (b.jitterFunc() - 0.5) * 2.0
		delayMs *= 1.0 + b.jitter*offset
	}

	return time.Duration(delayMs) * time.Millisecond
}

// MaxAttempts returns the maximum number of retry attempts. A negative value
// means retry until the context ends.
func (b *ExponentialBackoff) MaxAttempts() int {
	return b.maxAttempts
}

// InitialDelay returns the initial delay for tests and debugging.
func (b *ExponentialBackoff) InitialDelay() time.Duration { return b.initialDelay }

// MaxDelay returns the delay cap for tests and debugging.
func (b *ExponentialBackoff) MaxDelay() time.Duration { return b.maxDelay }

var _ pgfleet.BackoffStrategy = (*ExponentialBackoff)(nil)
