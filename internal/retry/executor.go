package retry

import (
	"context"
	"time"

	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

// Executor orchestrates retry attempts with backoff and error classification.
//
// Thread Safety:
// Execute may be called from several goroutines at once, for example when
// connections to different fleet targets are opened concurrently. The
// executor holds no per-call state. WithOnRetry never mutates the receiver:
// it returns a NEW instance carrying the callback, so each caller can attach
// its own logging without affecting executors shared elsewhere.
type Executor struct {
	classifier pgfleet.ErrorClassifier
	strategy   pgfleet.BackoffStrategy
	onRetry    func(attempt int, err error, delay time.Duration)
}

// NewExecutor creates a new retry executor from a classifier deciding which
// errors are transient and a strategy deciding how long to wait and how many
// retries to make.
// Panics if classifier or strategy is nil.
func NewExecutor(classifier pgfleet.ErrorClassifier, strategy pgfleet.BackoffStrategy) *Executor {
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	if strategy == nil {
		panic("strategy cannot be nil")
	}
	return &Executor{
		classifier: classifier,
		strategy:   strategy,
	}
}

// WithOnRetry returns a new Executor that invokes callback before each retry
// with the zero-based retry index, the error that triggered it and the delay
// about to be waited.
//
// This method does NOT modify the receiver; it returns a new instance.
//
// Example:
//
//	base := retry.NewExecutor(retry.NewPostgreSQLErrorClassifier(), strategy)
//	perTarget := base.WithOnRetry(func(attempt int, err error, delay time.Duration) {
//		logger.Verbose("connect %s: retry %d in %v: %v", target, attempt+1, delay, err)
//	})
//	// base still retries silently; perTarget logs every retry
//	err := perTarget.Execute(ctx, connect)
func (e *Executor) WithOnRetry(callback func(attempt int, err error, delay time.Duration)) *Executor {
	clone := *e
	clone.onRetry = callback
	return &clone
}

// Execute runs operation once and then retries it while it fails with a
// transient error, waiting the strategy's delay between attempts.
//
// Behavior:
//   - a nil error or a non-transient error is returned immediately
//   - at most MaxAttempts retries follow the first call; a negative
//     MaxAttempts retries until the context ends
//   - cancellation of ctx, checked before and during each wait, returns
//     ctx.Err()
//
// Returns the result of the last attempt when retries are exhausted.
func (e *Executor) Execute(ctx context.Context, operation func(ctx context.Context) error) error {
	lastErr := operation(ctx)
	if lastErr == nil || !e.classifier.IsTransient(lastErr) {
		return lastErr
	}

	maxAttempts := e.strategy.MaxAttempts()
	for attempt := 0; maxAttempts < 0 || attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		delay := e.strategy.NextDelay(attempt)
		if e.onRetry != nil {
			e.onRetry(attempt, lastErr, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		lastErr = operation(ctx)
		if lastErr == nil || !e.classifier.IsTransient(lastErr) {
			return lastErr
		}
	}

	return lastErr
}
