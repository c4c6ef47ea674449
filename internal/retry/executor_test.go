package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")
var errFatal = errors.New("fatal")

type stubClassifier struct{}

func (stubClassifier) IsTransient(err error) bool { return errors.Is(err, errTransient) }

type scriptedOperation struct {
	results []error
	calls   int
}

func (o *scriptedOperation) run(ctx context.Context) error {
	var err error
	if o.calls < len(o.results) {
		err = o.results[o.calls]
	} else {
		err = o.results[len(o.results)-1]
	}
	o.calls++
	return err
}

func fastBackoff(attempts int) *ExponentialBackoff {
	return NewExponentialBackoff(attempts, WithInitialDelay(time.Millisecond), WithJitter(0))
}

func TestExecutor_Execute(t *testing.T) {
	tests := []struct {
		name      string
		attempts  int
		results   []error
		wantErr   error
		wantCalls int
	}{
		{"success first", 3, []error{nil}, nil, 1},
		{"success after retries", 3, []error{errTransient, errTransient, nil}, nil, 3},
		{"fatal no retry", 3, []error{errFatal}, errFatal, 1},
		{"exhausted", 2, []error{errTransient}, errTransient, 3},
		{"transient then fatal", 5, []error{errTransient, errFatal}, errFatal, 2},
		{"no retries", 0, []error{errTransient}, errTransient, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := &scriptedOperation{results: tt.results}
			err := NewExecutor(stubClassifier{}, fastBackoff(tt.attempts)).Execute(context.Background(), op.run)
			if tt.wantErr == nil {
				require.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, tt.wantCalls, op.calls)
		})
	}
}

func TestExecutor_Execute_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	op := &scriptedOperation{results: []error{errTransient}}
	executor := NewExecutor(stubClassifier{}, NewExponentialBackoff(5, WithInitialDelay(time.Hour), WithJitter(0))).
		WithOnRetry(func(int, error, time.Duration) { cancel() })

	err := executor.Execute(ctx, op.run)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, op.calls)
}

func TestExecutor_WithOnRetry_DoesNotModifyReceiver(t *testing.T) {
	base := NewExecutor(stubClassifier{}, fastBackoff(2))
	var seen []int
	withCallback := base.WithOnRetry(func(attempt int, err error, delay time.Duration) {
		seen = append(seen, attempt)
		assert.ErrorIs(t, err, errTransient)
		assert.Equal(t, time.Millisecond<<attempt, delay)
	})

	op := &scriptedOperation{results: []error{errTransient}}
	_ = withCallback.Execute(context.Background(), op.run)
	assert.Equal(t, []int{0, 1}, seen)

	op = &scriptedOperation{results: []error{errTransient}}
	_ = base.Execute(context.Background(), op.run)
	assert.Equal(t, []int{0, 1}, seen)
}

func TestNewExecutor_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewExecutor(nil, fastBackoff(1)) })
	assert.Panics(t, func() { NewExecutor(stubClassifier{}, nil) })
}
