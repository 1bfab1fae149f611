package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fnderrors "github.com/nabbar/foundation/errors"
	"github.com/nabbar/foundation/resilience/retry"
)

func TestDoSucceedsWithoutRetry(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), retry.NewPolicy(), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	p := retry.NewPolicy()
	p.MaxAttempts = 5
	p.BaseDelay = time.Millisecond
	p.MaxDelay = 5 * time.Millisecond

	calls := 0
	err := retry.Do(context.Background(), p, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoSurfacesMaxRetriesExceeded(t *testing.T) {
	p := retry.NewPolicy()
	p.MaxAttempts = 2
	p.BaseDelay = time.Millisecond

	calls := 0
	err := retry.Do(context.Background(), p, func() error {
		calls++
		return errors.New("permanent failure")
	})
	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.True(t, fnderrors.IsKind(err, fnderrors.KindRetryable))
}

func TestDoSurfacesNonRetryableImmediately(t *testing.T) {
	p := retry.NewPolicy()
	p.MaxAttempts = 5
	p.Retryable = func(err error) bool { return false }

	calls := 0
	sentinel := errors.New("do not retry me")
	err := retry.Do(context.Background(), p, func() error {
		calls++
		return sentinel
	})
	assert.Equal(t, 1, calls)
	assert.Equal(t, sentinel, err)
}

func TestDoWrapsNonRetryableOnFinalAttempt(t *testing.T) {
	p := retry.NewPolicy()
	p.MaxAttempts = 1
	p.Retryable = func(err error) bool { return false }

	calls := 0
	sentinel := errors.New("do not retry me")
	err := retry.Do(context.Background(), p, func() error {
		calls++
		return sentinel
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, fnderrors.CodeMaxRetriesExceeded, fnderrors.As(err).Code())
	assert.ErrorIs(t, err, sentinel)
}

func TestDoRespectsCancellation(t *testing.T) {
	p := retry.NewPolicy()
	p.MaxAttempts = 10
	p.BaseDelay = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	err := retry.Do(ctx, p, func() error {
		calls++
		return errors.New("keeps failing")
	})
	require.Error(t, err)
	assert.True(t, fnderrors.IsKind(err, fnderrors.KindTimeout))
}

func TestDoStatusTreatsStatusAsRetryable(t *testing.T) {
	p := retry.NewPolicy()
	p.MaxAttempts = 3
	p.BaseDelay = time.Millisecond
	p.RetryableStatus = map[int]struct{}{503: {}}

	calls := 0
	status, err := retry.DoStatus(context.Background(), p, func() (int, error) {
		calls++
		if calls < 2 {
			return 503, nil
		}
		return 200, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 200, status)
	assert.Equal(t, 2, calls)
}

func TestAsyncDeliversResult(t *testing.T) {
	out := retry.Async(context.Background(), retry.NewPolicy(), func() error { return nil })
	select {
	case res := <-out:
		assert.NoError(t, res.Err)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for async retry result")
	}
}

func TestDelayStrategiesRespectMaxDelay(t *testing.T) {
	for _, s := range []retry.Strategy{retry.Fixed, retry.Linear, retry.Exponential, retry.Fibonacci} {
		p := retry.NewPolicy()
		p.Strategy = s
		p.BaseDelay = time.Second
		p.MaxDelay = 2 * time.Second
		p.Jitter = false

		calls := 0
		start := time.Now()
		_ = retry.Do(context.Background(), p, func() error {
			calls++
			if calls < 2 {
				return errors.New("once")
			}
			return nil
		})
		assert.Less(t, time.Since(start), 3*time.Second, "strategy %s must respect MaxDelay", s)
	}
}
