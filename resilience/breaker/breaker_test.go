package breaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabbar/foundation/resilience/breaker"
)

func TestBreakerStartsClosed(t *testing.T) {
	b := breaker.New("t1", 3, 50*time.Millisecond, 1)
	assert.Equal(t, breaker.Closed, b.State())
}

func TestBreakerOpensAfterThreshold(t *testing.T) {
	b := breaker.New("t2", 2, 50*time.Millisecond, 1)
	boom := errors.New("boom")

	require.Error(t, b.Run(func() error { return boom }))
	assert.Equal(t, breaker.Closed, b.State())

	require.Error(t, b.Run(func() error { return boom }))
	assert.Equal(t, breaker.Open, b.State())
}

func TestBreakerShortCircuitsWhenOpen(t *testing.T) {
	b := breaker.New("t3", 1, time.Hour, 1)
	require.Error(t, b.Run(func() error { return errors.New("fail") }))
	assert.Equal(t, breaker.Open, b.State())

	called := false
	err := b.Run(func() error { called = true; return nil })
	require.Error(t, err)
	assert.False(t, called, "work function must not run while circuit is open")
}

func TestBreakerHalfOpensAfterRecoveryTimeout(t *testing.T) {
	b := breaker.New("t4", 1, 10*time.Millisecond, 1)
	require.Error(t, b.Run(func() error { return errors.New("fail") }))
	assert.Equal(t, breaker.Open, b.State())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, breaker.HalfOpen, b.State())
}

func TestBreakerClosesOnFirstHalfOpenSuccess(t *testing.T) {
	b := breaker.New("t5", 1, 10*time.Millisecond, 1)
	require.Error(t, b.Run(func() error { return errors.New("fail") }))
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, b.Run(func() error { return nil }))
	assert.Equal(t, breaker.Closed, b.State())
}

func TestBreakerReopensOnHalfOpenFailure(t *testing.T) {
	b := breaker.New("t6", 1, 10*time.Millisecond, 1)
	require.Error(t, b.Run(func() error { return errors.New("fail") }))
	time.Sleep(20 * time.Millisecond)

	require.Error(t, b.Run(func() error { return errors.New("fail again") }))
	assert.Equal(t, breaker.Open, b.State())
}

func TestResetForcesClosed(t *testing.T) {
	b := breaker.New("t7", 1, time.Hour, 1)
	require.Error(t, b.Run(func() error { return errors.New("fail") }))
	assert.Equal(t, breaker.Open, b.State())

	b.Reset()
	assert.Equal(t, breaker.Closed, b.State())
}
