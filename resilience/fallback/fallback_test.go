package fallback_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabbar/foundation/resilience/fallback"
)

func TestRunReturnsPrimaryResultOnSuccess(t *testing.T) {
	v, err := fallback.Run(func() (any, error) { return "primary", nil })
	require.NoError(t, err)
	assert.Equal(t, "primary", v)
}

func TestRunFallsBackOnPrimaryFailure(t *testing.T) {
	v, err := fallback.Run(
		func() (any, error) { return nil, errors.New("primary down") },
		func() (any, error) { return "alt", nil },
	)
	require.NoError(t, err)
	assert.Equal(t, "alt", v)
}

func TestRunReturnsLastErrorWhenAllFail(t *testing.T) {
	lastErr := errors.New("last failure")
	_, err := fallback.Run(
		func() (any, error) { return nil, errors.New("first failure") },
		func() (any, error) { return nil, lastErr },
	)
	assert.Equal(t, lastErr, err)
}

func TestRunSkipsLaterCandidatesOnceOneSucceeds(t *testing.T) {
	calledThird := false
	_, err := fallback.Run(
		func() (any, error) { return nil, errors.New("fail") },
		func() (any, error) { return "second", nil },
		func() (any, error) { calledThird = true; return "third", nil },
	)
	require.NoError(t, err)
	assert.False(t, calledThird)
}

func TestChainAddAppendsCandidate(t *testing.T) {
	c := fallback.NewChain(func() (any, error) { return nil, errors.New("fail") })
	c.Add(func() (any, error) { return "added", nil })

	v, err := c.Run()
	require.NoError(t, err)
	assert.Equal(t, "added", v)
}
