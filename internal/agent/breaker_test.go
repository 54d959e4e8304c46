package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	b := NewBreaker("test", BreakerSettings{Failures: 2, Timeout: time.Hour})
	boom := errors.New("boom")
	calls := 0
	fail := func() (string, error) {
		calls++
		return "", boom
	}

	for range 2 {
		_, err := guard(b, fail)
		require.ErrorIs(t, err, boom)
	}
	assert.Equal(t, "open", b.State())

	_, err := guard(b, fail)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 2, calls)
}

func TestBreakerIgnoresCancellation(t *testing.T) {
	b := NewBreaker("test", BreakerSettings{Failures: 1, Timeout: time.Hour})
	_, err := guard(b, func() (int, error) { return 0, context.Canceled })
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "closed", b.State())

	got, err := guard(b, func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestGuardWithoutBreaker(t *testing.T) {
	got, err := guard(nil, func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestIsRateLimitError(t *testing.T) {
	assert.False(t, IsRateLimitError(nil))
	assert.False(t, IsRateLimitError(errors.New("connection refused")))
	assert.True(t, IsRateLimitError(gatewayError(errors.New("RESOURCE_EXHAUSTED: try later"))))
	assert.True(t, IsRateLimitError(errors.New("daily quota exceeded")))
}

func TestGatewayErrorWrapsOnce(t *testing.T) {
	err := gatewayError(gatewayError(errors.New("x")))
	assert.ErrorIs(t, err, ErrGateway)
	assert.Nil(t, gatewayError(nil))
}
