package agent

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"home-library/internal/logging"
)

// BreakerSettings configures the circuit breaker shared by the Gemini clients.
type BreakerSettings struct {
	// Failures is the number of consecutive failures that opens the circuit.
	Failures uint32
	// Timeout is how long the circuit stays open before a trial request.
	Timeout time.Duration
}

// Breaker fails Gemini calls fast while the service keeps failing. It never retries.
type Breaker struct {
	cb *gobreaker.CircuitBreaker[any]
}

func NewBreaker(name string, s BreakerSettings) *Breaker {
	if s.Failures == 0 {
		s.Failures = 5
	}
	if s.Timeout <= 0 {
		s.Timeout = 30 * time.Second
	}
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.Failures
		},
		// A caller giving up is not a service failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("component", "breaker").Str("breaker", name).
				Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})
	return &Breaker{cb: cb}
}

// State reports the breaker state as "closed", "half-open" or "open".
func (b *Breaker) State() string {
	return b.cb.State().String()
}

// guard runs fn through the breaker. Rejections map to ErrUnavailable.
func guard[T any](b *Breaker, fn func() (T, error)) (T, error) {
	var zero T
	if b == nil {
		return fn()
	}
	result, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, errors.Join(ErrUnavailable, err)
		}
		return zero, err
	}
	typed, _ := result.(T)
	return typed, nil
}
