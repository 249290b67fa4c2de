package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCircuitBreaker_Do(t *testing.T) {
	t.Run("returns fn error and counts failure", func(t *testing.T) {
		breaker := NewCircuitBreaker(2, time.Minute, 1)
		boom := errors.New("boom")

		require.ErrorIs(t, breaker.Do(func() error { return boom }), boom)
		require.ErrorIs(t, breaker.Do(func() error { return boom }), boom)

		err := breaker.Do(func() error { return nil })
		require.ErrorIs(t, err, ErrCircuitOpen)
	})

	t.Run("success keeps circuit closed", func(t *testing.T) {
		breaker := NewCircuitBreaker(1, time.Minute, 1)

		require.NoError(t, breaker.Do(func() error { return nil }))
		require.NoError(t, breaker.Do(func() error { return nil }))
	})

	t.Run("does not run fn while open", func(t *testing.T) {
		breaker := NewCircuitBreaker(1, time.Minute, 1)
		require.Error(t, breaker.Do(func() error { return errors.New("boom") }))

		ran := false
		err := breaker.Do(func() error {
			ran = true
			return nil
		})
		require.ErrorIs(t, err, ErrCircuitOpen)
		require.False(t, ran)
	})
}
