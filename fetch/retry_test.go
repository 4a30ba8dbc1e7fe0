package fetch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPolicy_Delay verifies exponential growth and the cap
func TestPolicy_Delay(t *testing.T) {
	p := Policy{
		MaxAttempts:  5,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     300 * time.Millisecond,
		Multiplier:   2,
	}

	assert.Equal(t, 100*time.Millisecond, p.Delay(1))
	assert.Equal(t, 200*time.Millisecond, p.Delay(2))
	assert.Equal(t, 300*time.Millisecond, p.Delay(3), "should be capped at MaxDelay")
}

// TestPolicy_DelayFixed verifies a multiplier of 1 keeps the delay constant
func TestPolicy_DelayFixed(t *testing.T) {
	p := Policy{InitialDelay: time.Second, Multiplier: 1}

	assert.Equal(t, time.Second, p.Delay(1))
	assert.Equal(t, time.Second, p.Delay(4))
}

// TestPolicy_DoSucceedsAfterRetries verifies transient failures are retried
func TestPolicy_DoSucceedsAfterRetries(t *testing.T) {
	p := Policy{MaxAttempts: 4, InitialDelay: time.Millisecond, Multiplier: 1}

	calls := 0
	attempts, err := p.Do(context.Background(), func(attempt int) error {
		calls++
		if attempt < 3 {
			return errors.New("connection reset")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, calls)
}

// TestPolicy_DoExhausts verifies the bound and the wrapped sentinel
func TestPolicy_DoExhausts(t *testing.T) {
	p := Policy{MaxAttempts: 3, InitialDelay: time.Millisecond, Multiplier: 1}
	cause := errors.New("boom")

	calls := 0
	attempts, err := p.Do(context.Background(), func(int) error {
		calls++
		return cause
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, calls)
}

// TestPolicy_DoStopsOnPermanentError verifies the predicate is honored
func TestPolicy_DoStopsOnPermanentError(t *testing.T) {
	permanent := errors.New("permanent")
	p := Policy{
		MaxAttempts:  5,
		InitialDelay: time.Millisecond,
		IsRetryable:  func(err error) bool { return !errors.Is(err, permanent) },
	}

	calls := 0
	attempts, err := p.Do(context.Background(), func(int) error {
		calls++
		return permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.NotErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, calls)
}

// TestPolicy_DoHonorsCancellation verifies a cancelled context stops retries
func TestPolicy_DoHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Policy{MaxAttempts: 5, InitialDelay: time.Hour}

	calls := 0
	_, err := p.Do(ctx, func(int) error {
		calls++
		cancel()
		return errors.New("timeout")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

// TestPolicy_ZeroValue verifies a zero policy makes a single attempt
func TestPolicy_ZeroValue(t *testing.T) {
	calls := 0
	_, err := Policy{}.Do(context.Background(), func(int) error {
		calls++
		return errors.New("fail")
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}
