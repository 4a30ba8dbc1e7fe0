package fetch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrRetriesExhausted is wrapped by the error Do returns once every attempt
// has failed with a retryable error.
var ErrRetriesExhausted = errors.New("retries exhausted")

// Policy describes how often and how patiently an operation is retried. It
// is shared by the listing and detail fetches.
type Policy struct {
	// MaxAttempts counts the initial attempt.
	MaxAttempts int
	// InitialDelay is the wait before the second attempt.
	InitialDelay time.Duration
	// MaxDelay caps the exponential backoff.
	MaxDelay time.Duration
	// Multiplier grows the delay between attempts. 1 gives a fixed delay.
	Multiplier float64
	// IsRetryable decides whether a failed attempt may be repeated.
	IsRetryable func(error) bool
}

// DefaultPolicy returns three attempts with exponential backoff from two
// seconds.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:  3,
		InitialDelay: 2 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		IsRetryable:  IsRetryable,
	}
}

// withDefaults fills unset fields so a zero Policy still behaves.
func (p Policy) withDefaults() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}
	if p.InitialDelay < 0 {
		p.InitialDelay = 0
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = 30 * time.Second
	}
	if p.Multiplier < 1 {
		p.Multiplier = 1
	}
	if p.IsRetryable == nil {
		p.IsRetryable = IsRetryable
	}
	return p
}

// Delay returns the wait after the given failed attempt (1-based).
func (p Policy) Delay(attempt int) time.Duration {
	p = p.withDefaults()
	d := time.Duration(float64(p.InitialDelay) * math.Pow(p.Multiplier, float64(attempt-1)))
	if d > p.MaxDelay || d < 0 {
		d = p.MaxDelay
	}
	return d
}

// Do runs fn until it succeeds, returns a non-retryable error, or the
// attempts run out. fn receives the 1-based attempt number. The returned int
// is the number of attempts made.
func (p Policy) Do(ctx context.Context, fn func(attempt int) error) (int, error) {
	p = p.withDefaults()

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt - 1, err
		}

		lastErr = fn(attempt)
		if lastErr == nil {
			return attempt, nil
		}
		if !p.IsRetryable(lastErr) {
			return attempt, lastErr
		}

		if attempt < p.MaxAttempts {
			timer := time.NewTimer(p.Delay(attempt))
			select {
			case <-ctx.Done():
				timer.Stop()
				return attempt, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return p.MaxAttempts, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, p.MaxAttempts, lastErr)
}
