// Package retry runs bounded retries with optional exponential backoff and
// jitter. It is used for idempotent register reads; writes are never
// blindly repeated.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// Defaults for drive register access.
const (
	DefaultAttempts   = 3
	DefaultDelay      = 20 * time.Millisecond
	DefaultMultiplier = 1.0
)

// ErrExhausted wraps the last error once every attempt has failed.
var ErrExhausted = errors.New("retries exhausted")

// Policy describes how often and how patiently to retry.
type Policy struct {
	// Attempts is the total number of tries, including the first. Values
	// below 1 mean a single try.
	Attempts int

	// Delay is the pause after the first failure.
	Delay time.Duration

	// MaxDelay caps the pause. Zero means uncapped.
	MaxDelay time.Duration

	// Multiplier grows the pause after each failure. Values below 1 keep
	// it fixed.
	Multiplier float64

	// Jitter adds up to this fraction of the pause at random.
	Jitter float64
}

// DefaultPolicy is a fixed three-attempt policy.
func DefaultPolicy() Policy {
	return Policy{
		Attempts:   DefaultAttempts,
		Delay:      DefaultDelay,
		Multiplier: DefaultMultiplier,
	}
}

// Sequence returns the pauses between attempts, without jitter.
func (p Policy) Sequence() []time.Duration {
	n := max(p.Attempts, 1) - 1
	out := make([]time.Duration, 0, n)
	d := p.Delay
	for range n {
		out = append(out, d)
		d = p.next(d)
	}
	return out
}

func (p Policy) next(d time.Duration) time.Duration {
	if p.Multiplier > 1 {
		d = time.Duration(float64(d) * p.Multiplier)
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

func (p Policy) jitter(d time.Duration) time.Duration {
	if p.Jitter <= 0 || d <= 0 {
		return d
	}
	return d + time.Duration(float64(d)*p.Jitter*rand.Float64())
}

// Do calls fn until it succeeds, retryable reports false for its error,
// the attempts run out or ctx is done. A nil retryable retries every error.
// The returned error wraps ErrExhausted and the last failure when the
// attempts run out.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error, retryable func(error) bool) error {
	attempts := max(p.Attempts, 1)
	delay := p.Delay

	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if retryable != nil && !retryable(err) {
			return err
		}
		if attempt >= attempts {
			if attempts == 1 {
				return err
			}
			return errors.Join(ErrExhausted, err)
		}

		if d := p.jitter(delay); d > 0 {
			t := time.NewTimer(d)
			select {
			case <-ctx.Done():
				t.Stop()
				return errors.Join(ctx.Err(), err)
			case <-t.C:
			}
		} else if ctx.Err() != nil {
			return errors.Join(ctx.Err(), err)
		}
		delay = p.next(delay)
	}
}

// Value is Do for functions returning a result.
func Value[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error), retryable func(error) bool) (T, error) {
	var out T
	err := Do(ctx, p, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err == nil {
			out = v
		}
		return err
	}, retryable)
	return out, err
}
