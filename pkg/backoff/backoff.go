// Package backoff provides the shared retry policy for external capability
// adapters (embedding, generation, vector storage). Transient provider
// failures are retried with exponential backoff and jitter; validation
// failures are marked permanent and returned immediately.
package backoff

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// Policy describes how an operation is retried.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration

	// MaxDelay caps the exponential growth of the delay.
	MaxDelay time.Duration

	// Jitter adds up to 25% random variation to each delay when true,
	// spreading out retries from concurrent requests.
	Jitter bool
}

// DefaultPolicy matches the provider adapters' needs: a handful of quick
// retries that give up within a few seconds.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 4,
		BaseDelay:   200 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		Jitter:      true,
	}
}

type permanentError struct {
	err error
}

func (p *permanentError) Error() string { return p.err.Error() }

func (p *permanentError) Unwrap() error { return p.err }

// Permanent wraps err so Retry stops immediately instead of retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Delay returns the backoff delay for the given zero-based retry attempt.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	d := p.BaseDelay << uint(attempt)
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}

	if p.Jitter && d > 0 {
		d += time.Duration(rand.Int63n(int64(d)/4 + 1))
	}

	return d
}

// Retry runs fn until it succeeds, returns a permanent error, the policy is
// exhausted, or ctx is cancelled. The returned error is the last error seen
// from fn, unwrapped from any Permanent marker.
func Retry(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		lastErr = err

		if attempt == p.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.Delay(attempt)):
		}
	}

	return lastErr
}
