package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable reports that a backend could not be reached.
var ErrUnavailable = errors.New("cache unavailable")

// transientError marks a failure that may succeed when tried again.
type transientError struct{ err error }

func (e transientError) Error() string { return e.err.Error() }
func (e transientError) Unwrap() error { return e.err }

// transient wraps err so that withRetry tries again. nil stays nil.
func transient(err error) error {
	if err == nil {
		return nil
	}
	return transientError{err}
}

func isTransient(err error) bool {
	return errors.As(err, new(transientError))
}

// backoff is the retry schedule for remote backends.
type backoff struct {
	attempts int
	delay    time.Duration // doubled after each failed attempt
}

var defaultBackoff = backoff{attempts: 3, delay: time.Second}

// withRetry calls fn until it succeeds, fails permanently, or the attempts
// run out. Only transient errors are retried.
func withRetry(ctx context.Context, fn func() error) error {
	return defaultBackoff.run(ctx, fn)
}

func (b backoff) run(ctx context.Context, fn func() error) error {
	wait := b.delay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !isTransient(err) || attempt >= b.attempts {
			return err
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		wait *= 2
	}
}
