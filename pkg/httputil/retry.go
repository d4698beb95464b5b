package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a failure worth another attempt. A positive After
// asks the next attempt to wait at least that long, as a server's
// Retry-After header does.
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is wrapped in a [RetryableError].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Retry calls fn until it succeeds, returns an error that is not a
// [RetryableError], or has been called attempts times (at least once).
// The wait between calls starts at delay and doubles each time.
//
// It returns nil, the last error from fn, or ctx.Err() if ctx ends while
// waiting.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	for n := 1; ; n++ {
		err := fn()
		var re *RetryableError
		if err == nil || n >= attempts || !errors.As(err, &re) {
			return err
		}

		wait := max(delay, re.After)
		delay *= 2
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
