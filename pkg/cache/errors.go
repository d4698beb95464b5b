package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/geosvg/pkg/httputil"
)

// ErrUnavailable is returned when a remote backend cannot be reached.
var ErrUnavailable = errors.New("cache backend unavailable")

// Connection retry settings; tests shorten the delay.
var (
	pingAttempts = 3
	pingDelay    = 500 * time.Millisecond
)

// ping runs check until it succeeds, retrying while the backend refuses
// connections (a Redis or MongoDB container that is still starting). Every
// failure is reported as ErrUnavailable.
func ping(ctx context.Context, check func(context.Context) error) error {
	return httputil.Retry(ctx, pingAttempts, pingDelay, func() error {
		if err := check(ctx); err != nil {
			return &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
		}
		return nil
	})
}
