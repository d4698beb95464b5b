package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/geosvg/pkg/errors"
)

const (
	// MaxBody bounds a fetched input.
	MaxBody = 64 << 20

	// DefaultAttempts is how often Fetch tries before giving up.
	DefaultAttempts = 3

	// DefaultDelay is the wait before the first retry.
	DefaultDelay = 500 * time.Millisecond
)

// DefaultClient is used when Fetch is given a nil client.
var DefaultClient = &http.Client{Timeout: 30 * time.Second}

// IsURL reports whether an input names a remote resource.
func IsURL(s string) bool {
	l := strings.ToLower(s)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// Fetch downloads url with retries.
func Fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	return fetch(ctx, client, url, fetchConfig{
		attempts: DefaultAttempts,
		delay:    DefaultDelay,
		maxBody:  MaxBody,
	})
}

type fetchConfig struct {
	attempts int
	delay    time.Duration
	maxBody  int64
}

func fetch(ctx context.Context, client *http.Client, url string, cfg fetchConfig) ([]byte, error) {
	if client == nil {
		client = DefaultClient
	}
	var data []byte
	err := Retry(ctx, cfg.attempts, cfg.delay, func() error {
		var err error
		data, err = get(ctx, client, url, cfg.maxBody)
		return err
	})
	if err != nil {
		if IsRetryable(err) {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "fetch %s: giving up after %d attempts", url, cfg.attempts)
		}
		return nil, err
	}
	return data, nil
}

func get(ctx context.Context, client *http.Client, url string, maxBody int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "bad url %s", url)
	}
	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RetryableError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.New(errors.ErrCodeFileNotFound, "fetch %s: %s", url, resp.Status)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &RetryableError{
			Err:   fmt.Errorf("server returned %s", resp.Status),
			After: retryAfter(resp.Header.Get("Retry-After")),
		}
	case resp.StatusCode != http.StatusOK:
		return nil, errors.New(errors.ErrCodeInvalidInput, "fetch %s: %s", url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return nil, &RetryableError{Err: err}
	}
	if int64(len(data)) > maxBody {
		return nil, errors.New(errors.ErrCodeInvalidInput, "fetch %s: body exceeds %d bytes", url, maxBody)
	}
	return data, nil
}

// maxRetryAfter caps how long a server may ask us to wait.
const maxRetryAfter = 10 * time.Second

// retryAfter parses a Retry-After header given in seconds. HTTP dates and
// bad values count as no preference.
func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return min(time.Duration(secs)*time.Second, maxRetryAfter)
}
