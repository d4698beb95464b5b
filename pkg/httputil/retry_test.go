package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {
	errTransient := &RetryableError{Err: errors.New("transient")}
	errFatal := errors.New("fatal")

	tests := []struct {
		name      string
		failures  []error
		attempts  int
		wantCalls int
		wantErr   error
	}{
		{"first try", nil, 3, 1, nil},
		{"recovers", []error{errTransient, errTransient}, 3, 3, nil},
		{"gives up", []error{errTransient, errTransient, errTransient}, 3, 3, errTransient},
		{"fatal stops", []error{errFatal}, 3, 1, errFatal},
		{"zero attempts runs once", []error{errTransient}, 0, 1, errTransient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), tt.attempts, time.Millisecond, func() error {
				calls++
				if calls <= len(tt.failures) {
					return tt.failures[calls-1]
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Retry() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, 5, time.Hour, func() error {
		calls++
		cancel()
		return &RetryableError{Err: errors.New("transient")}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retry() = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryHonorsAfter(t *testing.T) {
	start := time.Now()
	calls := 0
	err := Retry(context.Background(), 2, time.Millisecond, func() error {
		calls++
		if calls == 1 {
			return &RetryableError{Err: errors.New("slow down"), After: 30 * time.Millisecond}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry() = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("Retry waited %v, want at least 30ms", elapsed)
	}
}
