package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDraws(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), "Rendering...")
	s.out = &out
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(out.String(), "Rendering...") {
		t.Errorf("spinner output = %q, want the message", out.String())
	}
	if s.Cancelled() {
		t.Error("Cancelled() = true after a plain Stop")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinner(ctx, "Testing with context...")
	s.out = &syncBuffer{}
	s.Start()
	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Cancelled() = false after context cancellation")
	}
	s.Stop()
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinner(ctx, "Testing with timeout...")
	s.out = &syncBuffer{}
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Cancelled() = false after context timeout")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), "Testing idempotent stop...")
	s.out = &syncBuffer{}
	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopBeforeStart(t *testing.T) {
	s := newSpinner(context.Background(), "never started")
	s.out = &syncBuffer{}

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop() before Start() blocked")
	}
}

func TestSpinnerStartTwice(t *testing.T) {
	s := newSpinner(context.Background(), "twice")
	s.out = &syncBuffer{}
	s.Start()
	s.Start()
	s.Stop()
}
