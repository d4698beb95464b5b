package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	spin "github.com/charmbracelet/bubbles/spinner"
)

// Spinner animates a message on stderr while a render runs, using the dot
// frames from bubbles. It stops by itself once ctx ends.
type Spinner struct {
	msg    string
	out    io.Writer
	frames spin.Spinner
	parent context.Context

	ctx    context.Context
	cancel context.CancelFunc

	start sync.Once
	stop  sync.Once
	done  chan struct{} // closed when the animation has cleared its line
}

func newSpinner(ctx context.Context, msg string) *Spinner {
	inner, cancel := context.WithCancel(ctx)
	return &Spinner{
		msg:    msg,
		out:    os.Stderr,
		frames: spin.Dot,
		parent: ctx,
		ctx:    inner,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Start begins the animation. Later calls do nothing.
func (s *Spinner) Start() {
	s.start.Do(func() { go s.animate() })
}

func (s *Spinner) animate() {
	defer close(s.done)
	tick := time.NewTicker(s.frames.FPS)
	defer tick.Stop()

	for n := 0; ; n++ {
		select {
		case <-s.ctx.Done():
			fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", len(s.msg)+4))
			return
		case <-tick.C:
			frame := s.frames.Frames[n%len(s.frames.Frames)]
			fmt.Fprintf(s.out, "\r%s %s", styleSpinner.Render(frame), StyleDim.Render(s.msg))
		}
	}
}

// Stop ends the animation and clears its line. It may be called any number
// of times, before or after Start.
func (s *Spinner) Stop() {
	s.stop.Do(func() {
		s.cancel()
		// Claim Start so a late call cannot launch the goroutine.
		launched := true
		s.start.Do(func() { launched = false })
		if launched {
			<-s.done
		}
	})
}

// StopWithError stops the spinner and prints message as a failure.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the context the spinner was created with ended.
func (s *Spinner) Cancelled() bool { return s.parent.Err() != nil }
