// Package cli implements the geosvg command-line interface.
//
// The CLI wraps pkg/pipeline: every command builds pipeline.Options from its
// flags (or a scene file), runs them through a cached pipeline.Runner, and
// writes the resulting artifacts. It is built on cobra, with charmbracelet/log
// for logging and lipgloss for terminal output.
//
// # Commands
//
//   - render: draw inputs to SVG, PNG, PDF or JSON
//   - bounds: print the computed viewBox and size
//   - serve: run the HTTP render service
//   - preview: browse layers and their outline in the terminal
//   - cache: inspect and clear the local cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// turns on the observability log hooks.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger writes timestamped lines ("14:32:01.45") to w at level and above.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times a command and its steps. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
	last   time.Time
}

func newProgress(l *log.Logger) *progress {
	now := time.Now()
	return &progress{logger: l, start: now, last: now}
}

// step logs at debug level how long the named step took since the previous
// step.
func (p *progress) step(name string) {
	now := time.Now()
	p.logger.Debug("step", "name", name, "duration", now.Sub(p.last).Round(time.Millisecond))
	p.last = now
}

// done logs msg with the total elapsed time, e.g. "Rendered 3 layers (1.234s)",
// followed by any key/value pairs.
func (p *progress) done(msg string, keyvals ...any) {
	p.logger.Info(fmt.Sprintf("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond)), keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
