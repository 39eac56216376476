// Package cli implements the stemma command-line interface.
//
// Commands read a Graphviz description from a file or URL, lay it out as
// a stemma or a chord diagram, and write the drawing in one or more
// formats. The same pipeline backs the HTTP API started by serve.
//
// # Commands
//
// The main commands are:
//   - layout: Compute a layout and save it as layout.json
//   - render: Produce SVG, PNG, PDF, JSON or positioned DOT output
//   - serve: Run the HTTP API
//   - cache: Manage the local cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so helpers can log without extra
// parameters.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates the CLI logger. Timestamps are short ("14:32:01.45")
// since a run rarely spans more than a few minutes.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one command. Stages are logged at debug level, the
// final line at info level.
type progress struct {
	logger *log.Logger
	start  time.Time
	last   time.Time
}

func newProgress(ctx context.Context) *progress {
	now := time.Now()
	return &progress{logger: loggerFromContext(ctx), start: now, last: now}
}

// stage logs the time spent since the previous stage.
func (p *progress) stage(name string, keyvals ...any) {
	now := time.Now()
	keyvals = append(keyvals, "took", now.Sub(p.last).Round(time.Millisecond))
	p.logger.Debug(name, keyvals...)
	p.last = now
}

// done logs msg with the total elapsed time.
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger stored by withLogger, or
// log.Default when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
