package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates the CLI logger. Build warnings such as dropped nodes
// arrive here with their counts as fields; with -v the pipeline stages,
// cache lookups and downloads are logged too.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// step times one command step, such as re-rendering a trace, and logs
// it once with structured fields:
//
//	INFO rendered trace=mesh.json formats=svg elapsed=41ms
type step struct {
	logger *log.Logger
	name   string
	start  time.Time
}

func startStep(l *log.Logger, name string) *step {
	return &step{logger: l, name: name, start: time.Now()}
}

// done logs the step with keyvals and the elapsed time in milliseconds.
func (s *step) done(keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(s.start).Round(time.Millisecond))
	s.logger.Info(s.name, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches the CLI logger to a command context.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by the root command, or
// log.Default() outside a command.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
