package fractal

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called while a render goroutine is logging.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for fractal and its sub-packages.
// By default, fractal produces no log output.
//
// SetLogger is safe for concurrent use. Pass nil to restore the silent default.
//
// Log levels used by fractal:
//   - [slog.LevelDebug]: render timings, superseded renders, gesture transitions
//   - [slog.LevelInfo]: lifecycle events (capture written, session opened)
//   - [slog.LevelWarn]: non-fatal issues (display rejected a frame, restore failed)
//
// Example:
//
//	fractal.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by fractal.
// Sub-packages (integration/wsview, integration/fractalcanvas) call this to
// share the same logger configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
