package log

import (
	"fmt"
	"io"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

// Logger is what any plinth library should take.
type Logger interface {
	Debug(msg string, keyvals ...interface{})
	Info(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})

	With(keyvals ...interface{}) Logger
}

const msgKey = "_msg" // "_" prefixed to avoid collisions

type kitLogger struct {
	srcLogger kitlog.Logger
}

// Interface assertions
var _ Logger = (*kitLogger)(nil)

// NewLogger returns a logger that encodes msg and keyvals to the Writer
// in logfmt, using go-kit's log as an underlying logger.
//
// Default logging level is info. You can change it using WithLevel.
func NewLogger(w io.Writer) Logger {
	srcLogger := kitlog.NewLogfmtLogger(w)
	srcLogger = level.NewFilter(srcLogger, level.AllowInfo())
	return &kitLogger{srcLogger}
}

// Info logs a message at level Info.
func (l *kitLogger) Info(msg string, keyvals ...interface{}) {
	lWithLevel := level.Info(l.srcLogger)
	_ = kitlog.With(lWithLevel, msgKey, msg).Log(keyvals...)
}

// Debug logs a message at level Debug.
func (l *kitLogger) Debug(msg string, keyvals ...interface{}) {
	lWithLevel := level.Debug(l.srcLogger)
	_ = kitlog.With(lWithLevel, msgKey, msg).Log(keyvals...)
}

// Error logs a message at level Error.
func (l *kitLogger) Error(msg string, keyvals ...interface{}) {
	lWithLevel := level.Error(l.srcLogger)
	_ = kitlog.With(lWithLevel, msgKey, msg).Log(keyvals...)
}

// With returns a new contextual logger with keyvals prepended to those
// passed to calls to Info, Debug or Error.
func (l *kitLogger) With(keyvals ...interface{}) Logger {
	return &kitLogger{kitlog.With(l.srcLogger, keyvals...)}
}

// WithLevel returns a copy of the logger with a level set to lvl.
func WithLevel(logger Logger, lvl string) Logger {
	switch l := logger.(type) {
	case *kitLogger:
		switch lvl {
		case "info":
			return &kitLogger{level.NewFilter(l.srcLogger, level.AllowInfo())}
		case "debug":
			return &kitLogger{level.NewFilter(l.srcLogger, level.AllowDebug())}
		case "error":
			return &kitLogger{level.NewFilter(l.srcLogger, level.AllowError())}
		default:
			panic(fmt.Sprintf("Unexpected level %v, expect either \"info\" or \"debug\" or \"error\"", lvl))
		}
	case *nopLogger:
		return logger
	default:
		panic(fmt.Sprintf("Unexpected logger of type %T", logger))
	}
}

// NewSyncWriter returns a new writer that is safe for concurrent use by
// multiple goroutines. Writes to the returned writer are passed on to w. If
// another write is already in progress, the calling goroutine blocks until
// the writer is available.
func NewSyncWriter(w io.Writer) io.Writer {
	return kitlog.NewSyncWriter(w)
}
