package authgate

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Logger defines an optional logging interface compatible with log/slog.
// This is the same interface used by core for consistent logging across the stack.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NewLogrusLogger returns a Logger adapter for logrus.FieldLogger.
// Key/value pairs are turned into logrus fields.
func NewLogrusLogger(l logrus.FieldLogger) Logger {
	return &logrusLoggerAdapter{l}
}

type logrusLoggerAdapter struct{ l logrus.FieldLogger }

func (a *logrusLoggerAdapter) Debug(msg string, args ...any) { a.with(args).Debug(msg) }
func (a *logrusLoggerAdapter) Info(msg string, args ...any)  { a.with(args).Info(msg) }
func (a *logrusLoggerAdapter) Warn(msg string, args ...any)  { a.with(args).Warn(msg) }
func (a *logrusLoggerAdapter) Error(msg string, args ...any) { a.with(args).Error(msg) }

func (a *logrusLoggerAdapter) with(args []any) logrus.FieldLogger {
	if len(args) == 0 {
		return a.l
	}
	return a.l.WithFields(fieldsFromArgs(args))
}

// fieldsFromArgs pairs up slog-style alternating keys and values. A trailing
// key without a value is kept under "!BADKEY", matching log/slog.
func fieldsFromArgs(args []any) logrus.Fields {
	fields := make(logrus.Fields, len(args)/2+1)
	for i := 0; i < len(args); i += 2 {
		if i+1 == len(args) {
			fields["!BADKEY"] = args[i]
			break
		}

		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}

		value := args[i+1]
		if err, ok := value.(error); ok {
			value = err.Error()
		}
		fields[key] = value
	}
	return fields
}
