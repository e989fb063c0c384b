// Package log is the structured logging layer of tabframe.
//
// Loggers take alternating key/value fields, like log/slog. The default
// provider writes JSON through zerolog; tests swap in a TestLoggerProvider.
//
//	logger := log.GetLoggerWithName("dataset").With(log.DatasetIDKey, ds.ID())
//	logger.Info("Materializing dataset",
//	    log.OperationKey, log.OperationMaterialize,
//	    log.SamplesKey, ds.Len(),
//	)
package log

import (
	"context"
)

// Logger is implemented by ZerologLogger and TestLogger.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)

	// Error logs at error level. A leading error value in fields becomes the
	// record's error, with its stack trace when one was recorded.
	//
	//	logger.Error("Materialization failed", err, log.ColumnNameKey, "city")
	Error(msg string, fields ...any)

	// With returns a child logger that adds fields to every record.
	With(fields ...any) Logger

	// Enabled reports whether records at level would be written.
	Enabled(ctx context.Context, level Level) bool
}

// Level uses the same numeric values as slog.Level.
type Level int

const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider hands out loggers. SetProvider installs one process-wide.
type LoggerProvider interface {
	GetLogger() Logger
	GetLoggerWithName(name string) Logger
	SetLevel(level Level)
}
