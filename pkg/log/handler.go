package log

import (
	"github.com/cockroachdb/errors"
)

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrorStackMarshaler extracts the stack trace recorded by cockroachdb/errors.
// It is installed as zerolog.ErrorStackMarshaler by SetupLogger so that
// Error records carry a "stacktrace" field.
func ErrorStackMarshaler(err error) interface{} {
	if s := extractStacktrace(err); s != "" {
		return s
	}
	return nil
}

func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}
