// Package trace provides optional diagnostic tracing for the arithmetic
// package: storage escalation decisions, the operand sizes of each division,
// GCD operand sizes. It is silent by default and only starts emitting once a
// logger is attached with SetLogger.
package trace

import (
	"io"

	"github.com/rs/zerolog"
)

var logger zerolog.Logger = zerolog.New(io.Discard)

// SetLogger attaches l as the destination for subsequent trace events. Pass
// a disabled logger (the zero value, or zerolog.Nop()) to silence tracing
// again.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// Event starts a debug-level trace event with the given message. Callers
// chain field setters and finish with Send(); when no logger has been
// attached the event is written to a discard writer.
func Event(msg string) *zerolog.Event {
	return logger.Debug().Str("event", msg)
}
