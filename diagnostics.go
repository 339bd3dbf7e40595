package archecs

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// diagLogger is the structured sink for fatal programming-error
// reports: double-borrow, writer capacity violations, type-registry
// overflow and other internal misuse. It defaults to a
// console writer on stderr so a panic's message and the structured
// event land in the same place a developer is already looking;
// SetDiagnosticsLogger lets a host application redirect it to its own
// zerolog pipeline.
var diagLogger zerolog.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

// SetDiagnosticsLogger replaces the logger used to report fatal
// programming errors before aborting. Call it once during host
// application startup if structured logs should flow into an existing
// zerolog pipeline rather than stderr.
func SetDiagnosticsLogger(logger zerolog.Logger) {
	diagLogger = logger
}

// abortf logs a structured fatal event and then panics with the same
// message. These are programming errors, never user-recoverable
// failures, so there is no error return path here.
func abortf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	diagLogger.Error().Str("component", "archecs").Msg(msg)
	panic(msg)
}
