package log

// Logger receives register transaction events.
// Pass nil or NoopLogger to disable capture.
type Logger interface {
	// Log records a transaction. It must not block for long: it runs
	// inline with every bus access.
	Log(event Event)
}

// NoopLogger discards all events.
// NoopLogger is safe for concurrent use and usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// Compile-time interface satisfaction check.
var _ Logger = NoopLogger{}
