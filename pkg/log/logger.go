package log

// Logger receives transaction events.
// Implementations must be safe for concurrent use and should not block:
// the bus worker calls Log inline between two transactions.
type Logger interface {
	Log(event Event)
}

// NoopLogger discards all events. The zero value is ready to use.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

var _ Logger = NoopLogger{}
