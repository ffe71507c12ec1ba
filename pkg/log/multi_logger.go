package log

// MultiLogger fans events out to several loggers in order.
// Nil entries are skipped.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger returns a MultiLogger over loggers.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	out := make([]Logger, 0, len(loggers))
	for _, l := range loggers {
		if l != nil {
			out = append(out, l)
		}
	}
	return &MultiLogger{loggers: out}
}

// Log forwards the event to every logger.
func (m *MultiLogger) Log(event Event) {
	for _, l := range m.loggers {
		l.Log(event)
	}
}

// Len returns the number of wrapped loggers.
func (m *MultiLogger) Len() int { return len(m.loggers) }

var _ Logger = (*MultiLogger)(nil)
