package log

import (
	"context"
	"fmt"
	"log/slog"
)

// SlogAdapter writes events to an slog.Logger at Debug level, or at Warn
// level for failed transactions.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter returns an adapter writing to logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("bus_id", event.BusID),
		slog.Int("slave", int(event.SlaveID)),
		slog.String("category", event.Category.String()),
	}
	if event.Port != "" {
		attrs = append(attrs, slog.String("port", event.Port))
	}

	level := slog.LevelDebug
	switch {
	case event.Transaction != nil:
		tx := event.Transaction
		attrs = append(attrs,
			slog.Uint64("seq", tx.Seq),
			slog.String("op", tx.Op.String()),
			slog.String("addr", fmt.Sprintf("0x%04X", tx.Address)),
			slog.Int("count", int(tx.Count)),
			slog.String("outcome", tx.Outcome.String()),
			slog.Duration("queue_wait", tx.QueueWait),
			slog.Duration("duration", tx.Duration),
		)
		if len(tx.Words) > 0 {
			attrs = append(attrs, slog.Any("words", tx.Words))
		}
	case event.Slave != nil:
		attrs = append(attrs, slog.String("action", event.Slave.Action.String()))
	}
	if event.Error != nil {
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("error", event.Error.Message))
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("error_context", event.Error.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), level, "bus", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
