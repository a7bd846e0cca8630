package log

import (
	"context"
	"log/slog"
)

// LevelTrace is the slog level used for raw transactions, one step below Debug.
const LevelTrace = slog.LevelDebug - 4

// SlogAdapter writes transaction events to an slog.Logger at LevelTrace.
// Useful during bring-up when you want to watch the bus in the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger.
func (a *SlogAdapter) Log(event Event) {
	ctx := context.Background()
	if !a.logger.Enabled(ctx, LevelTrace) {
		return
	}

	attrs := []slog.Attr{
		slog.String("direction", event.Direction.String()),
		slog.Int("register", int(event.Register)),
		slog.Int("value", int(event.Value)),
	}
	if event.SessionID != "" {
		attrs = append(attrs, slog.String("session_id", event.SessionID))
	}
	if event.Operation != "" {
		attrs = append(attrs, slog.String("operation", event.Operation))
	}
	if event.Failed() {
		attrs = append(attrs, slog.String("error", event.Error))
	}

	a.logger.LogAttrs(ctx, LevelTrace, "register", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
