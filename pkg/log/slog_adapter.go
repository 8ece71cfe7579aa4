package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes capture events to an slog.Logger: successful operations
// at Debug level, failures at Warn.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a SlogAdapter writing to logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session_id", event.SessionID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}
	if event.Entity != "" {
		attrs = append(attrs, slog.String("entity", event.Entity))
	}

	if p := event.Payload; p != nil {
		attrs = append(attrs, slog.Int("size", p.Size))
		if p.Duration > 0 {
			attrs = append(attrs, slog.Duration("duration", p.Duration))
		}
		if p.Truncated {
			attrs = append(attrs, slog.Bool("truncated", true))
		}
	}

	level := slog.LevelDebug
	if e := event.Error; e != nil {
		level = slog.LevelWarn
		attrs = append(attrs,
			slog.String("error_kind", e.Kind.String()),
			slog.String("error_msg", e.Message),
		)
		if e.Field != "" {
			attrs = append(attrs, slog.String("field", e.Field))
		}
		if e.Offset != nil {
			attrs = append(attrs, slog.Int("offset", *e.Offset))
		}
	}

	a.logger.LogAttrs(context.Background(), level, "codec", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
