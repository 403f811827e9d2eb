package exposure

import (
	"context"
	"log/slog"
)

// Slog writes records as structured slog entries at the record level.
type Slog struct {
	logger *slog.Logger
}

func NewSlog(logger *slog.Logger) *Slog {
	return &Slog{logger: logger}
}

func (l *Slog) Log(rec Record) error {
	attrs := []slog.Attr{
		slog.String("id", rec.ID.String()),
		slog.String("experiment", rec.Experiment),
		slog.String("salt", rec.Salt),
		slog.Any("inputs", rec.Inputs.Map()),
		slog.Any("params", map[string]any(rec.Params)),
		slog.Time("exposed_at", rec.Time),
	}
	if len(rec.Extras) > 0 {
		attrs = append(attrs, slog.Any("extras", rec.Extras))
	}
	l.logger.LogAttrs(context.Background(), rec.Level, rec.Event, attrs...)
	return nil
}
