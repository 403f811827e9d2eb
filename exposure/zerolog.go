package exposure

import (
	"github.com/rs/zerolog"
	"log/slog"
)

// Zerolog writes records through a zerolog.Logger.
type Zerolog struct {
	logger zerolog.Logger
}

func NewZerolog(logger zerolog.Logger) *Zerolog {
	return &Zerolog{logger: logger}
}

func (l *Zerolog) Log(rec Record) error {
	e := l.logger.WithLevel(zerologLevel(rec.Level)).
		Str("id", rec.ID.String()).
		Str("experiment", rec.Experiment).
		Str("salt", rec.Salt).
		Interface("inputs", rec.Inputs.Map()).
		Interface("params", map[string]any(rec.Params)).
		Time("exposed_at", rec.Time)
	if len(rec.Extras) > 0 {
		e = e.Interface("extras", rec.Extras)
	}
	e.Msg(rec.Event)
	return nil
}

func zerologLevel(l slog.Level) zerolog.Level {
	switch {
	case l < slog.LevelInfo:
		return zerolog.DebugLevel
	case l < slog.LevelWarn:
		return zerolog.InfoLevel
	case l < slog.LevelError:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}
