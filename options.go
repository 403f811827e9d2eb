package ashsplit

import (
	"github.com/Borislavv/go-ash-split/config"
	"github.com/Borislavv/go-ash-split/exposure"
	"github.com/Borislavv/go-ash-split/model"
	"github.com/benbjohnson/clock"
	"log/slog"
)

type Option func(e *Experiment)

// WithLogger sets the exposure logging collaborator.
func WithLogger(logger exposure.Logger) Option {
	return func(e *Experiment) { e.SetLogger(logger) }
}

// WithDiagnostics sets the logger used for the experiment's own diagnostics,
// e.g. swallowed exposure failures.
func WithDiagnostics(logger *slog.Logger) Option {
	return func(e *Experiment) {
		if logger != nil {
			e.diag = logger
		}
	}
}

func WithClock(c clock.Clock) Option {
	return func(e *Experiment) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithOnLogError registers a callback for swallowed logging failures.
func WithOnLogError(fn func(error)) Option {
	return func(e *Experiment) { e.onLogError = fn }
}

func WithOverrides(overrides model.Params) Option {
	return func(e *Experiment) { e.overrides = overrides.Clone() }
}

// WithName forces the experiment name after Setup ran.
func WithName(name string) Option {
	return func(e *Experiment) { e.name = name }
}

// WithSalt forces the experiment salt after Setup ran.
func WithSalt(salt string) Option {
	return func(e *Experiment) { e.salt = salt }
}

// FromConfig builds a Definition whose settings and overrides come from cfg.
func FromConfig(cfg *config.Experiment, assign AssignFunc) Definition {
	return Definition{
		Name:      cfg.Name,
		Assign:    assign,
		Overrides: model.Params(cfg.Overrides).Clone(),
		Setup: func(s *Settings) {
			if cfg.Salt != "" {
				s.Salt = cfg.Salt
			}
			s.LogLevel = cfg.LogLevel
			s.AutoExposure = cfg.IsAutoExposure()
		},
	}
}
