package config

import "log/slog"

// Experiment configures one experiment.
type Experiment struct {
	// Name identifies the experiment in exposure records.
	Name string `yaml:"name" validate:"required"`

	// Salt is the experiment-level salt. Changing it re-randomizes every subject.
	// Defaults to Name.
	Salt string `yaml:"salt"`

	// LogLevel is the level exposure records are written at.
	// Accepts slog level names, e.g. "debug", "info", "warn+2".
	LogLevel slog.Level `yaml:"log_level"`

	// AutoExposure enables logging on the first parameter read.
	// If nil, it defaults to true.
	AutoExposure *bool `yaml:"auto_exposure"`

	// Overrides pin parameter values for every subject, e.g. for QA.
	Overrides map[string]any `yaml:"overrides"`
}

func (cfg *Experiment) AdjustConfig() {
	if cfg.Salt == "" {
		cfg.Salt = cfg.Name
	}
	if cfg.AutoExposure == nil {
		enabled := true
		cfg.AutoExposure = &enabled
	}
}

// IsAutoExposure reports whether auto exposure logging is on.
func (cfg *Experiment) IsAutoExposure() bool {
	return cfg.AutoExposure == nil || *cfg.AutoExposure
}
