package config

import "fmt"

// Namespace configures a set of mutually exclusive experiments sharing a
// population split into segments.
type Namespace struct {
	// Name is also the namespace salt.
	Name string `yaml:"name" validate:"required"`

	// PrimaryUnit is the input name subjects are bucketed on, e.g. "userid".
	PrimaryUnit string `yaml:"primary_unit" validate:"required"`

	// Segments is the number of buckets the population is split into.
	// Example: 100 -> every segment holds ~1% of subjects.
	Segments int `yaml:"segments" validate:"gt=0"`

	// Experiments are allocated in order; the order matters for which
	// segments each one receives.
	Experiments []Allocation `yaml:"experiments" validate:"dive"`
}

// Allocation assigns an experiment a number of segments.
type Allocation struct {
	Name     string `yaml:"name" validate:"required"`
	Segments int    `yaml:"segments" validate:"gt=0"`
}

func (cfg *Namespace) validate() error {
	total := 0
	seen := make(map[string]struct{}, len(cfg.Experiments))
	for _, a := range cfg.Experiments {
		if _, dup := seen[a.Name]; dup {
			return fmt.Errorf("experiment %s allocated twice", a.Name)
		}
		seen[a.Name] = struct{}{}
		total += a.Segments
	}
	if total > cfg.Segments {
		return fmt.Errorf("allocations need %d segments, only %d exist", total, cfg.Segments)
	}
	return nil
}
