package config

import (
	"fmt"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
	"os"
)

// Config groups static experiment and namespace settings.
// Assignment procedures are code; only their surroundings are configured.
type Config struct {
	// Experiments configures experiments by name.
	Experiments []*Experiment `yaml:"experiments" validate:"dive,required"`

	// Namespaces configures segment-based namespaces.
	Namespaces []*Namespace `yaml:"namespaces" validate:"dive,required"`
}

// Experiment returns the experiment configured under name.
func (cfg *Config) Experiment(name string) (*Experiment, bool) {
	for _, e := range cfg.Experiments {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// Namespace returns the namespace configured under name.
func (cfg *Config) Namespace(name string) (*Namespace, bool) {
	for _, n := range cfg.Namespaces {
		if n.Name == name {
			return n, true
		}
	}
	return nil, false
}

func (cfg *Config) AdjustConfig() {
	for _, e := range cfg.Experiments {
		e.AdjustConfig()
	}
}

// Validate checks struct constraints and cross-field rules.
func (cfg *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	for _, n := range cfg.Namespaces {
		if err := n.validate(); err != nil {
			return fmt.Errorf("validate namespace %s: %w", n.Name, err)
		}
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config yaml file %s: %w", path, err)
	}

	var cfg *Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml from %s: %w", path, err)
	}
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.AdjustConfig()

	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
