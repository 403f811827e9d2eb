package config

import (
	"github.com/stretchr/testify/require"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "experiments.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// TestLoadConfig_ParsesAndAdjusts verifies YAML parsing and derived defaults.
func TestLoadConfig_ParsesAndAdjusts(t *testing.T) {
	path := writeConfig(t, `
experiments:
  - name: test_name
    log_level: debug
    overrides:
      bar: 42
  - name: button_color
    salt: button-v2
    auto_exposure: false
namespaces:
  - name: homepage
    primary_unit: userid
    segments: 100
    experiments:
      - name: button_color
        segments: 40
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	exp, ok := cfg.Experiment("test_name")
	require.True(t, ok)
	require.Equal(t, "test_name", exp.Salt, "salt defaults to name")
	require.Equal(t, slog.LevelDebug, exp.LogLevel)
	require.True(t, exp.IsAutoExposure())
	require.Equal(t, map[string]any{"bar": 42}, exp.Overrides)

	exp, ok = cfg.Experiment("button_color")
	require.True(t, ok)
	require.Equal(t, "button-v2", exp.Salt)
	require.False(t, exp.IsAutoExposure())

	ns, ok := cfg.Namespace("homepage")
	require.True(t, ok)
	require.Equal(t, 100, ns.Segments)
	require.Equal(t, []Allocation{{Name: "button_color", Segments: 40}}, ns.Experiments)

	_, ok = cfg.Experiment("missing")
	require.False(t, ok)
}

// TestLoadConfig_MissingFile verifies a stat error is returned.
func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

// TestLoadConfig_BadYAML verifies unmarshal errors are wrapped.
func TestLoadConfig_BadYAML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "experiments: [\n"))
	require.ErrorContains(t, err, "unmarshal yaml")
}

// TestLoadConfig_Empty verifies an empty file is a valid empty config.
func TestLoadConfig_Empty(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	require.Empty(t, cfg.Experiments)
}

// TestValidate_Rejects verifies invalid configs are refused.
func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"experiment without name", "experiments:\n  - salt: x\n"},
		{"namespace without unit", "namespaces:\n  - name: ns\n    segments: 10\n"},
		{"namespace without segments", "namespaces:\n  - name: ns\n    primary_unit: userid\n"},
		{"allocation without segments", "namespaces:\n  - name: ns\n    primary_unit: userid\n    segments: 10\n    experiments:\n      - name: a\n"},
		{"over allocated", "namespaces:\n  - name: ns\n    primary_unit: userid\n    segments: 10\n    experiments:\n      - name: a\n        segments: 6\n      - name: b\n        segments: 5\n"},
		{"allocated twice", "namespaces:\n  - name: ns\n    primary_unit: userid\n    segments: 10\n    experiments:\n      - name: a\n        segments: 1\n      - name: a\n        segments: 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
		})
	}
}
