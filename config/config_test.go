package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "piratesim.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[simulation]
capacity = 2
seed = 42

[logging]
format = "json"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 2, cfg.Simulation.Capacity)
	require.Equal(t, int64(42), cfg.Simulation.Seed)
	require.Equal(t, "json", cfg.Logging.Format)

	// untouched keys keep their defaults
	require.Equal(t, 1280, cfg.Screen.Width)
	require.Equal(t, 720, cfg.Screen.Height)
	require.Equal(t, 0.02, cfg.Simulation.FixedDelta)
	require.Equal(t, 60, cfg.Simulation.MaxFramerate)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadShippedConfig(t *testing.T) {
	cfg, err := Load("piratesim.toml")
	require.NoError(t, err)
	require.Equal(t, 50, cfg.TicksPerSecond())
	require.Equal(t, "prefabs", cfg.Prefabs.Dir)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "[simulation\n"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "[simulation]\nfixed_delta = 0.0\n"))
	require.ErrorContains(t, err, "fixed_delta")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"zero capacity allowed", func(c *Config) { c.Simulation.Capacity = 0 }, ""},
		{"negative capacity", func(c *Config) { c.Simulation.Capacity = -1 }, "capacity"},
		{"bad screen", func(c *Config) { c.Screen.Width = 0 }, "screen size"},
		{"negative framerate", func(c *Config) { c.Simulation.MaxFramerate = -5 }, "max_framerate"},
		{"negative pirates", func(c *Config) { c.Simulation.Pirates = -1 }, "counts"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging format"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Defaults()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}
