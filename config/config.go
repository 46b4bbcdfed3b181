package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Screen     ScreenConfig     `toml:"screen"`
	Simulation SimulationConfig `toml:"simulation"`
	Prefabs    PrefabConfig     `toml:"prefabs"`
	Logging    LoggingConfig    `toml:"logging"`
}

type ScreenConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

type SimulationConfig struct {
	FixedDelta   float64 `toml:"fixed_delta"`   // seconds per FixedUpdate tick
	MaxFramerate int     `toml:"max_framerate"` // 0 = uncapped
	Capacity     int     `toml:"capacity"`      // entity table size
	Seed         int64   `toml:"seed"`
	Pirates      int     `toml:"pirates"`
	Planets      int     `toml:"planets"`
}

type PrefabConfig struct {
	Dir   string `toml:"dir"` // empty = embedded specs only
	Watch bool   `toml:"watch"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// Load reads a TOML file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Defaults() *Config {
	return &Config{
		Screen: ScreenConfig{
			Width:  1280,
			Height: 720,
			Title:  "Pirates",
		},
		Simulation: SimulationConfig{
			FixedDelta:   0.02,
			MaxFramerate: 60,
			Capacity:     1024,
			Seed:         1,
			Pirates:      64,
			Planets:      16,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		errs = append(errs, fmt.Errorf("screen size %dx%d must be positive", c.Screen.Width, c.Screen.Height))
	}
	if c.Simulation.FixedDelta <= 0 {
		errs = append(errs, fmt.Errorf("fixed_delta %v must be positive", c.Simulation.FixedDelta))
	}
	if c.Simulation.MaxFramerate < 0 {
		errs = append(errs, fmt.Errorf("max_framerate %d must not be negative", c.Simulation.MaxFramerate))
	}
	if c.Simulation.Capacity < 0 {
		errs = append(errs, fmt.Errorf("capacity %d must not be negative", c.Simulation.Capacity))
	}
	if c.Simulation.Pirates < 0 || c.Simulation.Planets < 0 {
		errs = append(errs, errors.New("pirate and planet counts must not be negative"))
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging format %q must be json or console", c.Logging.Format))
	}
	return errors.Join(errs...)
}

// TicksPerSecond is the host tick rate matching FixedDelta.
func (c *Config) TicksPerSecond() int {
	if c.Simulation.FixedDelta <= 0 {
		return 0
	}
	return int(1/c.Simulation.FixedDelta + 0.5)
}
