// Package config holds the CLI's settings and loads them from an optional
// YAML file. There is no search path: a file is read only when named by
// --config or TEXTLOOP_CONFIG.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvVar names the file to load when --config is not given.
const EnvVar = "TEXTLOOP_CONFIG"

type Backend string

const (
	// BackendAuto picks the native console on Windows and Bubble Tea elsewhere.
	BackendAuto    Backend = "auto"
	BackendConsole Backend = "console"
	BackendTea     Backend = "tea"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	// IntervalMs is the pause between ticks in milliseconds.
	IntervalMs int     `yaml:"interval_ms"`
	Backend    Backend `yaml:"backend"`

	// Overlay enables the alternate-buffer overlay.
	Overlay bool `yaml:"overlay"`

	// OverlayX is the column of the overlay's left edge.
	OverlayX int `yaml:"overlay_x"`

	LogLevel string `yaml:"log_level"`

	// LogFile receives log output. Empty means stderr.
	LogFile string `yaml:"log_file"`
}

func Default() *Config {
	return &Config{
		IntervalMs: 50,
		Backend:    BackendAuto,
		Overlay:    true,
		OverlayX:   0,
		LogLevel:   "warn",
	}
}

// Load reads the file named by path, or by TEXTLOOP_CONFIG when path is
// empty. With neither set it returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile merges the YAML file at path over the defaults and validates
// the result. Keys absent from the file keep their default values.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.IntervalMs < 0 {
		return fmt.Errorf("%w: interval_ms must be >= 0, got %d", ErrInvalid, c.IntervalMs)
	}
	if c.OverlayX < 0 {
		return fmt.Errorf("%w: overlay_x must be >= 0, got %d", ErrInvalid, c.OverlayX)
	}
	switch c.Backend {
	case BackendAuto, BackendConsole, BackendTea:
	default:
		return fmt.Errorf("%w: backend must be auto, console or tea, got %q", ErrInvalid, c.Backend)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel. An empty level means warn.
func (c *Config) Level() (slog.Level, error) {
	if strings.TrimSpace(c.LogLevel) == "" {
		return slog.LevelWarn, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	return l, nil
}
