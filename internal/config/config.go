// Package config loads the YAML settings file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTickInterval  = 100 * time.Millisecond
	DefaultTopActivities = 6
)

type Config struct {
	DBPath        string `yaml:"db_path"`
	LogFile       string `yaml:"log_file"`
	LogLevel      string `yaml:"log_level"`
	TickInterval  string `yaml:"tick_interval"`
	TopActivities int    `yaml:"top_activities"`
}

// Default returns the settings used when no file exists.
func Default() *Config {
	dir := appDir()
	return &Config{
		DBPath:        filepath.Join(dir, "timedesk.db"),
		LogFile:       filepath.Join(dir, "timedesk.log"),
		LogLevel:      "info",
		TickInterval:  DefaultTickInterval.String(),
		TopActivities: DefaultTopActivities,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/timedesk/config.yaml, falling back to
// the OS config dir.
func DefaultPath() string {
	return filepath.Join(appDir(), "config.yaml")
}

func appDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		var err error
		if base, err = os.UserConfigDir(); err != nil {
			base = "."
		}
	}
	return filepath.Join(base, "timedesk")
}

// Load reads the file at path over the defaults. A missing file is not an
// error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that have a constrained format.
func (c *Config) Validate() error {
	if _, err := c.Tick(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.TopActivities < 1 {
		return fmt.Errorf("top_activities must be positive, got %d", c.TopActivities)
	}
	return nil
}

// Tick parses TickInterval. Empty means the default.
func (c *Config) Tick() (time.Duration, error) {
	if c.TickInterval == "" {
		return DefaultTickInterval, nil
	}
	d, err := time.ParseDuration(c.TickInterval)
	if err != nil {
		return 0, fmt.Errorf("tick_interval: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("tick_interval must be positive, got %s", d)
	}
	return d, nil
}

// Level maps LogLevel onto a slog level. Empty means info.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if strings.TrimSpace(c.LogLevel) == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}

// Save writes cfg as YAML, creating the directory if needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
