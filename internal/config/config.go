// Package config loads the application config from config.toml under the
// bolt-gives data directory. Missing or unparseable files fall back to
// built-in defaults; out-of-range values are clamped.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultEndpoint is the update-service URL template. Placeholders are
// expanded by the update package at check time.
const DefaultEndpoint = "https://updates.bolt-gives.app/{{target}}/{{arch}}/{{current_version}}"

const (
	defaultCheckIntervalHours = 4
	minCheckIntervalHours     = 1
	maxCheckIntervalHours     = 168

	defaultWindowWidth  = 1024
	defaultWindowHeight = 768
	minWindowDimension  = 320
	maxWindowDimension  = 10000
)

// Config is the full contents of config.toml.
type Config struct {
	Updater UpdaterConfig `toml:"updater"`
	Window  WindowConfig  `toml:"window"`
}

// UpdaterConfig controls the background update poller.
type UpdaterConfig struct {
	// Endpoint is the update manifest URL. Supports {{target}}, {{arch}}
	// and {{current_version}} placeholders.
	Endpoint string `toml:"endpoint"`
	// CheckIntervalHours is the poll interval. Range: 1-168, default 4.
	CheckIntervalHours int `toml:"check_interval_hours"`
	// Disabled turns the background poller off entirely. Manual checks
	// still work.
	Disabled bool `toml:"disabled"`
}

// WindowConfig holds the default main-window size, used when no saved
// bounds exist.
type WindowConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Updater: UpdaterConfig{
			Endpoint:           DefaultEndpoint,
			CheckIntervalHours: defaultCheckIntervalHours,
		},
		Window: WindowConfig{
			Width:  defaultWindowWidth,
			Height: defaultWindowHeight,
		},
	}
}

// Load reads the config file at path. A missing file returns defaults with
// no error; a malformed file returns defaults as well, since a broken
// config must never stop the app from launching.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return Default(), nil
	}

	cfg.normalize()
	return cfg, nil
}

// DefaultPath returns ~/.bolt-gives/config.toml, or a /tmp fallback when
// the home directory cannot be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("/tmp", ".bolt-gives", "config.toml")
	}
	return filepath.Join(home, ".bolt-gives", "config.toml")
}

// normalize applies defaults for empty values and clamps ranges.
func (c *Config) normalize() {
	if c.Updater.Endpoint == "" {
		c.Updater.Endpoint = DefaultEndpoint
	}

	switch {
	case c.Updater.CheckIntervalHours == 0:
		c.Updater.CheckIntervalHours = defaultCheckIntervalHours
	case c.Updater.CheckIntervalHours < minCheckIntervalHours:
		c.Updater.CheckIntervalHours = minCheckIntervalHours
	case c.Updater.CheckIntervalHours > maxCheckIntervalHours:
		c.Updater.CheckIntervalHours = maxCheckIntervalHours
	}

	c.Window.Width = clampDimension(c.Window.Width, defaultWindowWidth)
	c.Window.Height = clampDimension(c.Window.Height, defaultWindowHeight)
}

func clampDimension(v, def int) int {
	switch {
	case v == 0:
		return def
	case v < minWindowDimension:
		return minWindowDimension
	case v > maxWindowDimension:
		return maxWindowDimension
	}
	return v
}
