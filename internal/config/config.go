// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultFPS          = 60
	DefaultPollInterval = "1s"
	DefaultDebounce     = "150ms"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)

// Config represents the milk configuration.
type Config struct {
	Theme  ThemeConfig  `toml:"theme"`
	Engine EngineConfig `toml:"engine"`
	Log    LogConfig    `toml:"log"`
	Render RenderConfig `toml:"render"`
}

// ThemeConfig selects the active theme.
type ThemeConfig struct {
	Name string `toml:"name"` // Empty = built-in default theme
	Dir  string `toml:"dir"`  // Themes directory override (empty = XDG data dir)
}

// EngineConfig holds tick and reload settings.
type EngineConfig struct {
	FPS          int    `toml:"fps" validate:"min=1,max=240"`
	PollInterval string `toml:"poll_interval" validate:"duration"`
	Watch        bool   `toml:"watch"`
	Debounce     string `toml:"debounce" validate:"duration"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level" validate:"oneof=debug info warn error"`
	Format string `toml:"format" validate:"oneof=text json"`
}

// RenderConfig holds surface settings. Zero means size to the terminal.
type RenderConfig struct {
	Width  int `toml:"width" validate:"min=0"`
	Height int `toml:"height" validate:"min=0"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Theme: ThemeConfig{
			Name: "",
			Dir:  "",
		},
		Engine: EngineConfig{
			FPS:          DefaultFPS,
			PollInterval: DefaultPollInterval,
			Watch:        true,
			Debounce:     DefaultDebounce,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Render: RenderConfig{},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "milk", "config.toml")
}

// DataPath returns the path to the data directory.
// Uses XDG_DATA_HOME if set, otherwise ~/.local/share.
func DataPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "milk")
}

// ThemesPath returns the directory themes are installed under,
// honoring the configured override.
func (c *Config) ThemesPath() string {
	if c.Theme.Dir != "" {
		return c.Theme.Dir
	}
	return filepath.Join(DataPath(), "themes")
}

// PollIntervalDuration parses the metric poll interval, falling back
// to the default on garbage.
func (c *Config) PollIntervalDuration() time.Duration {
	if d, err := time.ParseDuration(c.Engine.PollInterval); err == nil && d > 0 {
		return d
	}
	d, _ := time.ParseDuration(DefaultPollInterval)
	return d
}

// DebounceDuration parses the reload debounce window, falling back to
// the default on garbage.
func (c *Config) DebounceDuration() time.Duration {
	if d, err := time.ParseDuration(c.Engine.Debounce); err == nil && d > 0 {
		return d
	}
	d, _ := time.ParseDuration(DefaultDebounce)
	return d
}

// FrameInterval converts the configured FPS into a tick period.
func (c *Config) FrameInterval() time.Duration {
	fps := c.Engine.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	return time.Second / time.Duration(fps)
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
