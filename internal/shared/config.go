package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Hass   HassConfig   `toml:"hass"`
	Widget WidgetConfig `toml:"widget"`
	Log    LogConfig    `toml:"log"`
}

// HassConfig contains the Home Assistant websocket connection settings.
type HassConfig struct {
	URL   string `toml:"url"`
	Token string `toml:"token"`
	// Outbound websocket calls per second. Zero disables limiting.
	RateLimit float64 `toml:"rate_limit"`
}

// WidgetConfig contains the widget synchronization settings.
type WidgetConfig struct {
	// Browsing view location key, e.g. "recently-played".
	ViewURL   string `toml:"view_url"`
	ViewLimit int    `toml:"view_limit"`
	// Delay before refreshing player state after a play command.
	RefreshDelayMS int `toml:"refresh_delay_ms"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Path  string `toml:"path"`
	Level string `toml:"level"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, os.ErrExist)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
