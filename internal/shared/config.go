package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

const (
	DefaultBaseURL   = "https://api.tvmaze.com"
	DefaultQuery     = "rick-&-morty"
	DefaultTimeout   = 15 * time.Second
	DefaultRateLimit = 2.0
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Show   ShowConfig   `toml:"show"`
	Client ClientConfig `toml:"client"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

// ShowConfig selects the show whose episodes are fetched.
type ShowConfig struct {
	Query string `toml:"query"`
}

// ClientConfig contains outbound HTTP settings for the TVMaze client.
type ClientConfig struct {
	BaseURL   string  `toml:"base_url"`
	Timeout   string  `toml:"timeout"`
	RateLimit float64 `toml:"rate_limit"`
	UserAgent string  `toml:"user_agent"`
}

// ServerConfig contains HTTP server settings for the web UI.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// TimeoutDuration parses [ClientConfig.Timeout].
//
// An empty value yields [DefaultTimeout]; an unparsable or non-positive value yields [DefaultTimeout] and [ErrInvalidConfig].
func (c ClientConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return DefaultTimeout, nil
	}

	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return DefaultTimeout, fmt.Errorf("%w: timeout %q: %v", ErrInvalidConfig, c.Timeout, err)
	}
	if d <= 0 {
		return DefaultTimeout, fmt.Errorf("%w: timeout must be positive, got %q", ErrInvalidConfig, c.Timeout)
	}
	return d, nil
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
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
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
