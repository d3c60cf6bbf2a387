package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

const (
	DialectVerbatim = "verbatim"
	DialectRFC4180  = "rfc4180"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Backend BackendConfig `toml:"backend"`
	Session SessionConfig `toml:"session"`
	Export  ExportConfig  `toml:"export"`
	Bulk    BulkConfig    `toml:"bulk"`
	Logging LoggingConfig `toml:"logging"`
}

// BackendConfig locates the playlist backend.
type BackendConfig struct {
	BaseURL string `toml:"base_url"`
}

// SessionConfig holds the cookie string attached to backend requests.
type SessionConfig struct {
	Cookie string `toml:"cookie"`
}

// ExportConfig controls where single-playlist CSV exports are written.
type ExportConfig struct {
	Dir      string `toml:"dir"`
	Filename string `toml:"filename"`
	Dialect  string `toml:"dialect"`
}

// BulkConfig tunes the bulk exporter.
type BulkConfig struct {
	Workers   int     `toml:"workers"`
	RateLimit float64 `toml:"rate_limit"`
}

// LoggingConfig contains log file settings used while the TUI is running.
type LoggingConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults. The result is not validated,
// callers apply overrides first and then call [Config.Validate].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
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

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Backend.BaseURL) == "" {
		return fmt.Errorf("%w: backend.base_url is required", ErrInvalidConfig)
	}

	switch c.Export.Dialect {
	case "", DialectVerbatim, DialectRFC4180:
	default:
		return fmt.Errorf("%w: unknown export.dialect %q", ErrInvalidConfig, c.Export.Dialect)
	}
	return nil
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

// SaveConfig encodes config as TOML to path, replacing the file.
func SaveConfig(path string, config *Config) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
