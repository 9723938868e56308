// Package config handles CLI configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultKeyRef is the keystore entry used when api_key_ref is not set.
const DefaultKeyRef = "synthesia"

// Config represents the CLI configuration.
type Config struct {
	// APIKeyRef names the keystore entry holding the API key.
	APIKeyRef    string        `yaml:"api_key_ref"`
	BaseURL      string        `yaml:"base_url,omitempty"`
	UploadURL    string        `yaml:"upload_url,omitempty"`
	Timeout      time.Duration `yaml:"timeout,omitempty"`
	PollInterval time.Duration `yaml:"poll_interval,omitempty"`
	Defaults     VideoDefaults `yaml:"defaults,omitempty"`
}

// VideoDefaults are applied to "videos create" when the matching flag is not set.
type VideoDefaults struct {
	Avatar     string `yaml:"avatar,omitempty"`
	Background string `yaml:"background,omitempty"`
	Visibility string `yaml:"visibility,omitempty"`
	Test       bool   `yaml:"test,omitempty"`
}

// Dir returns the directory holding CLI state: ~/.reel, or the working
// directory when the home directory cannot be determined.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".reel")
}

// DefaultConfigPath returns the default configuration file path, ~/.reel/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// LoadConfig loads configuration from the specified path.
// If the file doesn't exist, returns an empty config without error.
// Returns an error only if the file exists but cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Timeout < 0 || cfg.PollInterval < 0 {
		return nil, fmt.Errorf("parse %s: durations must not be negative", path)
	}

	return cfg, nil
}

// KeyRef returns the keystore entry name for the API key.
func (c *Config) KeyRef() string {
	if c == nil || c.APIKeyRef == "" {
		return DefaultKeyRef
	}
	return c.APIKeyRef
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
