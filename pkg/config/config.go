// Package config loads lyrewrite settings from a YAML file and the environment
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/james-see/lyrewrite/pkg/converter"
	"github.com/james-see/lyrewrite/pkg/pitch"
)

// Environment variables that override the file
const (
	EnvConfig = "LYREWRITE_CONFIG"
	EnvPort   = "LYREWRITE_PORT"
	EnvDSN    = "SENTRY_DSN"
)

// Config holds all settings
type Config struct {
	// Language is the pitch language token listings assume before any
	// \language command
	Language string `yaml:"language"`
	// Encoding of LilyPond files read and written from disk
	Encoding string `yaml:"encoding"`
	// AddLanguage makes translate insert a \language command when the
	// document has none
	AddLanguage bool `yaml:"add_language"`

	Server ServerConfig `yaml:"server"`
	Sentry SentryConfig `yaml:"sentry"`
}

// ServerConfig configures the REST API
type ServerConfig struct {
	Port        int    `yaml:"port"`
	Mode        string `yaml:"mode"` // gin mode: debug, release or test
	MaxBodySize int64  `yaml:"max_body_size"`
}

// SentryConfig configures error reporting and tracing
type SentryConfig struct {
	DSN              string  `yaml:"dsn"`
	Environment      string  `yaml:"environment"`
	TracesSampleRate float64 `yaml:"traces_sample_rate"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Language: pitch.DefaultLanguage,
		Encoding: string(converter.UTF8),
		Server: ServerConfig{
			Port:        8080,
			Mode:        "release",
			MaxBodySize: 4 << 20,
		},
		Sentry: SentryConfig{
			Environment:      "production",
			TracesSampleRate: 1.0,
		},
	}
}

// DefaultPath returns the config file used when none is given:
// $LYREWRITE_CONFIG, or lyrewrite/config.yaml in the user config directory
func DefaultPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "lyrewrite", "config.yaml")
}

// Load reads the config file at path over the defaults and applies the
// environment. An empty path loads DefaultPath if it exists.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case explicit || !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse reads settings from YAML data over the defaults
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides settings from environment variables
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		c.Server.Port = port
	}
	if v := getenv(EnvDSN); v != "" {
		c.Sentry.DSN = v
	}
	return nil
}

// Validate checks that the settings are usable
func (c *Config) Validate() error {
	if _, ok := pitch.Lookup(c.Language); !ok {
		return fmt.Errorf("unknown pitch language %q", c.Language)
	}
	if _, err := converter.ParseEncoding(c.Encoding); err != nil {
		return err
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.Sentry.TracesSampleRate < 0 || c.Sentry.TracesSampleRate > 1 {
		return fmt.Errorf("traces_sample_rate must be between 0 and 1, got %v", c.Sentry.TracesSampleRate)
	}
	return nil
}

// FileEncoding returns the parsed file encoding
func (c *Config) FileEncoding() converter.Encoding {
	enc, err := converter.ParseEncoding(c.Encoding)
	if err != nil {
		return converter.UTF8
	}
	return enc
}

// Write saves the settings as YAML
func (c *Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
