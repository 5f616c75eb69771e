// Package config loads portal settings from YAML files and the environment.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/csheth/portal/internal/logging"
)

// Config holds the complete application configuration.
type Config struct {
	Upload UploadConfig `yaml:"upload"`
	Picker PickerConfig `yaml:"picker"`
	Log    LogConfig    `yaml:"log"`
	Serve  ServeConfig  `yaml:"serve"`
}

// UploadConfig describes the upload endpoint.
type UploadConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// PickerConfig configures the file picker on the upload page.
type PickerConfig struct {
	StartDir   string `yaml:"start_dir"`
	ShowHidden bool   `yaml:"show_hidden"`
}

// LogConfig configures logging. The TUI discards logs unless File is set.
type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// ServeConfig configures the simulated upload receiver.
type ServeConfig struct {
	Addr     string `yaml:"addr"`
	MaxBytes int64  `yaml:"max_bytes"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Upload: UploadConfig{
			Endpoint: "http://localhost:8080/api/upload",
			Timeout:  30 * time.Second,
		},
		Picker: PickerConfig{
			StartDir: "~",
		},
		Log: LogConfig{
			Level: "info",
		},
		Serve: ServeConfig{
			Addr:     ":8080",
			MaxBytes: 10 << 20,
		},
	}
}

// Validate checks the configuration for values the portal cannot use.
func (c *Config) Validate() error {
	endpoint, err := url.Parse(c.Upload.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid upload endpoint: %w", err)
	}
	if endpoint.Scheme != "http" && endpoint.Scheme != "https" {
		return fmt.Errorf("upload endpoint must be an http(s) URL, got %q", c.Upload.Endpoint)
	}
	if endpoint.Host == "" {
		return fmt.Errorf("upload endpoint %q has no host", c.Upload.Endpoint)
	}
	if c.Upload.Timeout <= 0 {
		return fmt.Errorf("upload timeout must be positive")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Serve.MaxBytes < 0 {
		return fmt.Errorf("serve max_bytes must be non-negative")
	}
	return nil
}
