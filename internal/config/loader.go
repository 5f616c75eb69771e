package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order.
var ConfigPaths = []string{
	"./.portal.yaml",
	"~/.config/portal/config.yaml",
}

// Loader handles configuration loading with priority merging.
type Loader struct {
	configPaths []string
	getenv      func(string) string
}

// NewLoader creates a loader over the default search paths.
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		getenv:      os.Getenv,
	}
}

// Load builds the configuration from, lowest priority first: defaults, the
// search paths (or only customPath when given), then PORTAL_* variables.
// Command line flags are applied by the caller.
func (l *Loader) Load(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, expandPath(customPath)); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			path := expandPath(l.configPaths[i])
			if !fileExists(path) {
				continue
			}
			if err := l.loadFromFile(config, path); err != nil {
				return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
			}
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}
	return config, nil
}

// loadFromFile decodes path on top of config; keys missing from the file
// keep their current values.
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path comes from the fixed search list or a validated flag
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		"PORTAL_UPLOAD_ENDPOINT":  func(v string) error { config.Upload.Endpoint = v; return nil },
		"PORTAL_UPLOAD_TIMEOUT":   func(v string) error { return parseDuration(v, &config.Upload.Timeout) },
		"PORTAL_PICKER_START_DIR": func(v string) error { config.Picker.StartDir = v; return nil },
		"PORTAL_LOG_FILE":         func(v string) error { config.Log.File = v; return nil },
		"PORTAL_LOG_LEVEL":        func(v string) error { config.Log.Level = v; return nil },
		"PORTAL_SERVE_ADDR":       func(v string) error { config.Serve.Addr = v; return nil },
		"PORTAL_SERVE_MAX_BYTES":  func(v string) error { return parseInt64(v, &config.Serve.MaxBytes) },
	}

	for envVar, setter := range envMappings {
		if value := strings.TrimSpace(l.getenv(envVar)); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}
	return nil
}

func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}
	return nil
}

// ExpandPath resolves a leading "~" to the user's home directory.
func ExpandPath(path string) string {
	return expandPath(path)
}

func expandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func parseDuration(value string, target *time.Duration) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return err
	}
	*target = d
	return nil
}

func parseInt64(value string, target *int64) error {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return err
	}
	*target = n
	return nil
}
