// Package config holds the sash runtime's policy knobs: queue depth, crash
// policy, logging. Defaults match the runtime's documented behavior and can
// be overridden from a YAML file for deployments that need different
// tradeoffs.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PanicPolicy selects what the dispatcher does when a window worker faults.
type PanicPolicy string

const (
	// PanicExit terminates the event loop immediately with PanicExitCode.
	PanicExit PanicPolicy = "exit"
	// PanicIsolate only closes the faulted window; the loop exits with
	// PanicExitCode once the last window closes.
	PanicIsolate PanicPolicy = "isolate"
)

// Config carries the runtime tunables.
type Config struct {
	// MailboxCapacity bounds each window's event queue. When a worker stalls
	// and its queue fills, further events are dropped rather than blocking
	// the platform loop.
	MailboxCapacity int `yaml:"mailbox_capacity"`

	// PanicPolicy controls whether a window fault takes down the process.
	PanicPolicy PanicPolicy `yaml:"panic_policy"`

	// PanicExitCode is the process exit status after a window fault,
	// distinguishing it from a normal shutdown (exit 0).
	PanicExitCode int `yaml:"panic_exit_code"`

	// LogLevel is the minimum slog level: debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		MailboxCapacity: 65536,
		PanicPolicy:     PanicExit,
		PanicExitCode:   101,
		LogLevel:        "info",
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "sash", "config.yaml"), nil
}

// Load reads the config from the standard location, falling back to the
// defaults when no file exists.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return LoadFromPath(path)
}

// LoadFromPath reads and validates the config at path. Unset fields keep
// their default values.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the config for values the runtime cannot operate with.
func (c *Config) Validate() error {
	if c.MailboxCapacity < 1 {
		return fmt.Errorf("mailbox_capacity must be positive, got %d", c.MailboxCapacity)
	}
	switch c.PanicPolicy {
	case PanicExit, PanicIsolate:
	default:
		return fmt.Errorf("panic_policy must be %q or %q, got %q", PanicExit, PanicIsolate, c.PanicPolicy)
	}
	if c.PanicExitCode == 0 {
		return fmt.Errorf("panic_exit_code must be nonzero to be distinguishable from a clean exit")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return nil
}
