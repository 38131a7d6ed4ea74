// Package config provides configuration management for the sourcemap CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ConcatMode selects ConcatSourceMapBuilder's interning join strategy.
type ConcatMode string

const (
	// ConcatDisjoint appends each contribution's sources/names without
	// deduplication by value.
	ConcatDisjoint ConcatMode = "disjoint"

	// ConcatDedupe collapses equal-valued sources/names across
	// contributions to a single id.
	ConcatDedupe ConcatMode = "dedupe"
)

// IsValid reports whether the concat mode is one of the known values.
func (m ConcatMode) IsValid() bool {
	switch m {
	case ConcatDisjoint, ConcatDedupe:
		return true
	default:
		return false
	}
}

// Config is the complete sourcemap CLI configuration.
type Config struct {
	Concat  ConcatConfig  `toml:"concat"`
	Watch   WatchConfig   `toml:"watch"`
	Logging LoggingConfig `toml:"logging"`
}

// ConcatConfig controls how `sourcemap concat` joins contributions.
type ConcatConfig struct {
	// Mode selects the interning join strategy: "disjoint" or "dedupe".
	Mode ConcatMode `toml:"mode"`
}

// WatchConfig controls `sourcemap watch`'s debounce behavior.
type WatchConfig struct {
	// DebounceMillis delays re-validation after a filesystem event, so a
	// burst of writes from one save only triggers one re-check.
	DebounceMillis int `toml:"debounce_millis"`
}

// LoggingConfig controls the CLI's log verbosity.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `toml:"level"`
}

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Concat: ConcatConfig{
			Mode: ConcatDisjoint,
		},
		Watch: WatchConfig{
			DebounceMillis: 200,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration with precedence:
//  1. CLI flags (highest priority), passed as overrides
//  2. project ./sourcemap.toml
//  3. user ~/.config/sourcemap/config.toml
//  4. built-in defaults (lowest priority)
func Load(overrides *Config) (*Config, error) {
	cfg := Default()

	home, _ := os.UserHomeDir()
	userConfigPath := filepath.Join(home, ".config", "sourcemap", "config.toml")
	if err := loadConfigFile(userConfigPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}

	if err := loadConfigFile("sourcemap.toml", cfg); err != nil {
		return nil, fmt.Errorf("failed to load project config: %w", err)
	}

	if overrides != nil {
		if overrides.Concat.Mode != "" {
			cfg.Concat.Mode = overrides.Concat.Mode
		}
		if overrides.Watch.DebounceMillis != 0 {
			cfg.Watch.DebounceMillis = overrides.Watch.DebounceMillis
		}
		if overrides.Logging.Level != "" {
			cfg.Logging.Level = overrides.Logging.Level
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration holds sane values.
func (c *Config) Validate() error {
	if !c.Concat.Mode.IsValid() {
		return fmt.Errorf("invalid concat.mode: %q (must be %q or %q)", c.Concat.Mode, ConcatDisjoint, ConcatDedupe)
	}
	if c.Watch.DebounceMillis < 0 {
		return fmt.Errorf("invalid watch.debounce_millis: %d (must be >= 0)", c.Watch.DebounceMillis)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	return nil
}
