// SPDX-FileCopyrightText: 2025 The Dex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package config loads and saves the dex configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/janderssonse/dex/internal/domain"
	"github.com/janderssonse/dex/internal/platform"
	"github.com/pelletier/go-toml/v2"
)

// Environment variables that override file values.
const (
	EnvAPIURL   = "DEX_API_URL"
	EnvPageSize = "DEX_PAGE_SIZE"
)

// FileName is the config file name inside the config directory.
const FileName = "config.toml"

var (
	// ErrUnknownKey is returned by Set for keys the config does not have.
	ErrUnknownKey = errors.New("unknown config key")
	// ErrInvalidValue is returned when a value fails validation.
	ErrInvalidValue = errors.New("invalid config value")
)

// LogConfig configures the log file.
type LogConfig struct {
	File  string `json:"file" toml:"file"`
	Level string `json:"level" toml:"level"`
}

// UIConfig configures the terminal browser.
type UIConfig struct {
	// PrefetchThreshold is how many rows from the bottom the cursor may get
	// before the next page is requested.
	PrefetchThreshold int `json:"prefetch_threshold" toml:"prefetch_threshold"`
	// SearchDebounce delays the search request after the last keystroke.
	SearchDebounce Duration `json:"search_debounce" toml:"search_debounce"`
}

// Config is the on-disk configuration.
type Config struct {
	APIURL   string    `json:"api_url"   toml:"api_url"`
	PageSize int       `json:"page_size" toml:"page_size"`
	Timeout  Duration  `json:"timeout"   toml:"timeout"`
	Log      LogConfig `json:"log"       toml:"log"`
	UI       UIConfig  `json:"ui"        toml:"ui"`
}

// Duration is a time.Duration stored as a string such as "10s".
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: duration %q: %w", ErrInvalidValue, text, err)
	}

	d.Duration = parsed

	return nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIURL:   "https://nestjs-pokedex-api.vercel.app",
		PageSize: domain.DefaultPageSize,
		Log: LogConfig{
			File:  "$XDG_STATE_HOME/dex/dex.log",
			Level: "info",
		},
		UI: UIConfig{
			PrefetchThreshold: 5,
			SearchDebounce:    Duration{300 * time.Millisecond},
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/dex/config.toml.
func DefaultPath() string {
	return filepath.Join(platform.ConfigDir(), FileName)
}

// Validate checks every field that has a constrained domain.
func (c Config) Validate() error {
	if !domain.ValidPageSize(c.PageSize) {
		return fmt.Errorf("%w: page_size %d (allowed %v)", ErrInvalidValue, c.PageSize, domain.PageSizeOptions)
	}

	if c.Timeout.Duration < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalidValue)
	}

	if c.UI.PrefetchThreshold < 0 {
		return fmt.Errorf("%w: ui.prefetch_threshold must not be negative", ErrInvalidValue)
	}

	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.Log.Level) {
		return fmt.Errorf("%w: log.level %q", ErrInvalidValue, c.Log.Level)
	}

	return nil
}

// Load reads path, applies environment overrides and validates the result.
// A missing file yields the defaults.
func Load(path string) (Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an injectable environment for testing.
func LoadWithEnv(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) //nolint:gosec // user-chosen config path
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if value, ok := lookup(EnvAPIURL); ok && value != "" {
		c.APIURL = value
	}

	if value, ok := lookup(EnvPageSize); ok && value != "" {
		size, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidValue, EnvPageSize, value)
		}

		c.PageSize = size
	}

	return nil
}

// Save validates cfg and writes it to path while holding an advisory lock,
// so two dex processes never interleave writes.
func Save(path string, cfg Config) error {
	unlock, err := lockFile(path)
	if err != nil {
		return err
	}
	defer unlock()

	return write(path, cfg)
}

// Update reads the file at path without environment overrides, applies fn and
// writes the result back. The lock is held from read to write, so concurrent
// updates from several processes are serialised and none is lost.
func Update(path string, fn func(*Config) error) (Config, error) {
	unlock, err := lockFile(path)
	if err != nil {
		return Config{}, err
	}
	defer unlock()

	cfg, err := LoadWithEnv(path, func(string) (string, bool) { return "", false })
	if err != nil {
		return Config{}, err
	}

	if err := fn(&cfg); err != nil {
		return Config{}, err
	}

	if err := write(path, cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func lockFile(path string) (func(), error) {
	if err := platform.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, err
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("failed to lock config: %w", err)
	}

	return func() {
		_ = lock.Unlock()
	}, nil
}

func write(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return platform.AtomicWriteFile(path, data, 0o600)
}

// Keys lists the settable keys in file order.
func Keys() []string {
	return []string{"api_url", "page_size", "timeout", "log.file", "log.level", "ui.prefetch_threshold", "ui.search_debounce"}
}

// Set assigns a value by dotted key and validates the result.
func (c *Config) Set(key, value string) error {
	next := *c

	switch strings.ToLower(key) {
	case "api_url":
		next.APIURL = value
	case "page_size":
		size, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: page_size %q", ErrInvalidValue, value)
		}

		next.PageSize = size
	case "timeout":
		if err := next.Timeout.UnmarshalText([]byte(value)); err != nil {
			return err
		}
	case "log.file":
		next.Log.File = value
	case "log.level":
		next.Log.Level = strings.ToLower(value)
	case "ui.prefetch_threshold":
		threshold, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: ui.prefetch_threshold %q", ErrInvalidValue, value)
		}

		next.UI.PrefetchThreshold = threshold
	case "ui.search_debounce":
		if err := next.UI.SearchDebounce.UnmarshalText([]byte(value)); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %s (known: %s)", ErrUnknownKey, key, strings.Join(Keys(), ", "))
	}

	if err := next.Validate(); err != nil {
		return err
	}

	*c = next

	return nil
}

// LogPath returns the expanded log file path.
func (c Config) LogPath() string {
	return platform.ExpandPath(c.Log.File)
}
