// Package config loads the richbridge host configuration from TOML or YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var ErrUnsupportedFormat = errors.New("config: unsupported file extension")

type Config struct {
	Element  ElementConfig `toml:"element" yaml:"element"`
	Store    StoreConfig   `toml:"store" yaml:"store"`
	Watch    WatchConfig   `toml:"watch" yaml:"watch"`
	LogLevel string        `toml:"log_level" yaml:"log_level"`
	LogFile  string        `toml:"log_file" yaml:"log_file"`
}

// ElementConfig holds the initial element properties.
type ElementConfig struct {
	Formats     []string `toml:"formats" yaml:"formats"`
	Theme       string   `toml:"theme" yaml:"theme"`
	Placeholder string   `toml:"placeholder" yaml:"placeholder"`
	ReadOnly    bool     `toml:"read_only" yaml:"read_only"`
}

type StoreConfig struct {
	// Path is the sqlite database file. Empty disables persistence.
	Path string `toml:"path" yaml:"path"`
	// Document is the id of the stored document to open.
	Document string `toml:"document" yaml:"document"`
}

type WatchConfig struct {
	Enabled  bool          `toml:"enabled" yaml:"enabled"`
	Debounce time.Duration `toml:"debounce" yaml:"debounce"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Element: ElementConfig{
			Formats:     []string{"bold", "italic", "underline", "list", "highlight"},
			Theme:       "snow",
			Placeholder: "Compose an epic...",
		},
		Watch:    WatchConfig{Debounce: 100 * time.Millisecond},
		LogLevel: "info",
	}
}

// Load reads path, chosen by extension: .toml, .yaml or .yml. A missing file
// yields Default. Fields absent from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return Default(), fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return Default(), fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// Level maps LogLevel to a slog level. Unknown names mean info.
func (c Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
