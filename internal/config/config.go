// Package config loads the toolflow TOML configuration. A missing
// config file is not an error: defaults apply. Unknown keys produce
// warnings, invalid values produce errors.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/adrien/toolflow/internal/palette"
)

type Config struct {
	Display DisplayConfig
	View    ViewConfig
	Watch   WatchConfig
	Palette PaletteConfig
}

type DisplayConfig struct {
	RefreshRateMS     int `toml:"refresh_rate_ms"`
	MaxTableRows      int `toml:"max_table_rows"`
	WarningBufferSize int `toml:"warning_buffer_size"`
}

type ViewConfig struct {
	DefaultMode string `toml:"default_mode"` // "all" or "errors"
}

type WatchConfig struct {
	Enabled    bool `toml:"enabled"`
	DebounceMS int  `toml:"debounce_ms"`
}

type PaletteConfig struct {
	Colors []string `toml:"colors"` // #rrggbb entries; empty keeps the built-in palette
}

// LoadResult carries the effective config plus non-fatal warnings.
type LoadResult struct {
	Config   Config
	Warnings []string
}

func DefaultConfig() Config {
	return Config{
		Display: DisplayConfig{
			RefreshRateMS:     1000,
			MaxTableRows:      20,
			WarningBufferSize: 10,
		},
		View: ViewConfig{DefaultMode: "all"},
		Watch: WatchConfig{
			Enabled:    true,
			DebounceMS: 250,
		},
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "toolflow", "config.toml")
}

// Load reads the config from the default location.
func Load() (*LoadResult, error) {
	return LoadFrom(defaultConfigPath())
}

// LoadFrom reads the config at path, applying defaults for anything
// not set. A missing file yields the defaults with no warnings.
func LoadFrom(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &LoadResult{Config: DefaultConfig()}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromString(string(data))
}

type tomlFile struct {
	Display *DisplayConfig `toml:"display"`
	View    *ViewConfig    `toml:"view"`
	Watch   *WatchConfig   `toml:"watch"`
	Palette *PaletteConfig `toml:"palette"`
}

// LoadFromString parses config from the given TOML content.
func LoadFromString(data string) (*LoadResult, error) {
	result := &LoadResult{Config: DefaultConfig()}

	var tf tomlFile
	meta, err := toml.Decode(data, &tf)
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	for _, key := range meta.Undecoded() {
		result.Warnings = append(result.Warnings, fmt.Sprintf("unknown config key: %q", key))
	}

	merge(&result.Config, &tf, meta)

	if err := validate(&result.Config); err != nil {
		return nil, err
	}
	return result, nil
}

// merge copies only the keys actually present in the file onto the
// defaults, so a partial section does not zero its siblings.
func merge(cfg *Config, tf *tomlFile, meta toml.MetaData) {
	if tf.Display != nil {
		if meta.IsDefined("display", "refresh_rate_ms") {
			cfg.Display.RefreshRateMS = tf.Display.RefreshRateMS
		}
		if meta.IsDefined("display", "max_table_rows") {
			cfg.Display.MaxTableRows = tf.Display.MaxTableRows
		}
		if meta.IsDefined("display", "warning_buffer_size") {
			cfg.Display.WarningBufferSize = tf.Display.WarningBufferSize
		}
	}
	if tf.View != nil && meta.IsDefined("view", "default_mode") {
		cfg.View.DefaultMode = tf.View.DefaultMode
	}
	if tf.Watch != nil {
		if meta.IsDefined("watch", "enabled") {
			cfg.Watch.Enabled = tf.Watch.Enabled
		}
		if meta.IsDefined("watch", "debounce_ms") {
			cfg.Watch.DebounceMS = tf.Watch.DebounceMS
		}
	}
	if tf.Palette != nil && meta.IsDefined("palette", "colors") {
		cfg.Palette.Colors = tf.Palette.Colors
	}
}

func validate(cfg *Config) error {
	if cfg.Display.RefreshRateMS < 100 {
		return fmt.Errorf("display.refresh_rate_ms must be >= 100, got %d", cfg.Display.RefreshRateMS)
	}
	if cfg.Display.MaxTableRows < 1 {
		return fmt.Errorf("display.max_table_rows must be >= 1, got %d", cfg.Display.MaxTableRows)
	}
	if cfg.Display.WarningBufferSize < 1 {
		return fmt.Errorf("display.warning_buffer_size must be >= 1, got %d", cfg.Display.WarningBufferSize)
	}
	switch cfg.View.DefaultMode {
	case "all", "errors":
	default:
		return fmt.Errorf("view.default_mode must be %q or %q, got %q", "all", "errors", cfg.View.DefaultMode)
	}
	if cfg.Watch.DebounceMS < 0 {
		return fmt.Errorf("watch.debounce_ms must be >= 0, got %d", cfg.Watch.DebounceMS)
	}
	for _, c := range cfg.Palette.Colors {
		if !palette.Valid(c) {
			return fmt.Errorf("palette.colors entry %q is not a #rrggbb color", c)
		}
	}
	return nil
}
