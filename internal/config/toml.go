// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Range   RangeConfig   `toml:"range"`
	Display DisplayConfig `toml:"display"`
	Cache   CacheConfig   `toml:"cache"`
	Log     LogConfig     `toml:"log"`
}

// RangeConfig maps range-related settings.
type RangeConfig struct {
	Min     *int `toml:"min"`
	Max     *int `toml:"max"`
	MaxSpan *int `toml:"max-span"`
}

// DisplayConfig maps dial display settings.
type DisplayConfig struct {
	Cap        *int    `toml:"cap"`
	DebounceMs *int    `toml:"debounce-ms"`
	Highlight  *string `toml:"highlight"`
}

// CacheConfig maps range cache settings.
type CacheConfig struct {
	Capacity *int `toml:"capacity"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level  *string `toml:"level"`
	Format *string `toml:"format"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
