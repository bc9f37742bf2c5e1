// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	NBP     NBPConfig     `toml:"nbp"`
	History HistoryConfig `toml:"history"`
}

// NBPConfig maps archive and analysis settings.
type NBPConfig struct {
	BaseURL        *string `toml:"base-url"`
	Table          *string `toml:"table"`
	TimeoutSeconds *int    `toml:"timeout-seconds"`
	MaxSpanDays    *int    `toml:"max-span-days"`
	MinDate        *string `toml:"min-date"`
	HomeCurrency   *string `toml:"home-currency"`
}

// HistoryConfig maps request-history settings.
type HistoryConfig struct {
	DBPath   *string `toml:"db-path"`
	Disabled *bool   `toml:"disabled"`
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
