package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// fileConfig mirrors the optional TOML config file. All fields are optional;
// zero values mean "not set".
type fileConfig struct {
	BaseURL          string `toml:"base_url"`
	PacingIntervalMS int    `toml:"pacing_interval_ms"`
	LegacyPaths      bool   `toml:"legacy_paths"`
}

// config is the fully resolved runtime configuration.
type config struct {
	BaseURL        string
	PacingInterval time.Duration
	LegacyPaths    bool
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "routai", "config.toml")
}

// loadConfig resolves configuration with flag > env > file > default
// precedence. A missing file at the default path is fine; a missing file
// passed explicitly via -config is an error.
func loadConfig(path string, explicit bool, baseURLFlag string) (config, error) {
	cfg := config{}

	var fc fileConfig
	if path != "" {
		_, err := toml.DecodeFile(path, &fc)
		switch {
		case err == nil:
		case errors.Is(err, os.ErrNotExist) && !explicit:
			// No config file; defaults apply.
		default:
			return config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg.BaseURL = fc.BaseURL
	if env := os.Getenv("ROUTAI_API_URL"); env != "" {
		cfg.BaseURL = env
	}
	if baseURLFlag != "" {
		cfg.BaseURL = baseURLFlag
	}

	if fc.PacingIntervalMS > 0 {
		cfg.PacingInterval = time.Duration(fc.PacingIntervalMS) * time.Millisecond
	}
	cfg.LegacyPaths = fc.LegacyPaths

	return cfg, nil
}
