// Package config loads the engine's ambient settings (propagation
// worker count, cache database path, metrics listen address, log
// level) from an optional YAML file overlaid with environment
// variables, with CLI flags always taking final precedence (wired by
// cmd/bgpsim). Grounded on
// pobradovic08-route-beacon-ri/internal/config/config.go's
// koanf.New(".") + file.Provider/yaml.Parser + env.Provider +
// defaults-then-Unmarshal-then-Validate shape.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds every ambient setting the engine reads outside of its
// three required CLI input paths.
type Config struct {
	Workers     int    `koanf:"workers"`
	CacheDBPath string `koanf:"cache_db_path"`
	MetricsAddr string `koanf:"metrics_addr"`
	LogLevel    string `koanf:"log_level"`
	OutputPath  string `koanf:"output_path"`
}

// Load reads path (if non-empty) as YAML, overlays BGPSIM_-prefixed
// environment variables, fills in defaults for anything still unset,
// and validates the result. An empty path skips the file layer
// entirely; env vars and defaults still apply.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	// BGPSIM_CACHE_DB_PATH -> cache_db_path
	if err := k.Load(env.Provider("BGPSIM_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "BGPSIM_")
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env config: %w", err)
	}

	cfg := &Config{
		Workers:     1,
		CacheDBPath: "",
		MetricsAddr: "",
		LogLevel:    "info",
		OutputPath:  "ribs.csv",
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports whether cfg's values are usable.
func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("config: workers must be > 0 (got %d)", c.Workers)
	}
	if c.OutputPath == "" {
		return fmt.Errorf("config: output_path must not be empty")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log_level must be one of debug/info/warn/error (got %q)", c.LogLevel)
	}
	return nil
}
