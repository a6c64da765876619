// Package config loads keyedfix settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"
)

// DefaultPath is the config file read when no path is given.
const DefaultPath = "keyedfix.toml"

// Config holds generator settings. Command-line flags override file values.
type Config struct {
	// Dir is the fixture output directory.
	Dir string `toml:"dir"`
	// Fixtures selects catalog fixtures; empty means all.
	Fixtures []string `toml:"fixtures"`
	// Malformed also writes the known-bad fixtures.
	Malformed bool `toml:"malformed"`
	// Manifest writes manifest.toml next to the fixtures.
	Manifest bool `toml:"manifest"`
	// Bundle is the default output path of the bundle command.
	Bundle string `toml:"bundle"`
	Log    Log    `toml:"log"`
}

// Log configures logging.
type Log struct {
	Level string `toml:"level"`
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{
		Dir:      "fixtures",
		Manifest: true,
		Bundle:   "fixtures.tar.zst",
		Log:      Log{Level: "info"},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("load config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Dir) == "" {
		return fmt.Errorf("dir is required")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses Log.Level.
func (c *Config) Level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("log level: %w", err)
	}
	return lvl, nil
}
