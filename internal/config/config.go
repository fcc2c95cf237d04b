// Package config loads server settings from defaults, an optional TOML file
// and environment overrides, in that order.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/ironsheep/smartshape-mcp/internal/render"
	"github.com/ironsheep/smartshape-mcp/internal/stroke"
)

// Environment variables read by LoadFromEnv.
const (
	EnvConfigFile      = "SMARTSHAPE_MCP_CONFIG"
	EnvDrawEpsilon     = "SMARTSHAPE_MCP_DRAW_EPSILON"
	EnvAcceptThreshold = "SMARTSHAPE_MCP_ACCEPT_THRESHOLD"
	EnvWorkers         = "SMARTSHAPE_MCP_WORKERS"
	EnvLogLevel        = "SMARTSHAPE_MCP_LOG_LEVEL"
)

// Config holds the server settings.
type Config struct {
	// Recognition is the default pipeline configuration for tool calls
	// that do not override it.
	Recognition stroke.Options `toml:"recognition"`

	// Workers bounds concurrent recognition in batch calls. Zero means one
	// worker per CPU.
	Workers int `toml:"workers"`

	// Preview holds defaults for rendered previews.
	Preview render.PreviewOptions `toml:"preview"`

	// LogLevel enables debug logging when set to "debug".
	LogLevel string `toml:"log_level"`
}

// Debug reports whether debug logging is enabled.
func (c Config) Debug() bool {
	return c.LogLevel == "debug"
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Recognition: stroke.DefaultOptions(),
		Preview:     render.DefaultPreviewOptions(),
	}
}

// Load reads a TOML file over the defaults. Keys missing from the file keep
// their default value; unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return cfg, fmt.Errorf("unknown key in config %s:\n%s", path, strict.String())
		}
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// LoadFromEnv loads the file named by SMARTSHAPE_MCP_CONFIG (if set) and
// applies the environment overrides.
func LoadFromEnv() (Config, error) {
	return LoadWith(os.Getenv(EnvConfigFile), os.LookupEnv)
}

// LoadWith loads path (when non-empty) and applies overrides found through
// lookup.
func LoadWith(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return cfg, err
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDrawEpsilon); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvDrawEpsilon, v, err)
		}
		c.Recognition.Epsilon = f
	}
	if v, ok := lookup(EnvAcceptThreshold); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvAcceptThreshold, v, err)
		}
		c.Recognition.AcceptThreshold = f
	}
	if v, ok := lookup(EnvWorkers); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvWorkers, v, err)
		}
		c.Workers = n
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate reports settings that cannot be used. Epsilon is not checked
// since the pipeline clamps it.
func (c Config) Validate() error {
	if c.Recognition.AcceptThreshold < 0 {
		return fmt.Errorf("accept_threshold must be >= 0, got %v", c.Recognition.AcceptThreshold)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.Preview.Width < 0 || c.Preview.Height < 0 {
		return fmt.Errorf("preview size must be positive, got %dx%d", c.Preview.Width, c.Preview.Height)
	}
	return nil
}
