// Package config loads thinkgraph settings from a YAML file and THINKGRAPH_
// environment variables.
package config

import (
	"errors"
	"fmt"

	"go.uber.org/zap/zapcore"
)

// Config holds the complete thinkgraph configuration.
type Config struct {
	DB      DBConfig      `koanf:"db"`
	Log     LogConfig     `koanf:"log"`
	Metrics MetricsConfig `koanf:"metrics"`
	Query   QueryConfig   `koanf:"query"`
	Context ContextConfig `koanf:"context"`
}

// DBConfig locates the graph database. An empty Path defers to discovery.
type DBConfig struct {
	Path string `koanf:"path"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json or console
}

// MetricsConfig holds Prometheus export settings. When Textfile is set,
// commands that write to the graph dump their metrics there on exit.
type MetricsConfig struct {
	Textfile string `koanf:"textfile"`
}

// QueryConfig bounds read queries.
type QueryConfig struct {
	DefaultLimit  int `koanf:"default_limit"`
	MaxDepth      int `koanf:"max_depth"`
	MaxDepthLimit int `koanf:"max_depth_limit"`
}

// ContextConfig controls the session context summary.
type ContextConfig struct {
	Limit int `koanf:"limit"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "warn"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Query.DefaultLimit == 0 {
		cfg.Query.DefaultLimit = 20
	}
	if cfg.Query.MaxDepth == 0 {
		cfg.Query.MaxDepth = 3
	}
	if cfg.Query.MaxDepthLimit == 0 {
		cfg.Query.MaxDepthLimit = 10
	}
	if cfg.Context.Limit == 0 {
		cfg.Context.Limit = 10
	}
}

// Validate checks the configuration for out-of-range values.
func (c *Config) Validate() error {
	var errs []error
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or console, got %q", c.Log.Format))
	}
	if c.Query.DefaultLimit < 0 {
		errs = append(errs, errors.New("query.default_limit must not be negative"))
	}
	if c.Query.MaxDepth < 0 {
		errs = append(errs, errors.New("query.max_depth must not be negative"))
	}
	if c.Query.MaxDepthLimit < 0 {
		errs = append(errs, errors.New("query.max_depth_limit must not be negative"))
	}
	if c.Query.MaxDepth > c.Query.MaxDepthLimit {
		errs = append(errs, fmt.Errorf("query.max_depth %d exceeds query.max_depth_limit %d", c.Query.MaxDepth, c.Query.MaxDepthLimit))
	}
	if c.Context.Limit < 0 {
		errs = append(errs, errors.New("context.limit must not be negative"))
	}
	return errors.Join(errs...)
}

// ClampDepth returns the traversal depth to use for a requested depth.
// Zero or negative selects the default.
func (c *Config) ClampDepth(requested int) int {
	if requested <= 0 {
		return c.Query.MaxDepth
	}
	if requested > c.Query.MaxDepthLimit {
		return c.Query.MaxDepthLimit
	}
	return requested
}
