package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix         = "THINKGRAPH_"
	maxConfigFileSize = 1024 * 1024 // 1MB
)

// DefaultPath returns $XDG_CONFIG_HOME/thinkgraph/config.yaml, falling back
// to ~/.config/thinkgraph/config.yaml.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "thinkgraph", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "thinkgraph", "config.yaml")
}

// Load reads configuration from a YAML file, then overrides with
// environment variables.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (THINKGRAPH_DB_PATH, THINKGRAPH_LOG_LEVEL, ...)
//  2. YAML config file
//  3. Hardcoded defaults
//
// An empty configPath uses DefaultPath. A missing file is not an error.
//
// Environment variables drop the prefix, lowercase, and split on the first
// underscore only:
//
//	THINKGRAPH_DB_PATH             -> db.path
//	THINKGRAPH_QUERY_DEFAULT_LIMIT -> query.default_limit
//	THINKGRAPH_DB                  -> db.path
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultPath()
	}

	var content []byte
	if configPath != "" {
		b, err := readConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		content = b
	}
	return load(content)
}

func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

// load builds a Config from raw YAML (may be empty) and the environment.
func load(content []byte) (*Config, error) {
	k := koanf.New(".")

	if len(content) > 0 {
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// envKey maps THINKGRAPH_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	if lower == "db" {
		return "db.path"
	}
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		// Unknown single-word variable; skip it
		return ""
	}
	return section + "." + field
}
