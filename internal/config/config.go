package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/navtree/internal/navtree"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "NAVTREE_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (NAVTREE_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: NAVTREE_OUTPUT_DIR -> output_dir, etc.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validSources is the set of recognized source values.
var validSources = map[SourceType]bool{
	SourceOutline: true,
	SourceDocs:    true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if !validSources[c.Source] {
		return fmt.Errorf("invalid source %q: must be one of outline, docs", c.Source)
	}
	if c.Source == SourceOutline && c.Outline == "" {
		return fmt.Errorf("outline is required when source is outline")
	}
	if c.Source == SourceDocs && c.DocsDir == "" {
		return fmt.Errorf("docs_dir is required when source is docs")
	}

	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}

	if c.PageSize < 0 {
		return fmt.Errorf("page_size must be non-negative")
	}

	if c.SplitDepth < 0 {
		return fmt.Errorf("split_depth must be non-negative")
	}

	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must be non-negative")
	}

	if err := navtree.ValidateMessages(c.MessageSet()); err != nil {
		return fmt.Errorf("messages: %w", err)
	}

	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return fmt.Errorf("serve.port %d out of range", c.Serve.Port)
	}

	return nil
}

// MessageSet returns the configured UI strings, falling back to the
// viewer defaults when none are set.
func (c *Config) MessageSet() navtree.Messages {
	if len(c.Messages) == 0 {
		return navtree.DefaultMessages()
	}
	m := make(navtree.Messages, len(c.Messages))
	for k, v := range c.Messages {
		m[strings.ToUpper(k)] = v
	}
	return m
}
