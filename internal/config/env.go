package config

import (
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// EnvOverrides are the environment variables that take precedence over the file.
type EnvOverrides struct {
	Tool      string `env:"GLYPHKIT_TOOL"`
	ToolPath  string `env:"GLYPHKIT_TOOL_PATH"`
	AssetRefs string `env:"GLYPHKIT_ASSET_REFS"`
}

// ApplyEnv reads overrides from the process environment.
func (c *Config) ApplyEnv() error {
	var o EnvOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	c.applyOverrides(o)
	return nil
}

// ApplyEnvFrom reads overrides from the given variables instead of the process environment.
func (c *Config) ApplyEnvFrom(vars map[string]string) error {
	var o EnvOverrides
	if err := env.ParseWithOptions(&o, env.Options{Environment: vars}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	c.applyOverrides(o)
	return nil
}

func (c *Config) applyOverrides(o EnvOverrides) {
	if o.Tool != "" {
		c.Tool.Command = o.Tool
	}
	if o.ToolPath != "" {
		// Env entries go first so they win executable lookup.
		c.Tool.SearchPath = append(filepath.SplitList(o.ToolPath), c.Tool.SearchPath...)
	}
	if o.AssetRefs != "" {
		c.Stylesheet.AssetRefs = o.AssetRefs
	}
}
