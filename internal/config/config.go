// Package config loads and validates the glyphkit.yaml configuration.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	glyphkit "github.com/silver2dream/glyphkit"
)

// Asset reference styles for the generated stylesheet.
const (
	AssetRefsRelative = "relative"
	AssetRefsLiquid   = "liquid"
)

// DefaultTool is the fonttools subsetter.
const DefaultTool = "pyftsubset"

// FileNames are the config file names looked up in the working directory, in order.
var FileNames = []string{"glyphkit.yaml", "glyphkit.yml", "glyphkit.toml"}

// Config represents the glyphkit.yaml structure
type Config struct {
	Version    string           `yaml:"version" toml:"version"`
	Tool       ToolConfig       `yaml:"tool" toml:"tool"`
	Stylesheet StylesheetConfig `yaml:"stylesheet" toml:"stylesheet"`
	Sets       []SetConfig      `yaml:"sets" toml:"sets"`

	// BaseDir is the directory relative paths resolve against.
	BaseDir string `yaml:"-" toml:"-"`
	// Source is the file the config was read from, empty for the embedded default.
	Source string `yaml:"-" toml:"-"`
}

// ToolConfig describes the external subsetting tool
type ToolConfig struct {
	Command        string   `yaml:"command" toml:"command"`
	SearchPath     []string `yaml:"search_path" toml:"search_path"`
	LayoutFeatures []string `yaml:"layout_features" toml:"layout_features"`
	Timeout        string   `yaml:"timeout" toml:"timeout"`
}

// StylesheetConfig describes the generated stylesheet
type StylesheetConfig struct {
	Output    string `yaml:"output" toml:"output"`
	AssetRefs string `yaml:"asset_refs" toml:"asset_refs"` // relative, liquid
}

// SetConfig is one icon font and its allow-list
type SetConfig struct {
	Name          string   `yaml:"name" toml:"name"`
	FontFamily    string   `yaml:"font_family" toml:"font_family"`
	BaseClass     string   `yaml:"base_class" toml:"base_class"`
	IconPrefix    string   `yaml:"icon_prefix" toml:"icon_prefix"`
	Stylesheet    string   `yaml:"stylesheet" toml:"stylesheet"`
	Font          string   `yaml:"font" toml:"font"`
	ReferenceFont string   `yaml:"reference_font" toml:"reference_font"`
	OutputStem    string   `yaml:"output_stem" toml:"output_stem"`
	Icons         []string `yaml:"icons" toml:"icons"`
}

// TTFOutput is the TrueType output path (unresolved).
func (s SetConfig) TTFOutput() string { return s.OutputStem + ".ttf" }

// WOFF2Output is the WOFF2 output path (unresolved).
func (s SetConfig) WOFF2Output() string { return s.OutputStem + ".woff2" }

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field    string
	Message  string
	Expected string
}

func (e ValidationError) Error() string {
	if e.Expected != "" {
		return fmt.Sprintf("%s: %s (expected: %s)", e.Field, e.Message, e.Expected)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Load reads a YAML or TOML config file (by extension) and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	cfg.Source = abs
	cfg.BaseDir = filepath.Dir(abs)
	return cfg, nil
}

// Parse decodes config data. ext selects the format; ".toml" is TOML, anything else YAML.
func Parse(data []byte, ext string) (*Config, error) {
	var cfg Config
	if strings.EqualFold(ext, ".toml") {
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns the embedded default configuration rooted at baseDir.
func Default(baseDir string) (*Config, error) {
	cfg, err := Parse(glyphkit.DefaultConfig, ".yaml")
	if err != nil {
		return nil, err
	}
	cfg.BaseDir = baseDir
	return cfg, nil
}

// Find returns the first config file from FileNames present in dir, or "".
func Find(dir string) string {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

func (c *Config) applyDefaults() {
	if c.Tool.Command == "" {
		c.Tool.Command = DefaultTool
	}
	if len(c.Tool.LayoutFeatures) == 0 {
		c.Tool.LayoutFeatures = []string{"liga"}
	}
	if c.Stylesheet.AssetRefs == "" {
		c.Stylesheet.AssetRefs = AssetRefsRelative
	}
	for i := range c.Sets {
		if c.Sets[i].IconPrefix == "" {
			c.Sets[i].IconPrefix = "ph-"
		}
		if c.Sets[i].FontFamily == "" {
			c.Sets[i].FontFamily = c.Sets[i].Name
		}
	}
}

// Validate checks if the configuration has all required fields
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	if c.Tool.Command == "" {
		errors = append(errors, ValidationError{
			Field:   "tool.command",
			Message: "required field is missing",
		})
	}

	if c.Tool.Timeout != "" {
		if d, err := time.ParseDuration(c.Tool.Timeout); err != nil || d < 0 {
			errors = append(errors, ValidationError{
				Field:    "tool.timeout",
				Message:  fmt.Sprintf("invalid value: %s", c.Tool.Timeout),
				Expected: "positive duration such as 2m or 30s",
			})
		}
	}

	if c.Stylesheet.Output == "" {
		errors = append(errors, ValidationError{
			Field:   "stylesheet.output",
			Message: "required field is missing",
		})
	}

	if c.Stylesheet.AssetRefs != AssetRefsRelative && c.Stylesheet.AssetRefs != AssetRefsLiquid {
		errors = append(errors, ValidationError{
			Field:    "stylesheet.asset_refs",
			Message:  fmt.Sprintf("invalid value: %s", c.Stylesheet.AssetRefs),
			Expected: "relative or liquid",
		})
	}

	if len(c.Sets) == 0 {
		errors = append(errors, ValidationError{
			Field:   "sets",
			Message: "at least one icon set is required",
		})
	}

	seen := make(map[string]bool)
	for i, s := range c.Sets {
		required := []struct {
			field string
			value string
		}{
			{"name", s.Name},
			{"base_class", s.BaseClass},
			{"stylesheet", s.Stylesheet},
			{"font", s.Font},
			{"output_stem", s.OutputStem},
		}
		for _, r := range required {
			if r.value == "" {
				errors = append(errors, ValidationError{
					Field:   fmt.Sprintf("sets[%d].%s", i, r.field),
					Message: "required field is missing",
				})
			}
		}
		if s.Name != "" {
			if seen[s.Name] {
				errors = append(errors, ValidationError{
					Field:   fmt.Sprintf("sets[%d].name", i),
					Message: fmt.Sprintf("duplicate set name: %s", s.Name),
				})
			}
			seen[s.Name] = true
		}
	}

	return errors
}

// Timeout returns the per-invocation tool timeout, zero when unset.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.Tool.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// Resolve makes p absolute against BaseDir. A leading ~/ expands to the home directory.
func (c *Config) Resolve(p string) string {
	if p == "" {
		return ""
	}
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[2:])
		}
	}
	if filepath.IsAbs(p) || c.BaseDir == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(c.BaseDir, p)
}

// SearchPath returns tool.search_path with every entry resolved.
func (c *Config) SearchPath() []string {
	dirs := make([]string, 0, len(c.Tool.SearchPath))
	for _, d := range c.Tool.SearchPath {
		dirs = append(dirs, c.Resolve(d))
	}
	return dirs
}

// Set returns the set named name.
func (c *Config) Set(name string) (SetConfig, bool) {
	for _, s := range c.Sets {
		if s.Name == name {
			return s, true
		}
	}
	return SetConfig{}, false
}
