package main

import (
	"fmt"
	"os"

	"github.com/silver2dream/glyphkit/internal/config"
	gkerrors "github.com/silver2dream/glyphkit/internal/errors"
)

// readConfig resolves the config file and applies environment overrides.
// Without a path it looks for glyphkit.yaml and friends in the working
// directory and falls back to the built-in defaults.
func readConfig(path string) (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("cannot determine working directory: %w", err)
	}
	if path == "" {
		path = config.Find(cwd)
	}

	var cfg *config.Config
	if path == "" {
		cfg, err = config.Default(cwd)
	} else {
		cfg, err = config.Load(path)
	}
	if err != nil {
		return nil, gkerrors.NewConfigErrorWithCause("failed to load config", err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, gkerrors.NewConfigErrorWithCause("invalid environment", err)
	}
	return cfg, nil
}

// loadConfig is readConfig followed by validation. Every validation error is
// printed before returning.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := readConfig(path)
	if err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  %s- %s%s\n", colorRed, e.Error(), colorReset)
		}
		return nil, gkerrors.NewConfigError(fmt.Sprintf("config has %d error(s)", len(errs)))
	}
	return cfg, nil
}
