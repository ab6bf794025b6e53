package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	glyphkit "github.com/silver2dream/glyphkit"
	"github.com/silver2dream/glyphkit/internal/config"
)

func usageInit() {
	fmt.Fprint(os.Stderr, `Write a default glyphkit.yaml

Usage:
  glyphkit init [dir] [options]

Arguments:
  dir        Directory to write glyphkit.yaml into (default: current directory)

Options:
  --force    Overwrite an existing glyphkit.yaml
  --liquid   Reference fonts with Liquid asset_url tags and write
             phosphor-icons-subset.css.liquid

Examples:
  glyphkit init
  glyphkit init theme --liquid
`)
}

func cmdInit(args []string) int {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = usageInit
	force := fs.Bool("force", false, "")
	liquid := fs.Bool("liquid", false, "")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	targetDir := "."
	if fs.NArg() >= 1 {
		targetDir = fs.Arg(0)
	}

	target := filepath.Join(targetDir, config.FileNames[0])
	if _, err := os.Stat(target); err == nil && !*force {
		errorf("%s already exists (use --force to overwrite)\n", target)
		return 1
	}

	data := defaultConfig(*liquid)
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		errorf("%v\n", err)
		return 1
	}
	if err := os.WriteFile(target, data, 0644); err != nil {
		errorf("failed to write %s: %v\n", target, err)
		return 1
	}

	success("Created %s\n", cyan(target))
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Edit the icon allow-lists in " + bold(config.FileNames[0]))
	fmt.Println("  2. Run " + bold("glyphkit doctor") + " to check the inputs")
	fmt.Println("  3. Run " + bold("glyphkit subset"))
	return 0
}

// defaultConfig returns the embedded config, switched to Liquid asset references when liquid is set.
func defaultConfig(liquid bool) []byte {
	data := glyphkit.DefaultConfig
	if !liquid {
		return data
	}
	data = bytes.Replace(data, []byte("asset_refs: relative"), []byte("asset_refs: liquid"), 1)
	data = bytes.Replace(data, []byte("output: assets/phosphor-icons-subset.css\n"), []byte("output: assets/phosphor-icons-subset.css.liquid\n"), 1)
	return data
}
