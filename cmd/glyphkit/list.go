package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/silver2dream/glyphkit/internal/config"
	"github.com/silver2dream/glyphkit/internal/cssmap"
	gkerrors "github.com/silver2dream/glyphkit/internal/errors"
)

func usageList() {
	fmt.Fprint(os.Stderr, `Show the icons resolved from the allow-lists

Prints each allow-listed icon with its codepoint. The subset tool is never run.

Usage:
  glyphkit list [options]

Options:
  --config   Config file
  --set      Only show this icon set
  --missing  Only show icons not found in the stylesheet; exits 1 if any

Examples:
  glyphkit list
  glyphkit list --set fill
  glyphkit list --missing
`)
}

func cmdList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.Usage = usageList
	configPath := fs.String("config", "", "Config file")
	setName := fs.String("set", "", "Only show this icon set")
	missingOnly := fs.Bool("missing", false, "Only show missing icons")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		errorf("%v\n", err)
		return gkerrors.GetExitCode(err)
	}

	sets := cfg.Sets
	if *setName != "" {
		s, ok := cfg.Set(*setName)
		if !ok {
			errorf("Unknown set: %s\n", *setName)
			return 2
		}
		sets = []config.SetConfig{s}
	}

	var missingTotal int
	for _, set := range sets {
		if len(set.Icons) == 0 {
			if !*missingOnly {
				fmt.Printf("%s: %s\n", bold(set.Name), "(empty)")
			}
			continue
		}

		cssPath := cfg.Resolve(set.Stylesheet)
		data, err := os.ReadFile(cssPath)
		if err != nil {
			err = gkerrors.NewInputErrorWithCause(fmt.Sprintf("cannot read stylesheet for set %q", set.Name), err)
			errorf("%v\n", err)
			return gkerrors.GetExitCode(err)
		}

		m := cssmap.Extract(string(data), set.BaseClass, set.IconPrefix)
		res := cssmap.Resolve(set.Icons, m)
		missingTotal += len(res.Missing)

		if *missingOnly {
			for _, name := range res.Missing {
				fmt.Printf("%s\t%s\n", set.Name, name)
			}
			continue
		}

		fmt.Printf("%s: %d of %d icons resolved\n", bold(set.Name), len(set.Icons)-len(res.Missing), len(set.Icons))
		for _, name := range set.Icons {
			code, ok := m[name]
			if !ok {
				fmt.Printf("  %-28s %smissing%s\n", name, colorYellow, colorReset)
				continue
			}
			fmt.Printf("  %-28s %s\n", name, cyan("U+"+strings.ToUpper(code)))
		}
	}

	if *missingOnly && missingTotal > 0 {
		return 1
	}
	return 0
}
