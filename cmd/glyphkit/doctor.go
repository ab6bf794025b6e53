package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/silver2dream/glyphkit/internal/doctor"
	gkerrors "github.com/silver2dream/glyphkit/internal/errors"
)

func cmdDoctor(args []string) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.Usage = usageDoctor
	configPath := fs.String("config", "", "Config file")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	// Validation problems are reported as checks, so load without validating.
	cfg, err := readConfig(*configPath)
	if err != nil {
		errorf("%v\n", err)
		return gkerrors.GetExitCode(err)
	}
	doc := doctor.New(cfg)

	fmt.Println("glyphkit Health Check")
	fmt.Println("=====================")
	fmt.Println()

	results := doc.RunAll(context.Background())

	var warnings, errors int
	for _, r := range results {
		var status string
		switch r.Status {
		case doctor.StatusOK:
			status = colorGreen + "OK" + colorReset
		case doctor.StatusWarning:
			status = colorYellow + "WARNING" + colorReset
			warnings++
		case doctor.StatusError:
			status = colorRed + "ERROR" + colorReset
			errors++
		}

		fmt.Printf("[%s] %s: %s\n", status, r.Name, r.Message)
	}

	fmt.Println()

	if errors > 0 {
		fmt.Printf("%sFound %d error(s)%s\n", colorRed, errors, colorReset)
	}
	if warnings > 0 {
		fmt.Printf("%sFound %d warning(s)%s\n", colorYellow, warnings, colorReset)
	}
	if errors == 0 && warnings == 0 {
		fmt.Printf("%sAll checks passed!%s\n", colorGreen, colorReset)
	}

	if errors > 0 {
		return 1
	}
	return 0
}

func usageDoctor() {
	fmt.Fprint(os.Stderr, `Check the subset tool and input files

This command checks:
- The configuration is valid
- The subset tool can be found and started
- Every non-empty icon set has its stylesheet and font
- Allow-listed icons exist in the stylesheet

Usage:
  glyphkit doctor [--config file]

Examples:
  glyphkit doctor
`)
}
