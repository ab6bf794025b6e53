package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	gkerrors "github.com/silver2dream/glyphkit/internal/errors"
	"github.com/silver2dream/glyphkit/internal/output"
	"github.com/silver2dream/glyphkit/internal/pipeline"
	"github.com/silver2dream/glyphkit/internal/trace"
)

func usageSubset() {
	fmt.Fprint(os.Stderr, `Subset the icon fonts and write the reduced stylesheet

For every configured icon set, the codepoints of the allow-listed icons are
looked up in the set's stylesheet and the font is subset to TTF and WOFF2.
A stylesheet covering the subset fonts is written afterwards.

Usage:
  glyphkit subset [options]

Options:
  --config     Config file (default: glyphkit.yaml in the current directory,
               then the built-in defaults)
  --dry-run    Show the commands and files without running anything
  --no-verify  Skip checking the subset TTF for the requested glyphs
  --events     Write JSONL run events to this file

Exit codes:
  0  success
  1  a subset command failed
  2  invalid configuration
  3  missing stylesheet or font
  4  subset tool could not be started

Examples:
  glyphkit subset
  glyphkit subset --dry-run
  glyphkit subset --config theme/glyphkit.toml --events subset.jsonl
`)
}

func cmdSubset(args []string) int {
	fs := flag.NewFlagSet("subset", flag.ContinueOnError)
	fs.Usage = usageSubset
	configPath := fs.String("config", "", "Config file")
	dryRun := fs.Bool("dry-run", false, "Show what would be done without running the tool")
	noVerify := fs.Bool("no-verify", false, "Skip glyph verification")
	eventsPath := fs.String("events", "", "Write JSONL run events to this file")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		errorf("%v\n", err)
		return gkerrors.GetExitCode(err)
	}

	var events *trace.EventWriter
	if *eventsPath != "" {
		events, err = trace.NewEventWriter(*eventsPath)
		if err != nil {
			errorf("%v\n", err)
			return 1
		}
		defer events.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *dryRun {
		fmt.Println("Dry run mode - no changes will be made")
	}

	out := output.New(os.Stdout)
	result, err := pipeline.Run(ctx, cfg, pipeline.Options{
		DryRun:   *dryRun,
		NoVerify: *noVerify,
		Out:      out,
		Events:   events,
	})
	if err != nil {
		fmt.Println()
		errorf("%v\n", err)
		return gkerrors.GetExitCode(err)
	}

	printSummary(out, result, *dryRun)
	if events != nil {
		info("Wrote %d events to %s\n", events.Seq(), *eventsPath)
	}

	if result.Failed() {
		return 1
	}
	return 0
}

func printSummary(out *output.Formatter, result *pipeline.Result, dryRun bool) {
	out.Info("")
	for _, s := range result.Sets {
		switch s.Status {
		case pipeline.StatusFailed:
			out.Error("%s: failed", s.Name)
		case pipeline.StatusSkipped:
			out.Info("- %s: skipped", s.Name)
		}
	}

	if dryRun || len(result.GeneratedFiles) == 0 {
		if !dryRun {
			out.Warning("No files were generated")
		}
		return
	}

	out.Success("Generated files:")
	for _, f := range result.GeneratedFiles {
		out.Info("  %s", out.Cyan(f))
	}
	out.Info("")
	out.Info("Done! Replace the original files with the subset versions.")
}
