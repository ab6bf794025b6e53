package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/silver2dream/glyphkit/internal/buildinfo"
)

// ANSI color codes
var (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

func init() {
	// Disable colors on Windows or when NO_COLOR is set
	if runtime.GOOS == "windows" || os.Getenv("NO_COLOR") != "" {
		colorReset = ""
		colorRed = ""
		colorGreen = ""
		colorYellow = ""
		colorCyan = ""
		colorBold = ""
	}
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) >= 1 {
		switch args[0] {
		case "--version", "-v":
			fmt.Println(buildinfo.Version)
			return 0
		case "--help", "-h":
			usage()
			return 0
		}
	}

	if len(args) < 1 {
		usage()
		return 2
	}

	switch args[0] {
	case "subset":
		return cmdSubset(args[1:])
	case "list":
		return cmdList(args[1:])
	case "doctor":
		return cmdDoctor(args[1:])
	case "init":
		return cmdInit(args[1:])
	case "version":
		fmt.Println(buildinfo.Version)
		return 0
	case "help":
		if len(args) >= 2 {
			return cmdHelp(args[1])
		}
		usage()
		return 0
	default:
		errorf("Unknown command: %s\n\n", args[0])
		usage()
		return 2
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `glyphkit - icon font subsetter

Usage:
  glyphkit <command> [options]

Commands:
  subset   Subset the icon fonts and write the reduced stylesheet
  list     Show the icons resolved from the allow-lists
  doctor   Check the subset tool and input files
  init     Write a default glyphkit.yaml
  version  Show version
  help     Show help for a command

Examples:
  glyphkit init
  glyphkit subset
  glyphkit subset --dry-run
  glyphkit list --missing

Run 'glyphkit help <command>' for more information.
`)
}

// Helper functions for colored output
func success(format string, args ...interface{}) {
	fmt.Printf("%s✓%s %s", colorGreen, colorReset, fmt.Sprintf(format, args...))
}

func errorf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%sError:%s %s", colorRed, colorReset, fmt.Sprintf(format, args...))
}

func info(format string, args ...interface{}) {
	fmt.Printf("%s", fmt.Sprintf(format, args...))
}

func bold(s string) string {
	return colorBold + s + colorReset
}

func cyan(s string) string {
	return colorCyan + s + colorReset
}

func cmdHelp(command string) int {
	switch command {
	case "subset":
		usageSubset()
	case "list":
		usageList()
	case "doctor":
		usageDoctor()
	case "init":
		usageInit()
	case "version":
		fmt.Println("Show the glyphkit version.")
	default:
		errorf("Unknown command: %s\n", command)
		return 2
	}
	return 0
}
