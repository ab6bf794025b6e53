// Package output formats human-readable console messages.
package output

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/term"
)

// Formatter handles formatted console output with colors
type Formatter struct {
	writer    io.Writer
	useColors bool
}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

// New creates a Formatter writing to w. Colors are used only on a terminal
// with NO_COLOR unset.
func New(w io.Writer) *Formatter {
	if w == nil {
		w = os.Stdout
	}

	useColors := true

	// Disable colors on Windows (unless using Windows Terminal)
	if runtime.GOOS == "windows" && os.Getenv("WT_SESSION") == "" {
		useColors = false
	}

	if os.Getenv("NO_COLOR") != "" {
		useColors = false
	}

	if f, ok := w.(*os.File); ok {
		if !term.IsTerminal(int(f.Fd())) {
			useColors = false
		}
	} else {
		useColors = false
	}

	return &Formatter{
		writer:    w,
		useColors: useColors,
	}
}

// Success prints a success message with green checkmark
func (o *Formatter) Success(format string, args ...any) {
	o.mark(colorGreen, "✓", fmt.Sprintf(format, args...))
}

// Error prints an error message with red cross
func (o *Formatter) Error(format string, args ...any) {
	o.mark(colorRed, "✗", fmt.Sprintf(format, args...))
}

// Warning prints a warning message with yellow warning sign
func (o *Formatter) Warning(format string, args ...any) {
	o.mark(colorYellow, "⚠", fmt.Sprintf(format, args...))
}

// Info prints an info message
func (o *Formatter) Info(format string, args ...any) {
	fmt.Fprintf(o.writer, format+"\n", args...)
}

// Step prints a progress line tagged with the current stage, e.g. "[regular] Creating woff2...".
func (o *Formatter) Step(stage, format string, args ...any) {
	fmt.Fprintf(o.writer, "[%s] %s\n", stage, fmt.Sprintf(format, args...))
}

func (o *Formatter) mark(color, symbol, msg string) {
	if o.useColors {
		fmt.Fprintf(o.writer, "%s%s%s %s\n", color, symbol, colorReset, msg)
	} else {
		fmt.Fprintf(o.writer, "%s %s\n", symbol, msg)
	}
}

// Bold returns the string wrapped in bold formatting
func (o *Formatter) Bold(s string) string {
	if o.useColors {
		return colorBold + s + colorReset
	}
	return s
}

// Cyan returns the string wrapped in cyan formatting
func (o *Formatter) Cyan(s string) string {
	if o.useColors {
		return colorCyan + s + colorReset
	}
	return s
}
