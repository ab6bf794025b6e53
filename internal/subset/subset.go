// Package subset drives the external font subsetting tool (fonttools' pyftsubset).
package subset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/silver2dream/glyphkit/internal/cssmap"
	gkerrors "github.com/silver2dream/glyphkit/internal/errors"
)

// Output flavors.
const (
	FlavorTTF   = ""
	FlavorWOFF2 = "woff2"
)

// Job is a single subsetting invocation.
type Job struct {
	Font           string
	Output         string
	Codepoints     []string
	Flavor         string
	LayoutFeatures []string
}

// Args builds the tool arguments writing to output.
func (j Job) Args(output string) []string {
	args := []string{
		j.Font,
		"--unicodes=" + cssmap.Selector(j.Codepoints),
		"--output-file=" + output,
	}
	if j.Flavor != FlavorTTF {
		args = append(args, "--flavor="+j.Flavor)
	}
	if len(j.LayoutFeatures) > 0 {
		args = append(args, "--layout-features="+strings.Join(j.LayoutFeatures, ","))
	}
	return args
}

// Result is the outcome of a finished tool process.
type Result struct {
	Path     string
	Args     []string
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Duration time.Duration
}

// ToolError reports a tool run that exited non-zero or was cancelled.
type ToolError struct {
	Args     []string
	ExitCode int
	Stderr   string
	Cause    error
}

func (e *ToolError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if e.Cause != nil {
		if msg == "" {
			return e.Cause.Error()
		}
		return fmt.Sprintf("%v: %s", e.Cause, msg)
	}
	if msg == "" {
		return fmt.Sprintf("exit status %d", e.ExitCode)
	}
	return fmt.Sprintf("exit status %d: %s", e.ExitCode, msg)
}

func (e *ToolError) Unwrap() error {
	return e.Cause
}

// Tool runs the subsetting command.
type Tool struct {
	Command string
	// SearchPath is prepended to PATH for lookup and for the child environment.
	SearchPath []string
	// Timeout bounds each run; zero means no limit.
	Timeout time.Duration
}

// CommandLine renders a job the way it would be executed, for display.
func (t *Tool) CommandLine(job Job) string {
	return strings.Join(append([]string{t.Command}, job.Args(job.Output)...), " ")
}

// LookPath resolves the tool executable, trying SearchPath before PATH.
func (t *Tool) LookPath() (string, error) {
	if strings.ContainsRune(t.Command, os.PathSeparator) || strings.Contains(t.Command, "/") {
		return exec.LookPath(t.Command)
	}
	for _, dir := range t.SearchPath {
		for _, name := range candidates(t.Command) {
			p := filepath.Join(dir, name)
			if isExecutable(p) {
				return p, nil
			}
		}
	}
	return exec.LookPath(t.Command)
}

func candidates(name string) []string {
	if runtime.GOOS == "windows" && filepath.Ext(name) == "" {
		return []string{name + ".exe", name + ".bat", name + ".cmd", name}
	}
	return []string{name}
}

func isExecutable(p string) bool {
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode()&0111 != 0
}

// Environ returns the process environment with SearchPath prepended to PATH.
func (t *Tool) Environ() []string {
	env := os.Environ()
	if len(t.SearchPath) == 0 {
		return env
	}
	path := strings.Join(t.SearchPath, string(os.PathListSeparator))
	for i, kv := range env {
		key, value, ok := strings.Cut(kv, "=")
		if ok && strings.EqualFold(key, "PATH") {
			env[i] = key + "=" + path + string(os.PathListSeparator) + value
			return env
		}
	}
	return append(env, "PATH="+path)
}

// Run executes job. The tool writes to a temporary sibling of job.Output which
// replaces job.Output only when the tool exits zero, so a failed run leaves the
// target path as it was.
//
// A non-zero exit returns the Result together with a *ToolError. A tool that
// cannot be started returns a tool-category GlyphError and no Result.
func (t *Tool) Run(ctx context.Context, job Job) (*Result, error) {
	if len(job.Codepoints) == 0 {
		return nil, fmt.Errorf("no codepoints to subset")
	}

	path, err := t.LookPath()
	if err != nil {
		return nil, gkerrors.NewToolErrorWithCause(fmt.Sprintf("cannot find %s", t.Command), err)
	}

	dir := filepath.Dir(job.Output)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(job.Output)+".*.partial")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary output: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)
	// CreateTemp opens 0600 and the tool writes in place, so the mode survives the rename.
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to set output permissions: %w", err)
	}
	tmp.Close()

	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	args := job.Args(tmpPath)
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Env = t.Environ()
	setProcGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	result := &Result{
		Path:     path,
		Args:     job.Args(job.Output),
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return nil, gkerrors.NewToolErrorWithCause(fmt.Sprintf("cannot run %s", t.Command), runErr)
		}
		result.ExitCode = exitErr.ExitCode()
		toolErr := &ToolError{Args: result.Args, ExitCode: result.ExitCode, Stderr: stderr.String()}
		if ctxErr := ctx.Err(); ctxErr != nil {
			if errors.Is(ctxErr, context.DeadlineExceeded) {
				toolErr.Cause = fmt.Errorf("timed out after %s", t.Timeout)
			} else {
				toolErr.Cause = ctxErr
			}
		}
		return result, toolErr
	}

	info, err := os.Stat(tmpPath)
	if err != nil || info.Size() == 0 {
		return result, fmt.Errorf("%s exited 0 but wrote no output", t.Command)
	}
	if err := os.Rename(tmpPath, job.Output); err != nil {
		return result, fmt.Errorf("failed to move output into place: %w", err)
	}
	return result, nil
}
