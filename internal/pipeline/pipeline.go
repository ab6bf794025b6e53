// Package pipeline runs the extract, resolve, subset and stylesheet steps for
// every configured icon set.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/silver2dream/glyphkit/internal/config"
	"github.com/silver2dream/glyphkit/internal/cssmap"
	gkerrors "github.com/silver2dream/glyphkit/internal/errors"
	"github.com/silver2dream/glyphkit/internal/output"
	"github.com/silver2dream/glyphkit/internal/stylesheet"
	"github.com/silver2dream/glyphkit/internal/subset"
	"github.com/silver2dream/glyphkit/internal/trace"
	"github.com/silver2dream/glyphkit/internal/verify"
)

// Set outcomes.
const (
	StatusOK      = "ok"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
	StatusPlanned = "planned" // dry run
)

// Runner executes one subsetting job.
type Runner interface {
	Run(ctx context.Context, job subset.Job) (*subset.Result, error)
	CommandLine(job subset.Job) string
}

// Options configures a run.
type Options struct {
	DryRun   bool
	NoVerify bool
	// Out receives progress messages; defaults to stdout.
	Out *output.Formatter
	// Events, when set, receives a JSONL event per step.
	Events *trace.EventWriter
	// Runner overrides the tool built from the config.
	Runner Runner
}

// SetResult is the outcome for one icon set.
type SetResult struct {
	Name       string
	Status     string
	Requested  int
	Found      int
	Codepoints []string
	Missing    []string
	Files      []string
	Size       *SizeReport
	Verify     *verify.Report
	Err        error
}

// Result holds the outcome of a run.
type Result struct {
	Sets []SetResult
	// Stylesheet is the written stylesheet path, empty when none was written.
	Stylesheet     string
	GeneratedFiles []string
}

// Failed reports whether any set's tool invocation failed.
func (r *Result) Failed() bool {
	for _, s := range r.Sets {
		if s.Status == StatusFailed {
			return true
		}
	}
	return false
}

// NewTool builds the subset tool described by cfg.
func NewTool(cfg *config.Config) *subset.Tool {
	return &subset.Tool{
		Command:    cfg.Tool.Command,
		SearchPath: cfg.SearchPath(),
		Timeout:    cfg.Timeout(),
	}
}

// Run processes every set in configuration order and then writes the stylesheet.
//
// A set whose tool run fails is recorded as failed and the remaining sets still
// run; files produced by earlier sets are kept. A missing source file or a tool
// that cannot be started stops the run with an error.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Result, error) {
	out := opts.Out
	if out == nil {
		out = output.New(os.Stdout)
	}
	runner := opts.Runner
	if runner == nil {
		runner = NewTool(cfg)
	}

	p := &run{cfg: cfg, opts: opts, out: out, runner: runner, events: opts.Events}
	p.events.Write(trace.TypeRunStart, trace.LevelInfo, trace.WithData(map[string]any{
		"config":  cfg.Source,
		"dry_run": opts.DryRun,
	}))

	result := &Result{}
	var sections []stylesheet.Section
	for _, set := range cfg.Sets {
		sr, section, err := p.runSet(ctx, set)
		if err != nil {
			p.events.Write(trace.TypeRunEnd, trace.LevelError, trace.WithSet(set.Name), trace.WithError(err))
			return result, err
		}
		result.Sets = append(result.Sets, *sr)
		result.GeneratedFiles = append(result.GeneratedFiles, sr.Files...)
		if section != nil {
			sections = append(sections, *section)
		}
	}

	if len(sections) > 0 {
		path := cfg.Resolve(cfg.Stylesheet.Output)
		if opts.DryRun {
			out.Info("Would write stylesheet: %s", path)
		} else {
			css := stylesheet.Render(sections, cfg.Stylesheet.AssetRefs)
			if err := writeFile(path, []byte(css)); err != nil {
				return result, fmt.Errorf("failed to write stylesheet: %w", err)
			}
			result.Stylesheet = path
			result.GeneratedFiles = append(result.GeneratedFiles, path)
			p.events.Write(trace.TypeStylesheet, trace.LevelInfo, trace.WithData(map[string]any{
				"path": path,
				"sets": len(sections),
			}))
		}
	}

	p.events.Write(trace.TypeRunEnd, trace.LevelInfo, trace.WithData(map[string]any{
		"failed": result.Failed(),
		"files":  result.GeneratedFiles,
	}))
	return result, nil
}

type run struct {
	cfg    *config.Config
	opts   Options
	out    *output.Formatter
	runner Runner
	events *trace.EventWriter
}

func (p *run) runSet(ctx context.Context, set config.SetConfig) (*SetResult, *stylesheet.Section, error) {
	sr := &SetResult{Name: set.Name, Requested: len(set.Icons)}
	if err := interrupted(ctx); err != nil {
		return nil, nil, err
	}

	if len(set.Icons) == 0 {
		sr.Status = StatusSkipped
		p.events.Write(trace.TypeSetSkipped, trace.LevelInfo, trace.WithSet(set.Name),
			trace.WithData(map[string]any{"reason": "empty allow-list"}))
		return sr, nil, nil
	}

	p.out.Info("")
	p.out.Info("Subsetting %s...", p.out.Bold(fmt.Sprintf("%s (%s)", set.FontFamily, set.Name)))

	cssPath := p.cfg.Resolve(set.Stylesheet)
	data, err := os.ReadFile(cssPath)
	if err != nil {
		return nil, nil, gkerrors.NewInputErrorWithCause(fmt.Sprintf("cannot read stylesheet for set %q", set.Name), err)
	}

	m := cssmap.Extract(string(data), set.BaseClass, set.IconPrefix)
	sr.Found = len(m)
	p.out.Step(set.Name, "Using %d icons out of %d found in %s", len(set.Icons), len(m), filepath.Base(cssPath))
	p.events.Write(trace.TypeExtract, trace.LevelInfo, trace.WithSet(set.Name),
		trace.WithData(map[string]any{"stylesheet": cssPath, "found": len(m), "requested": len(set.Icons)}))

	res := cssmap.Resolve(set.Icons, m)
	sr.Codepoints = res.Codepoints
	sr.Missing = res.Missing
	if len(res.Missing) > 0 {
		p.out.Warning("Missing icons: %s", strings.Join(res.Missing, ", "))
		p.events.Write(trace.TypeMissingIcons, trace.LevelWarn, trace.WithSet(set.Name),
			trace.WithData(map[string]any{"missing": res.Missing}))
	}

	if len(res.Codepoints) == 0 {
		sr.Status = StatusSkipped
		p.out.Warning("No icons resolved for %s, skipping", set.Name)
		p.events.Write(trace.TypeSetSkipped, trace.LevelWarn, trace.WithSet(set.Name),
			trace.WithData(map[string]any{"reason": "no icons resolved"}))
		return sr, nil, nil
	}

	fontPath := p.cfg.Resolve(set.Font)
	if _, err := os.Stat(fontPath); err != nil {
		return nil, nil, gkerrors.NewInputErrorWithCause(fmt.Sprintf("cannot read font for set %q", set.Name), err)
	}

	p.out.Step(set.Name, "Subsetting to %d glyphs...", len(res.Codepoints))

	ttf := subset.Job{
		Font:           fontPath,
		Output:         p.cfg.Resolve(set.TTFOutput()),
		Codepoints:     res.Codepoints,
		Flavor:         subset.FlavorTTF,
		LayoutFeatures: p.cfg.Tool.LayoutFeatures,
	}
	woff2 := ttf
	woff2.Output = p.cfg.Resolve(set.WOFF2Output())
	woff2.Flavor = subset.FlavorWOFF2

	if p.opts.DryRun {
		p.out.Step(set.Name, "Would run: %s", p.runner.CommandLine(ttf))
		p.out.Step(set.Name, "Would run: %s", p.runner.CommandLine(woff2))
		sr.Status = StatusPlanned
		sr.Files = []string{ttf.Output, woff2.Output}
		return sr, p.section(set, m, ttf, woff2), nil
	}

	p.out.Step(set.Name, "Running: %s", p.runner.CommandLine(ttf))
	if err := p.invoke(ctx, set.Name, ttf); err != nil {
		if ierr := interrupted(ctx); ierr != nil {
			return nil, nil, ierr
		}
		if gkerrors.IsToolError(err) {
			return nil, nil, err
		}
		p.out.Error("Error: %v", err)
		sr.Status = StatusFailed
		sr.Err = err
		return sr, nil, nil
	}
	sr.Files = append(sr.Files, ttf.Output)

	p.out.Step(set.Name, "Creating woff2...")
	if err := p.invoke(ctx, set.Name, woff2); err != nil {
		if ierr := interrupted(ctx); ierr != nil {
			return nil, nil, ierr
		}
		if gkerrors.IsToolError(err) {
			return nil, nil, err
		}
		p.out.Error("Error creating woff2: %v", err)
		sr.Status = StatusFailed
		sr.Err = err
		return sr, nil, nil
	}
	sr.Files = append(sr.Files, woff2.Output)

	if !p.opts.NoVerify {
		sr.Verify = p.verify(set.Name, ttf.Output, res.Codepoints)
	}
	if set.ReferenceFont != "" {
		sr.Size = p.sizeReport(set.Name, p.cfg.Resolve(set.ReferenceFont), woff2.Output)
	}

	sr.Status = StatusOK
	return sr, p.section(set, m, ttf, woff2), nil
}

func (p *run) section(set config.SetConfig, m cssmap.Map, ttf, woff2 subset.Job) *stylesheet.Section {
	return &stylesheet.Section{
		FontFamily: set.FontFamily,
		BaseClass:  set.BaseClass,
		IconPrefix: set.IconPrefix,
		WOFF2:      woff2.Output,
		TTF:        ttf.Output,
		Icons:      set.Icons,
		Map:        m,
	}
}

func (p *run) invoke(ctx context.Context, setName string, job subset.Job) error {
	res, err := p.runner.Run(ctx, job)
	data := map[string]any{"output": job.Output, "flavor": job.Flavor}
	if res != nil {
		data["exit_code"] = res.ExitCode
		data["duration_ms"] = res.Duration.Milliseconds()
	}
	if err != nil {
		var toolErr *subset.ToolError
		if errors.As(err, &toolErr) {
			data["exit_code"] = toolErr.ExitCode
		}
		p.events.Write(trace.TypeToolFail, trace.LevelError, trace.WithSet(setName), trace.WithData(data), trace.WithError(err))
		return err
	}
	p.events.Write(trace.TypeToolRun, trace.LevelInfo, trace.WithSet(setName), trace.WithData(data))
	return nil
}

func (p *run) verify(setName, ttfPath string, codepoints []string) *verify.Report {
	report, err := verify.File(ttfPath, codepoints)
	if err != nil {
		p.out.Warning("Could not verify %s: %v", filepath.Base(ttfPath), err)
		p.events.Write(trace.TypeVerify, trace.LevelWarn, trace.WithSet(setName), trace.WithError(err))
		return nil
	}
	level := trace.LevelInfo
	if report.OK() {
		p.out.Step(setName, "Verified %d codepoints (%d glyphs)", len(codepoints), report.Glyphs)
	} else {
		level = trace.LevelWarn
		bad := make([]string, 0, len(report.Unmapped)+len(report.Invalid))
		bad = append(bad, report.Unmapped...)
		bad = append(bad, report.Invalid...)
		p.out.Warning("%s: %d codepoints have no glyph: %s", filepath.Base(ttfPath), len(bad), strings.Join(bad, ", "))
	}
	p.events.Write(trace.TypeVerify, level, trace.WithSet(setName), trace.WithData(report))
	return report
}

func (p *run) sizeReport(setName, referencePath, woff2Path string) *SizeReport {
	report, err := MeasureSize(referencePath, woff2Path)
	if err != nil {
		p.out.Warning("Size report skipped: %v", err)
		return nil
	}
	p.out.Info("")
	p.out.Info("Original woff2: %s", KB(report.Original))
	p.out.Info("Subset woff2: %s", KB(report.Subset))
	p.out.Info("Reduction: %.1f%%", report.Reduction())
	p.events.Write(trace.TypeSizeReport, trace.LevelInfo, trace.WithSet(setName), trace.WithData(map[string]any{
		"original":  report.Original,
		"subset":    report.Subset,
		"reduction": report.Reduction(),
	}))
	return report
}

// interrupted reports a cancelled run, so a killed tool is not counted as a set failure.
func interrupted(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return gkerrors.NewGeneralErrorWithCause("interrupted", err)
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
