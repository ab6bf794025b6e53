package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/silver2dream/glyphkit/internal/config"
	"github.com/silver2dream/glyphkit/internal/cssmap"
	"github.com/silver2dream/glyphkit/internal/subset"
)

// Check statuses.
const (
	StatusOK      = "ok"
	StatusWarning = "warning"
	StatusError   = "error"
)

// CheckResult represents the result of a single check
type CheckResult struct {
	Name    string
	Status  string // "ok", "warning", "error"
	Message string
}

// Doctor performs pre-flight checks for a configuration
type Doctor struct {
	Config  *config.Config
	Tool    *subset.Tool
	Timeout time.Duration
}

// New creates a new Doctor
func New(cfg *config.Config) *Doctor {
	return &Doctor{
		Config: cfg,
		Tool: &subset.Tool{
			Command:    cfg.Tool.Command,
			SearchPath: cfg.SearchPath(),
		},
		Timeout: 30 * time.Second,
	}
}

// RunAll executes all checks
func (d *Doctor) RunAll(ctx context.Context) []CheckResult {
	var results []CheckResult

	results = append(results, d.CheckConfig()...)
	results = append(results, d.CheckTool(ctx)...)
	for _, set := range d.Config.Sets {
		results = append(results, d.CheckSet(set)...)
	}
	results = append(results, d.CheckOutputDir())

	return results
}

// CheckConfig reports validation errors
func (d *Doctor) CheckConfig() []CheckResult {
	errs := d.Config.Validate()
	if len(errs) == 0 {
		source := d.Config.Source
		if source == "" {
			source = "built-in defaults"
		}
		return []CheckResult{{Name: "Config", Status: StatusOK, Message: source}}
	}

	var results []CheckResult
	for _, e := range errs {
		results = append(results, CheckResult{Name: "Config", Status: StatusError, Message: e.Error()})
	}
	return results
}

// CheckTool checks the subsetting tool can be found and started
func (d *Doctor) CheckTool(ctx context.Context) []CheckResult {
	path, err := d.Tool.LookPath()
	if err != nil {
		return []CheckResult{{
			Name:    "Subset Tool",
			Status:  StatusError,
			Message: fmt.Sprintf("%s not found (install with: pip install fonttools brotli)", d.Tool.Command),
		}}
	}
	results := []CheckResult{{Name: "Subset Tool", Status: StatusOK, Message: path}}

	ctx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, path, "--help")
	cmd.Env = d.Tool.Environ()
	if err := cmd.Run(); err != nil {
		results = append(results, CheckResult{
			Name:    "Subset Tool",
			Status:  StatusWarning,
			Message: fmt.Sprintf("%s --help failed: %v", filepath.Base(path), err),
		})
	}
	return results
}

// CheckSet checks the source files of one icon set
func (d *Doctor) CheckSet(set config.SetConfig) []CheckResult {
	name := "Set " + set.Name
	if len(set.Icons) == 0 {
		return []CheckResult{{Name: name, Status: StatusOK, Message: "empty allow-list (skipped)"}}
	}

	var results []CheckResult
	cssPath := d.Config.Resolve(set.Stylesheet)
	data, err := os.ReadFile(cssPath)
	if err != nil {
		results = append(results, CheckResult{Name: name, Status: StatusError, Message: fmt.Sprintf("stylesheet missing: %s", cssPath)})
	} else {
		m := cssmap.Extract(string(data), set.BaseClass, set.IconPrefix)
		res := cssmap.Resolve(set.Icons, m)
		switch {
		case len(m) == 0:
			results = append(results, CheckResult{Name: name, Status: StatusError,
				Message: fmt.Sprintf("no .%s.%s* declarations in %s", set.BaseClass, set.IconPrefix, cssPath)})
		case len(res.Missing) > 0:
			results = append(results, CheckResult{Name: name, Status: StatusWarning,
				Message: fmt.Sprintf("%d of %d icons missing: %v", len(res.Missing), len(set.Icons), res.Missing)})
		default:
			results = append(results, CheckResult{Name: name, Status: StatusOK,
				Message: fmt.Sprintf("%d icons resolved (%d available)", len(set.Icons), len(m))})
		}
	}

	fontPath := d.Config.Resolve(set.Font)
	if _, err := os.Stat(fontPath); err != nil {
		results = append(results, CheckResult{Name: name, Status: StatusError, Message: fmt.Sprintf("font missing: %s", fontPath)})
	}

	if set.ReferenceFont != "" {
		refPath := d.Config.Resolve(set.ReferenceFont)
		if _, err := os.Stat(refPath); err != nil {
			results = append(results, CheckResult{Name: name, Status: StatusWarning,
				Message: fmt.Sprintf("reference font missing, size report will be skipped: %s", refPath)})
		}
	}

	return results
}

// CheckOutputDir checks the stylesheet directory exists
func (d *Doctor) CheckOutputDir() CheckResult {
	dir := filepath.Dir(d.Config.Resolve(d.Config.Stylesheet.Output))
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return CheckResult{
			Name:    "Output Directory",
			Status:  StatusWarning,
			Message: fmt.Sprintf("%s does not exist (will be created)", dir),
		}
	}
	return CheckResult{Name: "Output Directory", Status: StatusOK, Message: dir}
}
