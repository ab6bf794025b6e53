package subset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"

	gkerrors "github.com/silver2dream/glyphkit/internal/errors"
)

// fakeTool writes an executable shell script named name into dir.
func fakeTool(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatalf("write fake tool: %v", err)
	}
	return p
}

// writesOutput copies the --output-file argument name into the file and records argv.
const writesOutput = `for a in "$@"; do
  case "$a" in
    --output-file=*) out="${a#--output-file=}" ;;
  esac
done
printf '%s\n' "$@" > "$(dirname "$out")/argv.txt"
echo subset-font > "$out"
echo done`

func TestJobArgs(t *testing.T) {
	job := Job{
		Font:           "Phosphor.ttf",
		Codepoints:     []string{"f456", "f123"},
		LayoutFeatures: []string{"liga"},
	}

	got := job.Args("out.ttf")
	want := []string{"Phosphor.ttf", "--unicodes=U+F456,U+F123", "--output-file=out.ttf", "--layout-features=liga"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Args() = %v, want %v", got, want)
	}

	job.Flavor = FlavorWOFF2
	got = job.Args("out.woff2")
	want = []string{"Phosphor.ttf", "--unicodes=U+F456,U+F123", "--output-file=out.woff2", "--flavor=woff2", "--layout-features=liga"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Args() = %v, want %v", got, want)
	}
}

func TestCommandLine(t *testing.T) {
	tool := &Tool{Command: "pyftsubset"}
	line := tool.CommandLine(Job{Font: "a.ttf", Output: "b.ttf", Codepoints: []string{"e000"}})
	if line != "pyftsubset a.ttf --unicodes=U+E000 --output-file=b.ttf" {
		t.Errorf("CommandLine() = %q", line)
	}
}

func TestRun_Success(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping on windows")
	}
	binDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "assets")
	fakeTool(t, binDir, "pyftsubset", writesOutput)

	tool := &Tool{Command: "pyftsubset", SearchPath: []string{binDir}}
	out := filepath.Join(outDir, "Phosphor-subset.ttf")
	res, err := tool.Run(context.Background(), Job{
		Font:           "Phosphor.ttf",
		Output:         out,
		Codepoints:     []string{"f456", "f123"},
		LayoutFeatures: []string{"liga"},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d", res.ExitCode)
	}
	if !strings.Contains(string(res.Stdout), "done") {
		t.Errorf("stdout not captured: %q", res.Stdout)
	}
	if res.Path != filepath.Join(binDir, "pyftsubset") {
		t.Errorf("Path = %s", res.Path)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if strings.TrimSpace(string(data)) != "subset-font" {
		t.Errorf("unexpected output %q", data)
	}
	info, err := os.Stat(out)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0644 {
		t.Errorf("output mode = %v, want -rw-r--r--", perm)
	}

	argv, _ := os.ReadFile(filepath.Join(outDir, "argv.txt"))
	if !strings.Contains(string(argv), "--unicodes=U+F456,U+F123") {
		t.Errorf("argv = %q", argv)
	}

	entries, _ := os.ReadDir(outDir)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".partial") {
			t.Errorf("temporary file left behind: %s", e.Name())
		}
	}
}

func TestRun_NonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping on windows")
	}
	binDir := t.TempDir()
	outDir := t.TempDir()
	fakeTool(t, binDir, "pyftsubset", `echo "ERROR: font has no cmap" >&2
exit 1`)

	tool := &Tool{Command: "pyftsubset", SearchPath: []string{binDir}}
	out := filepath.Join(outDir, "Phosphor-subset.ttf")
	res, err := tool.Run(context.Background(), Job{Font: "x.ttf", Output: out, Codepoints: []string{"e000"}})
	if err == nil {
		t.Fatal("expected error for exit 1")
	}

	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected *ToolError, got %T", err)
	}
	if toolErr.ExitCode != 1 {
		t.Errorf("ExitCode = %d", toolErr.ExitCode)
	}
	if !strings.Contains(err.Error(), "font has no cmap") {
		t.Errorf("stderr not in message: %q", err.Error())
	}
	if res == nil || res.ExitCode != 1 {
		t.Errorf("expected result with exit code 1, got %+v", res)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("no output file should exist after a failed run")
	}
	entries, _ := os.ReadDir(outDir)
	if len(entries) != 0 {
		t.Errorf("expected empty output dir, found %d entries", len(entries))
	}
}

func TestRun_FailureKeepsPreviousOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping on windows")
	}
	binDir := t.TempDir()
	outDir := t.TempDir()
	fakeTool(t, binDir, "pyftsubset", `for a in "$@"; do
  case "$a" in --output-file=*) echo garbage > "${a#--output-file=}" ;; esac
done
exit 2`)

	out := filepath.Join(outDir, "prev.woff2")
	os.WriteFile(out, []byte("previous"), 0644)

	tool := &Tool{Command: "pyftsubset", SearchPath: []string{binDir}}
	_, err := tool.Run(context.Background(), Job{Font: "x.ttf", Output: out, Codepoints: []string{"e000"}, Flavor: FlavorWOFF2})
	if err == nil {
		t.Fatal("expected error")
	}
	data, _ := os.ReadFile(out)
	if string(data) != "previous" {
		t.Errorf("previous output overwritten: %q", data)
	}
}

func TestRun_NoOutputWritten(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping on windows")
	}
	binDir := t.TempDir()
	fakeTool(t, binDir, "pyftsubset", "exit 0")

	tool := &Tool{Command: "pyftsubset", SearchPath: []string{binDir}}
	out := filepath.Join(t.TempDir(), "a.ttf")
	_, err := tool.Run(context.Background(), Job{Font: "x.ttf", Output: out, Codepoints: []string{"e000"}})
	if err == nil || !strings.Contains(err.Error(), "wrote no output") {
		t.Fatalf("expected no-output error, got %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("output should not exist")
	}
}

func TestRun_ToolNotFound(t *testing.T) {
	tool := &Tool{Command: "glyphkit-no-such-tool", SearchPath: []string{t.TempDir()}}
	_, err := tool.Run(context.Background(), Job{Font: "x.ttf", Output: filepath.Join(t.TempDir(), "a.ttf"), Codepoints: []string{"e000"}})
	if err == nil {
		t.Fatal("expected error for missing tool")
	}
	if !gkerrors.IsToolError(err) {
		t.Errorf("expected tool error, got %v", err)
	}
}

func TestRun_NoCodepoints(t *testing.T) {
	tool := &Tool{Command: "pyftsubset"}
	if _, err := tool.Run(context.Background(), Job{Font: "x.ttf", Output: "a.ttf"}); err == nil {
		t.Fatal("expected error for empty codepoint list")
	}
}

func TestRun_Timeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping on windows")
	}
	binDir := t.TempDir()
	fakeTool(t, binDir, "pyftsubset", "sleep 10")

	tool := &Tool{Command: "pyftsubset", SearchPath: []string{binDir}, Timeout: 200 * time.Millisecond}
	start := time.Now()
	_, err := tool.Run(context.Background(), Job{Font: "x.ttf", Output: filepath.Join(t.TempDir(), "a.ttf"), Codepoints: []string{"e000"}})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("expected timed out message, got %q", err.Error())
	}
	if time.Since(start) > 5*time.Second {
		t.Error("tool was not killed on timeout")
	}
}

func TestLookPath_SearchPathFirst(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping on windows")
	}
	first := t.TempDir()
	second := t.TempDir()
	fakeTool(t, second, "pyftsubset", "exit 0")
	os.WriteFile(filepath.Join(first, "pyftsubset"), []byte("not executable"), 0644)

	tool := &Tool{Command: "pyftsubset", SearchPath: []string{first, second}}
	got, err := tool.LookPath()
	if err != nil {
		t.Fatalf("LookPath failed: %v", err)
	}
	if got != filepath.Join(second, "pyftsubset") {
		t.Errorf("LookPath() = %s", got)
	}
}

func TestEnviron_PrependsSearchPath(t *testing.T) {
	t.Setenv("PATH", "/usr/bin")
	tool := &Tool{Command: "pyftsubset", SearchPath: []string{"/opt/fonttools/bin"}}

	var path string
	for _, kv := range tool.Environ() {
		if strings.HasPrefix(kv, "PATH=") {
			path = strings.TrimPrefix(kv, "PATH=")
		}
	}
	want := "/opt/fonttools/bin" + string(os.PathListSeparator) + "/usr/bin"
	if path != want {
		t.Errorf("PATH = %q, want %q", path, want)
	}
}

func TestToolError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ToolError
		want string
	}{
		{"stderr", &ToolError{ExitCode: 1, Stderr: "boom\n"}, "exit status 1: boom"},
		{"no stderr", &ToolError{ExitCode: 3}, "exit status 3"},
		{"cause", &ToolError{ExitCode: -1, Cause: errors.New("timed out after 1s")}, "timed out after 1s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}
