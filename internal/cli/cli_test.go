package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/gitrange/internal/gittest"
	"github.com/dshills/gitrange/internal/plugin"
)

// resetFlags resets all package-level flag variables to their zero values.
func resetFlags() {
	flagConfig = "mkdocs.yml"
	flagVerbose = false
	flagFormat = ""
	flagOut = ""
	flagFrom = ""
	flagTo = ""
	flagFilter = ""
	flagInclude = ""
	flagChangeTypes = ""
	flagTimeout = 0
	flagSiteName = ""
}

// run executes the command tree with args and returns the exit code.
func run(t *testing.T, args ...string) int {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)
	return execute(context.Background(), args)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// --- splitComma tests ---

func TestSplitComma(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty string", "", nil},
		{"single value", "foo", []string{"foo"}},
		{"multiple values", "a,b,c", []string{"a", "b", "c"}},
		{"whitespace trimmed", " a , b , c ", []string{"a", "b", "c"}},
		{"empty parts skipped", "a,,b", []string{"a", "b"}},
		{"all empty", ",,,", nil},
		{"trailing comma", "a,b,", []string{"a", "b"}},
		{"page paths", "index.md,api/overview.md", []string{"index.md", "api/overview.md"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitComma(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("splitComma(%q) = %v (len %d), want %v (len %d)",
					tt.input, got, len(got), tt.want, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("splitComma(%q)[%d] = %q, want %q",
						tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

// --- buildOverrides tests ---

func TestBuildOverrides_NoFlags(t *testing.T) {
	resetFlags()
	m := buildOverrides()
	if len(m) != 0 {
		t.Errorf("buildOverrides() with no flags = %v, want empty map", m)
	}
}

func TestBuildOverrides_AllFlags(t *testing.T) {
	resetFlags()
	defer resetFlags()
	flagFormat = "json"
	flagFrom = "v1.0"
	flagTo = "main"
	flagFilter = "true"
	flagInclude = " index.md , about.md "
	flagChangeTypes = "added,modified"
	flagTimeout = 10

	m := buildOverrides()

	expected := map[string]string{
		"format":       "json",
		"from":         "v1.0",
		"to":           "main",
		"filter":       "true",
		"include":      "index.md,about.md",
		"change_types": "added,modified",
		"timeout":      "10",
	}

	if len(m) != len(expected) {
		t.Fatalf("buildOverrides() returned %d entries, want %d", len(m), len(expected))
	}
	for k, v := range expected {
		if m[k] != v {
			t.Errorf("buildOverrides()[%q] = %q, want %q", k, m[k], v)
		}
	}
}

// --- logging ---

func TestLevelWriter(t *testing.T) {
	tests := []struct {
		line    string
		verbose bool
		pass    bool
	}{
		{logPrefix + "info: range a..b\n", false, false},
		{logPrefix + "info: range a..b\n", true, true},
		{logPrefix + "warn: listing commits\n", false, true},
		{logPrefix + "error: diff failed\n", false, true},
		{"info: no prefix\n", false, false},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		lw := levelWriter{w: &buf, verbose: tt.verbose}
		n, err := lw.Write([]byte(tt.line))
		if err != nil || n != len(tt.line) {
			t.Errorf("Write(%q) = %d, %v", tt.line, n, err)
		}
		if got := buf.Len() > 0; got != tt.pass {
			t.Errorf("Write(%q) verbose=%v passed = %v, want %v", tt.line, tt.verbose, got, tt.pass)
		}
	}
}

// --- commands ---

func TestVersion(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	defer rootCmd.SetOut(nil)

	if code := run(t, "version"); code != ExitSuccess {
		t.Fatalf("exit = %d", code)
	}
	if !strings.Contains(buf.String(), plugin.Version) {
		t.Errorf("version output = %q", buf.String())
	}
}

func TestList(t *testing.T) {
	fx := gittest.NewDocs(t)
	cfgPath := filepath.Join(fx.Dir, "mkdocs.yml")
	out := filepath.Join(t.TempDir(), "out.txt")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"default range", nil, "guide.md\nnew.md\n"},
		{"explicit refs", []string{fx.C1, fx.C2}, "guide.md\nnew.md\n"},
		{"same refs", []string{fx.C2, fx.C2}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", cfgPath, "--out", out, "list"}, tt.args...)
			if code := run(t, args...); code != ExitSuccess {
				t.Fatalf("exit = %d", code)
			}
			if got := readFile(t, out); got != tt.want {
				t.Errorf("list = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestList_JSON(t *testing.T) {
	fx := gittest.NewDocs(t)
	out := filepath.Join(t.TempDir(), "out.json")
	code := run(t, "--config", filepath.Join(fx.Dir, "mkdocs.yml"), "--format", "json", "--out", out,
		"--change-types", "added", "list")
	if code != ExitSuccess {
		t.Fatalf("exit = %d", code)
	}
	if got := readFile(t, out); got != "[\n  \"new.md\"\n]\n" {
		t.Errorf("list = %q", got)
	}
}

func TestFilter(t *testing.T) {
	fx := gittest.NewDocs(t)
	out := filepath.Join(t.TempDir(), "report.json")
	code := run(t, "--config", filepath.Join(fx.Dir, "mkdocs.yml"), "--format", "json", "--out", out,
		"--from", fx.C1, "--to", fx.C2, "--filter", "true", "--include", "index.md", "filter")
	if code != ExitSuccess {
		t.Fatalf("exit = %d", code)
	}
	report := readFile(t, out)
	for _, want := range []string{`"path": "api/overview.md"`, `"reason": "unchanged"`, `"excluded": 1`} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %s:\n%s", want, report)
		}
	}
}

func TestBuild(t *testing.T) {
	fx := gittest.NewDocs(t)
	out := filepath.Join(t.TempDir(), "report.txt")
	code := run(t, "--config", filepath.Join(fx.Dir, "mkdocs.yml"), "--out", out,
		"--filter", "true", "--include", "index.md", "build")
	if code != ExitSuccess {
		t.Fatalf("exit = %d", code)
	}
	siteDir := filepath.Join(fx.Dir, "site")
	for _, p := range []string{"index.md", "guide.md", "new.md", "img/logo.png"} {
		if _, err := os.Stat(filepath.Join(siteDir, filepath.FromSlash(p))); err != nil {
			t.Errorf("%s not written: %v", p, err)
		}
	}
	if _, err := os.Stat(filepath.Join(siteDir, "api", "overview.md")); !os.IsNotExist(err) {
		t.Error("unchanged page should not be written")
	}
	if !strings.Contains(readFile(t, out), "api/overview.md (unchanged)") {
		t.Error("text report should list the excluded page")
	}
}

func TestRender(t *testing.T) {
	fx := gittest.NewDocs(t)
	fx.Write("docs/changes.md", "Changed:{{ range git_range }} {{ . }}{{ end }}\n")
	out := filepath.Join(t.TempDir(), "changes.md")

	code := run(t, "--config", filepath.Join(fx.Dir, "mkdocs.yml"), "--out", out, "render", "changes.md")
	if code != ExitSuccess {
		t.Fatalf("exit = %d", code)
	}
	if got := readFile(t, out); got != "Changed: guide.md new.md\n" {
		t.Errorf("render = %q", got)
	}

	if code := run(t, "--config", filepath.Join(fx.Dir, "mkdocs.yml"), "render", "missing.md"); code != ExitRuntimeError {
		t.Errorf("missing page exit = %d, want %d", code, ExitRuntimeError)
	}
}

func TestExitCodes(t *testing.T) {
	fx := gittest.NewDocs(t)
	cfgPath := filepath.Join(fx.Dir, "mkdocs.yml")

	notRepo := t.TempDir()
	if err := os.WriteFile(filepath.Join(notRepo, "mkdocs.yml"), []byte("site_name: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"bad format", []string{"--config", cfgPath, "--format", "xml", "list"}, ExitUsageError},
		{"bad change type", []string{"--config", cfgPath, "--change-types", "moved", "list"}, ExitUsageError},
		{"too many refs", []string{"--config", cfgPath, "list", "a", "b", "c"}, ExitUsageError},
		{"unknown command", []string{"publish"}, ExitUsageError},
		{"not a repository", []string{"--config", filepath.Join(notRepo, "mkdocs.yml"), "list"}, ExitRuntimeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := run(t, tt.args...); code != tt.want {
				t.Errorf("exit = %d, want %d", code, tt.want)
			}
		})
	}
}

func TestConfigCommands(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "mkdocs.yml")

	if code := run(t, "--config", cfgPath, "config", "init", "--site-name", "Handbook"); code != ExitSuccess {
		t.Fatalf("init exit = %d", code)
	}
	if code := run(t, "--config", cfgPath, "config", "set", "from", "v1.0"); code != ExitSuccess {
		t.Fatalf("set exit = %d", code)
	}
	if code := run(t, "--config", cfgPath, "config", "set", "color", "blue"); code != ExitUsageError {
		t.Errorf("unknown key exit = %d, want %d", code, ExitUsageError)
	}

	saved := readFile(t, cfgPath)
	for _, want := range []string{"site_name: Handbook", "git-range:", "from: v1.0"} {
		if !strings.Contains(saved, want) {
			t.Errorf("mkdocs.yml missing %q:\n%s", want, saved)
		}
	}

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	defer rootCmd.SetOut(nil)
	if code := run(t, "--config", cfgPath, "--to", "main", "config", "show"); code != ExitSuccess {
		t.Fatalf("show exit = %d", code)
	}
	for _, want := range []string{"from: v1.0", "to: main", "docs_dir: docs"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("config show missing %q:\n%s", want, buf.String())
		}
	}
}
