package formatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/artpar/tiger/domain/item"
	"github.com/artpar/tiger/domain/report"
	"github.com/artpar/tiger/domain/run"
	"github.com/artpar/tiger/domain/token"
)

func testDiags(fullpath string) []report.Diagnostic {
	return []report.Diagnostic{
		{
			Severity: report.Error,
			Key:      report.KeyUnknown,
			Message:  "unknown token `flurb`",
			Loc:      token.Loc{Path: "events/a.txt", Fullpath: fullpath, Kind: token.Mod, Line: 2, Column: 2},
		},
		{
			Severity: report.Warning,
			Key:      report.KeyValidation,
			Message:  "`custom` can only be used in lists",
			Loc:      token.Loc{Path: "events/a.txt", Fullpath: fullpath, Kind: token.Mod, Line: 3, Column: 2},
		},
	}
}

func testRun() run.Run {
	return run.Run{
		ID:       "run-1",
		Mod:      "Test Mod",
		Files:    4,
		Duration: 1500 * time.Millisecond,
		Counts:   map[report.Severity]int{report.Error: 1, report.Warning: 1},
	}
}

// ===========================================
// Registry Tests
// ===========================================

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r.formatters == nil {
		t.Fatal("formatters map should be initialized")
	}
	if r.defaultFmt != "console" {
		t.Errorf("default format should be 'console', got %q", r.defaultFmt)
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	f := NewJSONFormatter()

	if err := r.Register(f); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(f); err == nil {
		t.Error("expected error registering duplicate formatter")
	}
}

func TestRegistry_SetDefault(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(NewJSONFormatter())

	if err := r.SetDefault("xml"); err == nil {
		t.Error("expected error for unregistered default")
	}
	if err := r.SetDefault("json"); err != nil {
		t.Fatalf("SetDefault failed: %v", err)
	}
	if r.Default().Name() != "json" {
		t.Errorf("Default() = %q, want json", r.Default().Name())
	}
}

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(NewConsoleFormatter())
	_ = r.Register(NewYAMLFormatter())

	f, err := r.Lookup("")
	if err != nil || f.Name() != "console" {
		t.Errorf("Lookup(\"\") = %v, %v; want console", f, err)
	}
	if _, err := r.Lookup("xml"); err == nil || !strings.Contains(err.Error(), "console") {
		t.Errorf("Lookup(xml) error = %v, want list of available formats", err)
	}
}

func TestDefaultRegistryHasBuiltins(t *testing.T) {
	want := []string{"console", "json", "table", "yaml"}
	got := List()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

// ===========================================
// Console Tests
// ===========================================

func TestConsoleFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	src := "my_effect = {\n\tflurb = yes\n\tcustom = foo\n}\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	err := NewConsoleFormatter().Format(&buf, testRun(), testDiags(path), FormatOptions{
		Summary: true,
		Source:  NewSourceLines(),
	})
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Error(unknown): unknown token `flurb`",
		"--> [MOD] events/a.txt:2:2",
		"2 | \tflurb = yes",
		"  | \t^",
		"Warning(validation): `custom` can only be used in lists",
		"1 errors, 1 warnings, 0 info, 0 advice in 4 files",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("output contains ANSI escapes with Color disabled")
	}
}

func TestConsoleFormatColor(t *testing.T) {
	var buf bytes.Buffer
	_ = NewConsoleFormatter().Format(&buf, run.Run{}, testDiags(""), FormatOptions{Color: true})
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Error("expected ANSI escapes with Color enabled")
	}
}

func TestConsoleFormatMissingSource(t *testing.T) {
	var buf bytes.Buffer
	err := NewConsoleFormatter().Format(&buf, run.Run{}, testDiags("/nonexistent/a.txt"), FormatOptions{Source: NewSourceLines()})
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if strings.Contains(buf.String(), " | ") {
		t.Errorf("unexpected source excerpt:\n%s", buf.String())
	}
}

func TestCaretIndent(t *testing.T) {
	tests := []struct {
		line   string
		column int
		want   string
	}{
		{"flurb = yes", 1, ""},
		{"\t\tflurb = yes", 3, "\t\t"},
		{"  a = b", 5, "    "},
		{"ab", 10, "  "},
	}
	for _, tt := range tests {
		if got := caretIndent(tt.line, tt.column); got != tt.want {
			t.Errorf("caretIndent(%q, %d) = %q, want %q", tt.line, tt.column, got, tt.want)
		}
	}
}

func TestColorEnabled(t *testing.T) {
	if !ColorEnabled("always", nil) {
		t.Error("always should enable color")
	}
	if ColorEnabled("never", os.Stdout) {
		t.Error("never should disable color")
	}
	t.Setenv("NO_COLOR", "1")
	if ColorEnabled("auto", os.Stdout) {
		t.Error("NO_COLOR should disable auto color")
	}
}

// ===========================================
// Table / JSON / YAML Tests
// ===========================================

func TestTableFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTableFormatter().Format(&buf, testRun(), testDiags(""), FormatOptions{}); err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 rows:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "SEVERITY") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "[MOD] events/a.txt:2:2") {
		t.Errorf("row = %q", lines[1])
	}
}

func TestTableFormatEmpty(t *testing.T) {
	var buf bytes.Buffer
	_ = NewTableFormatter().Format(&buf, run.Run{}, nil, FormatOptions{})
	if !strings.Contains(buf.String(), "No diagnostics.") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestTableFormatItems(t *testing.T) {
	items := []item.Item{
		{Kind: item.Trait, Name: "brave", Path: "common/traits/00_traits.txt", Line: 12, Vanilla: true},
		{Kind: item.Trait, Name: "my_trait", Path: "common/traits/my.txt"},
	}
	var buf bytes.Buffer
	if err := NewTableFormatter().FormatItems(&buf, items, FormatOptions{}); err != nil {
		t.Fatalf("FormatItems failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "[CK3] common/traits/00_traits.txt:12") || !strings.Contains(out, "[MOD] common/traits/my.txt") {
		t.Errorf("output:\n%s", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONFormatter().Format(&buf, testRun(), testDiags("/abs/a.txt"), FormatOptions{Summary: true}); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var out struct {
		Count       int      `json:"count"`
		Diagnostics []record `json:"diagnostics"`
		Run         struct {
			Files  int            `json:"files"`
			Counts map[string]int `json:"counts"`
		} `json:"run"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out.Count != 2 || len(out.Diagnostics) != 2 {
		t.Errorf("count = %d, diagnostics = %d", out.Count, len(out.Diagnostics))
	}
	if out.Diagnostics[0].Severity != "error" || out.Diagnostics[0].Origin != "MOD" {
		t.Errorf("first diagnostic = %+v", out.Diagnostics[0])
	}
	if out.Run.Files != 4 || out.Run.Counts["error"] != 1 || out.Run.Counts["advice"] != 0 {
		t.Errorf("run = %+v", out.Run)
	}
	if strings.Contains(buf.String(), "/abs/") {
		t.Error("JSON output leaks absolute paths")
	}
}

func TestJSONFormatError(t *testing.T) {
	var buf bytes.Buffer
	_ = NewJSONFormatter().FormatError(&buf, errors.New("game directory not found"))

	var out map[string]string
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out["error"] != "game directory not found" {
		t.Errorf("error = %q", out["error"])
	}
}

func TestYAMLFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := NewYAMLFormatter().Format(&buf, testRun(), testDiags(""), FormatOptions{}); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var out struct {
		Count       int      `yaml:"count"`
		Diagnostics []record `yaml:"diagnostics"`
		Run         any      `yaml:"run"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if out.Count != 2 || out.Diagnostics[1].Key != "validation" {
		t.Errorf("out = %+v", out)
	}
	if out.Run != nil {
		t.Error("run summary present without Summary option")
	}
}

func TestYAMLFormatItems(t *testing.T) {
	var buf bytes.Buffer
	items := []item.Item{{Kind: item.Culture, Name: "norse", Path: "common/culture/cultures/x.txt"}}
	if err := NewYAMLFormatter().FormatItems(&buf, items, FormatOptions{}); err != nil {
		t.Fatalf("FormatItems failed: %v", err)
	}
	if !strings.Contains(buf.String(), "name: norse") || !strings.Contains(buf.String(), "kind: culture") {
		t.Errorf("output:\n%s", buf.String())
	}
}

func TestSourceLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.txt")
	if err := os.WriteFile(path, []byte("\ufefffirst\r\nsecond\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewSourceLines()

	if got, ok := s.Line(path, 1); !ok || got != "first" {
		t.Errorf("Line 1 = %q, %v", got, ok)
	}
	if got, ok := s.Line(path, 2); !ok || got != "second" {
		t.Errorf("Line 2 = %q, %v", got, ok)
	}
	if _, ok := s.Line(path, 9); ok {
		t.Error("Line 9 should not exist")
	}
	if _, ok := s.Line(filepath.Join(t.TempDir(), "missing.txt"), 1); ok {
		t.Error("missing file should yield false")
	}
}
