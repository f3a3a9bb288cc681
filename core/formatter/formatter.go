// Package formatter provides a pluggable output formatting system.
// Formatters render diagnostics and item listings as console text,
// aligned tables, JSON, or YAML.
package formatter

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/artpar/tiger/domain/item"
	"github.com/artpar/tiger/domain/report"
	"github.com/artpar/tiger/domain/run"
)

// Formatter converts validation output to a specific output format.
type Formatter interface {
	// Name returns the formatter name (e.g., "console", "json", "yaml").
	Name() string

	// Description returns a human-readable description.
	Description() string

	// Format writes the diagnostics of a finished run.
	Format(w io.Writer, r run.Run, diags []report.Diagnostic, opts FormatOptions) error

	// FormatItems writes a list of known items.
	FormatItems(w io.Writer, items []item.Item, opts FormatOptions) error

	// FormatError formats an error.
	FormatError(w io.Writer, err error) error
}

// Lines looks up the text of a source line.
type Lines interface {
	Line(path string, line int) (string, bool)
}

// FormatOptions configures formatting behavior.
type FormatOptions struct {
	// Color enables ANSI color output.
	Color bool

	// Summary appends per-severity totals.
	Summary bool

	// Source provides the offending line for console output. Nil skips it.
	Source Lines
}

// Registry manages registered formatters.
type Registry struct {
	mu         sync.RWMutex
	formatters map[string]Formatter
	defaultFmt string
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		formatters: make(map[string]Formatter),
		defaultFmt: "console",
	}
}

// Register adds a formatter to the registry.
func (r *Registry) Register(f Formatter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.formatters[f.Name()]; exists {
		return fmt.Errorf("formatter %q already registered", f.Name())
	}

	r.formatters[f.Name()] = f
	return nil
}

// Get returns a formatter by name.
func (r *Registry) Get(name string) (Formatter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.formatters[name]
	return f, ok
}

// Default returns the default formatter.
func (r *Registry) Default() Formatter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.formatters[r.defaultFmt]
}

// SetDefault sets the default formatter.
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.formatters[name]; !exists {
		return fmt.Errorf("formatter %q not registered", name)
	}

	r.defaultFmt = name
	return nil
}

// List returns all registered formatter names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the named formatter, or the default one for "".
func (r *Registry) Lookup(name string) (Formatter, error) {
	if name == "" {
		if f := r.Default(); f != nil {
			return f, nil
		}
	}
	f, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (available: %v)", name, r.List())
	}
	return f, nil
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter to the default registry.
func Register(f Formatter) error {
	return DefaultRegistry.Register(f)
}

// Get returns a formatter from the default registry.
func Get(name string) (Formatter, bool) {
	return DefaultRegistry.Get(name)
}

// Lookup returns a formatter from the default registry.
func Lookup(name string) (Formatter, error) {
	return DefaultRegistry.Lookup(name)
}

// List returns all formatter names from the default registry.
func List() []string {
	return DefaultRegistry.List()
}

// record is the serialized shape of a diagnostic.
type record struct {
	Severity string `json:"severity" yaml:"severity"`
	Key      string `json:"key" yaml:"key"`
	Message  string `json:"message" yaml:"message"`
	Origin   string `json:"origin" yaml:"origin"`
	Path     string `json:"path" yaml:"path"`
	Line     int    `json:"line,omitempty" yaml:"line,omitempty"`
	Column   int    `json:"column,omitempty" yaml:"column,omitempty"`
}

func toRecords(diags []report.Diagnostic) []record {
	out := make([]record, 0, len(diags))
	for _, d := range diags {
		out = append(out, record{
			Severity: d.Severity.String(),
			Key:      string(d.Key),
			Message:  d.Message,
			Origin:   d.Loc.Kind.String(),
			Path:     d.Loc.Path,
			Line:     d.Loc.Line,
			Column:   d.Loc.Column,
		})
	}
	return out
}

// runSummary is the serialized shape of a run.
type runSummary struct {
	ID         string         `json:"id,omitempty" yaml:"id,omitempty"`
	Mod        string         `json:"mod,omitempty" yaml:"mod,omitempty"`
	Files      int            `json:"files" yaml:"files"`
	Items      int            `json:"items" yaml:"items"`
	DurationMS int64          `json:"duration_ms" yaml:"duration_ms"`
	Counts     map[string]int `json:"counts" yaml:"counts"`
}

func summarize(r run.Run) runSummary {
	counts := make(map[string]int, 4)
	for sev := report.Advice; sev <= report.Error; sev++ {
		counts[sev.String()] = r.Counts[sev]
	}
	return runSummary{
		ID:         r.ID,
		Mod:        r.Mod,
		Files:      r.Files,
		Items:      r.Items,
		DurationMS: r.Duration.Milliseconds(),
		Counts:     counts,
	}
}

// itemRecord is the serialized shape of an item.
type itemRecord struct {
	Kind    string `json:"kind" yaml:"kind"`
	Name    string `json:"name" yaml:"name"`
	Path    string `json:"path" yaml:"path"`
	Line    int    `json:"line,omitempty" yaml:"line,omitempty"`
	Vanilla bool   `json:"vanilla" yaml:"vanilla"`
}

func toItemRecords(items []item.Item) []itemRecord {
	out := make([]itemRecord, 0, len(items))
	for _, it := range items {
		out = append(out, itemRecord{
			Kind:    it.Kind.String(),
			Name:    it.Name,
			Path:    it.Path,
			Line:    it.Line,
			Vanilla: it.Vanilla,
		})
	}
	return out
}
