// Package diagnostics accumulates findings from a validation run.
package diagnostics

import (
	"sort"
	"sync"

	"github.com/artpar/tiger/domain/report"
	"github.com/artpar/tiger/domain/token"
)

// Options is read-only filtering configuration.
type Options struct {
	// MinLevel drops diagnostics below this severity.
	MinLevel report.Severity

	// ShowVanilla keeps diagnostics located in base-game files.
	ShowVanilla bool

	// Filter, if set, must also keep a diagnostic.
	Filter *Filter
}

// Collector is a report.Sink safe for concurrent use.
type Collector struct {
	mu    sync.Mutex
	opts  Options
	diags []report.Diagnostic
}

// New creates an empty collector.
func New(opts Options) *Collector {
	return &Collector{opts: opts}
}

// Report records d unless filtered out.
func (c *Collector) Report(d report.Diagnostic) {
	if d.Severity < c.opts.MinLevel {
		return
	}
	if d.Loc.Kind == token.Vanilla && d.Loc.Path != "" && !c.opts.ShowVanilla {
		return
	}
	if !c.opts.Filter.Keep(d) {
		return
	}

	c.mu.Lock()
	c.diags = append(c.diags, d)
	c.mu.Unlock()
}

// Diagnostics returns a sorted copy of everything recorded.
func (c *Collector) Diagnostics() []report.Diagnostic {
	c.mu.Lock()
	out := make([]report.Diagnostic, len(c.diags))
	copy(out, c.diags)
	c.mu.Unlock()

	Sort(out)
	return out
}

// Len returns the number of recorded diagnostics.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.diags)
}

// Counts returns the number of diagnostics per severity.
func (c *Collector) Counts() map[report.Severity]int {
	c.mu.Lock()
	defer c.mu.Unlock()

	counts := make(map[report.Severity]int)
	for _, d := range c.diags {
		counts[d.Severity]++
	}
	return counts
}

// HasAtLeast reports whether any diagnostic is at or above sev.
func (c *Collector) HasAtLeast(sev report.Severity) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, d := range c.diags {
		if d.Severity >= sev {
			return true
		}
	}
	return false
}

// Reset forgets all recorded diagnostics.
func (c *Collector) Reset() {
	c.mu.Lock()
	c.diags = nil
	c.mu.Unlock()
}

// Sort orders diagnostics by file, line, column, then message. Concurrent
// runs append in nondeterministic order; sorting makes output stable.
func Sort(diags []report.Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Loc.Kind != b.Loc.Kind {
			return a.Loc.Kind < b.Loc.Kind
		}
		if a.Loc.Path != b.Loc.Path {
			return a.Loc.Path < b.Loc.Path
		}
		if a.Loc.Line != b.Loc.Line {
			return a.Loc.Line < b.Loc.Line
		}
		if a.Loc.Column != b.Loc.Column {
			return a.Loc.Column < b.Loc.Column
		}
		if a.Severity != b.Severity {
			return a.Severity > b.Severity
		}
		return a.Message < b.Message
	})
}

// Recorder is an unfiltered sink for tests and nested checks. Read Diags
// only once reporting has finished.
type Recorder struct {
	mu    sync.Mutex
	Diags []report.Diagnostic
}

// Report appends d.
func (r *Recorder) Report(d report.Diagnostic) {
	r.mu.Lock()
	r.Diags = append(r.Diags, d)
	r.mu.Unlock()
}

// Count returns how many recorded diagnostics have the given severity.
func (r *Recorder) Count(sev report.Severity) int {
	n := 0
	for _, d := range r.Diags {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// WithKey returns the recorded diagnostics with the given key.
func (r *Recorder) WithKey(key report.Key) []report.Diagnostic {
	var out []report.Diagnostic
	for _, d := range r.Diags {
		if d.Key == key {
			out = append(out, d)
		}
	}
	return out
}
