// Package run describes one completed validation run.
package run

import (
	"time"

	"github.com/artpar/tiger/domain/report"
)

// Run summarizes a validation run for history and metrics.
type Run struct {
	ID        string
	Mod       string
	StartedAt time.Time
	Duration  time.Duration
	Files     int
	Items     int
	Counts    map[report.Severity]int
}

// Total returns the number of diagnostics reported.
func (r Run) Total() int {
	n := 0
	for _, c := range r.Counts {
		n += c
	}
	return n
}

// Worst returns the most serious severity reported and whether there
// was any diagnostic at all.
func (r Run) Worst() (report.Severity, bool) {
	for sev := report.Error; sev >= report.Advice; sev-- {
		if r.Counts[sev] > 0 {
			return sev, true
		}
	}
	return report.Advice, false
}
