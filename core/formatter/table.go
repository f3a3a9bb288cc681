package formatter

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/artpar/tiger/domain/item"
	"github.com/artpar/tiger/domain/report"
	"github.com/artpar/tiger/domain/run"
)

// TableFormatter formats output as aligned text tables.
type TableFormatter struct{}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

// Name returns the formatter name.
func (f *TableFormatter) Name() string {
	return "table"
}

// Description returns the formatter description.
func (f *TableFormatter) Description() string {
	return "Aligned text table output, one diagnostic per row"
}

// Format writes one row per diagnostic.
func (f *TableFormatter) Format(w io.Writer, r run.Run, diags []report.Diagnostic, opts FormatOptions) error {
	if len(diags) == 0 {
		fmt.Fprintln(w, "No diagnostics.")
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "SEVERITY\tKEY\tLOCATION\tMESSAGE")
		for _, d := range diags {
			fmt.Fprintf(tw, "%s\t%s\t[%s] %s\t%s\n", d.Severity, d.Key, d.Loc.Kind, d.Loc, truncate(d.Message, 120))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if opts.Summary {
		fmt.Fprintln(w, summaryLine(r))
	}
	return nil
}

// FormatItems writes one row per item.
func (f *TableFormatter) FormatItems(w io.Writer, items []item.Item, opts FormatOptions) error {
	if len(items) == 0 {
		fmt.Fprintln(w, "No items found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tNAME\tDEFINED AT")
	for _, it := range items {
		origin := "MOD"
		if it.Vanilla {
			origin = "CK3"
		}
		at := it.Path
		if it.Line > 0 {
			at = fmt.Sprintf("%s:%d", it.Path, it.Line)
		}
		fmt.Fprintf(tw, "%s\t%s\t[%s] %s\n", it.Kind, it.Name, origin, at)
	}
	return tw.Flush()
}

// FormatError formats an error message.
func (f *TableFormatter) FormatError(w io.Writer, err error) error {
	fmt.Fprintf(w, "Error: %s\n", err.Error())
	return nil
}

// truncate shortens long values for display.
func truncate(s string, maxWidth int) string {
	if maxWidth > 3 && len(s) > maxWidth {
		return s[:maxWidth-3] + "..."
	}
	return s
}

// summaryLine renders per-severity totals, most serious first.
func summaryLine(r run.Run) string {
	return fmt.Sprintf("%d errors, %d warnings, %d info, %d advice in %d files",
		r.Counts[report.Error], r.Counts[report.Warning], r.Counts[report.Info], r.Counts[report.Advice], r.Files)
}

func init() {
	Register(NewTableFormatter())
}
