package formatter

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/artpar/tiger/domain/item"
	"github.com/artpar/tiger/domain/report"
	"github.com/artpar/tiger/domain/run"
)

// ConsoleFormatter writes diagnostics the way a compiler does: a
// headline, the location, and the offending source line with a caret.
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter.
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// Name returns the formatter name.
func (f *ConsoleFormatter) Name() string {
	return "console"
}

// Description returns the formatter description.
func (f *ConsoleFormatter) Description() string {
	return "Human-readable output with source excerpts"
}

type palette struct {
	severity map[report.Severity]*color.Color
	loc      *color.Color
	gutter   *color.Color
	caret    *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		severity: map[report.Severity]*color.Color{
			report.Error:   color.New(color.FgRed, color.Bold),
			report.Warning: color.New(color.FgYellow, color.Bold),
			report.Info:    color.New(color.FgCyan),
			report.Advice:  color.New(color.FgGreen),
		},
		loc:    color.New(color.FgBlue),
		gutter: color.New(color.FgBlue, color.Bold),
		caret:  color.New(color.FgRed, color.Bold),
	}
	all := []*color.Color{p.loc, p.gutter, p.caret}
	for _, c := range p.severity {
		all = append(all, c)
	}
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Format writes each diagnostic as a short block.
func (f *ConsoleFormatter) Format(w io.Writer, r run.Run, diags []report.Diagnostic, opts FormatOptions) error {
	p := newPalette(opts.Color)

	for _, d := range diags {
		sev := strings.ToUpper(d.Severity.String()[:1]) + d.Severity.String()[1:]
		fmt.Fprintf(w, "%s: %s\n", p.severity[d.Severity].Sprintf("%s(%s)", sev, d.Key), d.Message)
		fmt.Fprintf(w, "  %s %s\n", p.gutter.Sprint("-->"), p.loc.Sprintf("[%s] %s", d.Loc.Kind, d.Loc))

		if opts.Source == nil || d.Loc.Line == 0 {
			fmt.Fprintln(w)
			continue
		}
		text, ok := opts.Source.Line(d.Loc.Fullpath, d.Loc.Line)
		if !ok {
			fmt.Fprintln(w)
			continue
		}

		num := strconv.Itoa(d.Loc.Line)
		pad := strings.Repeat(" ", len(num))
		fmt.Fprintf(w, "%s %s\n", pad, p.gutter.Sprint("|"))
		fmt.Fprintf(w, "%s %s %s\n", p.gutter.Sprint(num), p.gutter.Sprint("|"), text)
		fmt.Fprintf(w, "%s %s %s%s\n\n", pad, p.gutter.Sprint("|"), caretIndent(text, d.Loc.Column), p.caret.Sprint("^"))
	}

	if opts.Summary {
		fmt.Fprintln(w, summaryLine(r))
	}
	return nil
}

// FormatItems writes one item per line.
func (f *ConsoleFormatter) FormatItems(w io.Writer, items []item.Item, opts FormatOptions) error {
	for _, it := range items {
		fmt.Fprintln(w, it.Name)
	}
	return nil
}

// FormatError formats an error message.
func (f *ConsoleFormatter) FormatError(w io.Writer, err error) error {
	fmt.Fprintf(w, "error: %s\n", err.Error())
	return nil
}

// caretIndent reproduces the whitespace before column so that the caret
// lines up under tab-indented script lines.
func caretIndent(line string, column int) string {
	var b strings.Builder
	for i := 0; i < column-1 && i < len(line); i++ {
		if line[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// ColorEnabled resolves a color mode ("auto", "always", "never") for f.
// auto honors NO_COLOR and enables color only on terminals.
func ColorEnabled(mode string, f *os.File) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" || f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func init() {
	Register(NewConsoleFormatter())
}
