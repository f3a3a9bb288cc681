package formatter

import (
	"encoding/json"
	"io"

	"github.com/artpar/tiger/domain/item"
	"github.com/artpar/tiger/domain/report"
	"github.com/artpar/tiger/domain/run"
)

// JSONFormatter formats output as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Name returns the formatter name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Description returns the formatter description.
func (f *JSONFormatter) Description() string {
	return "JSON output format"
}

// Format writes the run and its diagnostics as one JSON document.
func (f *JSONFormatter) Format(w io.Writer, r run.Run, diags []report.Diagnostic, opts FormatOptions) error {
	output := map[string]any{
		"count":       len(diags),
		"diagnostics": toRecords(diags),
	}
	if opts.Summary {
		output["run"] = summarize(r)
	}
	return f.encode(w, output)
}

// FormatItems writes items as JSON.
func (f *JSONFormatter) FormatItems(w io.Writer, items []item.Item, opts FormatOptions) error {
	return f.encode(w, map[string]any{
		"count": len(items),
		"items": toItemRecords(items),
	})
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	return f.encode(w, map[string]any{"error": err.Error()})
}

// encode writes indented JSON to the writer.
func (f *JSONFormatter) encode(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func init() {
	Register(NewJSONFormatter())
}
