package formatter

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/artpar/tiger/domain/item"
	"github.com/artpar/tiger/domain/report"
	"github.com/artpar/tiger/domain/run"
)

// YAMLFormatter formats output as YAML.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

// Name returns the formatter name.
func (f *YAMLFormatter) Name() string {
	return "yaml"
}

// Description returns the formatter description.
func (f *YAMLFormatter) Description() string {
	return "YAML output format"
}

// Format writes the run and its diagnostics as one YAML document.
func (f *YAMLFormatter) Format(w io.Writer, r run.Run, diags []report.Diagnostic, opts FormatOptions) error {
	output := map[string]any{
		"count":       len(diags),
		"diagnostics": toRecords(diags),
	}
	if opts.Summary {
		output["run"] = summarize(r)
	}
	return f.encode(w, output)
}

// FormatItems writes items as YAML.
func (f *YAMLFormatter) FormatItems(w io.Writer, items []item.Item, opts FormatOptions) error {
	return f.encode(w, map[string]any{
		"count": len(items),
		"items": toItemRecords(items),
	})
}

// FormatError formats an error as YAML.
func (f *YAMLFormatter) FormatError(w io.Writer, err error) error {
	return f.encode(w, map[string]any{"error": err.Error()})
}

// encode writes YAML to the writer.
func (f *YAMLFormatter) encode(w io.Writer, data any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()
	return encoder.Encode(data)
}

func init() {
	Register(NewYAMLFormatter())
}
