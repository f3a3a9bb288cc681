package diagnostics

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/artpar/tiger/domain/report"
	"github.com/artpar/tiger/domain/token"
)

// filterEnv is what a filter expression sees of one diagnostic.
type filterEnv struct {
	Severity string `expr:"severity"`
	Key      string `expr:"key"`
	Message  string `expr:"message"`
	Path     string `expr:"path"`
	Line     int    `expr:"line"`
	Vanilla  bool   `expr:"vanilla"`
}

// Filter keeps the diagnostics for which a boolean expression holds, for
// example `key != "validation" || !(path startsWith "common/decisions/")`.
type Filter struct {
	source  string
	program *vm.Program
}

// CompileFilter parses expression. An empty expression yields a nil
// Filter, which keeps everything.
func CompileFilter(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, nil
	}
	program, err := expr.Compile(expression, expr.Env(filterEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile filter: %w", err)
	}
	return &Filter{source: expression, program: program}, nil
}

// String returns the expression the filter was compiled from.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.source
}

// Keep reports whether d passes the filter. A filter that fails at run
// time keeps the diagnostic.
func (f *Filter) Keep(d report.Diagnostic) bool {
	if f == nil {
		return true
	}
	out, err := expr.Run(f.program, filterEnv{
		Severity: d.Severity.String(),
		Key:      string(d.Key),
		Message:  d.Message,
		Path:     d.Loc.Path,
		Line:     d.Loc.Line,
		Vanilla:  d.Loc.Kind == token.Vanilla,
	})
	if err != nil {
		return true
	}
	keep, ok := out.(bool)
	return !ok || keep
}
