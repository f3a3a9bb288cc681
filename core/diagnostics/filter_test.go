package diagnostics

import (
	"testing"

	"github.com/artpar/tiger/domain/report"
	"github.com/artpar/tiger/domain/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileFilterEmpty(t *testing.T) {
	f, err := CompileFilter("  ")
	require.NoError(t, err)
	assert.Nil(t, f)
	assert.True(t, f.Keep(report.Diagnostic{}))
	assert.Equal(t, "", f.String())
}

func TestCompileFilterErrors(t *testing.T) {
	for _, src := range []string{"key ==", "line + 1", "colour == 1"} {
		_, err := CompileFilter(src)
		assert.Error(t, err, src)
	}
}

func TestFilterKeep(t *testing.T) {
	d := report.Diagnostic{
		Severity: report.Warning,
		Key:      report.KeyScopes,
		Message:  "wrong scope type: `add_gold` is for character",
		Loc:      token.Loc{Path: "events/mine.txt", Kind: token.Mod, Line: 12},
	}

	tests := []struct {
		expr string
		keep bool
	}{
		{`severity == "warning"`, true},
		{`severity == "error"`, false},
		{`key != "scopes"`, false},
		{`path startsWith "events/" && line > 10`, true},
		{`message contains "add_gold"`, true},
		{`vanilla`, false},
		{`not vanilla and key in ["scopes", "unknown"]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			f, err := CompileFilter(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.keep, f.Keep(d))
			assert.Equal(t, tt.expr, f.String())
		})
	}
}

func TestCollectorAppliesFilter(t *testing.T) {
	f, err := CompileFilter(`key != "validation"`)
	require.NoError(t, err)
	c := New(Options{Filter: f})

	report.Warnf(c, modLoc("a.txt", 1), report.KeyValidation, "dropped")
	report.Warnf(c, modLoc("a.txt", 2), report.KeyScopes, "kept")

	diags := c.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, "kept", diags[0].Message)
}
