package diagnostics

import (
	"fmt"
	"sync"
	"testing"

	"github.com/artpar/tiger/domain/report"
	"github.com/artpar/tiger/domain/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func modLoc(path string, line int) token.Loc {
	return token.Loc{Path: path, Kind: token.Mod, Line: line, Column: 1}
}

func TestMinLevelFilters(t *testing.T) {
	c := New(Options{MinLevel: report.Warning})

	report.Advicef(c, modLoc("a.txt", 1), report.KeyValidation, "advice")
	report.Infof(c, modLoc("a.txt", 2), report.KeyValidation, "info")
	report.Warnf(c, modLoc("a.txt", 3), report.KeyValidation, "warning")
	report.Errorf(c, modLoc("a.txt", 4), report.KeyValidation, "error")

	require.Equal(t, 2, c.Len())
	counts := c.Counts()
	assert.Equal(t, 1, counts[report.Warning])
	assert.Equal(t, 1, counts[report.Error])
	assert.True(t, c.HasAtLeast(report.Error))
}

func TestVanillaHiddenUnlessShown(t *testing.T) {
	vanilla := token.Loc{Path: "events/x.txt", Kind: token.Vanilla, Line: 1}

	hidden := New(Options{})
	report.Warnf(hidden, vanilla, report.KeyValidation, "in base game")
	assert.Equal(t, 0, hidden.Len())

	shown := New(Options{ShowVanilla: true})
	report.Warnf(shown, vanilla, report.KeyValidation, "in base game")
	assert.Equal(t, 1, shown.Len())
}

func TestDiagnosticsSorted(t *testing.T) {
	c := New(Options{})
	report.Warnf(c, modLoc("b.txt", 1), report.KeyValidation, "b1")
	report.Warnf(c, modLoc("a.txt", 9), report.KeyValidation, "a9")
	report.Warnf(c, modLoc("a.txt", 2), report.KeyValidation, "a2")

	diags := c.Diagnostics()
	require.Len(t, diags, 3)
	assert.Equal(t, "a2", diags[0].Message)
	assert.Equal(t, "a9", diags[1].Message)
	assert.Equal(t, "b1", diags[2].Message)
}

func TestConcurrentReport(t *testing.T) {
	c := New(Options{})
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				report.Warnf(c, modLoc(fmt.Sprintf("f%d.txt", i), j+1), report.KeyValidation, "w")
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1600, c.Len())

	c.Reset()
	assert.Equal(t, 0, c.Len())
}
