package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/tiger/core/diagnostics"
	"github.com/artpar/tiger/core/index"
	"github.com/artpar/tiger/core/scopecontext"
	"github.com/artpar/tiger/core/validate"
	"github.com/artpar/tiger/domain/item"
	"github.com/artpar/tiger/domain/report"
	"github.com/artpar/tiger/domain/scopes"
	"github.com/artpar/tiger/domain/token"
)

func tok(s string) token.Token {
	return token.New(s, token.Loc{Path: "events/test.txt", Kind: token.Mod, Line: 4, Column: 2})
}

func TestListType(t *testing.T) {
	for _, name := range []string{"any", "every", "ordered", "random"} {
		lt, ok := validate.ParseListType(name)
		require.True(t, ok, name)
		assert.Equal(t, name, lt.String())
	}
	_, ok := validate.ParseListType("")
	assert.False(t, ok)
	_, ok = validate.ParseListType("some")
	assert.False(t, ok)
	assert.Equal(t, "", validate.ListNone.String())
}

func TestVerifyExists(t *testing.T) {
	ix := index.New()
	ix.Add(item.Item{Kind: item.Trait, Name: "brave"})
	rec := &diagnostics.Recorder{}

	assert.True(t, validate.VerifyExists(ix, rec, item.Trait, tok("brave")))
	assert.False(t, validate.VerifyExists(ix, rec, item.Trait, tok("craven")))
	assert.False(t, validate.VerifyExists(ix, rec, item.Culture, tok("brave")))

	require.Len(t, rec.Diags, 2)
	d := rec.Diags[0]
	assert.Equal(t, report.Error, d.Severity)
	assert.Equal(t, report.KeyMissingItem, d.Key)
	assert.Equal(t, "trait `craven` not defined in common/traits/", d.Message)
	assert.Equal(t, 4, d.Loc.Line)
}

func TestChainPart(t *testing.T) {
	ix := index.New()
	ix.Add(item.Item{Kind: item.Culture, Name: "norse"})

	tests := []struct {
		name  string
		parts []string
		want  scopes.Scopes
		keys  []report.Key
	}{
		{"link", []string{"liege"}, scopes.Character, nil},
		{"link chain", []string{"liege", "culture"}, scopes.Culture, nil},
		{"root", []string{"root"}, scopes.Character, nil},
		{"root later", []string{"liege", "root"}, scopes.Character, []report.Key{report.KeyValidation}},
		{"item prefix", []string{"culture:norse"}, scopes.Culture, nil},
		{"missing item prefix", []string{"culture:saxon"}, scopes.Culture, []report.Key{report.KeyMissingItem}},
		{"unknown prefix", []string{"planet:earth"}, scopes.Character, []report.Key{report.KeyUnknown}},
		{"unknown link", []string{"flurb"}, scopes.Character, []report.Key{report.KeyUnknown}},
		{"link from wrong scope", []string{"holder"}, scopes.Character, []report.Key{report.KeyScopes}},
		{"prev without history", []string{"prev"}, scopes.Character, []report.Key{report.KeyScopes}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &diagnostics.Recorder{}
			sc := scopecontext.New(scopes.Character, tok("root"), rec)
			sc.OpenBuilder()
			for i, p := range tt.parts {
				if !validate.ChainPart(tok(p), i == 0, ix, sc) {
					break
				}
			}
			assert.Equal(t, tt.want, sc.Scopes())
			sc.Close()

			var got []report.Key
			for _, d := range rec.Diags {
				got = append(got, d.Key)
			}
			assert.Equal(t, tt.keys, got, "%v", rec.Diags)
			assert.Equal(t, scopes.Character, sc.Scopes())
		})
	}
}

func TestChainPartSavedScope(t *testing.T) {
	rec := &diagnostics.Recorder{}
	sc := scopecontext.New(scopes.Character, tok("root"), rec)
	sc.OpenScope(scopes.Title, tok("primary_title"))
	sc.DefineName("target")

	sc.OpenBuilder()
	require.True(t, validate.ChainPart(tok("scope:target"), true, index.New(), sc))
	assert.Equal(t, scopes.Title, sc.Scopes())
	sc.Close()

	sc.OpenBuilder()
	require.True(t, validate.ChainPart(tok("scope:unknown"), true, index.New(), sc))
	assert.Equal(t, scopes.All, sc.Scopes())
	sc.Close()
	sc.Close()

	assert.Empty(t, rec.Diags)
}
