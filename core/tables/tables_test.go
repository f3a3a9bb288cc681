package tables_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/tiger/core/tables"
	"github.com/artpar/tiger/domain/item"
	"github.com/artpar/tiger/domain/scopes"
)

func TestScopeEffect(t *testing.T) {
	in, eff, ok := tables.ScopeEffect("add_gold")
	require.True(t, ok)
	assert.Equal(t, scopes.Character, in)
	assert.Equal(t, tables.EffectScriptValue, eff.Kind)

	_, eff, ok = tables.ScopeEffect("add_trait")
	require.True(t, ok)
	assert.Equal(t, tables.EffectItem, eff.Kind)
	assert.Equal(t, item.Trait, eff.Item)

	_, eff, ok = tables.ScopeEffect("set_culture")
	require.True(t, ok)
	assert.Equal(t, tables.EffectScope, eff.Kind)
	assert.Equal(t, scopes.Culture, eff.Scopes)

	_, _, ok = tables.ScopeEffect("flurb")
	assert.False(t, ok)
}

func TestControlEffectsAreUnconstrained(t *testing.T) {
	for _, name := range []string{"if", "else_if", "else", "while", "random", "random_list", "switch", "hidden_effect", "show_as_tooltip"} {
		in, eff, ok := tables.ScopeEffect(name)
		require.True(t, ok, name)
		assert.Equal(t, scopes.None, in, name)
		assert.Equal(t, tables.EffectControl, eff.Kind, name)
	}
}

func TestScopeToScopeMergesInputs(t *testing.T) {
	in, out, ok := tables.ScopeToScope("culture")
	require.True(t, ok)
	assert.True(t, in.Contains(scopes.Character|scopes.Title|scopes.Province))
	assert.Equal(t, scopes.Culture, out)

	in, out, ok = tables.ScopeToScope("dummy_male")
	require.True(t, ok)
	assert.Equal(t, scopes.None, in)
	assert.Equal(t, scopes.Character, out)
}

func TestSplitIterator(t *testing.T) {
	tests := []struct {
		name       string
		kind, base string
		ok         bool
	}{
		{"every_courtier", "every", "courtier", true},
		{"any_held_title", "any", "held_title", true},
		{"ordered_child", "ordered", "child", true},
		{"random_in_list", "random", "in_list", true},
		{"add_gold", "", "", false},
		{"courtier", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, base, ok := tables.SplitIterator(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.base, base)
		})
	}
}

func TestScopeIterator(t *testing.T) {
	in, out, ok := tables.ScopeIterator("held_title")
	require.True(t, ok)
	assert.Equal(t, scopes.Character, in)
	assert.Equal(t, scopes.Title, out)

	in, out, ok = tables.ScopeIterator("in_list")
	require.True(t, ok)
	assert.Equal(t, scopes.None, in)
	assert.Equal(t, scopes.All, out)
}

func TestScopePrefix(t *testing.T) {
	in, out, ok := tables.ScopePrefix("title")
	require.True(t, ok)
	assert.Equal(t, scopes.None, in)
	assert.Equal(t, scopes.Title, out)

	_, _, ok = tables.ScopePrefix("frob")
	assert.False(t, ok)
}

func TestScopeTrigger(t *testing.T) {
	in, trg, ok := tables.ScopeTrigger("has_trait")
	require.True(t, ok)
	assert.Equal(t, scopes.Character, in)
	assert.Equal(t, tables.TriggerItem, trg.Kind)

	_, trg, ok = tables.ScopeTrigger("age")
	require.True(t, ok)
	assert.Equal(t, tables.TriggerCompareValue, trg.Kind)
}
