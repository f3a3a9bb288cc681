package trigger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/tiger/core/diagnostics"
	"github.com/artpar/tiger/core/index"
	"github.com/artpar/tiger/core/parse"
	"github.com/artpar/tiger/core/scopecontext"
	"github.com/artpar/tiger/core/trigger"
	"github.com/artpar/tiger/domain/block"
	"github.com/artpar/tiger/domain/item"
	"github.com/artpar/tiger/domain/report"
	"github.com/artpar/tiger/domain/scopes"
	"github.com/artpar/tiger/domain/token"
)

var testLoc = token.Loc{Path: "common/scripted_triggers/test.txt", Kind: token.Mod}

func testIndex() *index.Index {
	ix := index.New()
	ix.Add(item.Item{Kind: item.Trait, Name: "brave"})
	ix.Add(item.Item{Kind: item.ScriptedTrigger, Name: "my_trigger"})
	ix.Add(item.Item{Kind: item.ScriptValue, Name: "my_value"})
	ix.Add(item.Item{Kind: item.Relation, Name: "friend"})
	return ix
}

func newContext(rec *diagnostics.Recorder) *scopecontext.ScopeContext {
	return scopecontext.New(scopes.Character, token.New("root", testLoc), rec)
}

func keys(diags []report.Diagnostic) []report.Key {
	var out []report.Key
	for _, d := range diags {
		out = append(out, d.Key)
	}
	return out
}

func TestValidateNormalTrigger(t *testing.T) {
	ix := testIndex()

	tests := []struct {
		name string
		src  string
		want []report.Key
	}{
		{"bool trigger", "is_adult = yes", nil},
		{"bool trigger given junk", "is_adult = maybe", []report.Key{report.KeyUnknown}},
		{"item trigger", "has_trait = brave", nil},
		{"item trigger missing", "has_trait = craven", []report.Key{report.KeyMissingItem}},
		{"value comparison", "gold > 100", nil},
		{"chained value comparison", "liege.gold >= 100", nil},
		{"chain into block", "liege = { is_adult = yes }", nil},
		{"chain to wrong scope", "primary_title = { is_adult = yes }", []report.Key{report.KeyScopes}},
		{"every_ in trigger", "every_courtier = { is_adult = yes }", []report.Key{report.KeyValidation}},
		{"any_ with count all", "any_courtier = { count = all is_ai = no }", nil},
		{"any_ with percent", "any_courtier = { percent = 0.5 is_ai = no }", nil},
		{"any_ changes scope", "any_held_title = { is_adult = yes }", []report.Key{report.KeyScopes}},
		{"relation needs type", "any_relation = { is_adult = yes }", []report.Key{report.KeyValidation}},
		{"relation type", "any_relation = { type = friend }", nil},
		{"region outside county_in_region", "any_courtier = { region = x }", []report.Key{report.KeyValidation}},
		{"custom outside list", "custom = x", []report.Key{report.KeyValidation}},
		{"limit outside trigger_if", "limit = { is_adult = yes }", []report.Key{report.KeyValidation}},
		{"trigger_if", "trigger_if = { limit = { is_adult = yes } is_ai = no }", nil},
		{"trigger_if needs limit", "trigger_if = { is_ai = no }", []report.Key{report.KeyValidation}},
		{"boolean operators", "and = { is_adult = yes or = { is_ai = yes is_ai = no } }", nil},
		{"calc_true_if", "calc_true_if = { amount = 1 is_adult = yes is_ai = no }", nil},
		{"custom_description", "custom_description = { text = x subject = root is_adult = yes }", nil},
		{"exists", "exists = liege", nil},
		{"scripted trigger", "my_trigger = no", nil},
		{"scripted trigger given junk", "my_trigger = maybe", []report.Key{report.KeyValidation}},
		{"saved scope", "save_temporary_scope_as = me\nscope:me = { is_adult = yes }", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &diagnostics.Recorder{}
			b := parse.String(tt.src, testLoc, rec)
			sc := newContext(rec)
			trigger.ValidateNormalTrigger(b, ix, sc, true)

			assert.Equal(t, tt.want, keys(rec.Diags), "%v", rec.Diags)
			assert.Equal(t, 0, sc.OpenFrames())
			assert.Equal(t, scopes.Character, sc.Scopes())
		})
	}
}

func TestValidateTarget(t *testing.T) {
	ix := testIndex()

	tests := []struct {
		name   string
		target string
		want   scopes.Scopes
		ok     bool
	}{
		{"number as value", "5", scopes.Value, true},
		{"number as character", "5", scopes.Character, false},
		{"yes as bool", "yes", scopes.Bool, true},
		{"yes as character", "yes", scopes.Character, false},
		{"link", "liege", scopes.Character, true},
		{"link to wrong scope", "liege", scopes.Title, false},
		{"chain", "root.culture", scopes.Culture, true},
		{"value trigger at the end", "liege.gold", scopes.Value, true},
		{"script value", "my_value", scopes.Value, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &diagnostics.Recorder{}
			sc := newContext(rec)
			trigger.ValidateTarget(token.New(tt.target, token.Loc{Path: testLoc.Path, Kind: token.Mod, Line: 1}), ix, sc, tt.want)

			if tt.ok {
				assert.Empty(t, rec.Diags)
			} else {
				require.Len(t, rec.Diags, 1)
				assert.Equal(t, report.KeyScopes, rec.Diags[0].Key)
			}
			assert.Equal(t, 0, sc.OpenFrames())
		})
	}
}

func TestValidateScriptValue(t *testing.T) {
	ix := testIndex()

	tests := []struct {
		name string
		src  string
		want []report.Key
	}{
		{"literal", "5", nil},
		{"named", "my_value", nil},
		{"operations", "{ value = 5 add = gold multiply = 2 desc = x }", nil},
		{"unknown operation", "{ value = 5 frobnicate = 2 }", []report.Key{report.KeyValidation}},
		{"summing iterator", "{ every_courtier = { limit = { is_adult = yes } add = gold } }", nil},
		{"any_ iterator", "{ any_courtier = { add = 1 } }", []report.Key{report.KeyValidation}},
		{"if", "{ if = { limit = { is_adult = yes } add = 1 } else = { add = 2 } }", nil},
		{"if needs limit", "{ if = { add = 1 } }", []report.Key{report.KeyValidation}},
		{"integer range", "{ integer_range = { min = 1 max = my_value } }", nil},
		{"range needs max", "{ fixed_range = { min = 1 } }", []report.Key{report.KeyValidation}},
		{"rounding", "{ value = 1.5 round = yes }", nil},
		{"rounding given a number", "{ value = 1.5 round = 5 }", []report.Key{report.KeyValidation}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &diagnostics.Recorder{}
			b := parse.String("v = "+tt.src, testLoc, rec)
			require.Empty(t, rec.Diags)
			bv, ok := b.GetField("v")
			require.True(t, ok)

			sc := newContext(rec)
			trigger.ValidateScriptValue(bv, ix, sc)
			assert.Equal(t, tt.want, keys(rec.Diags), "%v", rec.Diags)
			assert.Equal(t, 0, sc.OpenFrames())
		})
	}
}

func TestTriggerHonoursDepthCeiling(t *testing.T) {
	rec := &diagnostics.Recorder{}
	b := parse.String("and = { or = { and = { is_adult = yes } } }", testLoc, rec)
	sc := newContext(rec)
	sc.SetMaxDepth(2)

	trigger.ValidateNormalTrigger(b, testIndex(), sc, false)
	require.Len(t, rec.Diags, 1)
	assert.Equal(t, report.KeyDepth, rec.Diags[0].Key)
}

func TestScriptValueBlockFromTree(t *testing.T) {
	// Hand-built blocks behave the same as parsed ones.
	inner := block.New(testLoc)
	inner.Add(token.New("value", testLoc), block.Eq, block.Value(token.New("3", testLoc)))
	inner.Add(token.New("add", testLoc), block.Eq, block.Value(token.New("gold", testLoc)))

	rec := &diagnostics.Recorder{}
	trigger.ValidateScriptValue(block.Nested(inner), testIndex(), newContext(rec))
	assert.Empty(t, rec.Diags)
}
