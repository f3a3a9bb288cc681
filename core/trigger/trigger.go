// Package trigger validates condition blocks, target expressions and
// script values. The effect validator treats these as peers: it hands them
// a block or token together with the current ScopeContext.
package trigger

import (
	"github.com/artpar/tiger/core/scopecontext"
	"github.com/artpar/tiger/core/tables"
	"github.com/artpar/tiger/core/validate"
	"github.com/artpar/tiger/core/validator"
	"github.com/artpar/tiger/domain/block"
	"github.com/artpar/tiger/domain/item"
	"github.com/artpar/tiger/domain/report"
	"github.com/artpar/tiger/domain/scopes"
	"github.com/artpar/tiger/domain/token"
	"github.com/artpar/tiger/ports"
)

// ValidateNormalTrigger validates a plain condition block: one that is not
// an iterator body and has no special caller.
func ValidateNormalTrigger(b *block.Block, data ports.ItemIndex, sc *scopecontext.ScopeContext, tooltipped bool) {
	if !sc.Enter(b.Loc) {
		return
	}
	defer sc.Leave()
	vd := validator.New(b, data, sc.Sink())
	ValidateTrigger("", validate.ListNone, b, data, sc, vd, tooltipped)
}

// ValidateTrigger validates b with vd, which may already have claimed
// fields the caller handled itself.
func ValidateTrigger(caller string, listType validate.ListType, b *block.Block, data ports.ItemIndex, sc *scopecontext.ScopeContext, vd *validator.Validator, tooltipped bool) {
	sink := sc.Sink()

	if listType != validate.ListNone {
		vd.FieldValueItem("custom", item.Localization)
	} else {
		vd.BanField("custom", "lists")
	}

	if caller == "trigger_if" || caller == "trigger_else_if" {
		vd.ReqField("limit")
		vd.FieldValidatedBlocks("limit", func(b *block.Block) {
			ValidateNormalTrigger(b, data, sc, tooltipped)
		})
	} else {
		vd.BanField("limit", "`trigger_if` or `trigger_else_if`")
	}

	if listType != validate.ListNone {
		ValidateInsideIterator(caller, listType, b, data, sc, vd, tooltipped)
	}

	for f := range vd.UnknownFields() {
		validateTriggerKey(f, data, sc, sink, tooltipped)
	}
	vd.WarnRemaining()
}

func validateTriggerKey(f block.Field, data ports.ItemIndex, sc *scopecontext.ScopeContext, sink report.Sink, tooltipped bool) {
	key := f.Key

	switch key.Text {
	case "trigger_if", "trigger_else_if", "trigger_else", "calc_true_if":
		if b, ok := validator.ExpectBlock(f.Value, sink); ok {
			validateNested(key.Text, b, data, sc, tooltipped)
		}
		return
	case "custom_description", "custom_tooltip":
		if _, ok := f.Value.GetValue(); ok {
			// a bare localization key
			return
		}
		if b, ok := validator.ExpectBlock(f.Value, sink); ok {
			validateNested(key.Text, b, data, sc, false)
		}
		return
	case "exists":
		if t, ok := validator.ExpectValue(f.Value, sink); ok && !t.Is("yes") && !t.Is("no") {
			ValidateTarget(t, data, sc, scopes.All)
		}
		return
	case "save_temporary_scope_as":
		if t, ok := validator.ExpectValue(f.Value, sink); ok {
			sc.DefineName(t.Text)
		}
		return
	}

	if in, trg, ok := tables.ScopeTrigger(key.Text); ok {
		sc.Expect(in, key)
		validateTriggerValue(key, trg, f.Value, data, sc, sink, tooltipped)
		return
	}

	if kind, base, ok := tables.SplitIterator(key.Text); ok {
		if in, out, known := tables.ScopeIterator(base); known {
			if kind != "any" {
				report.Errorf(sink, key.Loc, report.KeyValidation, "cannot use `%s_` lists in a trigger", kind)
				return
			}
			sc.Expect(in, key)
			if b, ok := validator.ExpectBlock(f.Value, sink); ok {
				validateIteratorBody(base, out, key, b, data, sc, tooltipped)
			}
			return
		}
	}

	if data.ItemExists(item.ScriptedTrigger, key.Text) {
		if t, ok := validator.ExpectValue(f.Value, sink); ok && !t.Is("yes") && !t.Is("no") {
			report.Warnf(sink, t.Loc, report.KeyValidation, "expected yes or no")
		}
		return
	}

	validateTriggerChain(f, data, sc, sink, tooltipped)
}

func validateNested(caller string, b *block.Block, data ports.ItemIndex, sc *scopecontext.ScopeContext, tooltipped bool) {
	if !sc.Enter(b.Loc) {
		return
	}
	defer sc.Leave()
	vd := validator.New(b, data, sc.Sink())
	switch caller {
	case "calc_true_if":
		vd.ReqField("amount")
		vd.FieldInteger("amount")
	case "custom_description", "custom_tooltip":
		vd.ReqField("text")
		vd.FieldsUnchecked("text")
		vd.FieldValidatedBVs("subject", func(_ token.Token, bv block.BV) {
			if t, ok := validator.ExpectValue(bv, sc.Sink()); ok {
				ValidateTarget(t, data, sc, scopes.All)
			}
		})
		vd.FieldValidatedBVs("object", func(_ token.Token, bv block.BV) {
			if t, ok := validator.ExpectValue(bv, sc.Sink()); ok {
				ValidateTarget(t, data, sc, scopes.All)
			}
		})
		vd.FieldValidatedBVs("value", func(_ token.Token, bv block.BV) {
			ValidateScriptValue(bv, data, sc)
		})
	}
	ValidateTrigger(caller, validate.ListNone, b, data, sc, vd, tooltipped)
}

func validateIteratorBody(base string, out scopes.Scopes, key token.Token, b *block.Block, data ports.ItemIndex, sc *scopecontext.ScopeContext, tooltipped bool) {
	if !sc.Enter(b.Loc) {
		return
	}
	defer sc.Leave()
	sc.OpenScope(out, key)
	defer sc.Close()
	vd := validator.New(b, data, sc.Sink())
	ValidateTrigger(base, validate.ListAny, b, data, sc, vd, tooltipped)
}

func validateTriggerValue(key token.Token, trg tables.Trigger, bv block.BV, data ports.ItemIndex, sc *scopecontext.ScopeContext, sink report.Sink, tooltipped bool) {
	switch trg.Kind {
	case tables.TriggerControl:
		if b, ok := validator.ExpectBlock(bv, sink); ok {
			ValidateNormalTrigger(b, data, sc, tooltipped)
		}
	case tables.TriggerBool:
		if t, ok := validator.ExpectValue(bv, sink); ok && !t.Is("yes") && !t.Is("no") {
			ValidateTarget(t, data, sc, scopes.Bool)
		}
	case tables.TriggerCompareValue:
		ValidateScriptValue(bv, data, sc)
	case tables.TriggerScope:
		if t, ok := validator.ExpectValue(bv, sink); ok {
			ValidateTarget(t, data, sc, trg.Scopes)
		}
	case tables.TriggerItem:
		if t, ok := validator.ExpectValue(bv, sink); ok {
			validate.VerifyExists(data, sink, trg.Item, t)
		}
	case tables.TriggerUnchecked:
	}
}

// validateTriggerChain handles keys like `liege.culture = { ... }`,
// `root.gold > 100` and `scope:target = prev`.
func validateTriggerChain(f block.Field, data ports.ItemIndex, sc *scopecontext.ScopeContext, sink report.Sink, tooltipped bool) {
	parts := f.Key.Split('.')
	sc.OpenBuilder()
	closed := false
	closeBuilder := func() {
		if !closed {
			closed = true
			sc.Close()
		}
	}
	defer closeBuilder()

	for i, part := range parts {
		first := i == 0
		if i == len(parts)-1 && i > 0 {
			if in, trg, ok := tables.ScopeTrigger(part.Text); ok && trg.Kind != tables.TriggerControl {
				sc.Expect(in, part)
				validateTriggerValue(part, trg, f.Value, data, sc, sink, tooltipped)
				return
			}
		}
		if !validate.ChainPart(part, first, data, sc) {
			return
		}
	}

	if b, ok := f.Value.GetBlock(); ok {
		sc.EnterChain()
		ValidateNormalTrigger(b, data, sc, tooltipped)
		return
	}
	t, _ := f.Value.GetValue()
	result := sc.Scopes()
	closeBuilder()
	ValidateTarget(t, data, sc, result)
}
