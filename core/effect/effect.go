// Package effect validates effect blocks: the parts of a script that
// change game state. Each key in a block is classified as a built-in
// effect, an iterator, a scripted effect, or a scope chain, and checked
// against the scope it runs in.
package effect

import (
	"github.com/artpar/tiger/core/scopecontext"
	"github.com/artpar/tiger/core/tables"
	"github.com/artpar/tiger/core/trigger"
	"github.com/artpar/tiger/core/validate"
	"github.com/artpar/tiger/core/validator"
	"github.com/artpar/tiger/domain/block"
	"github.com/artpar/tiger/domain/item"
	"github.com/artpar/tiger/domain/report"
	"github.com/artpar/tiger/domain/scopes"
	"github.com/artpar/tiger/domain/token"
	"github.com/artpar/tiger/ports"
)

// ValidateNormalEffect validates an effect block that is not the body of
// an iterator and has no special caller.
func ValidateNormalEffect(b *block.Block, data ports.ItemIndex, sc *scopecontext.ScopeContext, tooltipped bool) {
	vd := validator.New(b, data, sc.Sink())
	ValidateEffect("", validate.ListNone, b, data, sc, vd, tooltipped)
}

// ValidateEffect validates b with vd. caller is the construct b belongs
// to, such as "if" or an iterator's base name; it decides where `limit`
// and the iterator-only fields are allowed. vd may already have claimed
// fields that caller handled itself.
func ValidateEffect(caller string, listType validate.ListType, b *block.Block, data ports.ItemIndex, sc *scopecontext.ScopeContext, vd *validator.Validator, tooltipped bool) {
	if !sc.Enter(b.Loc) {
		return
	}
	defer sc.Leave()

	tooltipped = validateMetaFields(caller, listType, data, sc, vd, tooltipped)

	trigger.ValidateInsideIterator(caller, listType, b, data, sc, vd, tooltipped)

	for key, bv := range vd.UnknownKeys() {
		validateKey(key, bv, data, sc, tooltipped)
	}

	vd.WarnRemaining()
}

// validateMetaFields claims the fields whose legality depends on the list
// type and caller rather than on the current scope. It returns the
// tooltipped flag for the rest of the block.
func validateMetaFields(caller string, listType validate.ListType, data ports.ItemIndex, sc *scopecontext.ScopeContext, vd *validator.Validator, tooltipped bool) bool {
	inList := listType != validate.ListNone

	if key, ok := vd.Block().GetKey("custom"); ok {
		vd.FieldValueItem("custom", item.Localization)
		if !inList {
			report.Warnf(sc.Sink(), key.Loc, report.KeyValidation, "`custom` can only be used in lists")
		}
		tooltipped = false
	}

	if inList || caller == "if" || caller == "else_if" || caller == "else" {
		vd.FieldValidatedBlocks("limit", func(b *block.Block) {
			trigger.ValidateNormalTrigger(b, data, sc, tooltipped)
		})
	} else {
		vd.BanField("limit", "if/else_if or lists")
	}

	if inList {
		vd.FieldValidatedBlocks("alternative_limit", func(b *block.Block) {
			trigger.ValidateNormalTrigger(b, data, sc, tooltipped)
		})
	} else {
		vd.BanField("alternative_limit", "lists")
	}

	if listType == validate.ListOrdered {
		vd.FieldValidatedBVs("order_by", func(_ token.Token, bv block.BV) {
			trigger.ValidateScriptValue(bv, data, sc)
		})
		vd.FieldInteger("position")
		vd.FieldInteger("min")
		vd.FieldValidatedBVs("max", func(_ token.Token, bv block.BV) {
			trigger.ValidateScriptValue(bv, data, sc)
		})
		vd.FieldBool("check_range_bounds")
	} else {
		for _, name := range []string{"order_by", "position", "min", "max", "check_range_bounds"} {
			vd.BanField(name, "`ordered_` lists")
		}
	}

	if listType == validate.ListRandom {
		// TODO: check weight once its allowed contents are settled
		vd.FieldsUnchecked("weight")
	} else {
		vd.BanField("weight", "`random_` lists")
	}

	return tooltipped
}

func validateKey(key token.Token, bv block.BV, data ports.ItemIndex, sc *scopecontext.ScopeContext, tooltipped bool) {
	sink := sc.Sink()

	if in, eff, ok := tables.ScopeEffect(key.Text); ok {
		sc.Expect(in, key)
		validateContract(key, eff, bv, data, sc, tooltipped)
		return
	}

	if kind, base, ok := tables.SplitIterator(key.Text); ok {
		if in, out, known := tables.ScopeIterator(base); known {
			if kind == "any" {
				report.Errorf(sink, key.Loc, report.KeyValidation, "cannot use `any_` lists in an effect")
				return
			}
			sc.Expect(in, key)
			listType, _ := validate.ParseListType(kind)
			validateIterator(key, base, out, listType, bv, data, sc, tooltipped)
			return
		}
	}

	if data.ItemExists(item.ScriptedEffect, key.Text) || data.EventEffectExists(key.Text) {
		// Block values carry macro arguments, which are not checked.
		if t, ok := bv.GetValue(); ok && !t.Is("yes") {
			report.Warnf(sink, t.Loc, report.KeyValidation, "expected just `%s = yes`", key.Text)
		}
		return
	}

	validateChain(key, bv, data, sc, tooltipped)
}

func validateIterator(key token.Token, base string, out scopes.Scopes, listType validate.ListType, bv block.BV, data ports.ItemIndex, sc *scopecontext.ScopeContext, tooltipped bool) {
	sc.OpenScope(out, key)
	defer sc.Close()
	b, ok := validator.ExpectBlock(bv, sc.Sink())
	if !ok {
		return
	}
	vd := validator.New(b, data, sc.Sink())
	ValidateEffect(base, listType, b, data, sc, vd, tooltipped)
}

// validateChain handles keys such as `root.culture` or `scope:target`.
// An unresolvable part abandons this key only.
func validateChain(key token.Token, bv block.BV, data ports.ItemIndex, sc *scopecontext.ScopeContext, tooltipped bool) {
	sc.OpenBuilder()
	defer sc.Close()
	for i, part := range key.Split('.') {
		if !validate.ChainPart(part, i == 0, data, sc) {
			return
		}
	}
	if b, ok := validator.ExpectBlock(bv, sc.Sink()); ok {
		sc.EnterChain()
		ValidateNormalEffect(b, data, sc, tooltipped)
	}
}
