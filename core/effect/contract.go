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

func validateContract(key token.Token, eff tables.Effect, bv block.BV, data ports.ItemIndex, sc *scopecontext.ScopeContext, tooltipped bool) {
	sink := sc.Sink()

	switch eff.Kind {
	case tables.EffectYes:
		if t, ok := validator.ExpectValue(bv, sink); ok && !t.Is("yes") {
			report.Warnf(sink, t.Loc, report.KeyValidation, "expected just `%s = yes`", key.Text)
		}
	case tables.EffectBool:
		if t, ok := validator.ExpectValue(bv, sink); ok {
			trigger.ValidateTarget(t, data, sc, scopes.Bool)
		}
	case tables.EffectInteger:
		if t, ok := validator.ExpectValue(bv, sink); ok {
			if _, isInt := t.Int(); !isInt {
				report.Warnf(sink, t.Loc, report.KeyValidation, "expected integer")
			}
		}
	case tables.EffectValue, tables.EffectScriptValue:
		trigger.ValidateScriptValue(bv, data, sc)
	case tables.EffectNonNegativeValue:
		if t, ok := bv.GetValue(); ok {
			if n, isNum := t.Number(); isNum && n < 0 {
				report.Warnf(sink, t.Loc, report.KeyValidation, "`%s` does not take negative numbers", key.Text)
			}
		}
		trigger.ValidateScriptValue(bv, data, sc)
	case tables.EffectScope:
		if t, ok := validator.ExpectValue(bv, sink); ok {
			trigger.ValidateTarget(t, data, sc, eff.Scopes)
		}
	case tables.EffectItem:
		if t, ok := validator.ExpectValue(bv, sink); ok {
			validate.VerifyExists(data, sink, eff.Item, t)
		}
	case tables.EffectUnchecked:
	case tables.EffectSaveScope:
		if t, ok := validator.ExpectValue(bv, sink); ok {
			sc.DefineName(t.Text)
		}
	case tables.EffectControl:
		if b, ok := validator.ExpectBlock(bv, sink); ok {
			validateControl(key, b, data, sc, tooltipped)
		}
	}
}

// validateControl handles the flow-control effects, which take a block of
// further effects plus a few fields of their own.
func validateControl(key token.Token, b *block.Block, data ports.ItemIndex, sc *scopecontext.ScopeContext, tooltipped bool) {
	sink := sc.Sink()
	vd := validator.New(b, data, sink)

	switch key.Text {
	case "if", "else_if":
		vd.ReqField("limit")
	case "hidden_effect":
		tooltipped = false
	case "show_as_tooltip":
		tooltipped = true
	case "while":
		vd.FieldValidatedBlocks("limit", func(lb *block.Block) {
			trigger.ValidateNormalTrigger(lb, data, sc, tooltipped)
		})
		vd.FieldValidatedBVs("count", func(_ token.Token, bv block.BV) {
			trigger.ValidateScriptValue(bv, data, sc)
		})
		if !b.HasKey("limit") && !b.HasKey("count") {
			report.Warnf(sink, b.Loc, report.KeyValidation, "`while` needs `limit` or `count`")
		}
	case "random":
		vd.ReqField("chance")
		vd.FieldValidatedBVs("chance", func(_ token.Token, bv block.BV) {
			trigger.ValidateScriptValue(bv, data, sc)
		})
		vd.FieldsUnchecked("modifier")
	case "random_list":
		validateRandomList(b, data, sc, vd, tooltipped)
		return
	case "switch":
		validateSwitch(b, data, sc, vd, tooltipped)
		return
	}

	ValidateEffect(key.Text, validate.ListNone, b, data, sc, vd, tooltipped)
}

func validateRandomList(b *block.Block, data ports.ItemIndex, sc *scopecontext.ScopeContext, vd *validator.Validator, tooltipped bool) {
	if !sc.Enter(b.Loc) {
		return
	}
	defer sc.Leave()

	sink := sc.Sink()
	vd.FieldsUnchecked("desc")
	for key, bv := range vd.UnknownKeys() {
		if _, ok := key.Number(); !ok {
			report.Warnf(sink, key.Loc, report.KeyValidation, "expected a number as the weight of a `random_list` entry")
		}
		cb, ok := validator.ExpectBlock(bv, sink)
		if !ok {
			continue
		}
		cvd := validator.New(cb, data, sink)
		cvd.FieldValidatedBlocks("trigger", func(tb *block.Block) {
			trigger.ValidateNormalTrigger(tb, data, sc, false)
		})
		cvd.FieldsUnchecked("modifier", "desc")
		cvd.FieldBool("show_chance")
		ValidateEffect("random_list", validate.ListNone, cb, data, sc, cvd, tooltipped)
	}
	vd.WarnRemaining()
}

func validateSwitch(b *block.Block, data ports.ItemIndex, sc *scopecontext.ScopeContext, vd *validator.Validator, tooltipped bool) {
	if !sc.Enter(b.Loc) {
		return
	}
	defer sc.Leave()

	sink := sc.Sink()
	vd.ReqField("trigger")
	if t, ok := vd.FieldValue("trigger"); ok {
		if _, _, known := tables.ScopeTrigger(t.Text); !known && !data.ItemExists(item.ScriptedTrigger, t.Text) {
			report.Warnf(sink, t.Loc, report.KeyUnknown, "unknown trigger `%s`", t.Text)
		}
	}
	for _, bv := range vd.UnknownKeys() {
		if cb, ok := validator.ExpectBlock(bv, sink); ok {
			ValidateNormalEffect(cb, data, sc, tooltipped)
		}
	}
	vd.WarnRemaining()
}
