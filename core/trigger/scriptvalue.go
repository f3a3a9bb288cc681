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

// ValidateScriptValue checks a numeric expression: a literal, the name of
// a script value, a value target, or a block of arithmetic operations.
func ValidateScriptValue(bv block.BV, data ports.ItemIndex, sc *scopecontext.ScopeContext) {
	if t, ok := bv.GetValue(); ok {
		if _, isNum := t.Number(); isNum {
			return
		}
		if data.ItemExists(item.ScriptValue, t.Text) {
			return
		}
		ValidateTarget(t, data, sc, scopes.Value)
		return
	}
	b, _ := bv.GetBlock()
	if !sc.Enter(b.Loc) {
		return
	}
	defer sc.Leave()
	vd := validator.New(b, data, sc.Sink())
	validateValueOps(b, data, sc, vd)
}

func validateValueOps(b *block.Block, data ports.ItemIndex, sc *scopecontext.ScopeContext, vd *validator.Validator) {
	sink := sc.Sink()
	vd.FieldsUnchecked("desc", "format", "save_temporary_value_as")
	vd.FieldValidatedBVs("save_temporary_scope_as", func(_ token.Token, bv block.BV) {
		if t, ok := validator.ExpectValue(bv, sink); ok {
			sc.DefineName(t.Text)
		}
	})

	for key, bv := range vd.UnknownKeys() {
		switch key.Text {
		case "value", "add", "subtract", "multiply", "divide", "modulo", "min", "max":
			ValidateScriptValue(bv, data, sc)
		case "round", "ceiling", "floor", "abs":
			if t, ok := validator.ExpectValue(bv, sink); ok && !t.Is("yes") && !t.Is("no") {
				report.Warnf(sink, t.Loc, report.KeyValidation, "expected yes or no")
			}
		case "fixed_range", "integer_range":
			if rb, ok := validator.ExpectBlock(bv, sink); ok {
				rvd := validator.New(rb, data, sink)
				rvd.ReqField("min")
				rvd.ReqField("max")
				for _, name := range []string{"min", "max"} {
					if v, ok := rvd.Field(name); ok {
						ValidateScriptValue(v, data, sc)
					}
				}
				rvd.WarnRemaining()
			}
		case "if", "else_if", "else":
			if ib, ok := validator.ExpectBlock(bv, sink); ok {
				validateValueIf(key, ib, data, sc)
			}
		default:
			if !validateValueIterator(key, bv, data, sc) {
				report.Warnf(sink, key.Loc, report.KeyValidation, "unknown field `%s`", key.Text)
			}
		}
	}
	vd.WarnRemaining()
}

func validateValueIf(key token.Token, b *block.Block, data ports.ItemIndex, sc *scopecontext.ScopeContext) {
	if !sc.Enter(b.Loc) {
		return
	}
	defer sc.Leave()
	vd := validator.New(b, data, sc.Sink())
	if key.Is("else") {
		vd.BanField("limit", "`if` or `else_if`")
	} else {
		vd.ReqField("limit")
		vd.FieldValidatedBlocks("limit", func(lb *block.Block) {
			ValidateNormalTrigger(lb, data, sc, false)
		})
	}
	validateValueOps(b, data, sc, vd)
}

// validateValueIterator handles `every_vassal = { add = gold }` style
// sums. It returns false if key is not an iterator.
func validateValueIterator(key token.Token, bv block.BV, data ports.ItemIndex, sc *scopecontext.ScopeContext) bool {
	kind, base, ok := tables.SplitIterator(key.Text)
	if !ok {
		return false
	}
	in, out, known := tables.ScopeIterator(base)
	if !known {
		return false
	}
	sink := sc.Sink()
	if kind == "any" {
		report.Errorf(sink, key.Loc, report.KeyValidation, "cannot use `any_` lists in a script value")
		return true
	}
	sc.Expect(in, key)
	b, ok := validator.ExpectBlock(bv, sink)
	if !ok {
		return true
	}
	if !sc.Enter(b.Loc) {
		return true
	}
	defer sc.Leave()
	sc.OpenScope(out, key)
	defer sc.Close()

	listType, _ := validate.ParseListType(kind)
	vd := validator.New(b, data, sink)
	vd.FieldValidatedBlocks("limit", func(lb *block.Block) {
		ValidateNormalTrigger(lb, data, sc, false)
	})
	ValidateInsideIterator(base, listType, b, data, sc, vd, false)
	validateValueOps(b, data, sc, vd)
	return true
}
