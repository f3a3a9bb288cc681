package trigger

import (
	"github.com/artpar/tiger/core/scopecontext"
	"github.com/artpar/tiger/core/tables"
	"github.com/artpar/tiger/core/validate"
	"github.com/artpar/tiger/domain/item"
	"github.com/artpar/tiger/domain/report"
	"github.com/artpar/tiger/domain/scopes"
	"github.com/artpar/tiger/domain/token"
	"github.com/artpar/tiger/ports"
)

// ValidateTarget checks that t evaluates to something in outscopes. t is a
// number, yes/no, a script value name, or a dotted chain whose last part
// may be a value trigger such as `gold`.
func ValidateTarget(t token.Token, data ports.ItemIndex, sc *scopecontext.ScopeContext, outscopes scopes.Scopes) {
	sink := sc.Sink()

	if _, ok := t.Number(); ok {
		if !outscopes.Intersects(scopes.Value) {
			report.Warnf(sink, t.Loc, report.KeyScopes, "expected %s, found a number", outscopes)
		}
		return
	}
	if t.Is("yes") || t.Is("no") {
		if !outscopes.Intersects(scopes.Bool) {
			report.Warnf(sink, t.Loc, report.KeyScopes, "expected %s, found `%s`", outscopes, t.Text)
		}
		return
	}
	if outscopes.Intersects(scopes.Value) && data.ItemExists(item.ScriptValue, t.Text) {
		return
	}

	sc.OpenBuilder()
	defer sc.Close()

	parts := t.Split('.')
	for i, part := range parts {
		if i == len(parts)-1 {
			if in, trg, ok := tables.ScopeTrigger(part.Text); ok {
				switch trg.Kind {
				case tables.TriggerCompareValue:
					sc.Expect(in, part)
					sc.Replace(scopes.Value, part)
					continue
				case tables.TriggerBool:
					sc.Expect(in, part)
					sc.Replace(scopes.Bool, part)
					continue
				}
			}
		}
		if !validate.ChainPart(part, i == 0, data, sc) {
			return
		}
	}

	if got := sc.Scopes(); !got.Intersects(outscopes) {
		report.Warnf(sink, t.Loc, report.KeyScopes, "`%s` is %s but expected %s", t.Text, got, outscopes)
	}
}
