package trigger

import (
	"github.com/artpar/tiger/core/scopecontext"
	"github.com/artpar/tiger/core/validate"
	"github.com/artpar/tiger/core/validator"
	"github.com/artpar/tiger/domain/block"
	"github.com/artpar/tiger/domain/item"
	"github.com/artpar/tiger/domain/report"
	"github.com/artpar/tiger/domain/scopes"
	"github.com/artpar/tiger/domain/token"
	"github.com/artpar/tiger/ports"
)

// ValidateInsideIterator claims the fields that only make sense inside the
// body of particular iterators, and bans them everywhere else. name is
// the iterator's base name, such as "courtier" for every_courtier. sc
// must already be in the iterator's output scope.
func ValidateInsideIterator(name string, listType validate.ListType, b *block.Block, data ports.ItemIndex, sc *scopecontext.ScopeContext, vd *validator.Validator, tooltipped bool) {
	sink := sc.Sink()

	if listType == validate.ListAny {
		vd.FieldValidatedBVs("count", func(_ token.Token, bv block.BV) {
			if t, ok := bv.GetValue(); ok && t.Is("all") {
				return
			}
			ValidateScriptValue(bv, data, sc)
		})
		vd.FieldValidatedBVs("percent", func(_ token.Token, bv block.BV) {
			ValidateScriptValue(bv, data, sc)
		})
	} else {
		vd.BanField("count", "`any_` lists")
		vd.BanField("percent", "`any_` lists")
	}

	switch name {
	case "in_list", "in_global_list", "in_local_list":
		_, haveList := vd.FieldValue("list")
		_, haveVar := vd.FieldValue("variable")
		if haveList == haveVar {
			report.Errorf(sink, b.Loc, report.KeyValidation, "must have one of `list =` or `variable =`")
		}
	default:
		vd.BanField("list", "`in_list`, `in_global_list`, or `in_local_list`")
		vd.BanField("variable", "`in_list`, `in_global_list`, or `in_local_list`")
	}

	switch name {
	case "in_de_jure_hierarchy", "in_de_facto_hierarchy":
		vd.FieldValidatedBlocks("filter", func(b *block.Block) {
			ValidateNormalTrigger(b, data, sc, tooltipped)
		})
		vd.FieldValidatedBlocks("continue", func(b *block.Block) {
			ValidateNormalTrigger(b, data, sc, tooltipped)
		})
	default:
		vd.BanField("filter", "`in_de_jure_hierarchy` or `in_de_facto_hierarchy`")
		vd.BanField("continue", "`in_de_jure_hierarchy` or `in_de_facto_hierarchy`")
	}

	switch name {
	case "county_in_region":
		vd.ReqField("region")
		vd.FieldValueItem("region", item.Region)
	default:
		vd.BanField("region", "`county_in_region`")
	}

	switch name {
	case "court_position_holder":
		vd.FieldValueItem("type", item.CourtPosition)
	case "relation":
		vd.ReqField("type")
		vd.FieldValueItem("type", item.Relation)
	default:
		vd.BanField("type", "`court_position_holder` or `relation`")
	}

	switch name {
	case "pool_character":
		vd.ReqField("province")
		if t, ok := vd.FieldValue("province"); ok {
			ValidateTarget(t, data, sc, scopes.Province)
		}
	default:
		vd.BanField("province", "`pool_character`")
	}

	if sc.Scopes().Intersects(scopes.Character) {
		vd.FieldBool("even_if_dead")
		vd.FieldBool("only_if_dead")
	} else {
		vd.BanField("even_if_dead", "lists of characters")
		vd.BanField("only_if_dead", "lists of characters")
	}

	switch name {
	case "claim":
		fieldChoice(vd, sink, "explicit", "yes", "no", "all")
		fieldChoice(vd, sink, "pressed", "yes", "no", "all")
	default:
		vd.BanField("explicit", "`claim`")
		vd.BanField("pressed", "`claim`")
	}
}

func fieldChoice(vd *validator.Validator, sink report.Sink, name string, choices ...string) {
	t, ok := vd.FieldValue(name)
	if !ok {
		return
	}
	for _, c := range choices {
		if t.Is(c) {
			return
		}
	}
	report.Warnf(sink, t.Loc, report.KeyValidation, "expected one of %v", choices)
}
