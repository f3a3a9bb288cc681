package app

import (
	"strings"

	"github.com/artpar/tiger/core/effect"
	"github.com/artpar/tiger/core/scopecontext"
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

// check validates the top-level definitions of one file.
type check func(b *block.Block, env checkEnv)

// checkEnv is what every check needs besides the block.
type checkEnv struct {
	data     ports.ItemIndex
	sink     report.Sink
	maxDepth int
}

// context opens a fresh ScopeContext for one definition.
func (env checkEnv) context(root scopes.Scopes, at token.Token) *scopecontext.ScopeContext {
	sc := scopecontext.New(root, at, env.sink)
	sc.SetMaxDepth(env.maxDepth)
	return sc
}

// Script directories and how their files are checked.
var checks = []struct {
	dir   string
	check check
}{
	{"common/scripted_effects", checkScriptedEffects},
	{"common/scripted_triggers", checkScriptedTriggers},
	{"common/script_values", checkScriptValues},
	{"common/decisions", checkDecisions},
	{"events", checkEvents},
}

func checkScriptedEffects(b *block.Block, env checkEnv) {
	for _, f := range definitions(b) {
		body, ok := validator.ExpectBlock(f.Value, env.sink)
		if !ok || hasParameters(body) {
			continue
		}
		effect.ValidateNormalEffect(body, env.data, env.context(scopes.All, f.Key), true)
	}
}

func checkScriptedTriggers(b *block.Block, env checkEnv) {
	for _, f := range definitions(b) {
		body, ok := validator.ExpectBlock(f.Value, env.sink)
		if !ok || hasParameters(body) {
			continue
		}
		trigger.ValidateNormalTrigger(body, env.data, env.context(scopes.All, f.Key), true)
	}
}

func checkScriptValues(b *block.Block, env checkEnv) {
	for _, f := range definitions(b) {
		if body, ok := f.Value.GetBlock(); ok && hasParameters(body) {
			continue
		}
		trigger.ValidateScriptValue(f.Value, env.data, env.context(scopes.All, f.Key))
	}
}

// Decision fields that only feed the interface or the AI.
var decisionUnchecked = []string{
	"picture", "extra_picture", "title", "desc", "selection_tooltip",
	"confirm_text", "major", "sort_order", "is_invisible", "ai_check_interval",
	"ai_check_interval_by_tier", "cooldown", "cost", "minimum_cost", "ai_will_do",
	"ai_goal", "decision_group_type", "widget", "should_create_alert",
	"ai_potential_check_interval", "is_valid_showing_failures_only_for_ai",
}

func checkDecisions(b *block.Block, env checkEnv) {
	for _, f := range definitions(b) {
		body, ok := validator.ExpectBlock(f.Value, env.sink)
		if !ok {
			continue
		}
		vd := validator.New(body, env.data, env.sink)
		for _, name := range []string{"is_shown", "is_valid", "is_valid_showing_failures_only", "ai_potential"} {
			vd.FieldValidatedBlocks(name, func(tb *block.Block) {
				trigger.ValidateNormalTrigger(tb, env.data, env.context(scopes.Character, f.Key), name != "ai_potential")
			})
		}
		vd.FieldValidatedBlocks("effect", func(eb *block.Block) {
			effect.ValidateNormalEffect(eb, env.data, env.context(scopes.Character, f.Key), true)
		})
		vd.FieldsUnchecked(decisionUnchecked...)
		vd.WarnRemaining()
	}
}

// Event fields that only feed the interface.
var eventUnchecked = []string{
	"type", "title", "desc", "theme", "hidden", "orphan", "cooldown",
	"left_portrait", "right_portrait", "lower_left_portrait",
	"lower_center_portrait", "lower_right_portrait", "artifact",
	"override_background", "override_icon", "override_sound",
	"override_effect_2d", "widget", "widgets", "window", "content_source",
	"court_scene", "weight_multiplier", "on_trigger_fail",
}

// Option fields handled before the option's effects are walked.
var optionUnchecked = []string{
	"name", "flavor", "ai_chance", "highlight_portrait", "trait", "skill",
	"add_internal_flag", "reason", "clicksound",
}

func checkEvents(b *block.Block, env checkEnv) {
	for _, f := range definitions(b) {
		switch {
		case f.Key.Is("namespace"):
			continue
		case strings.HasPrefix(f.Key.Text, "scripted_effect "):
			if body, ok := validator.ExpectBlock(f.Value, env.sink); ok && !hasParameters(body) {
				effect.ValidateNormalEffect(body, env.data, env.context(scopes.All, f.Key), true)
			}
		case strings.HasPrefix(f.Key.Text, "scripted_trigger "):
			if body, ok := validator.ExpectBlock(f.Value, env.sink); ok && !hasParameters(body) {
				trigger.ValidateNormalTrigger(body, env.data, env.context(scopes.All, f.Key), true)
			}
		case strings.Contains(f.Key.Text, "."):
			if body, ok := validator.ExpectBlock(f.Value, env.sink); ok {
				checkEvent(f.Key, body, env)
			}
		default:
			report.Warnf(env.sink, f.Key.Loc, report.KeyValidation,
				"unexpected key `%s` in event file; event ids look like `namespace.0001`", f.Key.Text)
		}
	}
}

func checkEvent(key token.Token, b *block.Block, env checkEnv) {
	vd := validator.New(b, env.data, env.sink)

	root := scopes.Character
	if t, ok := vd.FieldValue("scope"); ok {
		if s, known := scopes.Parse(t.Text); known {
			root = s
		} else {
			report.Warnf(env.sink, t.Loc, report.KeyScopes, "unknown scope type `%s`", t.Text)
		}
	}
	hidden := false
	if t, ok := b.GetFieldValue("hidden"); ok && t.Is("yes") {
		hidden = true
	}

	// One context for the whole event: immediate may save scopes that
	// options and after refer to.
	sc := env.context(root, key)

	vd.FieldValidatedBlocks("trigger", func(tb *block.Block) {
		trigger.ValidateNormalTrigger(tb, env.data, sc, false)
	})
	vd.FieldValidatedBlocks("immediate", func(eb *block.Block) {
		effect.ValidateNormalEffect(eb, env.data, sc, !hidden)
	})
	vd.FieldValidatedBlocks("option", func(ob *block.Block) {
		checkOption(ob, env, sc, !hidden)
	})
	vd.FieldValidatedBlocks("after", func(eb *block.Block) {
		effect.ValidateNormalEffect(eb, env.data, sc, false)
	})
	vd.FieldsUnchecked(eventUnchecked...)
	vd.WarnRemaining()
}

func checkOption(b *block.Block, env checkEnv, sc *scopecontext.ScopeContext, tooltipped bool) {
	vd := validator.New(b, env.data, env.sink)
	vd.FieldsUnchecked(optionUnchecked...)
	vd.FieldValidatedBlocks("trigger", func(tb *block.Block) {
		trigger.ValidateNormalTrigger(tb, env.data, sc, false)
	})
	vd.FieldValidatedBlocks("show_as_unavailable", func(tb *block.Block) {
		trigger.ValidateNormalTrigger(tb, env.data, sc, false)
	})
	vd.FieldBool("fallback")
	vd.FieldBool("exclusive")
	effect.ValidateEffect("option", validate.ListNone, b, env.data, sc, vd, tooltipped)
}

// definitions returns the top-level fields of a file, without `@name`
// constant declarations.
func definitions(b *block.Block) []block.Field {
	defs := make([]block.Field, 0, len(b.Fields))
	for _, f := range b.Fields {
		if !strings.HasPrefix(f.Key.Text, "@") {
			defs = append(defs, f)
		}
	}
	return defs
}

// hasParameters reports whether b uses `$PARAM$` substitutions anywhere.
// Such definitions only make sense once their arguments are known.
func hasParameters(b *block.Block) bool {
	for _, f := range b.Fields {
		if strings.Contains(f.Key.Text, "$") || bvHasParameters(f.Value) {
			return true
		}
	}
	for _, bv := range b.Loose {
		if bvHasParameters(bv) {
			return true
		}
	}
	return false
}

func bvHasParameters(bv block.BV) bool {
	if t, ok := bv.GetValue(); ok {
		return strings.Contains(t.Text, "$")
	}
	nested, _ := bv.GetBlock()
	return hasParameters(nested)
}

// definitionKind maps a check directory to the item kind its files define,
// for log fields.
func definitionKind(dir string) string {
	switch dir {
	case "common/scripted_effects":
		return item.ScriptedEffect.String()
	case "common/scripted_triggers":
		return item.ScriptedTrigger.String()
	case "common/script_values":
		return item.ScriptValue.String()
	case "events":
		return item.Event.String()
	}
	return "decision"
}
