// Package tables holds the static knowledge about the script dialect:
// which effects, triggers, iterators, scope transitions and prefixes
// exist and what scope types they take and produce.
package tables

import (
	"github.com/artpar/tiger/domain/item"
	"github.com/artpar/tiger/domain/scopes"
)

// EffectKind selects how an effect's value is checked.
type EffectKind int

const (
	// EffectYes accepts only the literal `yes`.
	EffectYes EffectKind = iota
	// EffectBool takes a boolean target.
	EffectBool
	// EffectInteger takes an integer literal.
	EffectInteger
	// EffectValue takes a numeric expression.
	EffectValue
	// EffectScriptValue takes a numeric expression.
	EffectScriptValue
	// EffectNonNegativeValue takes a numeric expression that is not a
	// negative literal.
	EffectNonNegativeValue
	// EffectScope takes a target resolving to Effect.Scopes.
	EffectScope
	// EffectItem takes the name of an existing item of Effect.Item.
	EffectItem
	// EffectUnchecked is accepted as-is.
	EffectUnchecked
	// EffectControl takes a block of further effects.
	EffectControl
	// EffectSaveScope records the current scope under a name.
	EffectSaveScope
)

// Effect is an effect's argument contract.
type Effect struct {
	Kind   EffectKind
	Scopes scopes.Scopes // for EffectScope
	Item   item.Kind     // for EffectItem
}

var (
	yes         = Effect{Kind: EffectYes}
	boolean     = Effect{Kind: EffectBool}
	integer     = Effect{Kind: EffectInteger}
	value       = Effect{Kind: EffectValue}
	scriptValue = Effect{Kind: EffectScriptValue}
	nonNegative = Effect{Kind: EffectNonNegativeValue}
	unchecked   = Effect{Kind: EffectUnchecked}
	control     = Effect{Kind: EffectControl}
	saveScope   = Effect{Kind: EffectSaveScope}
)

func target(s scopes.Scopes) Effect {
	return Effect{Kind: EffectScope, Scopes: s}
}

func itemOf(k item.Kind) Effect {
	return Effect{Kind: EffectItem, Item: k}
}

type effectEntry struct {
	in     scopes.Scopes
	name   string
	effect Effect
}

var effectTable = []effectEntry{
	// control flow
	{scopes.None, "if", control},
	{scopes.None, "else_if", control},
	{scopes.None, "else", control},
	{scopes.None, "while", control},
	{scopes.None, "random", control},
	{scopes.None, "random_list", control},
	{scopes.None, "switch", control},
	{scopes.None, "hidden_effect", control},
	{scopes.None, "show_as_tooltip", control},

	// scope bookkeeping
	{scopes.All, "save_scope_as", saveScope},
	{scopes.All, "save_temporary_scope_as", saveScope},
	{scopes.None, "save_scope_value_as", unchecked},
	{scopes.None, "save_temporary_scope_value_as", unchecked},
	{scopes.All, "add_to_list", unchecked},
	{scopes.All, "add_to_temporary_list", unchecked},
	{scopes.All, "add_to_global_variable_list", unchecked},
	{scopes.All, "remove_from_list", unchecked},
	{scopes.All, "set_variable", unchecked},
	{scopes.All, "remove_variable", unchecked},
	{scopes.All, "change_variable", unchecked},
	{scopes.All, "clamp_variable", unchecked},
	{scopes.None, "set_global_variable", unchecked},
	{scopes.None, "remove_global_variable", unchecked},
	{scopes.None, "set_local_variable", unchecked},
	{scopes.None, "custom_tooltip", unchecked},
	{scopes.None, "custom_description", unchecked},
	{scopes.None, "debug_log", unchecked},
	{scopes.None, "debug_log_scopes", yes},
	{scopes.None, "assert_if", unchecked},
	{scopes.None, "trigger_event", unchecked},
	{scopes.None, "send_interface_message", unchecked},
	{scopes.None, "send_interface_toast", unchecked},
	{scopes.None, "set_global_flag", unchecked},
	{scopes.None, "remove_global_flag", unchecked},

	// character
	{scopes.Character, "add_gold", scriptValue},
	{scopes.Character, "remove_short_term_gold", nonNegative},
	{scopes.Character, "remove_long_term_gold", nonNegative},
	{scopes.Character, "pay_short_term_gold", unchecked},
	{scopes.Character, "add_prestige", scriptValue},
	{scopes.Character, "add_prestige_level", integer},
	{scopes.Character, "add_piety", scriptValue},
	{scopes.Character, "add_piety_level", integer},
	{scopes.Character, "add_dread", scriptValue},
	{scopes.Character, "add_stress", scriptValue},
	{scopes.Character, "add_tyranny", scriptValue},
	{scopes.Character, "add_diplomacy_skill", scriptValue},
	{scopes.Character, "add_martial_skill", scriptValue},
	{scopes.Character, "add_stewardship_skill", scriptValue},
	{scopes.Character, "add_intrigue_skill", scriptValue},
	{scopes.Character, "add_learning_skill", scriptValue},
	{scopes.Character, "add_prowess_skill", scriptValue},
	{scopes.Character, "add_character_flag", unchecked},
	{scopes.Character, "remove_character_flag", unchecked},
	{scopes.Character, "add_character_modifier", unchecked},
	{scopes.Character, "remove_character_modifier", unchecked},
	{scopes.Character, "add_trait", itemOf(item.Trait)},
	{scopes.Character, "remove_trait", itemOf(item.Trait)},
	{scopes.Character, "add_trait_force_tooltip", itemOf(item.Trait)},
	{scopes.Character, "make_trait_inactive", itemOf(item.Trait)},
	{scopes.Character, "set_culture", target(scopes.Culture)},
	{scopes.Character, "set_character_faith", target(scopes.Faith)},
	{scopes.Character, "set_character_faith_with_conversion", target(scopes.Faith)},
	{scopes.Character, "set_employer", target(scopes.Character)},
	{scopes.Character, "set_father", target(scopes.Character)},
	{scopes.Character, "set_mother", target(scopes.Character)},
	{scopes.Character, "set_house", target(scopes.DynastyHouse)},
	{scopes.Character, "set_primary_title_to", target(scopes.Title)},
	{scopes.Character, "set_realm_capital", target(scopes.Title)},
	{scopes.Character, "set_designated_heir", target(scopes.Character)},
	{scopes.Character, "set_killer_public", boolean},
	{scopes.Character, "set_immortal_age", integer},
	{scopes.Character, "set_to_lowborn", yes},
	{scopes.Character, "set_sexuality", unchecked},
	{scopes.Character, "add_courtier", target(scopes.Character)},
	{scopes.Character, "remove_courtier_or_guest", target(scopes.Character)},
	{scopes.Character, "marry", target(scopes.Character)},
	{scopes.Character, "divorce", target(scopes.Character)},
	{scopes.Character, "set_relation_friend", unchecked},
	{scopes.Character, "set_relation_rival", unchecked},
	{scopes.Character, "remove_relation_friend", target(scopes.Character)},
	{scopes.Character, "add_opinion", unchecked},
	{scopes.Character, "reverse_add_opinion", unchecked},
	{scopes.Character, "add_hook", unchecked},
	{scopes.Character, "remove_hook", unchecked},
	{scopes.Character, "add_secret", unchecked},
	{scopes.Character, "death", unchecked},
	{scopes.Character, "imprison", unchecked},
	{scopes.Character, "release_from_prison", yes},
	{scopes.Character, "visit_court_of", target(scopes.Character)},
	{scopes.Character, "return_to_court", yes},
	{scopes.Character, "start_war", unchecked},
	{scopes.Character, "create_title_and_vassal_change", unchecked},
	{scopes.Character, "get_title", target(scopes.Title)},
	{scopes.Character, "destroy_title", target(scopes.Title)},
	{scopes.Character, "create_character", unchecked},
	{scopes.Character, "add_realm_law", unchecked},
	{scopes.Character, "add_perk", unchecked},
	{scopes.Character, "give_nickname", unchecked},
	{scopes.Character, "remove_nickname", yes},
	{scopes.Character, "change_first_name", unchecked},
	{scopes.Character, "add_scheme_cooldown", unchecked},
	{scopes.Character, "add_diplomacy_lifestyle_xp", scriptValue},
	{scopes.Character, "add_martial_lifestyle_xp", scriptValue},
	{scopes.Character, "add_stewardship_lifestyle_xp", scriptValue},
	{scopes.Character, "add_intrigue_lifestyle_xp", scriptValue},
	{scopes.Character, "add_learning_lifestyle_xp", scriptValue},
	{scopes.Character, "add_unpressed_claim", target(scopes.Title)},
	{scopes.Character, "add_pressed_claim", target(scopes.Title)},
	{scopes.Character, "remove_claim", target(scopes.Title)},
	{scopes.Character, "pay_gold", unchecked},
	{scopes.Character, "make_pregnant", unchecked},
	{scopes.Character, "end_pregnancy", yes},
	{scopes.Character, "set_num_pregnancy_children", integer},
	{scopes.Character, "add_character_to_court_position", unchecked},
	{scopes.Character, "scripted_duel", unchecked},

	// landed titles
	{scopes.Title, "set_capital_county", target(scopes.Title)},
	{scopes.Title, "set_de_jure_liege_title", target(scopes.Title)},
	{scopes.Title, "change_development_level", scriptValue},
	{scopes.Title, "change_development_progress", scriptValue},
	{scopes.Title, "change_county_control", scriptValue},
	{scopes.Title, "set_county_culture", target(scopes.Culture)},
	{scopes.Title, "set_county_faith", target(scopes.Faith)},
	{scopes.Title, "add_county_modifier", unchecked},
	{scopes.Title, "remove_county_modifier", unchecked},
	{scopes.Title, "set_title_name", unchecked},
	{scopes.Title, "reset_title_name", yes},
	{scopes.Title, "set_coa", unchecked},
	{scopes.Title, "set_color_from_title", target(scopes.Title)},
	{scopes.Title, "add_title_law", unchecked},

	// provinces
	{scopes.Province, "add_province_modifier", unchecked},
	{scopes.Province, "remove_province_modifier", unchecked},
	{scopes.Province, "add_building", unchecked},
	{scopes.Province, "remove_building", unchecked},
	{scopes.Province, "set_holding_type", unchecked},
	{scopes.Province, "add_special_building", unchecked},

	// faith and culture
	{scopes.Faith, "add_doctrine", unchecked},
	{scopes.Faith, "remove_doctrine", unchecked},
	{scopes.Faith, "change_fervor", scriptValue},
	{scopes.Faith, "set_religious_head_title", target(scopes.Title)},
	{scopes.Faith, "activate_holy_site", target(scopes.Title)},
	{scopes.Culture, "add_culture_tradition", unchecked},
	{scopes.Culture, "remove_culture_tradition", unchecked},
	{scopes.Culture, "add_innovation", unchecked},
	{scopes.Culture, "add_random_innovation", unchecked},
	{scopes.Culture, "change_cultural_acceptance", unchecked},
	{scopes.Culture, "set_culture_pillar", unchecked},

	// dynasties
	{scopes.Dynasty, "add_dynasty_prestige", scriptValue},
	{scopes.Dynasty, "add_dynasty_prestige_level", integer},
	{scopes.Dynasty, "add_dynasty_perk", unchecked},
	{scopes.Dynasty, "add_dynasty_modifier", unchecked},
	{scopes.DynastyHouse, "add_house_modifier", unchecked},
	{scopes.DynastyHouse, "set_house_name", unchecked},

	// wars, schemes, secrets, activities, factions
	{scopes.War, "end_war", unchecked},
	{scopes.War, "add_attacker", target(scopes.Character)},
	{scopes.War, "add_defender", target(scopes.Character)},
	{scopes.War, "remove_participant", target(scopes.Character)},
	{scopes.War, "set_called_to", target(scopes.Character)},
	{scopes.Scheme, "add_scheme_progress", scriptValue},
	{scopes.Scheme, "add_scheme_modifier", unchecked},
	{scopes.Scheme, "end_scheme", yes},
	{scopes.Scheme, "expose_scheme", yes},
	{scopes.Secret, "expose_secret", target(scopes.Character)},
	{scopes.Secret, "reveal_to", target(scopes.Character)},
	{scopes.Secret, "remove_secret", yes},
	{scopes.Secret, "disable_exposure_by", target(scopes.Character)},
	{scopes.Activity, "add_activity_log_entry", unchecked},
	{scopes.Activity, "progress_activity_phase", yes},
	{scopes.Faction, "add_faction_discontent", scriptValue},
	{scopes.Faction, "faction_remove_member", target(scopes.Character)},
	{scopes.Faction, "destroy_faction", yes},
	{scopes.Army, "add_troops", unchecked},
	{scopes.StoryCycle, "end_story", yes},
	{scopes.StoryCycle, "set_story_flag", unchecked},
	{scopes.Artifact, "add_durability", scriptValue},
	{scopes.Artifact, "set_owner", unchecked},
	{scopes.Artifact, "destroy_artifact", target(scopes.Artifact)},
	{scopes.Inspiration, "invest_gold", scriptValue},
	{scopes.Struggle, "change_struggle_phase", unchecked},
	{scopes.MercenaryCompany, "set_mercenary_company_owner", target(scopes.Character)},
	{scopes.HolyOrder, "add_holy_order_modifier", unchecked},
}

var effects map[string]effectEntry

func init() {
	effects = make(map[string]effectEntry, len(effectTable))
	for _, e := range effectTable {
		effects[e.name] = e
	}
}

// ScopeEffect looks up a built-in effect by exact keyword and returns the
// scopes it runs in and its argument contract.
func ScopeEffect(name string) (scopes.Scopes, Effect, bool) {
	e, ok := effects[name]
	if !ok {
		return 0, Effect{}, false
	}
	return e.in, e.effect, true
}
