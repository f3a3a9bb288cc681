package tables

import (
	"github.com/artpar/tiger/domain/item"
	"github.com/artpar/tiger/domain/scopes"
)

// TriggerKind selects how a trigger's value is checked.
type TriggerKind int

const (
	// TriggerBool takes yes, no, or a boolean target.
	TriggerBool TriggerKind = iota
	// TriggerCompareValue takes a numeric expression and any comparator.
	TriggerCompareValue
	// TriggerScope takes a target resolving to Trigger.Scopes.
	TriggerScope
	// TriggerItem takes the name of an existing item of Trigger.Item.
	TriggerItem
	// TriggerUnchecked is accepted as-is.
	TriggerUnchecked
	// TriggerControl takes a block of further triggers.
	TriggerControl
)

// Trigger is a trigger's argument contract.
type Trigger struct {
	Kind   TriggerKind
	Scopes scopes.Scopes
	Item   item.Kind
}

var (
	tBool    = Trigger{Kind: TriggerBool}
	tCompare = Trigger{Kind: TriggerCompareValue}
	tAny     = Trigger{Kind: TriggerUnchecked}
	tControl = Trigger{Kind: TriggerControl}
)

func tTarget(s scopes.Scopes) Trigger {
	return Trigger{Kind: TriggerScope, Scopes: s}
}

func tItem(k item.Kind) Trigger {
	return Trigger{Kind: TriggerItem, Item: k}
}

type triggerEntry struct {
	in      scopes.Scopes
	name    string
	trigger Trigger
}

var triggerTable = []triggerEntry{
	{scopes.None, "always", tBool},
	{scopes.None, "and", tControl},
	{scopes.None, "or", tControl},
	{scopes.None, "not", tControl},
	{scopes.None, "nor", tControl},
	{scopes.None, "nand", tControl},
	{scopes.None, "all_false", tControl},
	{scopes.None, "any_false", tControl},
	{scopes.None, "trigger_if", tControl},
	{scopes.None, "trigger_else_if", tControl},
	{scopes.None, "trigger_else", tControl},
	{scopes.None, "calc_true_if", tControl},
	{scopes.None, "custom_description", tControl},
	{scopes.None, "custom_tooltip", tControl},
	{scopes.None, "exists", tAny},
	{scopes.None, "has_global_variable", tAny},
	{scopes.None, "has_local_variable", tAny},
	{scopes.None, "has_game_rule", tAny},
	{scopes.None, "current_year", tCompare},
	{scopes.None, "is_target_in_list", tAny},
	{scopes.None, "list_size", tAny},
	{scopes.None, "save_temporary_scope_as", tAny},
	{scopes.None, "debug_only", tBool},
	{scopes.All, "has_variable", tAny},
	{scopes.All, "has_variable_list", tAny},

	{scopes.Character, "is_alive", tBool},
	{scopes.Character, "is_ai", tBool},
	{scopes.Character, "is_adult", tBool},
	{scopes.Character, "is_female", tBool},
	{scopes.Character, "is_male", tBool},
	{scopes.Character, "is_ruler", tBool},
	{scopes.Character, "is_landed", tBool},
	{scopes.Character, "is_independent_ruler", tBool},
	{scopes.Character, "is_imprisoned", tBool},
	{scopes.Character, "is_at_war", tBool},
	{scopes.Character, "is_married", tBool},
	{scopes.Character, "is_pregnant", tBool},
	{scopes.Character, "is_lowborn", tBool},
	{scopes.Character, "is_courtier", tBool},
	{scopes.Character, "is_playable_character", tBool},
	{scopes.Character, "age", tCompare},
	{scopes.Character, "gold", tCompare},
	{scopes.Character, "prestige", tCompare},
	{scopes.Character, "prestige_level", tCompare},
	{scopes.Character, "piety", tCompare},
	{scopes.Character, "piety_level", tCompare},
	{scopes.Character, "dread", tCompare},
	{scopes.Character, "stress", tCompare},
	{scopes.Character, "diplomacy", tCompare},
	{scopes.Character, "martial", tCompare},
	{scopes.Character, "stewardship", tCompare},
	{scopes.Character, "intrigue", tCompare},
	{scopes.Character, "learning", tCompare},
	{scopes.Character, "prowess", tCompare},
	{scopes.Character, "highest_held_title_tier", tCompare},
	{scopes.Character, "num_of_relation_friend", tCompare},
	{scopes.Character, "has_trait", tItem(item.Trait)},
	{scopes.Character, "has_culture", tTarget(scopes.Culture)},
	{scopes.Character, "has_faith", tTarget(scopes.Faith)},
	{scopes.Character, "has_religion", tTarget(scopes.Religion)},
	{scopes.Character, "has_character_flag", tAny},
	{scopes.Character, "has_character_modifier", tAny},
	{scopes.Character, "has_relation_friend", tTarget(scopes.Character)},
	{scopes.Character, "has_relation_rival", tTarget(scopes.Character)},
	{scopes.Character, "is_close_family_of", tTarget(scopes.Character)},
	{scopes.Character, "is_child_of", tTarget(scopes.Character)},
	{scopes.Character, "is_spouse_of", tTarget(scopes.Character)},
	{scopes.Character, "is_vassal_of", tTarget(scopes.Character)},
	{scopes.Character, "is_liege_or_above_of", tTarget(scopes.Character)},
	{scopes.Character, "has_hook", tTarget(scopes.Character)},
	{scopes.Character, "has_claim_on", tTarget(scopes.Title)},
	{scopes.Character, "has_title", tTarget(scopes.Title)},
	{scopes.Character, "opinion", tAny},
	{scopes.Character, "has_perk", tAny},
	{scopes.Character, "has_focus", tAny},
	{scopes.Character, "has_court_position", tItem(item.CourtPosition)},
	{scopes.Character, "can_marry_character", tTarget(scopes.Character)},

	{scopes.Title, "tier", tCompare},
	{scopes.Title, "development_level", tCompare},
	{scopes.Title, "county_control", tCompare},
	{scopes.Title, "is_titular", tBool},
	{scopes.Title, "is_landless_type_title", tBool},
	{scopes.Title, "has_holder", tBool},
	{scopes.Title, "is_de_jure_liege_or_above_target", tTarget(scopes.Title)},
	{scopes.Title, "has_county_modifier", tAny},
	{scopes.Province, "has_holding", tBool},
	{scopes.Province, "has_building", tAny},
	{scopes.Province, "geographical_region", tItem(item.Region)},
	{scopes.Province, "terrain", tAny},
	{scopes.Province, "is_coastal", tBool},
	{scopes.Faith, "fervor", tCompare},
	{scopes.Faith, "has_doctrine", tAny},
	{scopes.Faith, "religion_tag", tAny},
	{scopes.Culture, "has_cultural_pillar", tAny},
	{scopes.Culture, "has_innovation", tAny},
	{scopes.Culture, "has_same_culture_heritage", tTarget(scopes.Culture)},
	{scopes.Dynasty, "dynasty_prestige", tCompare},
	{scopes.Dynasty, "dynasty_prestige_level", tCompare},
	{scopes.Dynasty, "has_dynasty_perk", tAny},
	{scopes.War, "is_civil_war", tBool},
	{scopes.War, "war_days", tCompare},
	{scopes.War, "attacker_war_score", tCompare},
	{scopes.Scheme, "scheme_progress", tCompare},
	{scopes.Scheme, "is_scheme_exposed", tBool},
	{scopes.Secret, "is_known_by", tTarget(scopes.Character)},
	{scopes.Secret, "secret_type", tAny},
	{scopes.Faction, "faction_discontent", tCompare},
	{scopes.Artifact, "artifact_durability", tCompare},
	{scopes.Character | scopes.Title | scopes.Province, "is_in_region", tItem(item.Region)},
}

var triggers map[string]triggerEntry

func init() {
	triggers = make(map[string]triggerEntry, len(triggerTable))
	for _, t := range triggerTable {
		triggers[t.name] = t
	}
}

// ScopeTrigger looks up a built-in trigger by exact keyword.
func ScopeTrigger(name string) (scopes.Scopes, Trigger, bool) {
	t, ok := triggers[name]
	if !ok {
		return 0, Trigger{}, false
	}
	return t.in, t.trigger, true
}
