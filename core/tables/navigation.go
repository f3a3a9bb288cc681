package tables

import (
	"strings"

	"github.com/artpar/tiger/domain/scopes"
)

type transition struct {
	in, out scopes.Scopes
	name    string
}

// Scope-to-scope links usable as chain parts and as effect keys.
var transitionTable = []transition{
	{scopes.Character, scopes.Character, "liege"},
	{scopes.Character, scopes.Character, "liege_or_court_owner"},
	{scopes.Character, scopes.Character, "top_liege"},
	{scopes.Character, scopes.Character, "father"},
	{scopes.Character, scopes.Character, "mother"},
	{scopes.Character, scopes.Character, "real_father"},
	{scopes.Character, scopes.Character, "primary_spouse"},
	{scopes.Character, scopes.Character, "betrothed"},
	{scopes.Character, scopes.Character, "employer"},
	{scopes.Character, scopes.Character, "host"},
	{scopes.Character, scopes.Character, "killer"},
	{scopes.Character, scopes.Character, "designated_heir"},
	{scopes.Character, scopes.Character, "player_heir"},
	{scopes.Character, scopes.Character, "primary_heir"},
	{scopes.Character, scopes.Character, "imprisoner"},
	{scopes.Character, scopes.Character, "matchmaker"},
	{scopes.Character, scopes.Character, "court_owner"},
	{scopes.Character, scopes.Culture, "culture"},
	{scopes.Character, scopes.Faith, "faith"},
	{scopes.Character, scopes.Dynasty, "dynasty"},
	{scopes.Character, scopes.DynastyHouse, "house"},
	{scopes.Character, scopes.Title, "primary_title"},
	{scopes.Character, scopes.Title, "capital_county"},
	{scopes.Character, scopes.Title, "realm_capital"},
	{scopes.Character, scopes.Province, "capital_province"},
	{scopes.Character, scopes.Province, "location"},
	{scopes.Character, scopes.War, "primary_war"},
	{scopes.Character, scopes.Activity, "involved_activity"},
	{scopes.Character, scopes.Faction, "joined_faction"},
	{scopes.Character, scopes.Inspiration, "inspiration"},
	{scopes.Character, scopes.Religion, "religion"},
	{scopes.Character | scopes.Title | scopes.Dynasty | scopes.DynastyHouse, scopes.CoatOfArms, "coat_of_arms"},

	{scopes.Title, scopes.Character, "holder"},
	{scopes.Title, scopes.Character, "current_heir"},
	{scopes.Title, scopes.Character, "previous_holder"},
	{scopes.Title, scopes.Title, "de_jure_liege"},
	{scopes.Title, scopes.Title, "de_facto_liege"},
	{scopes.Title, scopes.Title, "title_capital_county"},
	{scopes.Title, scopes.Province, "title_province"},
	{scopes.Title | scopes.Province, scopes.Title, "county"},
	{scopes.Title | scopes.Province, scopes.Title, "duchy"},
	{scopes.Title | scopes.Province, scopes.Title, "kingdom"},
	{scopes.Title | scopes.Province, scopes.Title, "empire"},
	{scopes.Title | scopes.Province, scopes.Culture, "culture"},
	{scopes.Title | scopes.Province, scopes.Faith, "faith"},

	{scopes.Province, scopes.Title, "barony"},
	{scopes.Province, scopes.Character, "barony_controller"},
	{scopes.Province, scopes.Character, "province_owner"},

	{scopes.Faith, scopes.Religion, "religion"},
	{scopes.Faith, scopes.Character, "religious_head"},
	{scopes.Faith, scopes.Title, "religious_head_title"},
	{scopes.Culture, scopes.Culture, "parent_culture"},
	{scopes.Culture, scopes.CulturePillar, "culture_head"},
	{scopes.DynastyHouse, scopes.Dynasty, "dynasty"},
	{scopes.DynastyHouse | scopes.Dynasty, scopes.Character, "house_head"},
	{scopes.Dynasty, scopes.Character, "dynast"},

	{scopes.War, scopes.Character, "primary_attacker"},
	{scopes.War, scopes.Character, "primary_defender"},
	{scopes.War, scopes.CasusBelli, "casus_belli"},
	{scopes.Scheme, scopes.Character, "scheme_owner"},
	{scopes.Scheme, scopes.Character, "scheme_target"},
	{scopes.Secret, scopes.Character, "secret_owner"},
	{scopes.Secret, scopes.Character, "secret_target"},
	{scopes.Faction, scopes.Character, "faction_leader"},
	{scopes.Faction, scopes.Title, "faction_target"},
	{scopes.Activity, scopes.Character, "activity_owner"},
	{scopes.Activity, scopes.Province, "activity_location"},
	{scopes.Army, scopes.Character, "army_commander"},
	{scopes.Army, scopes.Character, "army_owner"},
	{scopes.Army, scopes.Province, "army_location"},
	{scopes.Artifact, scopes.Character, "artifact_owner"},
	{scopes.Artifact, scopes.Character, "artifact_creator"},
	{scopes.Inspiration, scopes.Character, "inspiration_owner"},
	{scopes.StoryCycle, scopes.Character, "story_owner"},
	{scopes.CasusBelli, scopes.Character, "claimant"},
	{scopes.Struggle, scopes.Culture, "struggle_culture"},

	// Usable from anywhere; these only make sense as the first part.
	{scopes.None, scopes.Character, "dummy_male"},
	{scopes.None, scopes.Character, "dummy_female"},
}

type iterator struct {
	in, out scopes.Scopes
}

// Iterator bases; each gives rise to any_, every_, ordered_ and random_.
var iteratorTable = map[string]iterator{
	"courtier":                {scopes.Character, scopes.Character},
	"courtier_or_guest":       {scopes.Character, scopes.Character},
	"pool_guest":              {scopes.Character, scopes.Character},
	"child":                   {scopes.Character, scopes.Character},
	"sibling":                 {scopes.Character, scopes.Character},
	"spouse":                  {scopes.Character, scopes.Character},
	"consort":                 {scopes.Character, scopes.Character},
	"vassal":                  {scopes.Character, scopes.Character},
	"vassal_or_below":         {scopes.Character, scopes.Character},
	"close_family_member":     {scopes.Character, scopes.Character},
	"relation":                {scopes.Character, scopes.Character},
	"ally":                    {scopes.Character, scopes.Character},
	"knight":                  {scopes.Character, scopes.Character},
	"prisoner":                {scopes.Character, scopes.Character},
	"heir":                    {scopes.Character, scopes.Character},
	"court_position_holder":   {scopes.Character, scopes.Character},
	"held_title":              {scopes.Character, scopes.Title},
	"claim":                   {scopes.Character, scopes.Title},
	"directly_owned_province": {scopes.Character, scopes.Province},
	"realm_province":          {scopes.Character, scopes.Province},
	"realm_county":            {scopes.Character, scopes.Title},
	"character_war":           {scopes.Character, scopes.War},
	"owned_story":             {scopes.Character, scopes.StoryCycle},
	"scheme":                  {scopes.Character, scopes.Scheme},
	"secret":                  {scopes.Character, scopes.Secret},
	"character_artifact":      {scopes.Character, scopes.Artifact},
	"character_struggle":      {scopes.Character, scopes.Struggle},
	"in_de_jure_hierarchy":    {scopes.Title, scopes.Title},
	"in_de_facto_hierarchy":   {scopes.Title, scopes.Title},
	"de_jure_county_holder":   {scopes.Title, scopes.Character},
	"county_province":         {scopes.Title, scopes.Province},
	"pool_character":          {scopes.Province, scopes.Character},
	"character_in_location":   {scopes.Province, scopes.Character},
	"war_participant":         {scopes.War, scopes.Character},
	"war_attacker":            {scopes.War, scopes.Character},
	"war_defender":            {scopes.War, scopes.Character},
	"faction_member":          {scopes.Faction, scopes.Character},
	"dynasty_member":          {scopes.Dynasty, scopes.Character},
	"house_member":            {scopes.DynastyHouse, scopes.Character},
	"faith_holy_order":        {scopes.Faith, scopes.HolyOrder},
	"attending_character":     {scopes.Activity, scopes.Character},
	"in_list":                 {scopes.None, scopes.All},
	"in_global_list":          {scopes.None, scopes.All},
	"in_local_list":           {scopes.None, scopes.All},
	"living_character":        {scopes.None, scopes.Character},
	"ruler":                   {scopes.None, scopes.Character},
	"independent_ruler":       {scopes.None, scopes.Character},
	"county_in_region":        {scopes.None, scopes.Title},
	"religion_global":         {scopes.None, scopes.Religion},
	"culture_global":          {scopes.None, scopes.Culture},
	"mercenary_company":       {scopes.None, scopes.MercenaryCompany},
}

var transitions map[string][]transition

func init() {
	transitions = make(map[string][]transition)
	for _, t := range transitionTable {
		transitions[t.name] = append(transitions[t.name], t)
	}
}

// ScopeToScope looks up a scope transition. Some names exist for several
// input categories; the result merges them.
func ScopeToScope(name string) (in, out scopes.Scopes, ok bool) {
	ts, ok := transitions[name]
	if !ok {
		return 0, 0, false
	}
	for _, t := range ts {
		in = in.Union(t.in)
		out = out.Union(t.out)
	}
	return in, out, true
}

// ScopeIterator looks up an iterator by its base name, without the
// any_/every_/ordered_/random_ kind.
func ScopeIterator(base string) (in, out scopes.Scopes, ok bool) {
	it, ok := iteratorTable[base]
	return it.in, it.out, ok
}

// IteratorKinds are the list prefixes an iterator name may start with.
var IteratorKinds = []string{"any", "every", "ordered", "random"}

// SplitIterator splits "every_courtier" into ("every", "courtier").
func SplitIterator(name string) (kind, base string, ok bool) {
	kind, base, ok = strings.Cut(name, "_")
	if !ok {
		return "", "", false
	}
	for _, k := range IteratorKinds {
		if k == kind {
			return kind, base, true
		}
	}
	return "", "", false
}

type prefix struct {
	in, out scopes.Scopes
}

// Chain prefixes of the form `prefix:argument`.
var prefixTable = map[string]prefix{
	"scope":      {scopes.None, scopes.All},
	"title":      {scopes.None, scopes.Title},
	"culture":    {scopes.None, scopes.Culture},
	"faith":      {scopes.None, scopes.Faith},
	"religion":   {scopes.None, scopes.Religion},
	"character":  {scopes.None, scopes.Character},
	"dynasty":    {scopes.None, scopes.Dynasty},
	"house":      {scopes.None, scopes.DynastyHouse},
	"province":   {scopes.None, scopes.Province},
	"trait":      {scopes.None, scopes.Trait},
	"event_id":   {scopes.None, scopes.Value},
	"flag":       {scopes.None, scopes.Flag},
	"global_var": {scopes.None, scopes.All},
	"local_var":  {scopes.None, scopes.All},
	"var":        {scopes.All, scopes.All},
	"cp":         {scopes.Character, scopes.Character},
}

// ScopePrefix looks up a chain prefix by name, without the colon.
func ScopePrefix(name string) (in, out scopes.Scopes, ok bool) {
	p, ok := prefixTable[name]
	return p.in, p.out, ok
}
