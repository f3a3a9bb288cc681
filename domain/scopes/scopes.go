// Package scopes models the set of subject categories a script value may
// currently refer to. A Scopes value is a bitset; narrowing always happens
// by intersection, so it can only shrink.
package scopes

import (
	"math/bits"
	"strings"
)

// Scopes is a set of subject categories.
type Scopes uint64

const (
	// None is the wildcard "unconstrained" flag. A requirement of None
	// accepts any subject.
	None Scopes = 1 << iota
	Value
	Bool
	Flag
	Character
	Province
	Army
	Combat
	CombatSide
	Title
	GhwTarget
	Faith
	Religion
	Culture
	CultureTradition
	CulturePillar
	Dynasty
	DynastyHouse
	War
	CasusBelli
	Faction
	Scheme
	Secret
	Activity
	TitleAndVassalChange
	StoryCycle
	Artifact
	Inspiration
	CouncilTask
	MercenaryCompany
	HolyOrder
	CoatOfArms
	Struggle
	Decision
	CourtPosition
	Trait

	sentinel
)

// All is every category except the None wildcard.
const All = (sentinel - 1) &^ None

// PrimaryCategories excludes the Value, Bool and Flag pseudo-categories.
const PrimaryCategories = All &^ (Value | Bool | Flag)

var names = []string{
	"none", "value", "bool", "flag", "character", "province", "army",
	"combat", "combat_side", "landed_title", "great_holy_war", "faith",
	"religion", "culture", "culture_tradition", "culture_pillar", "dynasty",
	"dynasty_house", "war", "casus_belli", "faction", "scheme", "secret",
	"activity", "title_and_vassal_change", "story_cycle", "artifact",
	"inspiration", "council_task", "mercenary_company", "holy_order",
	"coat_of_arms", "struggle", "decision", "court_position", "trait",
}

// Union returns the categories in either set.
func (s Scopes) Union(o Scopes) Scopes {
	return s | o
}

// Intersect returns the categories in both sets.
func (s Scopes) Intersect(o Scopes) Scopes {
	return s & o
}

// Intersects reports whether the sets share a category.
func (s Scopes) Intersects(o Scopes) bool {
	return s&o != 0
}

// IsEmpty reports whether the set has no categories.
func (s Scopes) IsEmpty() bool {
	return s == 0
}

// Contains reports whether every category of o is in s.
func (s Scopes) Contains(o Scopes) bool {
	return s&o == o
}

// Count returns the number of categories in the set.
func (s Scopes) Count() int {
	return bits.OnesCount64(uint64(s))
}

// String lists the categories, e.g. "character or landed_title".
func (s Scopes) String() string {
	if s == All {
		return "any scope"
	}
	if s == 0 {
		return "no scope"
	}
	var parts []string
	for i, name := range names {
		if s&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, " or ")
}

// Parse maps a category name to its single-bit Scopes.
func Parse(name string) (Scopes, bool) {
	for i, n := range names {
		if n == name {
			return Scopes(1) << i, true
		}
	}
	return 0, false
}
