// Package item enumerates the kinds of named database items a script can
// refer to.
package item

// Kind is a category of named item.
type Kind int

const (
	Localization Kind = iota
	ScriptedEffect
	ScriptedTrigger
	ScriptValue
	Trait
	Culture
	Faith
	Religion
	Title
	Event
	Dynasty
	House
	Province
	Character
	Relation
	CourtPosition
	Region
)

var kindNames = []string{
	"localization", "scripted_effect", "scripted_trigger", "script_value",
	"trait", "culture", "faith", "religion", "title", "event", "dynasty",
	"house", "province", "character", "relation", "court_position", "region",
}

// Kinds returns every item kind.
func Kinds() []Kind {
	kinds := make([]Kind, len(kindNames))
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// String returns the snake_case kind name.
func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(s string) (Kind, bool) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), true
		}
	}
	return 0, false
}

// Path returns where items of this kind are defined, for messages.
func (k Kind) Path() string {
	switch k {
	case Localization:
		return "localization/"
	case ScriptedEffect:
		return "common/scripted_effects/"
	case ScriptedTrigger:
		return "common/scripted_triggers/"
	case ScriptValue:
		return "common/script_values/"
	case Trait:
		return "common/traits/"
	case Culture:
		return "common/culture/cultures/"
	case Faith, Religion:
		return "common/religion/religions/"
	case Title:
		return "common/landed_titles/"
	case Event:
		return "events/"
	case Dynasty:
		return "common/dynasties/"
	case House:
		return "common/dynasty_houses/"
	case Province:
		return "map_data/definition.csv"
	case Character:
		return "history/characters/"
	case Relation:
		return "common/scripted_relations/"
	case CourtPosition:
		return "common/court_positions/types/"
	case Region:
		return "map_data/geographical_regions/"
	}
	return ""
}

// Item is one named definition found while loading.
type Item struct {
	Kind    Kind
	Name    string
	Path    string
	Line    int
	Vanilla bool
}
