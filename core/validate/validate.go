// Package validate holds checks shared by the trigger and effect walkers.
package validate

import (
	"github.com/artpar/tiger/core/scopecontext"
	"github.com/artpar/tiger/core/tables"
	"github.com/artpar/tiger/domain/item"
	"github.com/artpar/tiger/domain/report"
	"github.com/artpar/tiger/domain/scopes"
	"github.com/artpar/tiger/domain/token"
	"github.com/artpar/tiger/ports"
)

// ListType says whether a block is the body of an iterator, and which kind.
type ListType int

const (
	ListNone ListType = iota
	ListAny
	ListEvery
	ListOrdered
	ListRandom
)

var listTypeNames = []string{"", "any", "every", "ordered", "random"}

// String returns the iterator prefix, or "" for ListNone.
func (lt ListType) String() string {
	if int(lt) >= 0 && int(lt) < len(listTypeNames) {
		return listTypeNames[lt]
	}
	return ""
}

// ParseListType maps an iterator prefix to its ListType.
func ParseListType(s string) (ListType, bool) {
	for i, name := range listTypeNames[1:] {
		if name == s {
			return ListType(i + 1), true
		}
	}
	return ListNone, false
}

// VerifyExists reports an error unless name is a defined item of kind.
func VerifyExists(data ports.ItemIndex, sink report.Sink, kind item.Kind, name token.Token) bool {
	if data.ItemExists(kind, name.Text) {
		return true
	}
	report.Errorf(sink, name.Loc, report.KeyMissingItem, "%s `%s` not defined in %s", kind, name.Text, kind.Path())
	return false
}

var prefixItems = map[string]item.Kind{
	"title":     item.Title,
	"culture":   item.Culture,
	"faith":     item.Faith,
	"religion":  item.Religion,
	"character": item.Character,
	"dynasty":   item.Dynasty,
	"house":     item.House,
	"province":  item.Province,
	"trait":     item.Trait,
	"event_id":  item.Event,
}

// PrefixReference checks the argument of a `prefix:argument` chain part
// for prefixes that name database items.
func PrefixReference(prefix, arg token.Token, data ports.ItemIndex, sink report.Sink) {
	if kind, ok := prefixItems[prefix.Text]; ok {
		VerifyExists(data, sink, kind, arg)
	}
}

// ChainPart applies one part of a dotted scope chain to sc, which must
// have an open builder frame. It returns false, after reporting, when
// the part is not recognized; the caller should then abandon the chain.
func ChainPart(part token.Token, first bool, data ports.ItemIndex, sc *scopecontext.ScopeContext) bool {
	sink := sc.Sink()

	if pfx, arg, ok := part.SplitOnce(':'); ok {
		in, out, known := tables.ScopePrefix(pfx.Text)
		if !known {
			report.Errorf(sink, pfx.Loc, report.KeyUnknown, "unknown prefix `%s:`", pfx.Text)
			return false
		}
		if in == scopes.None && !first {
			report.Warnf(sink, part.Loc, report.KeyValidation, "`%s:` makes no sense except as first part", pfx.Text)
		}
		sc.Expect(in, pfx)
		if pfx.Is("scope") {
			if saved, ok := sc.NameScopes(arg.Text); ok {
				out = saved
			}
		}
		PrefixReference(pfx, arg, data, sink)
		sc.Replace(out, part)
		return true
	}

	switch {
	case part.Lowercase("root"):
		if !first {
			report.Warnf(sink, part.Loc, report.KeyValidation, "`%s` makes no sense except as first part", part.Text)
		}
		sc.ReplaceRoot()
		return true
	case part.Lowercase("prev"):
		if !first {
			report.Warnf(sink, part.Loc, report.KeyValidation, "`%s` makes no sense except as first part", part.Text)
		}
		sc.ReplacePrev(part)
		return true
	case part.Lowercase("this"):
		if !first {
			report.Warnf(sink, part.Loc, report.KeyValidation, "`%s` makes no sense except as first part", part.Text)
		}
		sc.ReplaceThis()
		return true
	}

	if in, out, ok := tables.ScopeToScope(part.Text); ok {
		if in == scopes.None && !first {
			report.Warnf(sink, part.Loc, report.KeyValidation, "`%s` makes no sense except as first part", part.Text)
		}
		sc.Expect(in, part)
		sc.Replace(out, part)
		return true
	}

	report.Errorf(sink, part.Loc, report.KeyUnknown, "unknown token `%s`", part.Text)
	return false
}
