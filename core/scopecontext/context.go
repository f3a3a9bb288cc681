// Package scopecontext tracks the inferred subject type while a script
// block is walked. Frames are opened and closed in strict LIFO order; every
// Open* call must be matched by exactly one Close on every return path.
package scopecontext

import (
	"github.com/artpar/tiger/domain/report"
	"github.com/artpar/tiger/domain/scopes"
	"github.com/artpar/tiger/domain/token"
)

// DefaultMaxDepth bounds nested block descent.
const DefaultMaxDepth = 256

type entry struct {
	scopes scopes.Scopes
	token  token.Token
}

type frame struct {
	saved   entry
	prevLen int
	builder bool
}

type named struct {
	scopes scopes.Scopes
	depth  int
}

// ScopeContext is the mutable type-state for one validation call tree.
// It is not safe for concurrent use.
type ScopeContext struct {
	root     entry
	cur      entry
	prev     []entry
	frames   []frame
	names    map[string]named
	sink     report.Sink
	depth    int
	maxDepth int
}

// New creates a context whose root and current subject are root.
func New(root scopes.Scopes, at token.Token, sink report.Sink) *ScopeContext {
	e := entry{scopes: root, token: at}
	return &ScopeContext{
		root:     e,
		cur:      e,
		names:    make(map[string]named),
		sink:     sink,
		maxDepth: DefaultMaxDepth,
	}
}

// SetMaxDepth changes the nesting ceiling. Values below 1 are ignored.
func (sc *ScopeContext) SetMaxDepth(n int) {
	if n > 0 {
		sc.maxDepth = n
	}
}

// Sink returns where this context reports findings.
func (sc *ScopeContext) Sink() report.Sink {
	return sc.sink
}

// Scopes returns the current subject's possible categories.
func (sc *ScopeContext) Scopes() scopes.Scopes {
	return sc.cur.scopes
}

// Root returns the root subject's categories.
func (sc *ScopeContext) Root() scopes.Scopes {
	return sc.root.scopes
}

// OpenFrames returns how many frames are currently open.
func (sc *ScopeContext) OpenFrames() int {
	return len(sc.frames)
}

// Expect narrows the current subject to required. An empty intersection
// is reported and leaves the subject unchanged, so one mistake does not
// cascade into many.
func (sc *ScopeContext) Expect(required scopes.Scopes, at token.Token) {
	if required == scopes.None || required.Contains(scopes.All) {
		return
	}
	narrowed := sc.cur.scopes.Intersect(required)
	if narrowed.IsEmpty() {
		if sc.cur.token.Loc.Line != 0 {
			report.Warnf(sc.sink, at.Loc, report.KeyScopes,
				"wrong scope type: `%s` is for %s but scope seems to be %s (deduced from `%s` at %s)",
				at.Text, required, sc.cur.scopes, sc.cur.token.Text, sc.cur.token.Loc)
		} else {
			report.Warnf(sc.sink, at.Loc, report.KeyScopes,
				"wrong scope type: `%s` is for %s but scope seems to be %s",
				at.Text, required, sc.cur.scopes)
		}
		return
	}
	if narrowed != sc.cur.scopes {
		sc.cur = entry{scopes: narrowed, token: at}
	}
}

// Replace sets the current subject outright, discarding what was known.
func (sc *ScopeContext) Replace(s scopes.Scopes, at token.Token) {
	sc.cur = entry{scopes: s, token: at}
}

// ReplaceRoot switches the current subject to the root.
func (sc *ScopeContext) ReplaceRoot() {
	sc.cur = sc.root
}

// ReplaceThis switches to the subject the innermost frame started from.
func (sc *ScopeContext) ReplaceThis() {
	if n := len(sc.frames); n > 0 && sc.frames[n-1].builder {
		sc.cur = sc.frames[n-1].saved
	}
}

// ReplacePrev switches to the subject before the current one.
func (sc *ScopeContext) ReplacePrev(at token.Token) {
	if len(sc.prev) == 0 {
		report.Warnf(sc.sink, at.Loc, report.KeyScopes, "`%s` is not available here: there is no previous scope", at.Text)
		return
	}
	sc.cur = sc.prev[len(sc.prev)-1]
}

// OpenScope enters a nested subject, such as the items of an iterator.
func (sc *ScopeContext) OpenScope(s scopes.Scopes, at token.Token) {
	sc.frames = append(sc.frames, frame{saved: sc.cur, prevLen: len(sc.prev)})
	sc.prev = append(sc.prev, sc.cur)
	sc.cur = entry{scopes: s, token: at}
}

// OpenBuilder starts evaluating a dotted chain from the current subject.
func (sc *ScopeContext) OpenBuilder() {
	sc.frames = append(sc.frames, frame{saved: sc.cur, prevLen: len(sc.prev), builder: true})
}

// EnterChain makes the subject a resolved chain started from the
// previous subject, so `prev` inside the chain's block refers to it. It
// must follow OpenBuilder; the matching Close undoes it.
func (sc *ScopeContext) EnterChain() {
	n := len(sc.frames)
	if n == 0 || !sc.frames[n-1].builder {
		panic("scopecontext: EnterChain without OpenBuilder")
	}
	sc.prev = append(sc.prev, sc.frames[n-1].saved)
}

// Close restores the subject saved by the matching Open call.
func (sc *ScopeContext) Close() {
	n := len(sc.frames)
	if n == 0 {
		panic("scopecontext: Close without matching Open")
	}
	f := sc.frames[n-1]
	sc.frames = sc.frames[:n-1]
	sc.cur = f.saved
	sc.prev = sc.prev[:f.prevLen]

	for name, nm := range sc.names {
		if nm.depth > len(sc.frames) {
			delete(sc.names, name)
		}
	}
}

// DefineName saves the current subject under name for `scope:name`.
func (sc *ScopeContext) DefineName(name string) {
	sc.names[name] = named{scopes: sc.cur.scopes, depth: len(sc.frames)}
}

// NameScopes returns what was saved under name, if anything.
func (sc *ScopeContext) NameScopes(name string) (scopes.Scopes, bool) {
	nm, ok := sc.names[name]
	return nm.scopes, ok
}

// Enter records one more level of block nesting. It reports and returns
// false once the ceiling is reached; the caller must then skip the block
// and must not call Leave.
func (sc *ScopeContext) Enter(at token.Loc) bool {
	if sc.depth >= sc.maxDepth {
		report.Errorf(sc.sink, at, report.KeyDepth, "nesting too deep: blocks may be nested at most %d levels", sc.maxDepth)
		return false
	}
	sc.depth++
	return true
}

// Leave undoes one Enter.
func (sc *ScopeContext) Leave() {
	sc.depth--
}
