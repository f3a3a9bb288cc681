// Package token defines source-located strings produced by the script parser.
package token

import (
	"fmt"
	"strconv"
	"strings"
)

// FileKind tells whether a file belongs to the base game or to the mod.
type FileKind int

const (
	Vanilla FileKind = iota
	Mod
)

// String returns the tag shown in diagnostics.
func (k FileKind) String() string {
	if k == Mod {
		return "MOD"
	}
	return "CK3"
}

// Loc is a position in a script file. Line and Column are 1-based;
// a zero Line means the location refers to the whole file.
type Loc struct {
	Path     string   // path relative to the game or mod root
	Fullpath string   // absolute path on disk
	Kind     FileKind // vanilla or mod
	Line     int
	Column   int
}

// String formats the location as path:line:column.
func (l Loc) String() string {
	if l.Line == 0 {
		return l.Path
	}
	return fmt.Sprintf("%s:%d:%d", l.Path, l.Line, l.Column)
}

// Advance returns the location n columns further on the same line.
func (l Loc) Advance(n int) Loc {
	l.Column += n
	return l
}

// Token is an owned string together with where it came from.
type Token struct {
	Text string
	Loc  Loc
}

// New creates a token.
func New(text string, loc Loc) Token {
	return Token{Text: text, Loc: loc}
}

// String returns the token text.
func (t Token) String() string {
	return t.Text
}

// Is reports whether the token text equals s exactly.
func (t Token) Is(s string) bool {
	return t.Text == s
}

// Lowercase reports whether the token equals s ignoring ASCII case.
func (t Token) Lowercase(s string) bool {
	return strings.EqualFold(t.Text, s)
}

// SplitOnce splits at the first occurrence of sep. The second token's
// location points just past the separator.
func (t Token) SplitOnce(sep byte) (Token, Token, bool) {
	i := strings.IndexByte(t.Text, sep)
	if i < 0 {
		return Token{}, Token{}, false
	}
	first := Token{Text: t.Text[:i], Loc: t.Loc}
	second := Token{Text: t.Text[i+1:], Loc: t.Loc.Advance(i + 1)}
	return first, second, true
}

// Split splits the token on every sep, keeping per-part locations.
func (t Token) Split(sep byte) []Token {
	var parts []Token
	start := 0
	for i := 0; i < len(t.Text); i++ {
		if t.Text[i] == sep {
			parts = append(parts, Token{Text: t.Text[start:i], Loc: t.Loc.Advance(start)})
			start = i + 1
		}
	}
	parts = append(parts, Token{Text: t.Text[start:], Loc: t.Loc.Advance(start)})
	return parts
}

// Int parses the token as a 32-bit signed integer.
func (t Token) Int() (int, bool) {
	n, err := strconv.ParseInt(t.Text, 10, 32)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

// Number parses the token as a decimal number.
func (t Token) Number() (float64, bool) {
	f, err := strconv.ParseFloat(t.Text, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
