// Package block defines the parsed key/value tree of a script file.
// Blocks are produced once by the parser and never modified afterwards.
package block

import (
	"github.com/artpar/tiger/domain/token"
)

// Comparator is the operator between a key and its value.
type Comparator int

const (
	Eq        Comparator = iota // =
	QEq                         // ?=
	EqEq                        // ==
	NotEq                       // !=
	Less                        // <
	LessEq                      // <=
	Greater                     // >
	GreaterEq                   // >=
)

var comparatorText = map[Comparator]string{
	Eq:        "=",
	QEq:       "?=",
	EqEq:      "==",
	NotEq:     "!=",
	Less:      "<",
	LessEq:    "<=",
	Greater:   ">",
	GreaterEq: ">=",
}

// String returns the operator as written in scripts.
func (c Comparator) String() string {
	return comparatorText[c]
}

// ParseComparator maps operator text to a Comparator.
func ParseComparator(s string) (Comparator, bool) {
	for c, text := range comparatorText {
		if text == s {
			return c, true
		}
	}
	return Eq, false
}

// BV is a field value: either a scalar token or a nested block.
type BV struct {
	Token token.Token
	Block *Block
}

// Value wraps a token as a BV.
func Value(t token.Token) BV {
	return BV{Token: t}
}

// Nested wraps a block as a BV.
func Nested(b *Block) BV {
	return BV{Block: b}
}

// IsBlock reports whether the value is a nested block.
func (bv BV) IsBlock() bool {
	return bv.Block != nil
}

// GetValue returns the scalar token, if this is one.
func (bv BV) GetValue() (token.Token, bool) {
	if bv.Block != nil {
		return token.Token{}, false
	}
	return bv.Token, true
}

// GetBlock returns the nested block, if this is one.
func (bv BV) GetBlock() (*Block, bool) {
	return bv.Block, bv.Block != nil
}

// Loc returns where the value starts.
func (bv BV) Loc() token.Loc {
	if bv.Block != nil {
		return bv.Block.Loc
	}
	return bv.Token.Loc
}

// Field is one `key <cmp> value` entry.
type Field struct {
	Key   token.Token
	Cmp   Comparator
	Value BV
}

// Block is an ordered, key-repeatable sequence of fields. Loose values
// (entries without a key, as in `{ a b c }`) are kept separately.
type Block struct {
	Loc    token.Loc
	Fields []Field
	Loose  []BV
}

// New creates an empty block at loc.
func New(loc token.Loc) *Block {
	return &Block{Loc: loc}
}

// Add appends a field.
func (b *Block) Add(key token.Token, cmp Comparator, value BV) {
	b.Fields = append(b.Fields, Field{Key: key, Cmp: cmp, Value: value})
}

// AddLoose appends a value without a key.
func (b *Block) AddLoose(value BV) {
	b.Loose = append(b.Loose, value)
}

// GetKey returns the last key token named name.
func (b *Block) GetKey(name string) (token.Token, bool) {
	for i := len(b.Fields) - 1; i >= 0; i-- {
		if b.Fields[i].Key.Is(name) {
			return b.Fields[i].Key, true
		}
	}
	return token.Token{}, false
}

// GetField returns the value of the last field named name.
func (b *Block) GetField(name string) (BV, bool) {
	for i := len(b.Fields) - 1; i >= 0; i-- {
		if b.Fields[i].Key.Is(name) {
			return b.Fields[i].Value, true
		}
	}
	return BV{}, false
}

// GetFieldValue returns the scalar value of the last field named name.
func (b *Block) GetFieldValue(name string) (token.Token, bool) {
	if bv, ok := b.GetField(name); ok {
		return bv.GetValue()
	}
	return token.Token{}, false
}

// HasKey reports whether any field is named name.
func (b *Block) HasKey(name string) bool {
	_, ok := b.GetKey(name)
	return ok
}

// Len returns the number of fields plus loose values.
func (b *Block) Len() int {
	return len(b.Fields) + len(b.Loose)
}
