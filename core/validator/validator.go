// Package validator implements the field-consumption protocol over one
// parsed block: every accessor claims the fields it looks at, and
// WarnRemaining reports whatever nobody claimed.
package validator

import (
	"iter"

	"github.com/artpar/tiger/core/validate"
	"github.com/artpar/tiger/domain/block"
	"github.com/artpar/tiger/domain/item"
	"github.com/artpar/tiger/domain/report"
	"github.com/artpar/tiger/domain/token"
	"github.com/artpar/tiger/ports"
)

// Validator wraps one block for the duration of one validation frame.
type Validator struct {
	block *block.Block
	data  ports.ItemIndex
	sink  report.Sink
	known []bool
	loose bool
}

// New wraps b.
func New(b *block.Block, data ports.ItemIndex, sink report.Sink) *Validator {
	return &Validator{
		block: b,
		data:  data,
		sink:  sink,
		known: make([]bool, len(b.Fields)),
	}
}

// Block returns the wrapped block.
func (vd *Validator) Block() *block.Block {
	return vd.block
}

// claim marks every field called name as used and returns their indices.
func (vd *Validator) claim(name string) []int {
	var found []int
	for i, f := range vd.block.Fields {
		if f.Key.Is(name) {
			vd.known[i] = true
			found = append(found, i)
		}
	}
	return found
}

// claimOne is claim for fields that may appear only once; earlier
// occurrences are reported and the last one wins.
func (vd *Validator) claimOne(name string) (block.Field, bool) {
	found := vd.claim(name)
	if len(found) == 0 {
		return block.Field{}, false
	}
	for _, i := range found[:len(found)-1] {
		report.Warnf(vd.sink, vd.block.Fields[i].Key.Loc, report.KeyDuplicate,
			"`%s` is redefined in a following line", name)
	}
	return vd.block.Fields[found[len(found)-1]], true
}

// Field claims name and returns its value.
func (vd *Validator) Field(name string) (block.BV, bool) {
	f, ok := vd.claimOne(name)
	return f.Value, ok
}

// FieldValue claims name and returns its value, which must be a scalar.
func (vd *Validator) FieldValue(name string) (token.Token, bool) {
	f, ok := vd.claimOne(name)
	if !ok {
		return token.Token{}, false
	}
	return ExpectValue(f.Value, vd.sink)
}

// FieldBlock claims name and returns its value, which must be a block.
func (vd *Validator) FieldBlock(name string) (*block.Block, bool) {
	f, ok := vd.claimOne(name)
	if !ok {
		return nil, false
	}
	return ExpectBlock(f.Value, vd.sink)
}

// FieldValidatedBlocks claims every occurrence of name and calls fn on
// each block-valued one.
func (vd *Validator) FieldValidatedBlocks(name string, fn func(*block.Block)) {
	for _, i := range vd.claim(name) {
		if b, ok := ExpectBlock(vd.block.Fields[i].Value, vd.sink); ok {
			fn(b)
		}
	}
}

// FieldValidatedBVs claims every occurrence of name and calls fn on each.
func (vd *Validator) FieldValidatedBVs(name string, fn func(key token.Token, bv block.BV)) {
	for _, i := range vd.claim(name) {
		f := vd.block.Fields[i]
		fn(f.Key, f.Value)
	}
}

// FieldValueItem claims name and checks it names an existing item.
func (vd *Validator) FieldValueItem(name string, kind item.Kind) {
	if t, ok := vd.FieldValue(name); ok {
		validate.VerifyExists(vd.data, vd.sink, kind, t)
	}
}

// FieldBool claims name and checks it is yes or no.
func (vd *Validator) FieldBool(name string) {
	if t, ok := vd.FieldValue(name); ok {
		if !t.Is("yes") && !t.Is("no") {
			report.Warnf(vd.sink, t.Loc, report.KeyValidation, "expected yes or no")
		}
	}
}

// FieldInteger claims name and checks it is an integer.
func (vd *Validator) FieldInteger(name string) {
	if t, ok := vd.FieldValue(name); ok {
		if _, isInt := t.Int(); !isInt {
			report.Warnf(vd.sink, t.Loc, report.KeyValidation, "expected an integer")
		}
	}
}

// FieldsUnchecked claims the named fields without looking at them.
func (vd *Validator) FieldsUnchecked(names ...string) {
	for _, name := range names {
		vd.claim(name)
	}
}

// ReqField reports an error if name is absent. It does not claim it.
func (vd *Validator) ReqField(name string) bool {
	if vd.block.HasKey(name) {
		return true
	}
	report.Errorf(vd.sink, vd.block.Loc, report.KeyValidation, "required field `%s` missing", name)
	return false
}

// BanField claims name and reports each occurrence not claimed before as
// misplaced.
func (vd *Validator) BanField(name, where string) {
	for i, f := range vd.block.Fields {
		if !f.Key.Is(name) || vd.known[i] {
			continue
		}
		vd.known[i] = true
		report.Warnf(vd.sink, f.Key.Loc, report.KeyValidation,
			"`%s` can only be used in %s", name, where)
	}
}

// AcceptLoose lets WarnRemaining ignore loose values.
func (vd *Validator) AcceptLoose() {
	vd.loose = true
}

// UnknownKeys yields every unclaimed field in order, claiming each as it
// is yielded. Fields using a comparator other than `=` or `?=` are
// reported on the way. The sequence cannot be restarted: a second range
// sees only fields claimed by nobody in between.
func (vd *Validator) UnknownKeys() iter.Seq2[token.Token, block.BV] {
	return func(yield func(token.Token, block.BV) bool) {
		for i := range vd.block.Fields {
			if vd.known[i] {
				continue
			}
			vd.known[i] = true
			f := vd.block.Fields[i]
			if f.Cmp != block.Eq && f.Cmp != block.QEq {
				report.Warnf(vd.sink, f.Key.Loc, report.KeyValidation,
					"expected `%s =` but found `%s %s`", f.Key.Text, f.Key.Text, f.Cmp)
			}
			if !yield(f.Key, f.Value) {
				return
			}
		}
	}
}

// UnknownFields is UnknownKeys for contexts where any comparator is valid.
func (vd *Validator) UnknownFields() iter.Seq[block.Field] {
	return func(yield func(block.Field) bool) {
		for i := range vd.block.Fields {
			if vd.known[i] {
				continue
			}
			vd.known[i] = true
			if !yield(vd.block.Fields[i]) {
				return
			}
		}
	}
}

// Remaining returns the keys nobody has claimed yet, without claiming them.
func (vd *Validator) Remaining() []token.Token {
	var keys []token.Token
	for i, f := range vd.block.Fields {
		if !vd.known[i] {
			keys = append(keys, f.Key)
		}
	}
	return keys
}

// WarnRemaining reports every unclaimed field and loose value.
func (vd *Validator) WarnRemaining() {
	for _, key := range vd.Remaining() {
		report.Warnf(vd.sink, key.Loc, report.KeyValidation, "unknown field `%s`", key.Text)
	}
	for i := range vd.known {
		vd.known[i] = true
	}
	if !vd.loose {
		for _, bv := range vd.block.Loose {
			report.Warnf(vd.sink, bv.Loc(), report.KeyValidation, "found loose value, expected only `key = value` fields")
		}
		vd.loose = true
	}
}

// ExpectValue returns bv's token, reporting an error if bv is a block.
func ExpectValue(bv block.BV, sink report.Sink) (token.Token, bool) {
	if t, ok := bv.GetValue(); ok {
		return t, true
	}
	report.Errorf(sink, bv.Loc(), report.KeyStructure, "expected value, found block")
	return token.Token{}, false
}

// ExpectBlock returns bv's block, reporting an error if bv is a value.
func ExpectBlock(bv block.BV, sink report.Sink) (*block.Block, bool) {
	if b, ok := bv.GetBlock(); ok {
		return b, true
	}
	report.Errorf(sink, bv.Loc(), report.KeyStructure, "expected block, found value")
	return nil, false
}
