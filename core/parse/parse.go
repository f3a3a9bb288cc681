// Package parse reads Paradox script files into blocks. Syntax errors are
// reported to the sink and parsing carries on with whatever made sense.
package parse

import (
	"fmt"
	"os"

	"github.com/artpar/tiger/domain/block"
	"github.com/artpar/tiger/domain/report"
	"github.com/artpar/tiger/domain/token"
)

// File reads and parses the file at loc.Fullpath. The error is only for
// I/O; syntax problems go to sink.
func File(loc token.Loc, sink report.Sink) (*block.Block, error) {
	data, err := os.ReadFile(loc.Fullpath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", loc.Path, err)
	}
	return String(string(data), loc, sink), nil
}

type frame struct {
	blk    *block.Block
	open   token.Token
	key    token.Token
	hasKey bool
	cmp    block.Comparator
	cmpTok token.Token
	hasCmp bool
}

// flush deals with a key or `key =` left dangling at the end of a block.
func (f *frame) flush(sink report.Sink) {
	if f.hasCmp {
		report.Errorf(sink, f.cmpTok.Loc, report.KeyParse, "expected value after `%s %s`", f.key.Text, f.cmpTok.Text)
	} else if f.hasKey {
		f.blk.AddLoose(block.Value(f.key))
	}
	f.hasKey, f.hasCmp = false, false
}

// String parses src as the contents of the file at loc.
func String(src string, loc token.Loc, sink report.Sink) *block.Block {
	lx := newLexer(src, loc, sink)
	root := block.New(token.Loc{Path: loc.Path, Fullpath: loc.Fullpath, Kind: loc.Kind})
	stack := []*frame{{blk: root}}

	for {
		lm := lx.next()
		top := stack[len(stack)-1]

		switch lm.kind {
		case lexWord:
			switch {
			case top.hasCmp:
				top.blk.Add(top.key, top.cmp, block.Value(lm.tok))
				top.hasKey, top.hasCmp = false, false
			case top.hasKey && (top.key.Is("scripted_effect") || top.key.Is("scripted_trigger")):
				// event files define local macros as `scripted_effect name = { ... }`
				top.key = token.New(top.key.Text+" "+lm.tok.Text, top.key.Loc)
			case top.hasKey:
				top.blk.AddLoose(block.Value(top.key))
				top.key = lm.tok
			default:
				top.key, top.hasKey = lm.tok, true
			}

		case lexCmp:
			cmp, ok := block.ParseComparator(lm.tok.Text)
			switch {
			case !ok:
				report.Errorf(sink, lm.tok.Loc, report.KeyParse, "unknown comparator `%s`", lm.tok.Text)
			case !top.hasKey || top.hasCmp:
				report.Errorf(sink, lm.tok.Loc, report.KeyParse, "unexpected `%s`", lm.tok.Text)
			default:
				top.cmp, top.cmpTok, top.hasCmp = cmp, lm.tok, true
			}

		case lexOpen:
			nb := block.New(lm.tok.Loc)
			switch {
			case top.hasCmp:
				top.blk.Add(top.key, top.cmp, block.Nested(nb))
			case top.hasKey:
				top.blk.AddLoose(block.Value(top.key))
				top.blk.AddLoose(block.Nested(nb))
			default:
				top.blk.AddLoose(block.Nested(nb))
			}
			top.hasKey, top.hasCmp = false, false
			stack = append(stack, &frame{blk: nb, open: lm.tok})

		case lexClose:
			top.flush(sink)
			if len(stack) == 1 {
				report.Errorf(sink, lm.tok.Loc, report.KeyParse, "unexpected `}`")
				continue
			}
			stack = stack[:len(stack)-1]

		case lexEOF:
			top.flush(sink)
			for len(stack) > 1 {
				f := stack[len(stack)-1]
				report.Errorf(sink, f.open.Loc, report.KeyParse, "opening `{` was never closed")
				stack = stack[:len(stack)-1]
				stack[len(stack)-1].flush(sink)
			}
			return root
		}
	}
}
