package parse

import (
	"strings"

	"github.com/artpar/tiger/domain/report"
	"github.com/artpar/tiger/domain/token"
)

type lexKind int

const (
	lexWord lexKind = iota
	lexOpen
	lexClose
	lexCmp
	lexEOF
)

type lexeme struct {
	kind lexKind
	tok  token.Token
}

type lexer struct {
	src  string
	pos  int
	line int
	col  int
	base token.Loc
	sink report.Sink
}

func newLexer(src string, base token.Loc, sink report.Sink) *lexer {
	src = strings.TrimPrefix(src, "\ufeff")
	return &lexer{src: src, line: 1, col: 1, base: base, sink: sink}
}

func (lx *lexer) loc() token.Loc {
	l := lx.base
	l.Line = lx.line
	l.Column = lx.col
	return l
}

func (lx *lexer) advance() byte {
	c := lx.src[lx.pos]
	lx.pos++
	if c == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return c
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isCmpChar(c byte) bool {
	return c == '=' || c == '<' || c == '>' || c == '!' || c == '?'
}

func isWordChar(c byte) bool {
	return !isSpace(c) && !isCmpChar(c) && c != '{' && c != '}' && c != '#' && c != '"'
}

func (lx *lexer) next() lexeme {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case isSpace(c):
			lx.advance()
		case c == '#':
			for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
				lx.advance()
			}
		case c == '{':
			at := lx.loc()
			lx.advance()
			return lexeme{kind: lexOpen, tok: token.New("{", at)}
		case c == '}':
			at := lx.loc()
			lx.advance()
			return lexeme{kind: lexClose, tok: token.New("}", at)}
		case isCmpChar(c):
			at := lx.loc()
			start := lx.pos
			for lx.pos < len(lx.src) && isCmpChar(lx.src[lx.pos]) {
				lx.advance()
			}
			return lexeme{kind: lexCmp, tok: token.New(lx.src[start:lx.pos], at)}
		case c == '"':
			return lx.quoted()
		default:
			at := lx.loc()
			start := lx.pos
			for lx.pos < len(lx.src) && isWordChar(lx.src[lx.pos]) {
				lx.advance()
			}
			return lexeme{kind: lexWord, tok: token.New(lx.src[start:lx.pos], at)}
		}
	}
	return lexeme{kind: lexEOF, tok: token.New("", lx.loc())}
}

func (lx *lexer) quoted() lexeme {
	at := lx.loc()
	lx.advance()
	var sb strings.Builder
	for lx.pos < len(lx.src) {
		c := lx.advance()
		switch c {
		case '"':
			return lexeme{kind: lexWord, tok: token.New(sb.String(), at)}
		case '\\':
			if lx.pos < len(lx.src) {
				sb.WriteByte(lx.advance())
			}
		default:
			sb.WriteByte(c)
		}
	}
	report.Errorf(lx.sink, at, report.KeyParse, "quoted string not closed")
	return lexeme{kind: lexWord, tok: token.New(sb.String(), at)}
}
