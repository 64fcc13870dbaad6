package pattern

import (
	"strings"

	"github.com/leapstack-labs/sqlgrep/pkg/token"
)

// tokenType enumerates pattern token types.
type tokenType int

const (
	tokEOF tokenType = iota
	tokLParen
	tokRParen
	tokIdent   // any run of non-structural characters, including ... and _
	tokString  // double-quoted, text holds the unquoted value
	tokCapture // $name: with text holding the name
)

func (t tokenType) String() string {
	switch t {
	case tokEOF:
		return "end of pattern"
	case tokLParen:
		return "("
	case tokRParen:
		return ")"
	case tokIdent:
		return "identifier"
	case tokString:
		return "string"
	case tokCapture:
		return "capture"
	default:
		return "unknown"
	}
}

type dslToken struct {
	typ  tokenType
	text string
	pos  token.Position
}

// lexer scans pattern text. Parentheses, whitespace, and double quotes
// are the only structural characters; `$` introduces a capture whose name
// runs to the `:`. Everything else is an identifier character.
type lexer struct {
	input string
	pos   int
	line  int
	col   int
}

func newLexer(input string) *lexer {
	return &lexer{input: input, line: 1, col: 1}
}

func (l *lexer) current() token.Position {
	return token.Position{Line: l.line, Column: l.col, Offset: l.pos}
}

func (l *lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *lexer) advance() byte {
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

func (l *lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		switch l.peek() {
		case ' ', '\t', '\r', '\n':
			l.advance()
		default:
			return
		}
	}
}

func isStructural(ch byte) bool {
	switch ch {
	case '(', ')', '"', ' ', '\t', '\r', '\n':
		return true
	}
	return false
}

// next returns the next token, or a *SyntaxError for an unterminated
// string or a malformed capture intro.
func (l *lexer) next() (dslToken, error) {
	l.skipWhitespace()
	pos := l.current()
	if l.pos >= len(l.input) {
		return dslToken{typ: tokEOF, pos: pos}, nil
	}
	switch l.peek() {
	case '(':
		l.advance()
		return dslToken{typ: tokLParen, text: "(", pos: pos}, nil
	case ')':
		l.advance()
		return dslToken{typ: tokRParen, text: ")", pos: pos}, nil
	case '"':
		return l.scanString(pos)
	case '$':
		return l.scanCapture(pos)
	}
	return dslToken{typ: tokIdent, text: l.scanIdent(false), pos: pos}, nil
}

// scanIdent consumes an identifier run. In capture position a colon
// terminates the run; elsewhere it is an ordinary identifier character.
func (l *lexer) scanIdent(stopAtColon bool) string {
	start := l.pos
	for l.pos < len(l.input) && !isStructural(l.peek()) {
		if stopAtColon && l.peek() == ':' {
			break
		}
		l.advance()
	}
	return l.input[start:l.pos]
}

func (l *lexer) scanString(pos token.Position) (dslToken, error) {
	l.advance() // opening quote
	var b strings.Builder
	for l.pos < len(l.input) {
		ch := l.advance()
		switch ch {
		case '"':
			return dslToken{typ: tokString, text: b.String(), pos: pos}, nil
		case '\\':
			if l.pos >= len(l.input) {
				return dslToken{}, &SyntaxError{Pos: pos, Message: "unterminated string literal"}
			}
			esc := l.advance()
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(esc)
			}
		default:
			b.WriteByte(ch)
		}
	}
	return dslToken{}, &SyntaxError{Pos: pos, Message: "unterminated string literal"}
}

func (l *lexer) scanCapture(pos token.Position) (dslToken, error) {
	l.advance() // $
	name := l.scanIdent(true)
	if name == "" {
		return dslToken{}, &SyntaxError{Pos: pos, Message: "capture missing name after $"}
	}
	if l.peek() != ':' {
		return dslToken{}, &SyntaxError{Pos: pos, Message: "capture $" + name + " missing ':'"}
	}
	l.advance() // :
	return dslToken{typ: tokCapture, text: name, pos: pos}, nil
}
