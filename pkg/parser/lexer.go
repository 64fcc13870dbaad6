package parser

import (
	"strings"

	"github.com/leapstack-labs/sqlgrep/pkg/token"
)

// Lexer tokenizes SQL input.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// currentPos returns the current position.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// NextToken returns the next token with its end position filled in.
func (l *Lexer) NextToken() Token {
	tok := l.scanToken()
	tok.End = l.currentPos()
	return tok
}

// scanToken scans the next token.
func (l *Lexer) scanToken() Token {
	l.skipWhitespaceAndComments()

	pos := l.currentPos()
	var tok Token
	tok.Pos = pos

	switch l.ch {
	case 0:
		tok.Type = TOKEN_EOF
		tok.Literal = ""
		return tok
	case '+':
		tok = l.newToken(TOKEN_PLUS, "+", pos)
	case '-':
		tok = l.newToken(TOKEN_MINUS, "-", pos)
	case '*':
		tok = l.newToken(TOKEN_STAR, "*", pos)
	case '/':
		tok = l.newToken(TOKEN_SLASH, "/", pos)
	case '%':
		tok = l.newToken(TOKEN_MOD, "%", pos)
	case '=':
		tok = l.newToken(TOKEN_EQ, "=", pos)
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			tok = l.newToken(TOKEN_DPIPE, "||", pos)
		} else {
			tok = l.newToken(TOKEN_ILLEGAL, "|", pos)
		}
	case '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			tok = l.newToken(TOKEN_LE, "<=", pos)
		case '>':
			l.readChar()
			tok = l.newToken(TOKEN_NE, "<>", pos)
		default:
			tok = l.newToken(TOKEN_LT, "<", pos)
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.newToken(TOKEN_GE, ">=", pos)
		} else {
			tok = l.newToken(TOKEN_GT, ">", pos)
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.newToken(TOKEN_NE, "<>", pos)
		} else {
			tok = l.newToken(TOKEN_ILLEGAL, "!", pos)
		}
	case '.':
		tok = l.newToken(TOKEN_DOT, ".", pos)
	case ',':
		tok = l.newToken(TOKEN_COMMA, ",", pos)
	case '(':
		tok = l.newToken(TOKEN_LPAREN, "(", pos)
	case ')':
		tok = l.newToken(TOKEN_RPAREN, ")", pos)
	case ';':
		tok = l.newToken(TOKEN_SEMI, ";", pos)
	case ':':
		if l.peekChar() == ':' {
			l.readChar()
			tok = l.newToken(TOKEN_DCOLON, "::", pos)
		} else {
			tok = l.newToken(TOKEN_ILLEGAL, ":", pos)
		}
	case '\'':
		return l.readString(pos)
	case '"':
		return l.readQuotedIdent(pos)
	case '$':
		return l.readParam(pos)
	default:
		if isDigit(l.ch) {
			return l.readNumber(pos)
		}
		if isIdentStart(l.ch) {
			return l.readIdentifier(pos)
		}
		tok = l.newToken(TOKEN_ILLEGAL, string(l.ch), pos)
	}

	return tok
}

// newToken creates a single- or double-character token and advances.
func (l *Lexer) newToken(t TokenType, literal string, pos token.Position) Token {
	l.readChar()
	return Token{Type: t, Literal: literal, Pos: pos}
}

// skipWhitespaceAndComments skips whitespace, -- line comments, and
// /* block comments */.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '-' && l.peekChar() == '-':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			l.readChar() // consume '/'
			l.readChar() // consume '*'
			for l.ch != 0 && !(l.ch == '*' && l.peekChar() == '/') {
				l.readChar()
			}
			if l.ch != 0 {
				l.readChar() // consume '*'
				l.readChar() // consume '/'
			}
		default:
			return
		}
	}
}

// readString reads a single-quoted string literal. A doubled quote ''
// inside the literal is an escaped quote.
func (l *Lexer) readString(pos token.Position) Token {
	var sb strings.Builder
	l.readChar() // consume opening quote
	for {
		if l.ch == 0 {
			return Token{Type: TOKEN_ILLEGAL, Literal: "unterminated string", Pos: pos}
		}
		if l.ch == '\'' {
			if l.peekChar() == '\'' {
				sb.WriteByte('\'')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // consume closing quote
			break
		}
		sb.WriteByte(l.ch)
		l.readChar()
	}
	return Token{Type: TOKEN_STRING, Literal: sb.String(), Pos: pos}
}

// readQuotedIdent reads a double-quoted identifier, preserving case.
func (l *Lexer) readQuotedIdent(pos token.Position) Token {
	var sb strings.Builder
	l.readChar() // consume opening quote
	for {
		if l.ch == 0 {
			return Token{Type: TOKEN_ILLEGAL, Literal: "unterminated quoted identifier", Pos: pos}
		}
		if l.ch == '"' {
			if l.peekChar() == '"' {
				sb.WriteByte('"')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar()
			break
		}
		sb.WriteByte(l.ch)
		l.readChar()
	}
	return Token{Type: TOKEN_IDENT, Literal: sb.String(), Pos: pos}
}

// readParam reads a positional parameter like $1.
func (l *Lexer) readParam(pos token.Position) Token {
	l.readChar() // consume '$'
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.pos == start {
		return Token{Type: TOKEN_ILLEGAL, Literal: "$", Pos: pos}
	}
	return Token{Type: TOKEN_PARAM, Literal: l.input[start:l.pos], Pos: pos}
}

// readNumber reads an integer or decimal literal with optional exponent.
func (l *Lexer) readNumber(pos token.Position) Token {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || next == '+' || next == '-' {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	return Token{Type: TOKEN_NUMBER, Literal: l.input[start:l.pos], Pos: pos}
}

// readIdentifier reads an unquoted identifier or keyword.
// Unquoted identifiers are folded to lowercase, as PostgreSQL does.
func (l *Lexer) readIdentifier(pos token.Position) Token {
	start := l.pos
	for isIdentPart(l.ch) {
		l.readChar()
	}
	lit := strings.ToLower(l.input[start:l.pos])
	return Token{Type: lookupIdent(lit), Literal: lit, Pos: pos}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
