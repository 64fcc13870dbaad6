package pattern

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Parse parses pattern text into an immutable Pattern. It returns a
// *SyntaxError on malformed input: unbalanced parentheses, an empty kind
// or field position, a field selector without a nested pattern, an
// unterminated string, a malformed capture, or trailing input.
func Parse(text string) (Pattern, error) {
	p := &parser{lexer: newLexer(text)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.typ == tokEOF {
		return nil, p.errorf("empty pattern")
	}
	pat, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	if p.tok.typ != tokEOF {
		return nil, p.errorf("unexpected %s after pattern", p.tok.typ)
	}
	return pat, nil
}

// MustParse parses pattern text and panics on error. For tests and
// compiled-in pattern libraries.
func MustParse(text string) Pattern {
	pat, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return pat
}

type parser struct {
	lexer *lexer
	tok   dslToken
}

func (p *parser) advance() error {
	tok, err := p.lexer.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Pos: p.tok.pos, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) parsePattern() (Pattern, error) {
	switch p.tok.typ {
	case tokLParen:
		return p.parseParen()
	case tokString:
		lit := &Literal{Kind: LitString, Str: p.tok.text}
		return lit, p.advance()
	case tokCapture:
		return p.parseCapture()
	case tokIdent:
		return p.parseAtom()
	case tokRParen:
		return nil, p.errorf("unexpected )")
	default:
		return nil, p.errorf("unexpected %s", p.tok.typ)
	}
}

// parseAtom classifies a bare identifier: wildcard, anything, boolean or
// numeric literal, or a kind-only match.
func (p *parser) parseAtom() (Pattern, error) {
	text := p.tok.text
	var pat Pattern
	switch {
	case text == "...":
		pat = &Wildcard{}
	case text == "_":
		pat = &Anything{}
	case text == "true":
		pat = &Literal{Kind: LitBool, Bool: true}
	case text == "false":
		pat = &Literal{Kind: LitBool, Bool: false}
	case looksNumeric(text):
		lit, err := numericLiteral(text)
		if err != nil {
			return nil, p.errorf("invalid number %q", text)
		}
		pat = lit
	default:
		pat = &Kind{Name: text}
	}
	return pat, p.advance()
}

func looksNumeric(text string) bool {
	if text == "" {
		return false
	}
	ch := text[0]
	if ch == '-' || ch == '+' {
		if len(text) == 1 {
			return false
		}
		ch = text[1]
	}
	return ch >= '0' && ch <= '9'
}

func numericLiteral(text string) (*Literal, error) {
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return &Literal{Kind: LitInt, Int: i}, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, err
	}
	return &Literal{Kind: LitFloat, Float: f}, nil
}

func (p *parser) parseCapture() (Pattern, error) {
	name := p.tok.text
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.typ == tokEOF || p.tok.typ == tokRParen {
		return nil, p.errorf("capture $%s missing inner pattern", name)
	}
	inner, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	return &Capture{Name: name, Inner: inner}, nil
}

// parseParen handles both parenthesized forms. An uppercase head names a
// node kind; a lowercase head is a field selector.
func (p *parser) parseParen() (Pattern, error) {
	if err := p.advance(); err != nil { // (
		return nil, err
	}
	if p.tok.typ == tokRParen {
		return nil, p.errorf("empty kind or field position")
	}
	if p.tok.typ != tokIdent {
		return nil, p.errorf("expected identifier after (, got %s", p.tok.typ)
	}
	head := p.tok.text
	if err := p.advance(); err != nil {
		return nil, err
	}
	if upperInitial(head) {
		return p.parseKindBody(head)
	}
	sel, err := p.parseFieldSelBody(head)
	if err != nil {
		return nil, err
	}
	return sel, nil
}

func upperInitial(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

// parseKindBody parses the field selectors of `(Kind (field pat)*)` after
// the kind identifier has been consumed.
func (p *parser) parseKindBody(name string) (Pattern, error) {
	kind := &Kind{Name: name, Fields: []*FieldSel{}}
	for p.tok.typ != tokRParen {
		switch p.tok.typ {
		case tokEOF:
			return nil, p.errorf("unbalanced parentheses in (%s", name)
		case tokLParen:
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.tok.typ == tokRParen {
				return nil, p.errorf("empty kind or field position")
			}
			if p.tok.typ != tokIdent {
				return nil, p.errorf("expected field name, got %s", p.tok.typ)
			}
			field := p.tok.text
			if err := p.advance(); err != nil {
				return nil, err
			}
			sel, err := p.parseFieldSelBody(field)
			if err != nil {
				return nil, err
			}
			kind.Fields = append(kind.Fields, sel)
		default:
			return nil, p.errorf("expected (field pattern) inside (%s ...), got %s", name, p.tok.typ)
		}
	}
	return kind, p.advance()
}

// parseFieldSelBody parses the patterns of `(field pat+)` after the field
// identifier has been consumed, through the closing parenthesis.
func (p *parser) parseFieldSelBody(name string) (*FieldSel, error) {
	sel := &FieldSel{Name: NormalizeField(name)}
	for p.tok.typ != tokRParen {
		if p.tok.typ == tokEOF {
			return nil, p.errorf("unbalanced parentheses in (%s", name)
		}
		pat, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		sel.Seq = append(sel.Seq, pat)
	}
	if len(sel.Seq) == 0 {
		return nil, p.errorf("field selector (%s) missing pattern", name)
	}
	return sel, p.advance()
}
