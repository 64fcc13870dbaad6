package parser

import (
	"fmt"

	"github.com/leapstack-labs/sqlgrep/pkg/token"
)

// Parser parses SQL into an AST.
type Parser struct {
	lexer  *Lexer
	token  Token // current token
	peek   Token // lookahead token
	prev   Token // last consumed token, for span ends
	errors []error
}

// NewParser creates a new parser for the given SQL input.
func NewParser(sql string) *Parser {
	p := &Parser{
		lexer: NewLexer(sql),
	}
	// Read two tokens to initialize current and peek.
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses a semicolon-separated sequence of SQL statements and returns
// one root node per statement, in input order.
func Parse(sql string) ([]Node, error) {
	p := NewParser(sql)
	var stmts []Node

	for !p.check(TOKEN_EOF) {
		if p.match(TOKEN_SEMI) {
			continue
		}
		stmt := p.parseStatement()
		if len(p.errors) > 0 {
			return nil, p.errors[0]
		}
		stmts = append(stmts, stmt)
		if !p.check(TOKEN_EOF) && !p.match(TOKEN_SEMI) {
			p.errorf("unexpected token %s, expected ; or end of input", p.token.Type)
			return nil, p.errors[0]
		}
	}

	return stmts, nil
}

// ParseOne parses exactly one statement.
func ParseOne(sql string) (Node, error) {
	stmts, err := Parse(sql)
	if err != nil {
		return nil, err
	}
	if len(stmts) == 0 {
		return nil, &ParseError{Pos: token.Position{Line: 1, Column: 1}, Message: "empty input"}
	}
	return stmts[0], nil
}

// ---------- Token Helpers ----------

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.prev = p.token
	p.token = p.peek
	p.peek = p.lexer.NextToken()
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t TokenType) bool {
	return p.token.Type == t
}

// checkPeek returns true if the peek token is of the given type.
func (p *Parser) checkPeek(t TokenType) bool {
	return p.peek.Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise records an error.
func (p *Parser) expect(t TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	p.errorf("unexpected token %s, expected %s", p.token.Type, t)
	return false
}

// errorf records a parse error at the current token.
func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, &ParseError{
		Pos:     p.token.Pos,
		Message: fmt.Sprintf(format, args...),
	})
}

// start returns the span start for a node beginning at the current token.
func (p *Parser) start() token.Position {
	return p.token.Pos
}

// spanFrom returns the span from start to the end of the last consumed token.
func (p *Parser) spanFrom(start token.Position) token.Span {
	return token.Span{Start: start, End: p.prev.End}
}

// token2span returns the span covering a single token.
func token2span(t Token) token.Span {
	return token.Span{Start: t.Pos, End: t.End}
}

// ---------- Statement Dispatch ----------

// parseStatement parses one statement, dispatching on the leading keyword.
// A leading WITH clause is parsed first and attached to the statement.
func (p *Parser) parseStatement() Node {
	var with *WithClause
	if p.check(TOKEN_WITH) {
		with = p.parseWithClause()
	}

	switch p.token.Type {
	case TOKEN_SELECT, TOKEN_LPAREN:
		stmt := p.parseSelectStmt()
		if stmt != nil {
			stmt.WithClause = with
		}
		return stmt
	case TOKEN_INSERT:
		stmt := p.parseInsertStmt()
		if stmt != nil {
			stmt.WithClause = with
		}
		return stmt
	case TOKEN_UPDATE:
		stmt := p.parseUpdateStmt()
		if stmt != nil {
			stmt.WithClause = with
		}
		return stmt
	case TOKEN_DELETE:
		stmt := p.parseDeleteStmt()
		if stmt != nil {
			stmt.WithClause = with
		}
		return stmt
	default:
		p.errorf("unexpected token %s, expected a statement", p.token.Type)
		return nil
	}
}
