package parser

import (
	"strconv"

	"github.com/leapstack-labs/sqlgrep/pkg/token"
)

// Primary expression parsing: literals, column references, function calls,
// parenthesized expressions and subqueries.
//
// Grammar:
//
//	primary    → literal | param | column_ref | func_call | paren_expr
//	           | case_expr | cast_expr | exists_expr | "*"
//	literal    → NUMBER | STRING | TRUE | FALSE | NULL
//	column_ref → name ("." name)* ["." "*"]
//	func_call  → name ("." name)* "(" [DISTINCT] ["*" | expr_list] ")"

// parsePrimary parses a primary expression.
func (p *Parser) parsePrimary() Node {
	start := p.start()

	switch p.token.Type {
	case TOKEN_NUMBER:
		lit := p.token.Literal
		p.nextToken()
		return p.numberConst(lit, start)

	case TOKEN_STRING:
		c := NewStringConst(p.token.Literal)
		c.Span = token2span(p.token)
		p.nextToken()
		return c

	case TOKEN_TRUE:
		c := NewBoolConst(true)
		c.Span = token2span(p.token)
		p.nextToken()
		return c

	case TOKEN_FALSE:
		c := NewBoolConst(false)
		c.Span = token2span(p.token)
		p.nextToken()
		return c

	case TOKEN_NULL:
		c := NewNullConst()
		c.Span = token2span(p.token)
		p.nextToken()
		return c

	case TOKEN_PARAM:
		n, err := strconv.ParseInt(p.token.Literal, 10, 64)
		if err != nil {
			p.errorf("invalid parameter number %q", p.token.Literal)
			return nil
		}
		ref := &ParamRef{Number: n}
		ref.Span = token2span(p.token)
		p.nextToken()
		return ref

	case TOKEN_CASE:
		return p.parseCaseExpr()

	case TOKEN_CAST:
		return p.parseCastExpr()

	case TOKEN_EXISTS:
		return p.parseExistsExpr()

	case TOKEN_IDENT:
		return p.parseIdentifierExpr()

	case TOKEN_LPAREN:
		return p.parseParenExpr()

	case TOKEN_STAR:
		// SELECT * context
		star := &A_Star{}
		star.Span = token2span(p.token)
		ref := &ColumnRef{Fields: []Node{star}}
		ref.Span = star.Span
		p.nextToken()
		return ref

	default:
		p.errorf("unexpected token %s, expected an expression", p.token.Type)
		return nil
	}
}

// numberConst converts a numeric literal to an integer or float constant.
func (p *Parser) numberConst(lit string, start token.Position) Node {
	if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
		c := NewIntConst(i)
		c.Span = p.spanFrom(start)
		return c
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		p.errorf("invalid number literal %q", lit)
		return nil
	}
	c := NewFloatConst(f)
	c.Span = p.spanFrom(start)
	return c
}

// parseIdentifierExpr parses a column reference or a function call.
func (p *Parser) parseIdentifierExpr() Node {
	start := p.start()

	parts := []Node{}
	s := &String{Sval: p.token.Literal}
	s.Span = token2span(p.token)
	parts = append(parts, s)
	p.nextToken()

	for p.check(TOKEN_DOT) {
		if p.checkPeek(TOKEN_STAR) {
			p.nextToken() // consume '.'
			star := &A_Star{}
			star.Span = token2span(p.token)
			p.nextToken()
			ref := &ColumnRef{Fields: append(parts, star)}
			ref.Span = p.spanFrom(start)
			return ref
		}
		if !p.checkPeek(TOKEN_IDENT) {
			p.errorf("unexpected token %s, expected identifier after .", p.peek.Type)
			return nil
		}
		p.nextToken()
		s := &String{Sval: p.token.Literal}
		s.Span = token2span(p.token)
		parts = append(parts, s)
		p.nextToken()
	}

	if p.check(TOKEN_LPAREN) {
		return p.parseFuncCall(parts, start)
	}

	ref := &ColumnRef{Fields: parts}
	ref.Span = p.spanFrom(start)
	return ref
}

// parseFuncCall parses the argument list of a function call whose name
// parts were already consumed.
func (p *Parser) parseFuncCall(funcname []Node, start token.Position) Node {
	// Args starts non-nil so a zero-argument call has an empty, not
	// missing, argument list.
	call := &FuncCall{Funcname: funcname, Args: []Node{}}
	p.nextToken() // consume '('

	if p.match(TOKEN_DISTINCT) {
		call.AggDistinct = true
	}

	switch {
	case p.check(TOKEN_STAR):
		call.AggStar = true
		p.nextToken()
	case !p.check(TOKEN_RPAREN):
		call.Args = p.parseExpressionList()
	}

	if !p.expect(TOKEN_RPAREN) {
		return nil
	}
	call.Span = p.spanFrom(start)
	return call
}

// parseParenExpr parses a parenthesized expression or a scalar subquery.
func (p *Parser) parseParenExpr() Node {
	start := p.start()
	p.nextToken() // consume '('

	if p.check(TOKEN_SELECT) || p.check(TOKEN_WITH) {
		sub := &SubLink{SubLinkType: ExprSublink}
		sub.Subselect = p.parseStatement()
		if !p.expect(TOKEN_RPAREN) {
			return nil
		}
		sub.Span = p.spanFrom(start)
		return sub
	}

	expr := p.parseExpression()
	if expr == nil {
		return nil
	}
	if !p.expect(TOKEN_RPAREN) {
		return nil
	}
	return expr
}

// parseCaseExpr parses CASE [operand] WHEN ... THEN ... [ELSE ...] END.
func (p *Parser) parseCaseExpr() Node {
	start := p.start()
	p.nextToken() // consume CASE

	expr := &CaseExpr{}
	if !p.check(TOKEN_WHEN) {
		expr.Arg = p.parseExpression()
		if expr.Arg == nil {
			return nil
		}
	}

	for p.check(TOKEN_WHEN) {
		whenStart := p.start()
		p.nextToken()
		when := &CaseWhen{}
		when.Expr = p.parseExpression()
		if when.Expr == nil {
			return nil
		}
		if !p.expect(TOKEN_THEN) {
			return nil
		}
		when.Result = p.parseExpression()
		if when.Result == nil {
			return nil
		}
		when.Span = p.spanFrom(whenStart)
		expr.Args = append(expr.Args, when)
	}

	if len(expr.Args) == 0 {
		p.errorf("CASE expression requires at least one WHEN arm")
		return nil
	}

	if p.match(TOKEN_ELSE) {
		expr.Defresult = p.parseExpression()
		if expr.Defresult == nil {
			return nil
		}
	}
	if !p.expect(TOKEN_END) {
		return nil
	}

	expr.Span = p.spanFrom(start)
	return expr
}

// parseCastExpr parses CAST(expr AS type).
func (p *Parser) parseCastExpr() Node {
	start := p.start()
	p.nextToken() // consume CAST
	if !p.expect(TOKEN_LPAREN) {
		return nil
	}

	cast := &TypeCast{}
	cast.Arg = p.parseExpression()
	if cast.Arg == nil {
		return nil
	}
	if !p.expect(TOKEN_AS) {
		return nil
	}
	cast.TypeName = p.parseTypeName()
	if cast.TypeName == nil {
		return nil
	}
	if !p.expect(TOKEN_RPAREN) {
		return nil
	}

	cast.Span = p.spanFrom(start)
	return cast
}

// parseExistsExpr parses EXISTS (select).
func (p *Parser) parseExistsExpr() Node {
	start := p.start()
	p.nextToken() // consume EXISTS
	if !p.expect(TOKEN_LPAREN) {
		return nil
	}

	sub := &SubLink{SubLinkType: ExistsSublink}
	sub.Subselect = p.parseStatement()
	if sub.Subselect == nil {
		return nil
	}
	if !p.expect(TOKEN_RPAREN) {
		return nil
	}

	sub.Span = p.spanFrom(start)
	return sub
}
