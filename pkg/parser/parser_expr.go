package parser

import "github.com/leapstack-labs/sqlgrep/pkg/token"

// Expression parsing using precedence climbing.
//
// Precedence levels:
//
//	precedenceOr         = 1
//	precedenceAnd        = 2
//	precedenceNot        = 3
//	precedenceComparison = 4  (=, <>, <, >, <=, >=, IS, IN, BETWEEN, LIKE, ILIKE)
//	precedenceAddition   = 5  (+, -, ||)
//	precedenceMultiply   = 6  (*, /, %)
//	precedenceUnary      = 7  (unary -, +)
//	precedencePostfix    = 8  (::)

const (
	precedenceNone       = 0
	precedenceOr         = 1
	precedenceAnd        = 2
	precedenceNot        = 3
	precedenceComparison = 4
	precedenceAddition   = 5
	precedenceMultiply   = 6
	precedenceUnary      = 7
	precedencePostfix    = 8
)

// parseExpression parses an expression.
func (p *Parser) parseExpression() Node {
	return p.parseExpressionWithPrecedence(precedenceNone + 1)
}

// parseExpressionWithPrecedence implements precedence climbing.
func (p *Parser) parseExpressionWithPrecedence(minPrecedence int) Node {
	left := p.parsePrefixExpr()
	if left == nil {
		return nil
	}

	for {
		prec := p.infixPrecedence()
		if prec < minPrecedence {
			break
		}
		left = p.parseInfixExpr(left, prec)
		if left == nil {
			break
		}
	}

	return left
}

// parsePrefixExpr parses unary operators and primary expressions.
func (p *Parser) parsePrefixExpr() Node {
	start := p.start()
	switch p.token.Type {
	case TOKEN_NOT:
		if p.checkPeek(TOKEN_EXISTS) {
			p.nextToken()
			inner := p.parseExistsExpr()
			if inner == nil {
				return nil
			}
			not := &BoolExpr{Boolop: BoolNot, Args: []Node{inner}}
			not.Span = p.spanFrom(start)
			return not
		}
		p.nextToken()
		expr := p.parseExpressionWithPrecedence(precedenceNot)
		if expr == nil {
			return nil
		}
		not := &BoolExpr{Boolop: BoolNot, Args: []Node{expr}}
		not.Span = p.spanFrom(start)
		return not

	case TOKEN_MINUS:
		p.nextToken()
		expr := p.parseExpressionWithPrecedence(precedenceUnary)
		if expr == nil {
			return nil
		}
		neg := &A_Expr{Kind: AExprOp, Name: "-", Rexpr: expr}
		neg.Span = p.spanFrom(start)
		return neg

	case TOKEN_PLUS:
		p.nextToken()
		expr := p.parseExpressionWithPrecedence(precedenceUnary)
		if expr == nil {
			return nil
		}
		pos := &A_Expr{Kind: AExprOp, Name: "+", Rexpr: expr}
		pos.Span = p.spanFrom(start)
		return pos

	default:
		return p.parsePrimary()
	}
}

// infixPrecedence returns the precedence of the current token as an infix
// operator, or precedenceNone.
func (p *Parser) infixPrecedence() int {
	switch p.token.Type {
	case TOKEN_OR:
		return precedenceOr
	case TOKEN_AND:
		return precedenceAnd
	case TOKEN_EQ, TOKEN_NE, TOKEN_LT, TOKEN_GT, TOKEN_LE, TOKEN_GE,
		TOKEN_IS, TOKEN_IN, TOKEN_BETWEEN, TOKEN_LIKE, TOKEN_ILIKE, TOKEN_NOT:
		return precedenceComparison
	case TOKEN_PLUS, TOKEN_MINUS, TOKEN_DPIPE:
		return precedenceAddition
	case TOKEN_STAR, TOKEN_SLASH, TOKEN_MOD:
		return precedenceMultiply
	case TOKEN_DCOLON:
		return precedencePostfix
	default:
		return precedenceNone
	}
}

// parseInfixExpr parses an infix expression given the left operand.
func (p *Parser) parseInfixExpr(left Node, prec int) Node {
	start := left.GetSpan().Start

	switch p.token.Type {
	case TOKEN_NOT:
		// NOT IN, NOT BETWEEN, NOT LIKE, NOT ILIKE
		p.nextToken()
		switch p.token.Type {
		case TOKEN_IN:
			p.nextToken()
			return p.parseInExpr(left, true)
		case TOKEN_BETWEEN:
			p.nextToken()
			return p.parseBetweenExpr(left, true)
		case TOKEN_LIKE:
			p.nextToken()
			return p.parseLikeExpr(left, AExprLike, "!~~")
		case TOKEN_ILIKE:
			p.nextToken()
			return p.parseLikeExpr(left, AExprIlike, "!~~*")
		default:
			p.errorf("unexpected token %s, expected IN, BETWEEN, LIKE, or ILIKE after NOT", p.token.Type)
			return nil
		}

	case TOKEN_IS:
		return p.parseIsExpr(left)

	case TOKEN_IN:
		p.nextToken()
		return p.parseInExpr(left, false)

	case TOKEN_BETWEEN:
		p.nextToken()
		return p.parseBetweenExpr(left, false)

	case TOKEN_LIKE:
		p.nextToken()
		return p.parseLikeExpr(left, AExprLike, "~~")

	case TOKEN_ILIKE:
		p.nextToken()
		return p.parseLikeExpr(left, AExprIlike, "~~*")

	case TOKEN_AND:
		p.nextToken()
		right := p.parseExpressionWithPrecedence(prec + 1)
		if right == nil {
			return nil
		}
		return p.boolJoin(BoolAnd, left, right, start)

	case TOKEN_OR:
		p.nextToken()
		right := p.parseExpressionWithPrecedence(prec + 1)
		if right == nil {
			return nil
		}
		return p.boolJoin(BoolOr, left, right, start)

	case TOKEN_DCOLON:
		p.nextToken()
		typeName := p.parseTypeName()
		if typeName == nil {
			return nil
		}
		cast := &TypeCast{Arg: left, TypeName: typeName}
		cast.Span = p.spanFrom(start)
		return cast

	default:
		op := p.token.Literal
		p.nextToken()
		right := p.parseExpressionWithPrecedence(prec + 1)
		if right == nil {
			return nil
		}
		expr := &A_Expr{Kind: AExprOp, Name: op, Lexpr: left, Rexpr: right}
		expr.Span = p.spanFrom(start)
		return expr
	}
}

// boolJoin combines operands into a BoolExpr, flattening consecutive
// applications of the same operator into one Args list.
func (p *Parser) boolJoin(boolop string, left, right Node, start token.Position) Node {
	if b, ok := left.(*BoolExpr); ok && b.Boolop == boolop {
		b.Args = append(b.Args, right)
		b.Span = p.spanFrom(start)
		return b
	}
	b := &BoolExpr{Boolop: boolop, Args: []Node{left, right}}
	b.Span = p.spanFrom(start)
	return b
}

// parseIsExpr parses IS [NOT] NULL.
func (p *Parser) parseIsExpr(left Node) Node {
	start := left.GetSpan().Start
	p.nextToken() // consume IS

	negated := p.match(TOKEN_NOT)
	if !p.expect(TOKEN_NULL) {
		return nil
	}

	test := &NullTest{Arg: left, Nulltesttype: IsNull}
	if negated {
		test.Nulltesttype = IsNotNull
	}
	test.Span = p.spanFrom(start)
	return test
}

// parseInExpr parses the right side of [NOT] IN: either an expression list
// or a subquery.
func (p *Parser) parseInExpr(left Node, negated bool) Node {
	start := left.GetSpan().Start
	if !p.expect(TOKEN_LPAREN) {
		return nil
	}

	if p.check(TOKEN_SELECT) || p.check(TOKEN_WITH) {
		sub := &SubLink{SubLinkType: AnySublink, Testexpr: left}
		sub.Subselect = p.parseStatement()
		if !p.expect(TOKEN_RPAREN) {
			return nil
		}
		sub.Span = p.spanFrom(start)
		if negated {
			not := &BoolExpr{Boolop: BoolNot, Args: []Node{sub}}
			not.Span = sub.Span
			return not
		}
		return sub
	}

	listStart := p.start()
	list := &List{Items: p.parseExpressionList()}
	if !p.expect(TOKEN_RPAREN) {
		return nil
	}
	list.Span = p.spanFrom(listStart)

	// PostgreSQL encodes IN as "=" and NOT IN as "<>" with kind AEXPR_IN.
	name := "="
	if negated {
		name = "<>"
	}
	expr := &A_Expr{Kind: AExprIn, Name: name, Lexpr: left, Rexpr: list}
	expr.Span = p.spanFrom(start)
	return expr
}

// parseBetweenExpr parses the right side of [NOT] BETWEEN: low AND high.
// Operands are parsed above AND precedence so the connecting AND is not
// consumed as a boolean operator.
func (p *Parser) parseBetweenExpr(left Node, negated bool) Node {
	start := left.GetSpan().Start

	low := p.parseExpressionWithPrecedence(precedenceComparison + 1)
	if low == nil {
		return nil
	}
	if !p.expect(TOKEN_AND) {
		return nil
	}
	high := p.parseExpressionWithPrecedence(precedenceComparison + 1)
	if high == nil {
		return nil
	}

	kind := AExprBetween
	name := "BETWEEN"
	if negated {
		kind = AExprNotBetween
		name = "NOT BETWEEN"
	}

	bounds := &List{Items: []Node{low, high}}
	bounds.Span = low.GetSpan().Cover(high.GetSpan())
	expr := &A_Expr{Kind: kind, Name: name, Lexpr: left, Rexpr: bounds}
	expr.Span = p.spanFrom(start)
	return expr
}

// parseLikeExpr parses the right side of [NOT] LIKE / ILIKE. The operator
// name follows PostgreSQL: ~~ for LIKE, ~~* for ILIKE, with a ! prefix
// when negated.
func (p *Parser) parseLikeExpr(left Node, kind, name string) Node {
	start := left.GetSpan().Start
	right := p.parseExpressionWithPrecedence(precedenceComparison + 1)
	if right == nil {
		return nil
	}
	expr := &A_Expr{Kind: kind, Name: name, Lexpr: left, Rexpr: right}
	expr.Span = p.spanFrom(start)
	return expr
}

// parseTypeName parses a possibly-qualified type name.
func (p *Parser) parseTypeName() *TypeName {
	start := p.start()
	if !p.check(TOKEN_IDENT) {
		p.errorf("unexpected token %s, expected type name", p.token.Type)
		return nil
	}

	tn := &TypeName{}
	s := &String{Sval: p.token.Literal}
	s.Span = token2span(p.token)
	tn.Names = append(tn.Names, s)
	p.nextToken()

	for p.check(TOKEN_DOT) && p.checkPeek(TOKEN_IDENT) {
		p.nextToken()
		s := &String{Sval: p.token.Literal}
		s.Span = token2span(p.token)
		tn.Names = append(tn.Names, s)
		p.nextToken()
	}

	tn.Span = p.spanFrom(start)
	return tn
}
