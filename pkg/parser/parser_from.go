package parser

// FROM clause parsing: table references, subselects, aliases, and joins.
//
// Grammar:
//
//	from_list  → from_item ("," from_item)*
//	from_item  → table_ref (join)*
//	join       → [NATURAL] join_type JOIN table_ref [ON expr | USING "(" cols ")"]
//	join_type  → [INNER] | LEFT [OUTER] | RIGHT [OUTER] | FULL [OUTER] | CROSS
//	table_ref  → qualified_name [alias] | "(" select ")" alias
//	alias      → [AS] name ["(" col ("," col)* ")"]

// parseFromList parses the comma-separated FROM items.
func (p *Parser) parseFromList() []Node {
	var items []Node
	for {
		item := p.parseFromItem()
		if item == nil {
			return items
		}
		items = append(items, item)
		if !p.match(TOKEN_COMMA) {
			return items
		}
	}
}

// parseFromItem parses a table reference followed by any number of joins.
func (p *Parser) parseFromItem() Node {
	start := p.start()
	left := p.parseTableRef()
	if left == nil {
		return nil
	}

	for {
		natural := false
		if p.check(TOKEN_NATURAL) {
			natural = true
			p.nextToken()
		}

		jointype, cross, ok := p.parseJoinType()
		if !ok {
			if natural {
				p.errorf("unexpected token %s, expected a join after NATURAL", p.token.Type)
				return nil
			}
			return left
		}

		join := &JoinExpr{
			Jointype:  jointype,
			IsNatural: natural,
			Larg:      left,
		}
		join.Rarg = p.parseTableRef()
		if join.Rarg == nil {
			return nil
		}

		if !cross && !natural {
			switch {
			case p.match(TOKEN_ON):
				join.Quals = p.parseExpression()
			case p.match(TOKEN_USING):
				join.UsingClause = p.parseUsingColumns()
			default:
				p.errorf("unexpected token %s, expected ON or USING", p.token.Type)
				return nil
			}
		}

		join.Span = p.spanFrom(start)
		left = join
	}
}

// parseJoinType consumes a join prefix and reports the join type, whether it
// was CROSS, and whether a join was present at all.
func (p *Parser) parseJoinType() (jointype string, cross, ok bool) {
	switch p.token.Type {
	case TOKEN_JOIN:
		p.nextToken()
		return JoinInner, false, true
	case TOKEN_INNER:
		p.nextToken()
		p.expect(TOKEN_JOIN)
		return JoinInner, false, true
	case TOKEN_LEFT:
		p.nextToken()
		p.match(TOKEN_OUTER)
		p.expect(TOKEN_JOIN)
		return JoinLeft, false, true
	case TOKEN_RIGHT:
		p.nextToken()
		p.match(TOKEN_OUTER)
		p.expect(TOKEN_JOIN)
		return JoinRight, false, true
	case TOKEN_FULL:
		p.nextToken()
		p.match(TOKEN_OUTER)
		p.expect(TOKEN_JOIN)
		return JoinFull, false, true
	case TOKEN_CROSS:
		p.nextToken()
		p.expect(TOKEN_JOIN)
		return JoinInner, true, true
	default:
		return "", false, false
	}
}

// parseUsingColumns parses ( col, col, ... ) into String nodes.
func (p *Parser) parseUsingColumns() []Node {
	if !p.expect(TOKEN_LPAREN) {
		return nil
	}
	var cols []Node
	for {
		if !p.check(TOKEN_IDENT) {
			p.errorf("unexpected token %s, expected column name", p.token.Type)
			return nil
		}
		s := &String{Sval: p.token.Literal}
		s.Span = token2span(p.token)
		cols = append(cols, s)
		p.nextToken()
		if !p.match(TOKEN_COMMA) {
			break
		}
	}
	p.expect(TOKEN_RPAREN)
	return cols
}

// parseTableRef parses a table name or a parenthesized subselect, with an
// optional alias.
func (p *Parser) parseTableRef() Node {
	if p.check(TOKEN_LPAREN) {
		start := p.start()
		p.nextToken()
		sub := &RangeSubselect{}
		sub.Subquery = p.parseStatement()
		if sub.Subquery == nil {
			return nil
		}
		if !p.expect(TOKEN_RPAREN) {
			return nil
		}
		sub.Alias = p.parseAlias()
		if sub.Alias == nil {
			p.errorf("subquery in FROM must have an alias")
			return nil
		}
		sub.Span = p.spanFrom(start)
		return sub
	}
	rv := p.parseRangeVar(true)
	if rv == nil {
		return nil
	}
	return rv
}

// parseRangeVar parses [catalog.][schema.]table with an optional alias
// when allowAlias is set.
func (p *Parser) parseRangeVar(allowAlias bool) *RangeVar {
	start := p.start()
	if !p.check(TOKEN_IDENT) {
		p.errorf("unexpected token %s, expected table name", p.token.Type)
		return nil
	}

	parts := []string{p.token.Literal}
	p.nextToken()
	for p.check(TOKEN_DOT) && p.checkPeek(TOKEN_IDENT) {
		p.nextToken()
		parts = append(parts, p.token.Literal)
		p.nextToken()
	}

	rv := &RangeVar{}
	switch len(parts) {
	case 1:
		rv.Relname = parts[0]
	case 2:
		rv.Schemaname = parts[0]
		rv.Relname = parts[1]
	case 3:
		rv.Catalogname = parts[0]
		rv.Schemaname = parts[1]
		rv.Relname = parts[2]
	default:
		p.errorf("too many qualifiers in table name")
		return nil
	}

	if allowAlias {
		rv.Alias = p.parseAlias()
	}

	rv.Span = p.spanFrom(start)
	return rv
}

// parseAlias parses [AS] name ["(" col, ... ")"], returning nil when no
// alias is present.
func (p *Parser) parseAlias() *Alias {
	start := p.start()
	explicit := p.match(TOKEN_AS)
	if !p.check(TOKEN_IDENT) {
		if explicit {
			p.errorf("unexpected token %s, expected alias after AS", p.token.Type)
		}
		return nil
	}

	alias := &Alias{Aliasname: p.token.Literal}
	p.nextToken()

	if p.check(TOKEN_LPAREN) && p.checkPeek(TOKEN_IDENT) {
		p.nextToken()
		for {
			if !p.check(TOKEN_IDENT) {
				p.errorf("unexpected token %s, expected column name", p.token.Type)
				return nil
			}
			s := &String{Sval: p.token.Literal}
			s.Span = token2span(p.token)
			alias.Colnames = append(alias.Colnames, s)
			p.nextToken()
			if !p.match(TOKEN_COMMA) {
				break
			}
		}
		p.expect(TOKEN_RPAREN)
	}

	alias.Span = p.spanFrom(start)
	return alias
}
