package parser

// Statement parsing: SELECT (with set operations), INSERT, UPDATE, DELETE,
// and WITH clauses.

// parseWithClause parses WITH [RECURSIVE] name AS (stmt), ...
func (p *Parser) parseWithClause() *WithClause {
	start := p.start()
	with := &WithClause{}
	p.expect(TOKEN_WITH)
	if p.match(TOKEN_RECURSIVE) {
		with.Recursive = true
	}

	for {
		cte := p.parseCommonTableExpr()
		if cte == nil {
			return nil
		}
		with.Ctes = append(with.Ctes, cte)
		if !p.match(TOKEN_COMMA) {
			break
		}
	}

	with.Span = p.spanFrom(start)
	return with
}

// parseCommonTableExpr parses name AS (stmt).
func (p *Parser) parseCommonTableExpr() *CommonTableExpr {
	start := p.start()
	cte := &CommonTableExpr{}

	if !p.check(TOKEN_IDENT) {
		p.errorf("unexpected token %s, expected CTE name", p.token.Type)
		return nil
	}
	cte.Ctename = p.token.Literal
	p.nextToken()

	if !p.expect(TOKEN_AS) || !p.expect(TOKEN_LPAREN) {
		return nil
	}
	cte.Ctequery = p.parseStatement()
	if !p.expect(TOKEN_RPAREN) {
		return nil
	}

	cte.Span = p.spanFrom(start)
	return cte
}

// parseSelectStmt parses a select with optional chained set operations.
// Set operations associate left: a UNION b UNION c is (a UNION b) UNION c.
func (p *Parser) parseSelectStmt() *SelectStmt {
	start := p.start()
	left := p.parseSelectPrimary()
	if left == nil {
		return nil
	}

	for {
		var op string
		switch p.token.Type {
		case TOKEN_UNION:
			op = SetOpUnion
		case TOKEN_INTERSECT:
			op = SetOpIntersect
		case TOKEN_EXCEPT:
			op = SetOpExcept
		default:
			return left
		}
		p.nextToken()

		all := p.match(TOKEN_ALL)
		right := p.parseSelectPrimary()
		if right == nil {
			return nil
		}

		combined := &SelectStmt{
			Op:   op,
			All:  all,
			Larg: left,
			Rarg: right,
		}
		combined.Span = p.spanFrom(start)
		left = combined
	}
}

// parseSelectPrimary parses a select core or a parenthesized select.
func (p *Parser) parseSelectPrimary() *SelectStmt {
	if p.check(TOKEN_LPAREN) {
		p.nextToken()
		stmt := p.parseSelectStmt()
		p.expect(TOKEN_RPAREN)
		return stmt
	}
	return p.parseSelectCore()
}

// parseSelectCore parses SELECT [DISTINCT] targets [FROM ...] [WHERE ...]
// [GROUP BY ...] [HAVING ...] [ORDER BY ...] [LIMIT ...] [OFFSET ...].
func (p *Parser) parseSelectCore() *SelectStmt {
	start := p.start()
	stmt := &SelectStmt{Op: SetOpNone}

	if !p.expect(TOKEN_SELECT) {
		return nil
	}
	if p.match(TOKEN_DISTINCT) {
		stmt.DistinctClause = true
	}

	stmt.TargetList = p.parseTargetList()

	if p.match(TOKEN_FROM) {
		stmt.FromClause = p.parseFromList()
	}
	if p.match(TOKEN_WHERE) {
		stmt.WhereClause = p.parseExpression()
	}
	if p.check(TOKEN_GROUP) {
		p.nextToken()
		p.expect(TOKEN_BY)
		stmt.GroupClause = p.parseExpressionList()
	}
	if p.match(TOKEN_HAVING) {
		stmt.HavingClause = p.parseExpression()
	}
	if p.check(TOKEN_ORDER) {
		p.nextToken()
		p.expect(TOKEN_BY)
		stmt.SortClause = p.parseSortClause()
	}
	if p.match(TOKEN_LIMIT) {
		stmt.LimitCount = p.parseExpression()
	}
	if p.match(TOKEN_OFFSET) {
		stmt.LimitOffset = p.parseExpression()
	}

	stmt.Span = p.spanFrom(start)
	return stmt
}

// parseTargetList parses a comma-separated list of output columns.
func (p *Parser) parseTargetList() []*ResTarget {
	var targets []*ResTarget
	for {
		t := p.parseResTarget()
		if t == nil {
			return targets
		}
		targets = append(targets, t)
		if !p.match(TOKEN_COMMA) {
			return targets
		}
	}
}

// parseResTarget parses expr [[AS] alias].
func (p *Parser) parseResTarget() *ResTarget {
	start := p.start()
	target := &ResTarget{}

	target.Val = p.parseExpression()
	if target.Val == nil {
		return nil
	}

	if p.match(TOKEN_AS) {
		if !p.check(TOKEN_IDENT) {
			p.errorf("unexpected token %s, expected alias after AS", p.token.Type)
			return nil
		}
		target.Name = p.token.Literal
		p.nextToken()
	} else if p.check(TOKEN_IDENT) {
		// Bare alias: SELECT a b FROM t
		target.Name = p.token.Literal
		p.nextToken()
	}

	target.Span = p.spanFrom(start)
	return target
}

// parseSortClause parses ORDER BY items.
func (p *Parser) parseSortClause() []*SortBy {
	var items []*SortBy
	for {
		start := p.start()
		item := &SortBy{SortbyDir: SortByDefault}
		item.Node = p.parseExpression()
		if item.Node == nil {
			return items
		}
		if p.match(TOKEN_ASC) {
			item.SortbyDir = SortByAsc
		} else if p.match(TOKEN_DESC) {
			item.SortbyDir = SortByDesc
		}
		item.Span = p.spanFrom(start)
		items = append(items, item)
		if !p.match(TOKEN_COMMA) {
			return items
		}
	}
}

// parseExpressionList parses a comma-separated expression list.
func (p *Parser) parseExpressionList() []Node {
	var exprs []Node
	for {
		e := p.parseExpression()
		if e == nil {
			return exprs
		}
		exprs = append(exprs, e)
		if !p.match(TOKEN_COMMA) {
			return exprs
		}
	}
}

// parseInsertStmt parses INSERT INTO table [(cols)] (VALUES rows | select)
// [RETURNING list].
func (p *Parser) parseInsertStmt() *InsertStmt {
	start := p.start()
	stmt := &InsertStmt{}

	p.expect(TOKEN_INSERT)
	if !p.expect(TOKEN_INTO) {
		return nil
	}

	stmt.Relation = p.parseRangeVar(false)
	if stmt.Relation == nil {
		return nil
	}

	if p.check(TOKEN_LPAREN) && !p.peekStartsSelect() {
		p.nextToken()
		for {
			if !p.check(TOKEN_IDENT) {
				p.errorf("unexpected token %s, expected column name", p.token.Type)
				return nil
			}
			col := &ResTarget{Name: p.token.Literal}
			col.Span = p.spanFrom(p.token.Pos)
			p.nextToken()
			stmt.Cols = append(stmt.Cols, col)
			if !p.match(TOKEN_COMMA) {
				break
			}
		}
		if !p.expect(TOKEN_RPAREN) {
			return nil
		}
	}

	switch {
	case p.match(TOKEN_VALUES):
		stmt.ValuesLists = p.parseValuesLists()
	case p.check(TOKEN_SELECT) || p.check(TOKEN_LPAREN) || p.check(TOKEN_WITH):
		stmt.SelectStmt = p.parseStatement()
	default:
		p.errorf("unexpected token %s, expected VALUES or SELECT", p.token.Type)
		return nil
	}

	if p.match(TOKEN_RETURNING) {
		stmt.ReturningList = p.parseReturningList()
	}

	stmt.Span = p.spanFrom(start)
	return stmt
}

// peekStartsSelect reports whether the parenthesized group starting at the
// current '(' opens a select rather than a column list.
func (p *Parser) peekStartsSelect() bool {
	return p.checkPeek(TOKEN_SELECT) || p.checkPeek(TOKEN_WITH)
}

// parseValuesLists parses (expr, ...), (expr, ...), ...
func (p *Parser) parseValuesLists() []*List {
	var rows []*List
	for {
		start := p.start()
		if !p.expect(TOKEN_LPAREN) {
			return rows
		}
		row := &List{Items: p.parseExpressionList()}
		if !p.expect(TOKEN_RPAREN) {
			return rows
		}
		row.Span = p.spanFrom(start)
		rows = append(rows, row)
		if !p.match(TOKEN_COMMA) {
			return rows
		}
	}
}

// parseReturningList parses a RETURNING target list as generic nodes.
func (p *Parser) parseReturningList() []Node {
	targets := p.parseTargetList()
	out := make([]Node, 0, len(targets))
	for _, t := range targets {
		out = append(out, t)
	}
	return out
}

// parseUpdateStmt parses UPDATE table SET col = expr, ... [FROM ...]
// [WHERE ...] [RETURNING ...].
func (p *Parser) parseUpdateStmt() *UpdateStmt {
	start := p.start()
	stmt := &UpdateStmt{}

	p.expect(TOKEN_UPDATE)
	stmt.Relation = p.parseRangeVar(true)
	if stmt.Relation == nil {
		return nil
	}
	if !p.expect(TOKEN_SET) {
		return nil
	}

	for {
		assignStart := p.start()
		if !p.check(TOKEN_IDENT) {
			p.errorf("unexpected token %s, expected column name", p.token.Type)
			return nil
		}
		target := &ResTarget{Name: p.token.Literal}
		p.nextToken()
		if !p.expect(TOKEN_EQ) {
			return nil
		}
		target.Val = p.parseExpression()
		target.Span = p.spanFrom(assignStart)
		stmt.TargetList = append(stmt.TargetList, target)
		if !p.match(TOKEN_COMMA) {
			break
		}
	}

	if p.match(TOKEN_FROM) {
		stmt.FromClause = p.parseFromList()
	}
	if p.match(TOKEN_WHERE) {
		stmt.WhereClause = p.parseExpression()
	}
	if p.match(TOKEN_RETURNING) {
		stmt.ReturningList = p.parseReturningList()
	}

	stmt.Span = p.spanFrom(start)
	return stmt
}

// parseDeleteStmt parses DELETE FROM table [USING ...] [WHERE ...]
// [RETURNING ...].
func (p *Parser) parseDeleteStmt() *DeleteStmt {
	start := p.start()
	stmt := &DeleteStmt{}

	p.expect(TOKEN_DELETE)
	if !p.expect(TOKEN_FROM) {
		return nil
	}
	stmt.Relation = p.parseRangeVar(true)
	if stmt.Relation == nil {
		return nil
	}

	if p.match(TOKEN_USING) {
		stmt.UsingClause = p.parseFromList()
	}
	if p.match(TOKEN_WHERE) {
		stmt.WhereClause = p.parseExpression()
	}
	if p.match(TOKEN_RETURNING) {
		stmt.ReturningList = p.parseReturningList()
	}

	stmt.Span = p.spanFrom(start)
	return stmt
}
