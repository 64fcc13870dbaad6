package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlgrep/pkg/parser"
	"github.com/leapstack-labs/sqlgrep/pkg/pattern"
	"github.com/leapstack-labs/sqlgrep/pkg/tree"
)

func mustPattern(t *testing.T, text string) pattern.Pattern {
	t.Helper()
	pat, err := pattern.Parse(text)
	require.NoError(t, err)
	return pat
}

func mustParse(t *testing.T, sql string) []parser.Node {
	t.Helper()
	roots, err := parser.Parse(sql)
	require.NoError(t, err)
	return roots
}

func mustParseOne(t *testing.T, sql string) parser.Node {
	t.Helper()
	n, err := parser.ParseOne(sql)
	require.NoError(t, err)
	return n
}

func TestMatchKindOnly(t *testing.T) {
	stmt := mustParseOne(t, "SELECT 1")

	caps, ok := Match(mustPattern(t, "SelectStmt"), stmt)
	require.True(t, ok)
	assert.True(t, caps.IsEmpty())

	_, ok = Match(mustPattern(t, "InsertStmt"), stmt)
	assert.False(t, ok)
}

func TestMatchKindReflexivity(t *testing.T) {
	// For every node of a parsed corpus, a kind-only pattern naming the
	// node's own kind matches it.
	roots := mustParse(t, `
		SELECT DISTINCT a.x, count(*) FROM t a
		LEFT JOIN u ON a.id = u.id
		WHERE a.x IN (1, 2) AND a.y IS NOT NULL
		GROUP BY a.x HAVING count(*) > 1
		ORDER BY a.x DESC LIMIT 10;
		INSERT INTO t (a, b) VALUES (1, 'x') RETURNING a;
		WITH c AS (SELECT 1) UPDATE t SET a = CASE WHEN b THEN 1 ELSE 2 END;
		DELETE FROM t USING u WHERE EXISTS (SELECT 1 FROM v);
	`)
	visited := 0
	for _, root := range roots {
		var walkAll func(parser.Node)
		walkAll = func(n parser.Node) {
			visited++
			_, ok := Match(&pattern.Kind{Name: tree.KindOf(n)}, n)
			assert.True(t, ok, "kind %s", tree.KindOf(n))
			for _, c := range tree.Children(n) {
				walkAll(c)
			}
		}
		walkAll(root)
	}
	assert.Greater(t, visited, 40)
}

func TestScenarioSelectVsInsert(t *testing.T) {
	roots := mustParse(t, "SELECT 1; INSERT INTO t VALUES (1);")
	require.Len(t, roots, 2)

	pat := mustPattern(t, "SelectStmt")
	_, ok := Match(pat, roots[0])
	assert.True(t, ok)
	_, ok = Match(pat, roots[1])
	assert.False(t, ok)

	// The INSERT's VALUES rows carry no nested SelectStmt, so searching
	// the second root finds nothing at any depth.
	assert.Empty(t, Search(pat, roots[1]))
}

func TestScenarioWhereClausePresence(t *testing.T) {
	pat := mustPattern(t, "(SelectStmt (whereClause ...))")

	withWhere := mustParseOne(t, "SELECT * FROM t WHERE id = 1")
	results := Search(pat, withWhere)
	assert.Len(t, results, 1)

	// A field selector requires the field to be present: no WHERE, no
	// match, even though the selector's pattern is a bare wildcard.
	noWhere := mustParseOne(t, "SELECT * FROM t")
	assert.Empty(t, Search(pat, noWhere))
}

func TestScenarioFieldSelectorPicksNode(t *testing.T) {
	root := mustParseOne(t, "SELECT * FROM users, orders")
	results := Search(mustPattern(t, `(relname "users")`), root)
	require.Len(t, results, 1)

	rv, ok := results[0].Node.(*parser.RangeVar)
	require.True(t, ok)
	assert.Equal(t, "users", rv.Relname)
}

func TestScenarioCaptureBindsPerMatch(t *testing.T) {
	root := mustParseOne(t, "SELECT * FROM a, b")
	results := Search(mustPattern(t, "$t: RangeVar"), root)
	require.Len(t, results, 2)

	var names []string
	for _, r := range results {
		v, ok := r.Captures.Get("t")
		require.True(t, ok)
		require.Equal(t, tree.NodeKind, v.Kind)
		names = append(names, v.Node.(*parser.RangeVar).Relname)
	}
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestMatchLiteral(t *testing.T) {
	rv := &parser.RangeVar{Relname: "users"}

	tests := []struct {
		pattern string
		ok      bool
	}{
		{`(RangeVar (relname "users"))`, true},
		{`(RangeVar (relname "orders"))`, false},
		{`(RangeVar (relname _))`, true},
		{`(RangeVar (relname ...))`, true},
		{`(relname "users")`, true},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			_, ok := Match(mustPattern(t, tt.pattern), rv)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestMatchNumericLiteralByValue(t *testing.T) {
	intConst := mustParseOne(t, "SELECT 42").(*parser.SelectStmt).TargetList[0].Val
	floatConst := mustParseOne(t, "SELECT 42.0").(*parser.SelectStmt).TargetList[0].Val

	_, ok := Match(mustPattern(t, "(A_Const (ival 42))"), intConst)
	assert.True(t, ok)
	_, ok = Match(mustPattern(t, "(A_Const (ival 41))"), intConst)
	assert.False(t, ok)

	// Numbers compare by value across the int/float divide.
	_, ok = Match(mustPattern(t, "(A_Const (fval 42))"), floatConst)
	assert.True(t, ok)
}

func TestMatchAbsencePolicy(t *testing.T) {
	stmt := mustParseOne(t, "SELECT a FROM t")

	// Absent fields fail every selector shape, including wildcard.
	for _, text := range []string{
		"(SelectStmt (whereClause ...))",
		"(SelectStmt (whereClause _))",
		"(SelectStmt (havingClause ...))",
		"(SelectStmt (noSuchField ...))",
	} {
		_, ok := Match(mustPattern(t, text), stmt)
		assert.False(t, ok, text)
	}

	// Omitting the field leaves it unconstrained.
	_, ok := Match(mustPattern(t, "(SelectStmt (fromClause ...))"), stmt)
	assert.True(t, ok)
}

func TestMatchListSequences(t *testing.T) {
	three := mustParseOne(t, "SELECT a, b, c FROM t")
	one := mustParseOne(t, "SELECT a FROM t")

	tests := []struct {
		name    string
		pattern string
		node    parser.Node
		ok      bool
	}{
		{"bare wildcard matches any list", "(SelectStmt (targetList ...))", three, true},
		{"exact arity", "(SelectStmt (targetList _ _ _))", three, true},
		{"arity mismatch", "(SelectStmt (targetList _ _))", three, false},
		{"trailing wildcard absorbs rest", "(SelectStmt (targetList _ ...))", three, true},
		{"trailing wildcard absorbs zero", "(SelectStmt (targetList _ ...))", one, true},
		{"prefix longer than list", "(SelectStmt (targetList _ _ ...))", one, false},
		{"element pattern", "(SelectStmt (targetList ResTarget ...))", three, true},
		{"element kind mismatch", "(SelectStmt (targetList RangeVar ...))", three, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Match(mustPattern(t, tt.pattern), tt.node)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestMatchEmptyList(t *testing.T) {
	// A zero-argument call has a present, empty args list.
	call := mustParseOne(t, "SELECT now()").(*parser.SelectStmt).TargetList[0].Val

	_, ok := Match(mustPattern(t, "(FuncCall (args ...))"), call)
	assert.True(t, ok)

	// An explicitly empty sequence matches only the empty list.
	sel := &pattern.FieldSel{Name: "args"}
	_, ok = Match(sel, call)
	assert.True(t, ok)

	twoArgs := mustParseOne(t, "SELECT coalesce(a, b)").(*parser.SelectStmt).TargetList[0].Val
	_, ok = Match(sel, twoArgs)
	assert.False(t, ok)
}

func TestMatchNestedPatterns(t *testing.T) {
	root := mustParseOne(t, "SELECT * FROM orders o JOIN users u ON o.uid = u.id WHERE o.total > 100")

	results := Search(mustPattern(t, `(JoinExpr (rarg (RangeVar (relname "users"))))`), root)
	assert.Len(t, results, 1)

	results = Search(mustPattern(t, `(JoinExpr (jointype "JOIN_LEFT"))`), root)
	assert.Empty(t, results)

	results = Search(mustPattern(t, `(A_Expr (name ">") (rexpr (A_Const (ival 100))))`), root)
	assert.Len(t, results, 1)
}

func TestMatchCaptureMerging(t *testing.T) {
	root := mustParseOne(t, "SELECT * FROM a JOIN b ON a.x = b.x")
	pat := mustPattern(t, `(JoinExpr (larg $left:RangeVar) (rarg $right:RangeVar))`)

	results := Search(pat, root)
	require.Len(t, results, 1)
	caps := results[0].Captures

	assert.Equal(t, []string{"left", "right"}, caps.Names())
	left, _ := caps.Get("left")
	right, _ := caps.Get("right")
	assert.Equal(t, "a", left.Node.(*parser.RangeVar).Relname)
	assert.Equal(t, "b", right.Node.(*parser.RangeVar).Relname)
}

func TestMatchDuplicateCaptureLastWriteWins(t *testing.T) {
	root := mustParseOne(t, "SELECT * FROM a JOIN b ON a.x = b.x")
	pat := mustPattern(t, `(JoinExpr (larg $t:RangeVar) (rarg $t:RangeVar))`)

	results := Search(pat, root)
	require.Len(t, results, 1)
	caps := results[0].Captures

	require.Equal(t, []string{"t"}, caps.Names())
	v, _ := caps.Get("t")
	assert.Equal(t, "b", v.Node.(*parser.RangeVar).Relname)
}

func TestMatchCaptureScalar(t *testing.T) {
	root := mustParseOne(t, "SELECT * FROM users")
	results := Search(mustPattern(t, `(RangeVar (relname $name:_))`), root)
	require.Len(t, results, 1)

	v, ok := results[0].Captures.Get("name")
	require.True(t, ok)
	require.Equal(t, tree.ScalarKind, v.Kind)
	assert.Equal(t, "users", v.Scalar.String())
}

func TestMatchFailedCaptureBindsNothing(t *testing.T) {
	stmt := mustParseOne(t, "SELECT 1")
	_, ok := Match(mustPattern(t, "$t:InsertStmt"), stmt)
	assert.False(t, ok)
}

func TestMatchDeterministic(t *testing.T) {
	root := mustParseOne(t, "SELECT a, b FROM t WHERE a > 1")
	pat := mustPattern(t, "(SelectStmt (whereClause (A_Expr (name \">\"))))")

	first := Search(pat, root)
	for i := 0; i < 5; i++ {
		assert.Equal(t, len(first), len(Search(pat, root)))
	}
}

func TestRefinementShrinksMatches(t *testing.T) {
	roots := mustParse(t, `
		SELECT * FROM a WHERE x = 1;
		SELECT * FROM b;
		SELECT * FROM c WHERE y = 2;
	`)

	broad := SearchAll(mustPattern(t, "SelectStmt"), roots)
	refined := SearchAll(mustPattern(t, "(SelectStmt (whereClause ...))"), roots)

	assert.Len(t, broad, 3)
	assert.Len(t, refined, 2)
	// Every refined match node is one of the broad match nodes.
	for _, r := range refined {
		found := false
		for _, b := range broad {
			if b.Node == r.Node {
				found = true
				break
			}
		}
		assert.True(t, found)
	}
}

func TestSearchPreOrder(t *testing.T) {
	// The outer select is visited before the subquery's.
	root := mustParseOne(t, "SELECT * FROM (SELECT a FROM t) s WHERE x > 1")
	results := Search(mustPattern(t, "SelectStmt"), root)
	require.Len(t, results, 2)
	assert.Same(t, root, results[0].Node)
}

func TestSearchAllConcatenatesInOrder(t *testing.T) {
	roots := mustParse(t, "SELECT * FROM a; SELECT * FROM b;")
	results := SearchAll(mustPattern(t, "RangeVar"), roots)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Node.(*parser.RangeVar).Relname)
	assert.Equal(t, "b", results[1].Node.(*parser.RangeVar).Relname)
}

func TestSearchWithCaptures(t *testing.T) {
	root := mustParseOne(t, "SELECT * FROM users WHERE id = 1")

	plain := Search(mustPattern(t, "RangeVar"), root)
	assert.Len(t, plain, 1)
	assert.Empty(t, SearchWithCaptures(mustPattern(t, "RangeVar"), root))

	bound := SearchWithCaptures(mustPattern(t, "$t:RangeVar"), root)
	assert.Len(t, bound, 1)
}

func TestTracerRecordsEvents(t *testing.T) {
	rec := &Recorder{}
	stmt := mustParseOne(t, "SELECT * FROM t WHERE id = 1")

	_, ok := Match(mustPattern(t, "(SelectStmt (whereClause ...))"), stmt, WithTracer(rec))
	require.True(t, ok)
	require.NotEmpty(t, rec.Events)

	assert.Equal(t, StepKind, rec.Events[0].Step)
	assert.True(t, rec.Events[0].Matched)

	var steps []Step
	for _, ev := range rec.Events {
		steps = append(steps, ev.Step)
	}
	assert.Contains(t, steps, StepField)
	assert.Contains(t, steps, StepWildcard)

	rec.Reset()
	Match(mustPattern(t, "InsertStmt"), stmt, WithTracer(rec))
	require.Len(t, rec.Events, 1)
	assert.False(t, rec.Events[0].Matched)
}

func TestMatchNilNode(t *testing.T) {
	_, ok := Match(mustPattern(t, "..."), nil)
	assert.False(t, ok)
}
