package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAtoms(t *testing.T) {
	tests := []struct {
		input string
		want  Pattern
	}{
		{"SelectStmt", &Kind{Name: "SelectStmt"}},
		{"RangeVar", &Kind{Name: "RangeVar"}},
		{"...", &Wildcard{}},
		{"_", &Anything{}},
		{"true", &Literal{Kind: LitBool, Bool: true}},
		{"false", &Literal{Kind: LitBool, Bool: false}},
		{"123", &Literal{Kind: LitInt, Int: 123}},
		{"-7", &Literal{Kind: LitInt, Int: -7}},
		{"4.5", &Literal{Kind: LitFloat, Float: 4.5}},
		{`"users"`, &Literal{Kind: LitString, Str: "users"}},
		{`""`, &Literal{Kind: LitString, Str: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseKindWithFields(t *testing.T) {
	got, err := Parse(`(SelectStmt (whereClause ...) (targetList _ ...))`)
	require.NoError(t, err)
	assert.Equal(t, &Kind{
		Name: "SelectStmt",
		Fields: []*FieldSel{
			{Name: "whereClause", Seq: []Pattern{&Wildcard{}}},
			{Name: "targetList", Seq: []Pattern{&Anything{}, &Wildcard{}}},
		},
	}, got)
}

func TestParseFieldSelector(t *testing.T) {
	got, err := Parse(`(relname "users")`)
	require.NoError(t, err)
	assert.Equal(t, &FieldSel{
		Name: "relname",
		Seq:  []Pattern{&Literal{Kind: LitString, Str: "users"}},
	}, got)
}

func TestParseCapture(t *testing.T) {
	t.Run("tight", func(t *testing.T) {
		got, err := Parse("$t:RangeVar")
		require.NoError(t, err)
		assert.Equal(t, &Capture{Name: "t", Inner: &Kind{Name: "RangeVar"}}, got)
	})

	t.Run("space after colon", func(t *testing.T) {
		got, err := Parse("$t: RangeVar")
		require.NoError(t, err)
		assert.Equal(t, &Capture{Name: "t", Inner: &Kind{Name: "RangeVar"}}, got)
	})

	t.Run("nested in field", func(t *testing.T) {
		got, err := Parse(`(RangeVar (relname $name:_))`)
		require.NoError(t, err)
		assert.Equal(t, &Kind{
			Name: "RangeVar",
			Fields: []*FieldSel{
				{Name: "relname", Seq: []Pattern{&Capture{Name: "name", Inner: &Anything{}}}},
			},
		}, got)
	})
}

func TestParseNormalizesFieldNames(t *testing.T) {
	got, err := Parse(`(SelectStmt (where_clause ...))`)
	require.NoError(t, err)
	kind := got.(*Kind)
	require.Len(t, kind.Fields, 1)
	assert.Equal(t, "whereClause", kind.Fields[0].Name)
}

func TestParseEmptyKindForm(t *testing.T) {
	got, err := Parse("(SelectStmt)")
	require.NoError(t, err)
	assert.Equal(t, &Kind{Name: "SelectStmt", Fields: []*FieldSel{}}, got)
}

func TestParseSyntaxErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"empty input", "", "empty pattern"},
		{"empty parens", "()", "empty kind or field position"},
		{"empty nested field", "(SelectStmt ())", "empty kind or field position"},
		{"field without pattern", "(SelectStmt (whereClause))", "missing pattern"},
		{"bare field without pattern", "(relname)", "missing pattern"},
		{"unbalanced open", "(SelectStmt", "unbalanced parentheses"},
		{"unbalanced field", "(relname \"users\"", "unbalanced parentheses"},
		{"stray close", ")", "unexpected )"},
		{"trailing input", "SelectStmt InsertStmt", "after pattern"},
		{"unterminated string", `"users`, "unterminated string"},
		{"capture without colon", "$t RangeVar", "missing ':'"},
		{"capture without name", "$:RangeVar", "missing name"},
		{"capture without inner", "$t:", "missing inner pattern"},
		{"bare atom in kind form", "(SelectStmt ...)", "expected (field pattern)"},
		{"bad number", "1x2", "invalid number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
			var synErr *SyntaxError
			require.ErrorAs(t, err, &synErr)
			assert.Contains(t, synErr.Error(), tt.msg)
			assert.True(t, synErr.Pos.Line >= 1)
		})
	}
}

func TestSyntaxErrorPosition(t *testing.T) {
	_, err := Parse("(SelectStmt\n  ())")
	var synErr *SyntaxError
	require.ErrorAs(t, err, &synErr)
	assert.Equal(t, 2, synErr.Pos.Line)
	assert.Equal(t, 4, synErr.Pos.Column)
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"SelectStmt",
		"...",
		"_",
		"42",
		"4.5",
		"true",
		`"users"`,
		"$t:RangeVar",
		"(SelectStmt)",
		`(relname "users")`,
		`(SelectStmt (whereClause ...) (targetList _ ...))`,
		`(RangeVar (relname $name:_))`,
		`(InsertStmt (relation (relname "t")))`,
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first, err := Parse(input)
			require.NoError(t, err)
			second, err := Parse(first.String())
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}
}

func TestStringEscaping(t *testing.T) {
	p, err := Parse(`"it\"s"`)
	require.NoError(t, err)
	assert.Equal(t, &Literal{Kind: LitString, Str: `it"s`}, p)

	again, err := Parse(p.String())
	require.NoError(t, err)
	assert.Equal(t, p, again)
}

func TestNormalizeField(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"where_clause", "whereClause"},
		{"target_list", "targetList"},
		{"agg_star", "aggStar"},
		{"relname", "relname"},
		{"whereClause", "whereClause"},
		{"values_lists", "valuesLists"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeField(tt.in), tt.in)
	}

	// Cached lookups are stable.
	assert.Equal(t, "whereClause", NormalizeField("where_clause"))
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("(") })
	assert.NotPanics(t, func() { MustParse("SelectStmt") })
}
