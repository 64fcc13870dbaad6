// Package commands tests for CLI command creation and search plumbing.
package commands

import (
	"bytes"
	"testing"

	"github.com/leapstack-labs/sqlgrep/internal/cli/config"
	"github.com/leapstack-labs/sqlgrep/internal/cli/output"
	"github.com/leapstack-labs/sqlgrep/pkg/pattern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSearchCommand(t *testing.T) {
	cmd := NewSearchCommand()

	assert.Equal(t, "search <pattern> [file.sql...]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	flags := []string{"captures-only", "count", "format", "context", "watch", "trace"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewParseCommand(t *testing.T) {
	cmd := NewParseCommand()

	assert.Equal(t, "parse [file.sql]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("format"), "flag format should exist")
}

func TestNewREPLCommand(t *testing.T) {
	cmd := NewREPLCommand()

	assert.Equal(t, "repl [file.sql]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
}

func TestSearchSource(t *testing.T) {
	pat := pattern.MustParse("(SelectStmt (whereClause _))")
	src := "SELECT 1;\nSELECT id FROM users WHERE active;\n"

	fr, err := searchSource("test.sql", src, pat, &SearchOptions{}, nil)
	require.NoError(t, err)
	require.Len(t, fr.Results, 1)
	assert.Equal(t, "test.sql", fr.Name)
}

func TestSearchSourceCapturesOnly(t *testing.T) {
	pat := pattern.MustParse("(SelectStmt (fromClause $t:RangeVar))")
	src := "SELECT 1;\nSELECT id FROM users;\n"

	fr, err := searchSource("test.sql", src, pat, &SearchOptions{CapturesOnly: true}, nil)
	require.NoError(t, err)
	require.Len(t, fr.Results, 1)
	_, ok := fr.Results[0].Captures.Get("t")
	assert.True(t, ok)
}

func TestSearchSourceParseError(t *testing.T) {
	pat := pattern.MustParse("SelectStmt")
	_, err := searchSource("bad.sql", "SELECT FROM", pat, &SearchOptions{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.sql")
}

func TestResolvePattern(t *testing.T) {
	cmdCtx := &CommandContext{Cfg: &config.Config{
		Patterns: map[string]string{"joins": "JoinExpr"},
	}}

	pat, err := resolvePattern(cmdCtx, "@joins")
	require.NoError(t, err)
	assert.Equal(t, "JoinExpr", pat.String())

	_, err = resolvePattern(cmdCtx, "@missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown named pattern")

	_, err = resolvePattern(cmdCtx, "(SelectStmt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pattern")
}

func TestRenderSearchNoMatches(t *testing.T) {
	var out, errOut bytes.Buffer
	r := output.NewRenderer(&out, &errOut, output.ModeText)

	err := renderSearch(r, []fileResult{{Name: "a.sql"}}, &SearchOptions{})
	assert.ErrorIs(t, err, ErrNoMatches)
}

func TestRenderSearchCount(t *testing.T) {
	pat := pattern.MustParse("SelectStmt")
	fr, err := searchSource("a.sql", "SELECT 1; SELECT 2;", pat, &SearchOptions{}, nil)
	require.NoError(t, err)

	var out, errOut bytes.Buffer
	r := output.NewRenderer(&out, &errOut, output.ModeJSON)
	require.NoError(t, renderSearch(r, []fileResult{fr}, &SearchOptions{Count: true}))

	assert.Contains(t, out.String(), `"total": 2`)
}

func TestRenderSearchJSON(t *testing.T) {
	pat := pattern.MustParse("(SelectStmt (fromClause $t:RangeVar))")
	src := "SELECT id FROM users WHERE active;"
	fr, err := searchSource("a.sql", src, pat, &SearchOptions{}, nil)
	require.NoError(t, err)

	var out, errOut bytes.Buffer
	r := output.NewRenderer(&out, &errOut, output.ModeJSON)
	require.NoError(t, renderSearch(r, []fileResult{fr}, &SearchOptions{}))

	got := out.String()
	assert.Contains(t, got, `"kind": "SelectStmt"`)
	assert.Contains(t, got, `"name": "t"`)
	assert.Contains(t, got, `"value": "users"`)
}

func TestRenderSearchText(t *testing.T) {
	pat := pattern.MustParse("(SelectStmt (whereClause _))")
	src := "SELECT 1;\nSELECT id FROM users WHERE active;\n"
	fr, err := searchSource("a.sql", src, pat, &SearchOptions{}, nil)
	require.NoError(t, err)

	var out, errOut bytes.Buffer
	r := output.NewRenderer(&out, &errOut, output.ModeText)
	require.NoError(t, renderSearch(r, []fileResult{fr}, &SearchOptions{}))

	got := out.String()
	assert.Contains(t, got, "a.sql: 1 match(es)")
	assert.Contains(t, got, "a.sql:2:1 SelectStmt")
	assert.Contains(t, got, "SELECT id FROM users WHERE active")
	assert.NotContains(t, got, "SELECT 1")
}

func TestRenderSearchContextLines(t *testing.T) {
	pat := pattern.MustParse("InsertStmt")
	src := "-- first\n-- second\nINSERT INTO t (a) VALUES (1);\n-- after\n"
	fr, err := searchSource("a.sql", src, pat, &SearchOptions{}, nil)
	require.NoError(t, err)

	var out, errOut bytes.Buffer
	r := output.NewRenderer(&out, &errOut, output.ModeText)
	require.NoError(t, renderSearch(r, []fileResult{fr}, &SearchOptions{Context: 1}))

	got := out.String()
	assert.Contains(t, got, "-- second")
	assert.Contains(t, got, "-- after")
	assert.NotContains(t, got, "-- first")
}

func TestParenBalance(t *testing.T) {
	assert.Equal(t, 0, parenBalance("SelectStmt"))
	assert.Equal(t, 1, parenBalance("(SelectStmt"))
	assert.Equal(t, 0, parenBalance("(SelectStmt (whereClause _))"))
	assert.Equal(t, 0, parenBalance(`(A_Const (sval "(("))`))
}

func TestNewVersionCommand(t *testing.T) {
	cmd := NewVersionCommand("1.2.3")

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.Run(cmd, nil)

	assert.Contains(t, out.String(), "sqlgrep v1.2.3")
}
