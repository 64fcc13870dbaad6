package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/sqlgrep/internal/cli/commands"
	"github.com/leapstack-labs/sqlgrep/internal/cli/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout, stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	if stdin != "" {
		cmd.SetIn(strings.NewReader(stdin))
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeSQL(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestSearchCommandFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeSQL(t, dir, "q.sql", "SELECT 1;\nSELECT id FROM users WHERE active;\n")

	out, _, err := execute(t, "", "search", "(SelectStmt (whereClause _))", path)
	require.NoError(t, err)

	assert.Contains(t, out, "1 match(es)")
	assert.Contains(t, out, "SELECT id FROM users WHERE active")
}

func TestSearchCommandJSON(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeSQL(t, dir, "q.sql", "SELECT id FROM users JOIN orders ON uid = id;\n")

	out, _, err := execute(t, "", "search", "(JoinExpr (rarg $t:RangeVar))", path, "--format", "json")
	require.NoError(t, err)

	assert.Contains(t, out, `"kind": "JoinExpr"`)
	assert.Contains(t, out, `"value": "orders"`)
}

func TestSearchCommandStdin(t *testing.T) {
	t.Chdir(t.TempDir())

	out, _, err := execute(t, "SELECT * FROM t;", "search", "A_Star", "--count", "--format", "json")
	require.NoError(t, err)

	assert.Contains(t, out, `"total": 1`)
	assert.Contains(t, out, `"<stdin>"`)
}

func TestSearchCommandNoMatches(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeSQL(t, dir, "q.sql", "SELECT 1;\n")

	_, _, err := execute(t, "", "search", "InsertStmt", path)
	assert.ErrorIs(t, err, commands.ErrNoMatches)
}

func TestSearchCommandNamedPattern(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sqlgrep.yaml"),
		[]byte("patterns:\n  has-where: (SelectStmt (whereClause _))\n"), 0o644))
	path := writeSQL(t, dir, "q.sql", "SELECT id FROM users WHERE active;\n")

	out, _, err := execute(t, "", "search", "@has-where", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1 match(es)")
}

func TestSearchCommandBadPattern(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := execute(t, "SELECT 1;", "search", "(SelectStmt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pattern")
}

func TestSearchCommandMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	a := writeSQL(t, dir, "a.sql", "SELECT 1;\n")
	b := writeSQL(t, dir, "b.sql", "SELECT 2; SELECT 3;\n")

	out, _, err := execute(t, "", "search", "SelectStmt", a, b, "--count", "--format", "json")
	require.NoError(t, err)

	// Input order is preserved in the report
	aIdx := strings.Index(out, "a.sql")
	bIdx := strings.Index(out, "b.sql")
	assert.Greater(t, bIdx, aIdx)
	assert.Contains(t, out, `"total": 3`)
}

func TestParseCommandJSON(t *testing.T) {
	t.Chdir(t.TempDir())

	out, _, err := execute(t, "SELECT id FROM users;", "parse", "--format", "json")
	require.NoError(t, err)

	assert.Contains(t, out, `"kind": "SelectStmt"`)
	assert.Contains(t, out, `"relname": "users"`)
}

func TestParseCommandTree(t *testing.T) {
	t.Chdir(t.TempDir())

	out, _, err := execute(t, "SELECT id FROM users;", "parse")
	require.NoError(t, err)

	assert.Contains(t, out, "SelectStmt")
	assert.Contains(t, out, "RangeVar")
}

func TestParseCommandSyntaxError(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := execute(t, "SELECT FROM", "parse")
	require.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlgrep v")
}

func TestGetConfigFallback(t *testing.T) {
	cfg := GetConfig(context.Background())
	require.NotNil(t, cfg)
	assert.Equal(t, config.DefaultOutput, cfg.OutputFormat)
}

func TestGetRendererFallback(t *testing.T) {
	r := GetRenderer(context.Background())
	require.NotNil(t, r)
}
