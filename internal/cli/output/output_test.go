package output

import (
	"bytes"
	"testing"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModeResolution(t *testing.T) {
	var out, errOut bytes.Buffer

	// A bytes.Buffer is not a terminal, so auto resolves to markdown.
	r := NewRenderer(&out, &errOut, ModeAuto)
	assert.Equal(t, ModeMarkdown, r.Mode())

	r = NewRenderer(&out, &errOut, ModeText)
	assert.Equal(t, ModeText, r.Mode())

	r = NewRenderer(&out, &errOut, ModeJSON)
	assert.Equal(t, ModeJSON, r.Mode())
	assert.True(t, r.IsJSON())

	// Unknown modes fall back to auto detection.
	r = NewRenderer(&out, &errOut, Mode("bogus"))
	assert.Equal(t, ModeMarkdown, r.Mode())
}

func TestJSONOutput(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModeJSON)

	err := r.JSON(map[string]any{"matches": 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"matches": 2}`, out.String())
}

func TestTableText(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModeText)

	r.Table(table.Row{"file", "matches"}, []table.Row{{"a.sql", 3}})

	assert.Contains(t, out.String(), "a.sql")
	assert.Contains(t, out.String(), "3")
}

func TestTableMarkdown(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModeMarkdown)

	r.Table(table.Row{"file", "matches"}, []table.Row{{"a.sql", 3}})

	assert.Contains(t, out.String(), "| file |")
}

func TestCodeBlock(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModeMarkdown)
	r.CodeBlock("sql", "SELECT 1\n")
	assert.Equal(t, "```sql\nSELECT 1\n```\n", out.String())

	out.Reset()
	r = NewRenderer(&out, &errOut, ModeText)
	r.CodeBlock("sql", "SELECT 1")
	assert.Equal(t, "    SELECT 1\n", out.String())
}

func TestStylesWithoutColor(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModeText)
	r.DisableColor()

	assert.Equal(t, "x", r.Highlight("x"))
	assert.Equal(t, "x", r.Dim("x"))
	assert.Equal(t, "x", r.Heading("x"))
}

func TestHeadingMarkdown(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModeMarkdown)
	assert.Equal(t, "## Results", r.Heading("Results"))
}

func TestErrorStream(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModeText)
	r.Errorf("boom: %d\n", 7)

	assert.Empty(t, out.String())
	assert.Equal(t, "boom: 7\n", errOut.String())
}
