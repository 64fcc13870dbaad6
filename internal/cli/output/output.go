// Package output provides mode-aware rendering for CLI output.
//
// A Renderer writes in one of four modes: text (styled tables and colors
// for terminals), markdown (pipe-friendly), json (machine-readable), or
// auto (text when stdout is a terminal, markdown otherwise).
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Mode selects the rendering format.
type Mode string

// Supported rendering modes.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// Renderer writes formatted output to an output and error stream.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	color  bool

	heading   lipgloss.Style
	highlight lipgloss.Style
	dim       lipgloss.Style
}

// NewRenderer creates a renderer for the given streams and mode.
// ModeAuto resolves to text when out is a terminal, markdown otherwise.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	resolved := mode
	switch mode {
	case ModeText, ModeMarkdown, ModeJSON:
	default:
		resolved = ModeMarkdown
		if isTerminal(out) {
			resolved = ModeText
		}
	}

	// Styling only on real terminals, so piped output stays clean.
	color := false
	if f, ok := out.(*os.File); ok && resolved == ModeText && term.IsTerminal(int(f.Fd())) {
		color = termenv.NewOutput(f).ColorProfile() != termenv.Ascii
	}

	return &Renderer{
		out:       out,
		errOut:    errOut,
		mode:      resolved,
		color:     color,
		heading:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		highlight: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Mode returns the resolved rendering mode (never ModeAuto).
func (r *Renderer) Mode() Mode {
	return r.mode
}

// IsJSON reports whether the renderer is in JSON mode.
func (r *Renderer) IsJSON() bool {
	return r.mode == ModeJSON
}

// DisableColor turns off ANSI styling regardless of terminal detection.
func (r *Renderer) DisableColor() {
	r.color = false
}

// Out returns the output stream.
func (r *Renderer) Out() io.Writer {
	return r.out
}

// Printf writes formatted text to the output stream.
func (r *Renderer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// Println writes a line to the output stream.
func (r *Renderer) Println(args ...any) {
	_, _ = fmt.Fprintln(r.out, args...)
}

// Errorf writes formatted text to the error stream.
func (r *Renderer) Errorf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.errOut, format, args...)
}

// JSON encodes v to the output stream with indentation.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table renders a table in the current mode. In markdown mode a pipe
// table is emitted, otherwise a light box-drawing table.
func (r *Renderer) Table(header table.Row, rows []table.Row) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	for _, row := range rows {
		t.AppendRow(row)
	}

	if r.mode == ModeMarkdown {
		t.RenderMarkdown()
		return
	}
	t.Render()
}

// CodeBlock renders source text. Markdown mode uses a fenced block,
// text mode indents each line.
func (r *Renderer) CodeBlock(lang, src string) {
	src = strings.TrimRight(src, "\n")
	if r.mode == ModeMarkdown {
		_, _ = fmt.Fprintf(r.out, "```%s\n%s\n```\n", lang, src)
		return
	}
	for _, line := range strings.Split(src, "\n") {
		_, _ = fmt.Fprintf(r.out, "    %s\n", line)
	}
}

// Heading styles s as a section heading.
func (r *Renderer) Heading(s string) string {
	if r.mode == ModeMarkdown {
		return "## " + s
	}
	if r.color {
		return r.heading.Render(s)
	}
	return s
}

// Highlight styles s as a matched region.
func (r *Renderer) Highlight(s string) string {
	if r.color {
		return r.highlight.Render(s)
	}
	return s
}

// Dim styles s as secondary detail.
func (r *Renderer) Dim(s string) string {
	if r.color {
		return r.dim.Render(s)
	}
	return s
}
