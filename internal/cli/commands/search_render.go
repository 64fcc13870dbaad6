package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/sqlgrep/internal/cli/output"
	"github.com/leapstack-labs/sqlgrep/pkg/token"
	"github.com/leapstack-labs/sqlgrep/pkg/tree"
)

func renderSearch(r *output.Renderer, results []fileResult, opts *SearchOptions) error {
	total := 0
	for _, fr := range results {
		total += len(fr.Results)
	}

	if opts.Count {
		renderCounts(r, results, total)
	} else if r.IsJSON() {
		if err := renderMatchesJSON(r, results); err != nil {
			return err
		}
	} else {
		renderMatchesText(r, results, opts)
	}

	if total == 0 {
		return ErrNoMatches
	}
	return nil
}

func renderCounts(r *output.Renderer, results []fileResult, total int) {
	if r.IsJSON() {
		type fileCount struct {
			File    string `json:"file"`
			Matches int    `json:"matches"`
		}
		counts := make([]fileCount, 0, len(results))
		for _, fr := range results {
			counts = append(counts, fileCount{File: fr.Name, Matches: len(fr.Results)})
		}
		_ = r.JSON(map[string]any{"files": counts, "total": total})
		return
	}

	rows := make([]table.Row, 0, len(results))
	for _, fr := range results {
		rows = append(rows, table.Row{fr.Name, len(fr.Results)})
	}
	r.Table(table.Row{"file", "matches"}, rows)
	r.Printf("(%d total)\n", total)
}

type jsonCapture struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type jsonMatch struct {
	File     string        `json:"file"`
	Line     int           `json:"line"`
	Column   int           `json:"column"`
	Kind     string        `json:"kind"`
	Snippet  string        `json:"snippet"`
	Captures []jsonCapture `json:"captures,omitempty"`
}

func renderMatchesJSON(r *output.Renderer, results []fileResult) error {
	matches := make([]jsonMatch, 0)
	for _, fr := range results {
		for _, res := range fr.Results {
			span := res.Node.GetSpan()
			m := jsonMatch{
				File:    fr.Name,
				Line:    span.Start.Line,
				Column:  span.Start.Column,
				Kind:    tree.KindOf(res.Node),
				Snippet: sourceSlice(fr.Source, span),
			}
			for _, name := range res.Captures.Names() {
				v, _ := res.Captures.Get(name)
				m.Captures = append(m.Captures, jsonCapture{Name: name, Value: captureText(fr.Source, v)})
			}
			matches = append(matches, m)
		}
	}
	return r.JSON(matches)
}

func renderMatchesText(r *output.Renderer, results []fileResult, opts *SearchOptions) {
	first := true
	for _, fr := range results {
		if len(fr.Results) == 0 {
			continue
		}
		if !first {
			r.Println()
		}
		first = false

		r.Println(r.Heading(fmt.Sprintf("%s: %d match(es)", fr.Name, len(fr.Results))))
		for _, res := range fr.Results {
			span := res.Node.GetSpan()
			r.Printf("%s %s\n", r.Dim(fmt.Sprintf("%s:%s", fr.Name, span.Start)), tree.KindOf(res.Node))
			renderSnippet(r, fr.Source, span, opts.Context)
			for _, name := range res.Captures.Names() {
				v, _ := res.Captures.Get(name)
				r.Printf("  $%s = %s\n", name, captureText(fr.Source, v))
			}
		}
	}
}

// renderSnippet prints the source lines covered by span, with context
// lines around them and the matched byte range highlighted.
func renderSnippet(r *output.Renderer, src string, span token.Span, contextLines int) {
	lines := splitLines(src)
	if !span.IsValid() || len(lines) == 0 {
		return
	}

	firstLine := span.Start.Line - 1 - contextLines
	if firstLine < 0 {
		firstLine = 0
	}
	lastLine := span.End.Line - 1 + contextLines
	if lastLine > len(lines)-1 {
		lastLine = len(lines) - 1
	}

	for i := firstLine; i <= lastLine; i++ {
		line := lines[i]
		text := strings.TrimRight(line.text, "\n")

		// Highlight the intersection of the span with this line.
		lo := span.Start.Offset - line.offset
		hi := span.End.Offset - line.offset
		if lo < len(text) && hi > 0 {
			if lo < 0 {
				lo = 0
			}
			if hi > len(text) {
				hi = len(text)
			}
			text = text[:lo] + r.Highlight(text[lo:hi]) + text[hi:]
		}

		r.Printf("%s %s\n", r.Dim(fmt.Sprintf("%4d |", i+1)), text)
	}
}

type sourceLine struct {
	offset int
	text   string
}

func splitLines(src string) []sourceLine {
	var lines []sourceLine
	offset := 0
	for {
		idx := strings.IndexByte(src[offset:], '\n')
		if idx < 0 {
			lines = append(lines, sourceLine{offset: offset, text: src[offset:]})
			return lines
		}
		lines = append(lines, sourceLine{offset: offset, text: src[offset : offset+idx+1]})
		offset += idx + 1
	}
}

// sourceSlice returns the raw source covered by span.
func sourceSlice(src string, span token.Span) string {
	if !span.IsValid() {
		return ""
	}
	lo, hi := span.Start.Offset, span.End.Offset
	if lo < 0 {
		lo = 0
	}
	if hi > len(src) {
		hi = len(src)
	}
	if lo >= hi {
		return ""
	}
	return src[lo:hi]
}

// captureText renders a captured value for display: nodes and lists as
// their source text, scalars as their literal form.
func captureText(src string, v tree.Value) string {
	switch v.Kind {
	case tree.NodeKind:
		return strings.TrimSpace(sourceSlice(src, v.Node.GetSpan()))
	case tree.ListKind:
		parts := make([]string, 0, len(v.List))
		for _, n := range v.List {
			parts = append(parts, strings.TrimSpace(sourceSlice(src, n.GetSpan())))
		}
		return strings.Join(parts, ", ")
	case tree.ScalarKind:
		return v.Scalar.String()
	default:
		return "<absent>"
	}
}
