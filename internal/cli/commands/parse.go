package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/leapstack-labs/sqlgrep/internal/cli/output"
	"github.com/leapstack-labs/sqlgrep/pkg/parser"
	"github.com/leapstack-labs/sqlgrep/pkg/tree"
	"github.com/spf13/cobra"
)

// ParseOptions holds options for the parse command.
type ParseOptions struct {
	Format string // Output format override
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}
	cmd := &cobra.Command{
		Use:   "parse [file.sql]",
		Short: "Parse SQL and dump the syntax tree",
		Long: `Parse SQL and print its syntax tree, showing the node kinds and
field names that structural patterns match against.

With no file, SQL is read from stdin.`,
		Example: `  # Inspect the tree for a query
  echo 'SELECT id FROM users' | sqlgrep parse

  # JSON for tooling
  sqlgrep parse queries.sql --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
		if !cmdCtx.Cfg.Color {
			r.DisableColor()
		}
	}

	var src []byte
	var err error
	if len(args) == 1 {
		src, err = os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
	} else {
		src, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
	}

	stmts, err := parser.Parse(string(src))
	if err != nil {
		return err
	}

	if r.IsJSON() {
		dumps := make([]any, 0, len(stmts))
		for _, stmt := range stmts {
			dumps = append(dumps, nodeToMap(stmt))
		}
		return r.JSON(dumps)
	}

	for i, stmt := range stmts {
		if i > 0 {
			r.Println()
		}
		writeTree(r, stmt, 0)
	}
	return nil
}

// nodeToMap converts a node to a JSON-friendly map of its kind and
// present fields.
func nodeToMap(n parser.Node) map[string]any {
	out := map[string]any{"kind": tree.KindOf(n)}
	for _, f := range tree.Fields(n) {
		switch f.Value.Kind {
		case tree.NodeKind:
			out[f.Name] = nodeToMap(f.Value.Node)
		case tree.ListKind:
			items := make([]any, 0, len(f.Value.List))
			for _, child := range f.Value.List {
				items = append(items, nodeToMap(child))
			}
			out[f.Name] = items
		case tree.ScalarKind:
			out[f.Name] = scalarToAny(f.Value.Scalar)
		}
	}
	return out
}

func scalarToAny(s tree.Scalar) any {
	switch s.Type {
	case tree.ScalarInt:
		return s.Int
	case tree.ScalarFloat:
		return s.Float
	case tree.ScalarBool:
		return s.Bool
	default:
		return s.Str
	}
}

// writeTree prints an indented tree of kinds, scalar fields inline.
func writeTree(r *output.Renderer, n parser.Node, depth int) {
	indent := strings.Repeat("  ", depth)

	var scalars []string
	for _, f := range tree.Fields(n) {
		if f.Value.Kind == tree.ScalarKind {
			scalars = append(scalars, fmt.Sprintf("%s=%s", f.Name, f.Value.Scalar.String()))
		}
	}
	line := indent + r.Highlight(tree.KindOf(n))
	if len(scalars) > 0 {
		line += " " + r.Dim(strings.Join(scalars, " "))
	}
	r.Println(line)

	for _, f := range tree.Fields(n) {
		switch f.Value.Kind {
		case tree.NodeKind:
			r.Printf("%s  %s\n", indent, r.Dim(f.Name+":"))
			writeTree(r, f.Value.Node, depth+2)
		case tree.ListKind:
			r.Printf("%s  %s\n", indent, r.Dim(fmt.Sprintf("%s: [%d]", f.Name, len(f.Value.List))))
			for _, child := range f.Value.List {
				writeTree(r, child, depth+2)
			}
		}
	}
}
