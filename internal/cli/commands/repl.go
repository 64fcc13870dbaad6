package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/sqlgrep/internal/cli/output"
	"github.com/leapstack-labs/sqlgrep/pkg/match"
	"github.com/leapstack-labs/sqlgrep/pkg/parser"
	"github.com/leapstack-labs/sqlgrep/pkg/pattern"
	"github.com/spf13/cobra"
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl [file.sql]",
		Short: "Interactively try patterns against loaded SQL",
		Long: `Start an interactive session: load a SQL file, then type patterns to
search it. Multi-line patterns continue until parentheses balance.

Dot-commands:
  .load <file>   Load a SQL file
  .sql           Show the loaded SQL
  .tree          Dump the syntax tree of the loaded SQL
  .help          Show help
  .quit          Exit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(cmd, args)
		},
	}
	return cmd
}

// replSession holds the SQL loaded into the REPL.
type replSession struct {
	name   string
	source string
	stmts  []parser.Node
}

func (s *replSession) load(name string) error {
	src, err := os.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	stmts, err := parser.Parse(string(src))
	if err != nil {
		return err
	}
	s.name = name
	s.source = string(src)
	s.stmts = stmts
	return nil
}

func runREPL(cmd *cobra.Command, args []string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	session := &replSession{}
	if len(args) == 1 {
		if err := session.load(args[0]); err != nil {
			return err
		}
	}

	// History file in the home directory, falling back to CWD
	historyDir, err := os.UserHomeDir()
	if err != nil {
		historyDir = "."
	}
	historyFile := filepath.Join(historyDir, ".sqlgrep_history")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "sqlgrep> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdin:           io.NopCloser(cmd.InOrStdin()),
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	// Print welcome message
	if session.name != "" {
		r.Printf("sqlgrep REPL (loaded: %s, %d statement(s))\n", session.name, len(session.stmts))
	} else {
		r.Println("sqlgrep REPL (no SQL loaded, use .load <file>)")
	}
	r.Println("Type a pattern to search, .help for commands, .quit to exit")
	r.Println()

	// REPL loop
	var multiLineBuffer strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			multiLineBuffer.Reset()
			rl.SetPrompt("sqlgrep> ")
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" && multiLineBuffer.Len() == 0 {
			continue
		}

		// Handle dot-commands (only at the start of a pattern)
		if multiLineBuffer.Len() == 0 && strings.HasPrefix(trimmed, ".") {
			if quit := handleDotCommand(r, session, trimmed); quit {
				break
			}
			continue
		}

		// Accumulate multi-line patterns until parentheses balance
		multiLineBuffer.WriteString(line)
		multiLineBuffer.WriteString("\n")
		if parenBalance(multiLineBuffer.String()) > 0 {
			rl.SetPrompt("    ...> ")
			continue
		}
		rl.SetPrompt("sqlgrep> ")

		text := strings.TrimSpace(multiLineBuffer.String())
		multiLineBuffer.Reset()

		if err := searchREPL(r, session, text, cmdCtx); err != nil {
			r.Errorf("Error: %v\n", err)
		}
		r.Println()
	}

	return nil
}

func searchREPL(r *output.Renderer, session *replSession, text string, cmdCtx *CommandContext) error {
	if len(session.stmts) == 0 {
		return errors.New("no SQL loaded, use .load <file>")
	}

	if name, ok := strings.CutPrefix(text, "@"); ok {
		resolved, found := cmdCtx.Cfg.LookupPattern(name)
		if !found {
			return fmt.Errorf("unknown named pattern %q", name)
		}
		text = resolved
	}

	pat, err := pattern.Parse(text)
	if err != nil {
		return err
	}

	results := match.SearchAll(pat, session.stmts)
	if len(results) == 0 {
		r.Println("(no matches)")
		return nil
	}

	fr := fileResult{Name: session.name, Source: session.source, Results: results}
	renderMatchesText(r, []fileResult{fr}, &SearchOptions{Context: cmdCtx.Cfg.ContextLines})
	return nil
}

// handleDotCommand executes a dot-command, returning true on quit.
func handleDotCommand(r *output.Renderer, session *replSession, line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(r)

	case ".load":
		if len(parts) < 2 {
			r.Errorf("Usage: .load <file.sql>\n")
			return false
		}
		if err := session.load(parts[1]); err != nil {
			r.Errorf("Error: %v\n", err)
			return false
		}
		r.Printf("Loaded %s (%d statement(s))\n", session.name, len(session.stmts))

	case ".sql":
		if session.source == "" {
			r.Println("(no SQL loaded)")
			return false
		}
		r.CodeBlock("sql", session.source)

	case ".tree":
		if len(session.stmts) == 0 {
			r.Println("(no SQL loaded)")
			return false
		}
		for i, stmt := range session.stmts {
			if i > 0 {
				r.Println()
			}
			writeTree(r, stmt, 0)
		}

	default:
		r.Errorf("Unknown command: %s (try .help)\n", command)
	}
	return false
}

func printREPLHelp(r *output.Renderer) {
	r.Println("Commands:")
	r.Println("  .load <file>   Load a SQL file")
	r.Println("  .sql           Show the loaded SQL")
	r.Println("  .tree          Dump the syntax tree of the loaded SQL")
	r.Println("  .help          Show this help")
	r.Println("  .quit          Exit")
	r.Println()
	r.Println("Anything else is parsed as a pattern and searched against the")
	r.Println("loaded SQL. Named patterns from sqlgrep.yaml work as @name.")
}

// parenBalance returns open minus close parens outside string literals.
func parenBalance(text string) int {
	depth := 0
	inString := false
	escaped := false
	for _, c := range text {
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '(':
			depth++
		case ')':
			depth--
		}
	}
	return depth
}
