package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/sqlgrep/internal/cli/output"
	"github.com/leapstack-labs/sqlgrep/pkg/match"
	"github.com/leapstack-labs/sqlgrep/pkg/parser"
	"github.com/leapstack-labs/sqlgrep/pkg/pattern"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// ErrNoMatches is returned when a search finds nothing, so the CLI can
// exit nonzero without printing an error banner.
var ErrNoMatches = errors.New("no matches found")

// watchDebounce coalesces bursts of filesystem events into one re-run.
const watchDebounce = 100 * time.Millisecond

// SearchOptions holds options for the search command.
type SearchOptions struct {
	CapturesOnly bool   // Report only results that bound captures
	Count        bool   // Print match counts instead of matches
	Format       string // Output format override
	Context      int    // Source context lines around each match
	Watch        bool   // Re-run on file changes
	Trace        bool   // Log matcher decisions at debug level
}

// NewSearchCommand creates the search command.
func NewSearchCommand() *cobra.Command {
	opts := &SearchOptions{}
	cmd := &cobra.Command{
		Use:   "search <pattern> [file.sql...]",
		Short: "Search SQL files by syntax tree structure",
		Long: `Search SQL files for statements matching a structural pattern.

The pattern is an S-expression over parse-tree node kinds. A bare
uppercase identifier matches any node of that kind; (Kind (field pat))
constrains fields; $name: captures the matched subtree. Patterns named
under patterns: in sqlgrep.yaml can be referenced as @name.

With no files, SQL is read from stdin. Exit status is 1 when nothing
matches.`,
		Example: `  # Statements with a WHERE clause
  sqlgrep search '(SelectStmt (whereClause _))' queries.sql

  # Capture every table joined against
  sqlgrep search '(JoinExpr (rarg $t:RangeVar))' queries.sql

  # Named pattern from sqlgrep.yaml, counts only
  sqlgrep search @no-where --count models/*.sql

  # Re-run on change
  sqlgrep search 'SubLink' queries.sql --watch`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.CapturesOnly, "captures-only", false, "Report only results that bound at least one capture")
	cmd.Flags().BoolVarP(&opts.Count, "count", "c", false, "Print match counts instead of matches")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")
	cmd.Flags().IntVar(&opts.Context, "context", 0, "Lines of source context around each match")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Watch files and re-run the search on change")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "Log matcher decisions at debug level")

	return cmd
}

// fileResult holds the outcome of searching one input.
type fileResult struct {
	Name    string
	Source  string
	Results []match.Result
}

func runSearch(cmd *cobra.Command, args []string, opts *SearchOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
		if !cmdCtx.Cfg.Color {
			r.DisableColor()
		}
	}

	// Config supplies the default context width
	if !cmd.Flags().Changed("context") {
		opts.Context = cmdCtx.Cfg.ContextLines
	}

	pat, err := resolvePattern(cmdCtx, args[0])
	if err != nil {
		return err
	}

	var matchOpts []match.Option
	if opts.Trace {
		// Trace events are debug-level, so give the tracer its own
		// debug logger rather than depending on -v.
		traceLogger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
		matchOpts = append(matchOpts, match.WithTracer(match.NewSlogTracer(traceLogger)))
	}

	files := args[1:]
	if len(files) == 0 {
		if opts.Watch {
			return errors.New("--watch requires file arguments")
		}
		src, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		result, err := searchSource("<stdin>", string(src), pat, opts, matchOpts)
		if err != nil {
			return err
		}
		return renderSearch(r, []fileResult{result}, opts)
	}

	if opts.Watch {
		return watchSearch(cmd, cmdCtx, r, pat, files, opts, matchOpts)
	}

	results, err := searchFiles(cmd, pat, files, opts, matchOpts)
	if err != nil {
		return err
	}
	return renderSearch(r, results, opts)
}

// resolvePattern parses the pattern argument, resolving @name references
// against the configured pattern library first.
func resolvePattern(cmdCtx *CommandContext, arg string) (pattern.Pattern, error) {
	text := arg
	if name, ok := strings.CutPrefix(arg, "@"); ok {
		resolved, found := cmdCtx.Cfg.LookupPattern(name)
		if !found {
			return nil, fmt.Errorf("unknown named pattern %q (define it under patterns: in sqlgrep.yaml)", name)
		}
		text = resolved
	}

	pat, err := pattern.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}
	return pat, nil
}

// searchFiles searches every file in parallel, preserving input order in
// the returned slice.
func searchFiles(cmd *cobra.Command, pat pattern.Pattern, files []string, opts *SearchOptions, matchOpts []match.Option) ([]fileResult, error) {
	results := make([]fileResult, len(files))

	eg, _ := errgroup.WithContext(cmd.Context())
	for i, name := range files {
		eg.Go(func() error {
			src, err := os.ReadFile(name)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", name, err)
			}
			result, err := searchSource(name, string(src), pat, opts, matchOpts)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func searchSource(name, src string, pat pattern.Pattern, opts *SearchOptions, matchOpts []match.Option) (fileResult, error) {
	stmts, err := parser.Parse(src)
	if err != nil {
		return fileResult{}, fmt.Errorf("%s: %w", name, err)
	}

	results := match.SearchAll(pat, stmts, matchOpts...)
	if opts.CapturesOnly {
		filtered := results[:0:0]
		for _, res := range results {
			if !res.Captures.IsEmpty() {
				filtered = append(filtered, res)
			}
		}
		results = filtered
	}

	return fileResult{Name: name, Source: src, Results: results}, nil
}

// watchSearch runs the search, then re-runs it whenever a watched file
// changes. Events are debounced so editors that write in bursts trigger
// a single re-run.
func watchSearch(cmd *cobra.Command, cmdCtx *CommandContext, r *output.Renderer, pat pattern.Pattern, files []string, opts *SearchOptions, matchOpts []match.Option) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch parent directories so atomic saves (rename over the file)
	// are still observed.
	watched := make(map[string]bool, len(files))
	for _, name := range files {
		watched[filepath.Clean(name)] = true
		if err := watcher.Add(filepath.Dir(name)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", name, err)
		}
	}

	rerun := func() {
		results, err := searchFiles(cmd, pat, files, opts, matchOpts)
		if err != nil {
			r.Errorf("Error: %v\n", err)
			return
		}
		if err := renderSearch(r, results, opts); err != nil && !errors.Is(err, ErrNoMatches) {
			r.Errorf("Error: %v\n", err)
		}
	}
	rerun()
	r.Errorf("Watching %d file(s), Ctrl+C to stop\n", len(files))

	ctx := cmd.Context()
	var debounceTimer *time.Timer
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !watched[filepath.Clean(event.Name)] {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(watchDebounce, func() {
				r.Errorf("Change detected: %s\n", filepath.Base(event.Name))
				rerun()
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.Errorf("Watcher error: %v\n", err)
		}
	}
}
