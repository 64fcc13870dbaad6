package commands

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/leapstack-labs/sqlgrep/internal/cli/config"
	"github.com/leapstack-labs/sqlgrep/internal/cli/output"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the command's context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)
	if !cfg.Color {
		r.DisableColor()
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to
// environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	contextLines := config.DefaultContextLines
	if v := os.Getenv("SQLGREP_CONTEXT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			contextLines = n
		}
	}

	return &config.Config{
		OutputFormat: getEnvOrDefault("SQLGREP_OUTPUT", config.DefaultOutput),
		Color:        os.Getenv("SQLGREP_COLOR") != "false",
		ContextLines: contextLines,
		Verbose:      os.Getenv("SQLGREP_VERBOSE") == "true",
	}
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
