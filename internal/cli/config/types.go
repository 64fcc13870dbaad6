// Package config provides configuration management for the sqlgrep CLI.
//
// Configuration is layered: built-in defaults, then a sqlgrep.yaml file
// found by searching upward from the working directory, then SQLGREP_*
// environment variables, then command-line flags.
package config

// Config holds all CLI configuration options.
type Config struct {
	OutputFormat string            `koanf:"output"`
	Color        bool              `koanf:"color"`
	ContextLines int               `koanf:"context"`
	Verbose      bool              `koanf:"verbose"`
	Patterns     map[string]string `koanf:"patterns"`
}

// Default configuration values.
const (
	DefaultOutput       = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultContextLines = 0
)

// LookupPattern resolves a named pattern from the config library.
// Names are referenced on the command line as @name.
func (c *Config) LookupPattern(name string) (string, bool) {
	if c.Patterns == nil {
		return "", false
	}
	text, ok := c.Patterns[name]
	return text, ok
}
