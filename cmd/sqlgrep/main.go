// Package main provides the sqlgrep CLI for structural SQL search.
package main

import (
	"os"

	"github.com/leapstack-labs/sqlgrep/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
