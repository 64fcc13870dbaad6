package pattern

import (
	"fmt"

	"github.com/leapstack-labs/sqlgrep/pkg/token"
)

// SyntaxError describes malformed pattern text. It is always fatal to the
// Parse call that produced it; a bad pattern is rejected before any
// search executes.
type SyntaxError struct {
	Pos     token.Position
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("pattern syntax error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}
