package pattern

import (
	"strings"
	"sync"
)

// fieldNames caches normalized field identifiers. Pattern parsing is hot
// in watch mode and REPL loops, and the identifier vocabulary is tiny.
var fieldNames sync.Map // string → string

// NormalizeField converts a DSL field identifier to the tree's lowerCamel
// convention: `where_clause` becomes `whereClause`. Identifiers without
// underscores pass through unchanged. The transform is pure and
// deterministic; results are cached per identifier.
func NormalizeField(name string) string {
	if cached, ok := fieldNames.Load(name); ok {
		return cached.(string)
	}
	normalized := camelCase(name)
	fieldNames.Store(name, normalized)
	return normalized
}

func camelCase(name string) string {
	if !strings.Contains(name, "_") {
		return name
	}
	var b strings.Builder
	b.Grow(len(name))
	upperNext := false
	for _, r := range name {
		switch {
		case r == '_':
			upperNext = true
		case upperNext:
			b.WriteRune(toUpper(r))
			upperNext = false
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}
