package match

import (
	"github.com/leapstack-labs/sqlgrep/pkg/parser"
	"github.com/leapstack-labs/sqlgrep/pkg/pattern"
	"github.com/leapstack-labs/sqlgrep/pkg/tree"
)

// Result is one successful match: the matched node and the captures
// bound during that match.
type Result struct {
	Node     parser.Node
	Captures *CaptureSet
}

// Search runs the matcher at root and at every transitive descendant in
// pre-order, with each visited node as the candidate match root. At most
// one Result is produced per node, and traversal continues into children
// regardless of a match at an ancestor, so nested matches are reported
// independently. Non-match is an empty slice, never an error.
func Search(pat pattern.Pattern, root parser.Node, opts ...Option) []Result {
	var results []Result
	walk(root, func(n parser.Node) {
		if caps, ok := Match(pat, n, opts...); ok {
			results = append(results, Result{Node: n, Captures: caps})
		}
	})
	return results
}

// SearchAll searches each root in order and concatenates the results,
// for multi-statement input.
func SearchAll(pat pattern.Pattern, roots []parser.Node, opts ...Option) []Result {
	var results []Result
	for _, root := range roots {
		results = append(results, Search(pat, root, opts...)...)
	}
	return results
}

// SearchWithCaptures is Search restricted to results that bound at least
// one capture.
func SearchWithCaptures(pat pattern.Pattern, root parser.Node, opts ...Option) []Result {
	all := Search(pat, root, opts...)
	results := all[:0:0]
	for _, r := range all {
		if !r.Captures.IsEmpty() {
			results = append(results, r)
		}
	}
	return results
}

func walk(n parser.Node, visit func(parser.Node)) {
	if n == nil {
		return
	}
	visit(n)
	for _, child := range tree.Children(n) {
		walk(child, visit)
	}
}
