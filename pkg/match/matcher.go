// Package match implements the structural matcher and the search driver:
// given a parsed pattern and a SQL AST, it decides match or no-match at a
// node, collects named captures, and enumerates every matching subtree.
//
// Matching is purely functional over its inputs. A non-match is a normal
// outcome, never an error, and a Pattern is safe to reuse across
// concurrent searches.
package match

import (
	"github.com/leapstack-labs/sqlgrep/pkg/parser"
	"github.com/leapstack-labs/sqlgrep/pkg/pattern"
	"github.com/leapstack-labs/sqlgrep/pkg/tree"
)

// Option configures a single Match or Search call.
type Option func(*matcher)

// WithTracer attaches a trace sink receiving one event per matching step.
// Tracing is observational only; it never changes an outcome.
func WithTracer(t Tracer) Option {
	return func(m *matcher) { m.tracer = t }
}

type matcher struct {
	tracer Tracer
	caps   *CaptureSet
}

// Match reports whether the pattern matches the node, with the node as
// the candidate match root. On success the returned CaptureSet carries
// every binding made during this call, possibly none.
func Match(pat pattern.Pattern, node parser.Node, opts ...Option) (*CaptureSet, bool) {
	m := &matcher{caps: NewCaptureSet()}
	for _, opt := range opts {
		opt(m)
	}
	if node == nil || !m.matchNode(pat, node) {
		return nil, false
	}
	return m.caps, true
}

func (m *matcher) matchNode(pat pattern.Pattern, node parser.Node) bool {
	switch p := pat.(type) {
	case *pattern.Kind:
		kind := tree.KindOf(node)
		if kind != p.Name {
			m.trace(Event{Step: StepKind, Pattern: p.Name, Value: kind, Matched: false})
			return false
		}
		m.trace(Event{Step: StepKind, Pattern: p.Name, Value: kind, Matched: true})
		for _, sel := range p.Fields {
			if !m.matchFieldSel(sel, node) {
				return false
			}
		}
		return true
	case *pattern.FieldSel:
		// A bare field selector matches any node carrying that field.
		return m.matchFieldSel(p, node)
	case *pattern.Capture:
		if !m.matchNode(p.Inner, node) {
			return false
		}
		m.caps.bind(p.Name, tree.NodeValue(node))
		m.trace(Event{Step: StepCapture, Pattern: p.Name, Value: tree.KindOf(node), Matched: true})
		return true
	case *pattern.Wildcard:
		m.trace(Event{Step: StepWildcard, Value: tree.KindOf(node), Matched: true})
		return true
	case *pattern.Anything:
		return true
	case *pattern.Literal:
		// A node is never a scalar.
		m.trace(Event{Step: StepLiteral, Pattern: p.String(), Value: tree.KindOf(node), Matched: false})
		return false
	default:
		return false
	}
}

// matchFieldSel looks up the selector's field on the node. The field must
// be present: to leave a field unconstrained, omit its selector.
func (m *matcher) matchFieldSel(sel *pattern.FieldSel, node parser.Node) bool {
	v := tree.FieldByName(node, sel.Name)
	if v.IsAbsent() {
		m.trace(Event{Step: StepField, Field: sel.Name, Value: "absent", Matched: false})
		return false
	}
	ok := m.matchFieldValue(sel.Seq, v)
	m.trace(Event{Step: StepField, Field: sel.Name, Value: describeValue(v), Matched: ok})
	return ok
}

// matchFieldValue matches a selector's pattern sequence against one field
// value. Two or more patterns always form a positional list sequence; a
// single pattern is matched against the value itself.
func (m *matcher) matchFieldValue(seq []pattern.Pattern, v tree.Value) bool {
	if len(seq) == 1 {
		return m.matchValue(seq[0], v)
	}
	if v.Kind != tree.ListKind {
		return false
	}
	return m.matchSequence(seq, v.List)
}

func (m *matcher) matchValue(pat pattern.Pattern, v tree.Value) bool {
	switch p := pat.(type) {
	case *pattern.Wildcard:
		m.trace(Event{Step: StepWildcard, Value: describeValue(v), Matched: true})
		return true
	case *pattern.Anything:
		return !v.IsAbsent()
	case *pattern.Literal:
		ok := v.Kind == tree.ScalarKind && literalEqual(p, v.Scalar)
		m.trace(Event{Step: StepLiteral, Pattern: p.String(), Value: describeValue(v), Matched: ok})
		return ok
	case *pattern.Capture:
		if !m.matchValue(p.Inner, v) {
			return false
		}
		m.caps.bind(p.Name, v)
		m.trace(Event{Step: StepCapture, Pattern: p.Name, Value: describeValue(v), Matched: true})
		return true
	default:
		// Kind and FieldSel recurse into a node value; against a list
		// they act as a one-element sequence.
		switch v.Kind {
		case tree.NodeKind:
			return m.matchNode(pat, v.Node)
		case tree.ListKind:
			return m.matchSequence([]pattern.Pattern{pat}, v.List)
		default:
			return false
		}
	}
}

// matchSequence matches patterns against list elements positionally. A
// trailing wildcard absorbs the remaining elements, zero or more; without
// one the pattern count must equal the list length exactly.
func (m *matcher) matchSequence(seq []pattern.Pattern, items []parser.Node) bool {
	prefix := seq
	if n := len(seq); n > 0 {
		if _, ok := seq[n-1].(*pattern.Wildcard); ok {
			prefix = seq[:n-1]
			if len(items) < len(prefix) {
				return false
			}
		}
	}
	if len(prefix) == len(seq) && len(items) != len(seq) {
		return false
	}
	for i, p := range prefix {
		if !m.matchValue(p, tree.NodeValue(items[i])) {
			return false
		}
	}
	return true
}

func (m *matcher) trace(ev Event) {
	if m.tracer != nil {
		m.tracer.Trace(ev)
	}
}

// literalEqual compares a pattern literal with a scalar field value.
// Numbers compare by value across the int/float divide; enum labels
// compare as strings.
func literalEqual(lit *pattern.Literal, s tree.Scalar) bool {
	switch lit.Kind {
	case pattern.LitString:
		return s.Type == tree.ScalarString && s.Str == lit.Str
	case pattern.LitBool:
		return s.Type == tree.ScalarBool && s.Bool == lit.Bool
	case pattern.LitInt:
		switch s.Type {
		case tree.ScalarInt:
			return s.Int == lit.Int
		case tree.ScalarFloat:
			return s.Float == float64(lit.Int)
		}
		return false
	case pattern.LitFloat:
		switch s.Type {
		case tree.ScalarFloat:
			return s.Float == lit.Float
		case tree.ScalarInt:
			return float64(s.Int) == lit.Float
		}
		return false
	default:
		return false
	}
}

func describeValue(v tree.Value) string {
	switch v.Kind {
	case tree.NodeKind:
		return tree.KindOf(v.Node)
	case tree.ListKind:
		return "list"
	case tree.ScalarKind:
		return v.Scalar.String()
	default:
		return "absent"
	}
}
