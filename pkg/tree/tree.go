// Package tree projects the SQL AST into a uniform shape for the pattern
// engine: every node is a kind tag plus an ordered set of named fields,
// each holding a child node, a list of child nodes, or a scalar.
//
// The projection is read-only and carries no per-node state; field
// enumeration is driven by a hand-written per-kind table rather than
// reflection, so the set of visible fields and their order is an explicit,
// testable data description.
package tree

import (
	"strconv"

	"github.com/leapstack-labs/sqlgrep/pkg/parser"
)

// ValueKind discriminates the shape of a field value.
type ValueKind int

const (
	// Absent marks a field the node does not carry: an unset optional
	// clause, or a field name the kind does not define at all.
	Absent ValueKind = iota
	// NodeKind is a single child node.
	NodeKind
	// ListKind is an ordered, possibly empty sequence of child nodes.
	ListKind
	// ScalarKind is a string, integer, float, boolean, or enum label.
	ScalarKind
)

// Value is a tagged union holding one field value.
type Value struct {
	Kind   ValueKind
	Node   parser.Node
	List   []parser.Node
	Scalar Scalar
}

// IsAbsent reports whether the value is absent.
func (v Value) IsAbsent() bool { return v.Kind == Absent }

// ScalarType discriminates scalar values.
type ScalarType int

const (
	// ScalarString holds strings and enum labels such as "AND_EXPR".
	ScalarString ScalarType = iota
	// ScalarInt holds integers.
	ScalarInt
	// ScalarFloat holds floats.
	ScalarFloat
	// ScalarBool holds booleans.
	ScalarBool
)

// Scalar is a comparable scalar field value.
type Scalar struct {
	Type  ScalarType
	Str   string
	Int   int64
	Float float64
	Bool  bool
}

// String returns the scalar's value as display text.
func (s Scalar) String() string {
	switch s.Type {
	case ScalarInt:
		return strconv.FormatInt(s.Int, 10)
	case ScalarFloat:
		return strconv.FormatFloat(s.Float, 'g', -1, 64)
	case ScalarBool:
		if s.Bool {
			return "true"
		}
		return "false"
	default:
		return s.Str
	}
}

// Field is one named field of a node.
type Field struct {
	Name  string
	Value Value
}

// AbsentValue returns the absent value.
func AbsentValue() Value { return Value{Kind: Absent} }

// NodeValue wraps a single child node; a nil node is absent.
func NodeValue(n parser.Node) Value {
	if n == nil {
		return Value{Kind: Absent}
	}
	return Value{Kind: NodeKind, Node: n}
}

// ListValue wraps a node list; a nil slice is absent, an empty one is a
// present empty list.
func ListValue(list []parser.Node) Value {
	if list == nil {
		return Value{Kind: Absent}
	}
	return Value{Kind: ListKind, List: list}
}

// StringValue wraps a string scalar; the empty string is absent.
func StringValue(s string) Value {
	if s == "" {
		return Value{Kind: Absent}
	}
	return Value{Kind: ScalarKind, Scalar: Scalar{Type: ScalarString, Str: s}}
}

// EnumValue wraps an enum label; always present.
func EnumValue(label string) Value {
	return Value{Kind: ScalarKind, Scalar: Scalar{Type: ScalarString, Str: label}}
}

// IntValue wraps an integer scalar; always present.
func IntValue(i int64) Value {
	return Value{Kind: ScalarKind, Scalar: Scalar{Type: ScalarInt, Int: i}}
}

// FloatValue wraps a float scalar; always present.
func FloatValue(f float64) Value {
	return Value{Kind: ScalarKind, Scalar: Scalar{Type: ScalarFloat, Float: f}}
}

// BoolValue wraps a boolean scalar; false is absent, matching how the
// parse tree omits default-valued flags.
func BoolValue(b bool) Value {
	if !b {
		return Value{Kind: Absent}
	}
	return Value{Kind: ScalarKind, Scalar: Scalar{Type: ScalarBool, Bool: true}}
}

// Fields returns the node's named fields in their declared order. The
// order is stable and deterministic per kind. Unknown kinds yield nil.
func Fields(n parser.Node) []Field {
	defs := fieldTable[KindOf(n)]
	if defs == nil {
		return nil
	}
	out := make([]Field, 0, len(defs))
	for _, d := range defs {
		out = append(out, Field{Name: d.name, Value: d.get(n)})
	}
	return out
}

// FieldByName returns the named field's value, or Absent when the kind
// does not define the field.
func FieldByName(n parser.Node, name string) Value {
	for _, d := range fieldTable[KindOf(n)] {
		if d.name == name {
			return d.get(n)
		}
	}
	return Value{Kind: Absent}
}

// Children returns the node's direct child nodes in field order,
// flattening node and list fields and skipping scalars and absents.
func Children(n parser.Node) []parser.Node {
	var out []parser.Node
	for _, d := range fieldTable[KindOf(n)] {
		v := d.get(n)
		switch v.Kind {
		case NodeKind:
			out = append(out, v.Node)
		case ListKind:
			out = append(out, v.List...)
		}
	}
	return out
}
