// Package pattern implements the structural search pattern language: a
// compact S-expression describing the shape of a SQL AST subtree.
//
// # Grammar Overview
//
//	pattern  → '...' | '_' | literal | capture | IDENT | paren
//	paren    → '(' KindIdent fieldSel* ')'     KindIdent starts uppercase
//	         | '(' fieldIdent pattern+ ')'     field selector
//	fieldSel → '(' fieldIdent pattern+ ')'
//	capture  → '$' IDENT ':' pattern
//	literal  → STRING | NUMBER | 'true' | 'false'
//
// A parenthesized head starting with an uppercase letter names a node
// kind; a lowercase head is a field selector that matches any node whose
// field of that name matches the nested patterns. Two or more patterns in
// a field selector form a positional list sequence, optionally ending in
// '...' to absorb the remaining list elements.
//
// A Pattern is immutable once parsed and safe for concurrent reuse.
package pattern

import "strconv"

// Pattern is one node of a parsed pattern.
type Pattern interface {
	pattern()
	// String renders canonical pattern text that reparses to a
	// structurally equal pattern.
	String() string
}

// Kind matches a node by kind tag. A nil Fields slice means kind-only;
// otherwise every field selector must also match. Fields not listed are
// unconstrained.
type Kind struct {
	Name   string
	Fields []*FieldSel
}

func (*Kind) pattern() {}

func (k *Kind) String() string {
	if k.Fields == nil {
		return k.Name
	}
	out := "(" + k.Name
	for _, f := range k.Fields {
		out += " " + f.String()
	}
	return out + ")"
}

// FieldSel constrains one named field. Name is already normalized to the
// tree's lowerCamel convention. More than one pattern in Seq matches the
// field's list elements positionally.
type FieldSel struct {
	Name string
	Seq  []Pattern
}

func (*FieldSel) pattern() {}

func (f *FieldSel) String() string {
	out := "(" + f.Name
	for _, p := range f.Seq {
		out += " " + p.String()
	}
	return out + ")"
}

// Wildcard is `...`: matches any value, any list, or absorbs the
// remaining elements of a list sequence.
type Wildcard struct{}

func (*Wildcard) pattern() {}

func (*Wildcard) String() string { return "..." }

// Anything is `_`: matches exactly one present value of any shape.
type Anything struct{}

func (*Anything) pattern() {}

func (*Anything) String() string { return "_" }

// LitKind discriminates literal values.
type LitKind int

const (
	LitString LitKind = iota
	LitInt
	LitFloat
	LitBool
)

// Literal matches a scalar field value by exact equality.
type Literal struct {
	Kind  LitKind
	Str   string
	Int   int64
	Float float64
	Bool  bool
}

func (*Literal) pattern() {}

func (l *Literal) String() string {
	switch l.Kind {
	case LitInt:
		return strconv.FormatInt(l.Int, 10)
	case LitFloat:
		return strconv.FormatFloat(l.Float, 'g', -1, 64)
	case LitBool:
		if l.Bool {
			return "true"
		}
		return "false"
	default:
		return strconv.Quote(l.Str)
	}
}

// Capture binds Name to the value matched by Inner. A capture never
// loosens matching; it only observes a successful inner match.
type Capture struct {
	Name  string
	Inner Pattern
}

func (*Capture) pattern() {}

func (c *Capture) String() string { return "$" + c.Name + ":" + c.Inner.String() }
