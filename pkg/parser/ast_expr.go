package parser

// Expression node kinds. Naming follows the PostgreSQL parse tree:
// A_Expr for operator applications, A_Const for constants, BoolExpr for
// AND/OR/NOT, and so on.

// ColumnRef represents a possibly-qualified column reference. Fields holds
// *String parts and, for qualified stars, a trailing *A_Star.
type ColumnRef struct {
	NodeInfo
	Fields []Node
}

func (*ColumnRef) node() {}

// A_Star represents the * in SELECT * or count(*).
type A_Star struct {
	NodeInfo
}

func (*A_Star) node() {}

// constKind discriminates which A_Const field is set.
type constKind int

const (
	constNull constKind = iota
	constInt
	constFloat
	constString
	constBool
)

// A_Const represents a literal constant. Exactly one of Ival, Fval, Sval,
// or Boolval is meaningful; Isnull marks the NULL literal.
type A_Const struct {
	NodeInfo
	kind    constKind
	Ival    int64
	Fval    float64
	Sval    string
	Boolval bool
	Isnull  bool
}

func (*A_Const) node() {}

// NewIntConst returns an integer constant.
func NewIntConst(v int64) *A_Const { return &A_Const{kind: constInt, Ival: v} }

// NewFloatConst returns a float constant.
func NewFloatConst(v float64) *A_Const { return &A_Const{kind: constFloat, Fval: v} }

// NewStringConst returns a string constant.
func NewStringConst(v string) *A_Const { return &A_Const{kind: constString, Sval: v} }

// NewBoolConst returns a boolean constant.
func NewBoolConst(v bool) *A_Const { return &A_Const{kind: constBool, Boolval: v} }

// NewNullConst returns the NULL constant.
func NewNullConst() *A_Const { return &A_Const{kind: constNull, Isnull: true} }

// IsInt reports whether the constant is an integer.
func (c *A_Const) IsInt() bool { return c.kind == constInt }

// IsFloat reports whether the constant is a float.
func (c *A_Const) IsFloat() bool { return c.kind == constFloat }

// IsString reports whether the constant is a string.
func (c *A_Const) IsString() bool { return c.kind == constString }

// IsBool reports whether the constant is a boolean.
func (c *A_Const) IsBool() bool { return c.kind == constBool }

// ParamRef represents a positional parameter such as $1.
type ParamRef struct {
	NodeInfo
	Number int64
}

func (*ParamRef) node() {}

// A_Expr kind labels.
const (
	AExprOp         = "AEXPR_OP"
	AExprLike       = "AEXPR_LIKE"
	AExprIlike      = "AEXPR_ILIKE"
	AExprIn         = "AEXPR_IN"
	AExprBetween    = "AEXPR_BETWEEN"
	AExprNotBetween = "AEXPR_NOT_BETWEEN"
)

// A_Expr represents an operator application. Lexpr is nil for prefix
// operators. For AEXPR_IN, Rexpr is a *List and Name is "=" (IN) or
// "<>" (NOT IN), matching PostgreSQL's convention. For BETWEEN, Rexpr is
// a two-element *List.
type A_Expr struct {
	NodeInfo
	Kind  string // AEXPR_* label
	Name  string // operator text, e.g. "=", "<", "~~"
	Lexpr Node
	Rexpr Node
}

func (*A_Expr) node() {}

// BoolExpr boolop labels.
const (
	BoolAnd = "AND_EXPR"
	BoolOr  = "OR_EXPR"
	BoolNot = "NOT_EXPR"
)

// BoolExpr represents AND/OR/NOT. Consecutive applications of the same
// operator are flattened into one Args list, as PostgreSQL does.
type BoolExpr struct {
	NodeInfo
	Boolop string // AND_EXPR, OR_EXPR, NOT_EXPR
	Args   []Node
}

func (*BoolExpr) node() {}

// NullTest type labels.
const (
	IsNull    = "IS_NULL"
	IsNotNull = "IS_NOT_NULL"
)

// NullTest represents IS NULL / IS NOT NULL.
type NullTest struct {
	NodeInfo
	Arg          Node
	Nulltesttype string // IS_NULL or IS_NOT_NULL
}

func (*NullTest) node() {}

// FuncCall represents a function or aggregate call. Funcname holds
// *String parts of the possibly-qualified name.
type FuncCall struct {
	NodeInfo
	Funcname    []Node
	Args        []Node
	AggStar     bool
	AggDistinct bool
}

func (*FuncCall) node() {}

// TypeCast represents CAST(expr AS type) or expr::type.
type TypeCast struct {
	NodeInfo
	Arg      Node
	TypeName *TypeName
}

func (*TypeCast) node() {}

// TypeName represents a type name; Names holds *String parts.
type TypeName struct {
	NodeInfo
	Names []Node
}

func (*TypeName) node() {}

// CaseExpr represents a CASE expression. Arg is the operand of the simple
// form, nil for the searched form.
type CaseExpr struct {
	NodeInfo
	Arg       Node
	Args      []*CaseWhen
	Defresult Node
}

func (*CaseExpr) node() {}

// CaseWhen represents one WHEN ... THEN ... arm.
type CaseWhen struct {
	NodeInfo
	Expr   Node
	Result Node
}

func (*CaseWhen) node() {}

// SubLink type labels.
const (
	ExistsSublink = "EXISTS_SUBLINK"
	AnySublink    = "ANY_SUBLINK"
	ExprSublink   = "EXPR_SUBLINK"
)

// SubLink represents a subquery expression: EXISTS (...), expr IN (SELECT ...),
// or a scalar subquery. Testexpr is set only for ANY_SUBLINK.
type SubLink struct {
	NodeInfo
	SubLinkType string // *_SUBLINK label
	Testexpr    Node
	Subselect   Node
}

func (*SubLink) node() {}
