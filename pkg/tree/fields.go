package tree

import "github.com/leapstack-labs/sqlgrep/pkg/parser"

// fieldDef describes one named field of a kind: its canonical name and an
// accessor projecting the field out of a concrete AST node.
type fieldDef struct {
	name string
	get  func(parser.Node) Value
}

// def builds a fieldDef from a typed accessor. The table guarantees the
// accessor only ever sees its own kind, so the assertion cannot fail.
func def[T parser.Node](name string, get func(T) Value) fieldDef {
	return fieldDef{name: name, get: func(n parser.Node) Value { return get(n.(T)) }}
}

// nodeList converts a typed node slice into a list value. A nil slice is
// absent; an empty one is a present empty list.
func nodeList[T parser.Node](in []T) Value {
	if in == nil {
		return Value{Kind: Absent}
	}
	out := make([]parser.Node, len(in))
	for i, n := range in {
		out[i] = n
	}
	return Value{Kind: ListKind, List: out}
}

// ptrValue wraps a typed node pointer, treating a nil pointer as absent.
// NodeValue alone cannot do this: a nil *WithClause stored in a Node
// interface is not a nil interface.
func ptrValue[T interface {
	parser.Node
	comparable
}](p T) Value {
	var zero T
	if p == zero {
		return Value{Kind: Absent}
	}
	return Value{Kind: NodeKind, Node: p}
}

// scalarString wraps a string scalar that is present even when empty,
// unlike StringValue.
func scalarString(s string) Value {
	return Value{Kind: ScalarKind, Scalar: Scalar{Type: ScalarString, Str: s}}
}

// KindOf returns the node's kind tag, the struct name of the AST node.
// A nil node yields the empty string.
func KindOf(n parser.Node) string {
	switch n.(type) {
	case *parser.SelectStmt:
		return "SelectStmt"
	case *parser.InsertStmt:
		return "InsertStmt"
	case *parser.UpdateStmt:
		return "UpdateStmt"
	case *parser.DeleteStmt:
		return "DeleteStmt"
	case *parser.WithClause:
		return "WithClause"
	case *parser.CommonTableExpr:
		return "CommonTableExpr"
	case *parser.ResTarget:
		return "ResTarget"
	case *parser.RangeVar:
		return "RangeVar"
	case *parser.Alias:
		return "Alias"
	case *parser.RangeSubselect:
		return "RangeSubselect"
	case *parser.JoinExpr:
		return "JoinExpr"
	case *parser.SortBy:
		return "SortBy"
	case *parser.List:
		return "List"
	case *parser.String:
		return "String"
	case *parser.ColumnRef:
		return "ColumnRef"
	case *parser.A_Star:
		return "A_Star"
	case *parser.A_Const:
		return "A_Const"
	case *parser.ParamRef:
		return "ParamRef"
	case *parser.A_Expr:
		return "A_Expr"
	case *parser.BoolExpr:
		return "BoolExpr"
	case *parser.NullTest:
		return "NullTest"
	case *parser.FuncCall:
		return "FuncCall"
	case *parser.TypeCast:
		return "TypeCast"
	case *parser.TypeName:
		return "TypeName"
	case *parser.CaseExpr:
		return "CaseExpr"
	case *parser.CaseWhen:
		return "CaseWhen"
	case *parser.SubLink:
		return "SubLink"
	default:
		return ""
	}
}

// KnownKind reports whether the kind tag names a node kind the projection
// defines fields for.
func KnownKind(kind string) bool {
	_, ok := fieldTable[kind]
	return ok
}

// Kinds returns all known kind tags in unspecified order.
func Kinds() []string {
	out := make([]string, 0, len(fieldTable))
	for k := range fieldTable {
		out = append(out, k)
	}
	return out
}

// fieldTable maps each kind tag to its ordered field definitions. Field
// names follow PostgreSQL parse-tree naming in lowerCamel form; the order
// follows the struct declaration so dumps and enumeration stay stable.
var fieldTable = map[string][]fieldDef{
	"SelectStmt": {
		def("distinctClause", func(n *parser.SelectStmt) Value { return BoolValue(n.DistinctClause) }),
		def("targetList", func(n *parser.SelectStmt) Value { return nodeList(n.TargetList) }),
		def("fromClause", func(n *parser.SelectStmt) Value { return ListValue(n.FromClause) }),
		def("whereClause", func(n *parser.SelectStmt) Value { return NodeValue(n.WhereClause) }),
		def("groupClause", func(n *parser.SelectStmt) Value { return ListValue(n.GroupClause) }),
		def("havingClause", func(n *parser.SelectStmt) Value { return NodeValue(n.HavingClause) }),
		def("sortClause", func(n *parser.SelectStmt) Value { return nodeList(n.SortClause) }),
		def("limitCount", func(n *parser.SelectStmt) Value { return NodeValue(n.LimitCount) }),
		def("limitOffset", func(n *parser.SelectStmt) Value { return NodeValue(n.LimitOffset) }),
		def("withClause", func(n *parser.SelectStmt) Value { return ptrValue(n.WithClause) }),
		def("op", func(n *parser.SelectStmt) Value { return EnumValue(n.Op) }),
		def("all", func(n *parser.SelectStmt) Value { return BoolValue(n.All) }),
		def("larg", func(n *parser.SelectStmt) Value { return ptrValue(n.Larg) }),
		def("rarg", func(n *parser.SelectStmt) Value { return ptrValue(n.Rarg) }),
	},
	"InsertStmt": {
		def("relation", func(n *parser.InsertStmt) Value { return ptrValue(n.Relation) }),
		def("cols", func(n *parser.InsertStmt) Value { return nodeList(n.Cols) }),
		def("valuesLists", func(n *parser.InsertStmt) Value { return nodeList(n.ValuesLists) }),
		def("selectStmt", func(n *parser.InsertStmt) Value { return NodeValue(n.SelectStmt) }),
		def("returningList", func(n *parser.InsertStmt) Value { return ListValue(n.ReturningList) }),
		def("withClause", func(n *parser.InsertStmt) Value { return ptrValue(n.WithClause) }),
	},
	"UpdateStmt": {
		def("relation", func(n *parser.UpdateStmt) Value { return ptrValue(n.Relation) }),
		def("targetList", func(n *parser.UpdateStmt) Value { return nodeList(n.TargetList) }),
		def("fromClause", func(n *parser.UpdateStmt) Value { return ListValue(n.FromClause) }),
		def("whereClause", func(n *parser.UpdateStmt) Value { return NodeValue(n.WhereClause) }),
		def("returningList", func(n *parser.UpdateStmt) Value { return ListValue(n.ReturningList) }),
		def("withClause", func(n *parser.UpdateStmt) Value { return ptrValue(n.WithClause) }),
	},
	"DeleteStmt": {
		def("relation", func(n *parser.DeleteStmt) Value { return ptrValue(n.Relation) }),
		def("usingClause", func(n *parser.DeleteStmt) Value { return ListValue(n.UsingClause) }),
		def("whereClause", func(n *parser.DeleteStmt) Value { return NodeValue(n.WhereClause) }),
		def("returningList", func(n *parser.DeleteStmt) Value { return ListValue(n.ReturningList) }),
		def("withClause", func(n *parser.DeleteStmt) Value { return ptrValue(n.WithClause) }),
	},
	"WithClause": {
		def("recursive", func(n *parser.WithClause) Value { return BoolValue(n.Recursive) }),
		def("ctes", func(n *parser.WithClause) Value { return nodeList(n.Ctes) }),
	},
	"CommonTableExpr": {
		def("ctename", func(n *parser.CommonTableExpr) Value { return StringValue(n.Ctename) }),
		def("ctequery", func(n *parser.CommonTableExpr) Value { return NodeValue(n.Ctequery) }),
	},
	"ResTarget": {
		def("name", func(n *parser.ResTarget) Value { return StringValue(n.Name) }),
		def("val", func(n *parser.ResTarget) Value { return NodeValue(n.Val) }),
	},
	"RangeVar": {
		def("catalogname", func(n *parser.RangeVar) Value { return StringValue(n.Catalogname) }),
		def("schemaname", func(n *parser.RangeVar) Value { return StringValue(n.Schemaname) }),
		def("relname", func(n *parser.RangeVar) Value { return StringValue(n.Relname) }),
		def("alias", func(n *parser.RangeVar) Value { return ptrValue(n.Alias) }),
	},
	"Alias": {
		def("aliasname", func(n *parser.Alias) Value { return StringValue(n.Aliasname) }),
		def("colnames", func(n *parser.Alias) Value { return ListValue(n.Colnames) }),
	},
	"RangeSubselect": {
		def("subquery", func(n *parser.RangeSubselect) Value { return NodeValue(n.Subquery) }),
		def("alias", func(n *parser.RangeSubselect) Value { return ptrValue(n.Alias) }),
	},
	"JoinExpr": {
		def("jointype", func(n *parser.JoinExpr) Value { return EnumValue(n.Jointype) }),
		def("isNatural", func(n *parser.JoinExpr) Value { return BoolValue(n.IsNatural) }),
		def("larg", func(n *parser.JoinExpr) Value { return NodeValue(n.Larg) }),
		def("rarg", func(n *parser.JoinExpr) Value { return NodeValue(n.Rarg) }),
		def("usingClause", func(n *parser.JoinExpr) Value { return ListValue(n.UsingClause) }),
		def("quals", func(n *parser.JoinExpr) Value { return NodeValue(n.Quals) }),
	},
	"SortBy": {
		def("node", func(n *parser.SortBy) Value { return NodeValue(n.Node) }),
		def("sortbyDir", func(n *parser.SortBy) Value { return EnumValue(n.SortbyDir) }),
	},
	"List": {
		def("items", func(n *parser.List) Value { return ListValue(n.Items) }),
	},
	"String": {
		def("sval", func(n *parser.String) Value { return scalarString(n.Sval) }),
	},
	"ColumnRef": {
		def("fields", func(n *parser.ColumnRef) Value { return ListValue(n.Fields) }),
	},
	"A_Star": {},
	"A_Const": {
		def("ival", func(n *parser.A_Const) Value {
			if !n.IsInt() {
				return AbsentValue()
			}
			return IntValue(n.Ival)
		}),
		def("fval", func(n *parser.A_Const) Value {
			if !n.IsFloat() {
				return AbsentValue()
			}
			return FloatValue(n.Fval)
		}),
		def("sval", func(n *parser.A_Const) Value {
			if !n.IsString() {
				return AbsentValue()
			}
			return scalarString(n.Sval)
		}),
		def("boolval", func(n *parser.A_Const) Value {
			if !n.IsBool() {
				return AbsentValue()
			}
			return Value{Kind: ScalarKind, Scalar: Scalar{Type: ScalarBool, Bool: n.Boolval}}
		}),
		def("isnull", func(n *parser.A_Const) Value { return BoolValue(n.Isnull) }),
	},
	"ParamRef": {
		def("number", func(n *parser.ParamRef) Value { return IntValue(n.Number) }),
	},
	"A_Expr": {
		def("kind", func(n *parser.A_Expr) Value { return EnumValue(n.Kind) }),
		def("name", func(n *parser.A_Expr) Value { return StringValue(n.Name) }),
		def("lexpr", func(n *parser.A_Expr) Value { return NodeValue(n.Lexpr) }),
		def("rexpr", func(n *parser.A_Expr) Value { return NodeValue(n.Rexpr) }),
	},
	"BoolExpr": {
		def("boolop", func(n *parser.BoolExpr) Value { return EnumValue(n.Boolop) }),
		def("args", func(n *parser.BoolExpr) Value { return ListValue(n.Args) }),
	},
	"NullTest": {
		def("arg", func(n *parser.NullTest) Value { return NodeValue(n.Arg) }),
		def("nulltesttype", func(n *parser.NullTest) Value { return EnumValue(n.Nulltesttype) }),
	},
	"FuncCall": {
		def("funcname", func(n *parser.FuncCall) Value { return ListValue(n.Funcname) }),
		def("args", func(n *parser.FuncCall) Value { return ListValue(n.Args) }),
		def("aggStar", func(n *parser.FuncCall) Value { return BoolValue(n.AggStar) }),
		def("aggDistinct", func(n *parser.FuncCall) Value { return BoolValue(n.AggDistinct) }),
	},
	"TypeCast": {
		def("arg", func(n *parser.TypeCast) Value { return NodeValue(n.Arg) }),
		def("typeName", func(n *parser.TypeCast) Value { return ptrValue(n.TypeName) }),
	},
	"TypeName": {
		def("names", func(n *parser.TypeName) Value { return ListValue(n.Names) }),
	},
	"CaseExpr": {
		def("arg", func(n *parser.CaseExpr) Value { return NodeValue(n.Arg) }),
		def("args", func(n *parser.CaseExpr) Value { return nodeList(n.Args) }),
		def("defresult", func(n *parser.CaseExpr) Value { return NodeValue(n.Defresult) }),
	},
	"CaseWhen": {
		def("expr", func(n *parser.CaseWhen) Value { return NodeValue(n.Expr) }),
		def("result", func(n *parser.CaseWhen) Value { return NodeValue(n.Result) }),
	},
	"SubLink": {
		def("subLinkType", func(n *parser.SubLink) Value { return EnumValue(n.SubLinkType) }),
		def("testexpr", func(n *parser.SubLink) Value { return NodeValue(n.Testexpr) }),
		def("subselect", func(n *parser.SubLink) Value { return NodeValue(n.Subselect) }),
	},
}
