// Package parser provides SQL parsing into a typed AST.
//
// The AST follows PostgreSQL parse-tree naming: node kinds such as
// SelectStmt, RangeVar, and A_Const, with field names such as targetList,
// whereClause, and relname. The pattern engine consumes this tree only
// through the pkg/tree projection, so nothing outside this package depends
// on the concrete struct layout.
//
// # Grammar Overview
//
//	statement   → select_stmt | insert_stmt | update_stmt | delete_stmt
//	select_stmt → [WITH cte_list] select_core
//	              [(UNION|INTERSECT|EXCEPT) [ALL] select_stmt]
//	select_core → SELECT [DISTINCT] target_list [FROM from_list]
//	              [WHERE expr] [GROUP BY expr_list] [HAVING expr]
//	              [ORDER BY sort_list] [LIMIT expr] [OFFSET expr]
//
// See each file for detailed grammar rules for that section.
package parser

import "github.com/leapstack-labs/sqlgrep/pkg/token"

// Node is implemented by every AST node.
type Node interface {
	node()
	GetSpan() token.Span
}

// NodeInfo provides the source span common to all AST nodes.
// Embed this in every node type.
type NodeInfo struct {
	Span token.Span
}

// GetSpan returns the node's source span.
func (n *NodeInfo) GetSpan() token.Span {
	return n.Span
}

// Set-operation labels for SelectStmt.Op.
const (
	SetOpNone      = "SETOP_NONE"
	SetOpUnion     = "SETOP_UNION"
	SetOpIntersect = "SETOP_INTERSECT"
	SetOpExcept    = "SETOP_EXCEPT"
)

// SelectStmt represents a SELECT statement, including set operations.
// When Op is not SETOP_NONE, Larg and Rarg hold the operands and the
// clause fields are empty.
type SelectStmt struct {
	NodeInfo
	DistinctClause bool
	TargetList     []*ResTarget
	FromClause     []Node
	WhereClause    Node
	GroupClause    []Node
	HavingClause   Node
	SortClause     []*SortBy
	LimitCount     Node
	LimitOffset    Node
	WithClause     *WithClause
	Op             string // SETOP_* label
	All            bool
	Larg           *SelectStmt
	Rarg           *SelectStmt
}

func (*SelectStmt) node() {}

// InsertStmt represents an INSERT statement. Exactly one of ValuesLists
// or SelectStmt is set as the row source.
type InsertStmt struct {
	NodeInfo
	Relation      *RangeVar
	Cols          []*ResTarget
	ValuesLists   []*List
	SelectStmt    Node
	ReturningList []Node
	WithClause    *WithClause
}

func (*InsertStmt) node() {}

// UpdateStmt represents an UPDATE statement.
type UpdateStmt struct {
	NodeInfo
	Relation      *RangeVar
	TargetList    []*ResTarget
	FromClause    []Node
	WhereClause   Node
	ReturningList []Node
	WithClause    *WithClause
}

func (*UpdateStmt) node() {}

// DeleteStmt represents a DELETE statement.
type DeleteStmt struct {
	NodeInfo
	Relation      *RangeVar
	UsingClause   []Node
	WhereClause   Node
	ReturningList []Node
	WithClause    *WithClause
}

func (*DeleteStmt) node() {}

// WithClause represents a WITH clause with its CTEs.
type WithClause struct {
	NodeInfo
	Recursive bool
	Ctes      []*CommonTableExpr
}

func (*WithClause) node() {}

// CommonTableExpr represents a single CTE.
type CommonTableExpr struct {
	NodeInfo
	Ctename  string
	Ctequery Node
}

func (*CommonTableExpr) node() {}

// ResTarget represents a target list entry (an output column or a SET
// assignment). Name is the alias or assignment target, empty when none.
type ResTarget struct {
	NodeInfo
	Name string
	Val  Node
}

func (*ResTarget) node() {}

// RangeVar represents a table reference by name.
type RangeVar struct {
	NodeInfo
	Catalogname string
	Schemaname  string
	Relname     string
	Alias       *Alias
}

func (*RangeVar) node() {}

// Alias represents a table or subquery alias, optionally with column names.
type Alias struct {
	NodeInfo
	Aliasname string
	Colnames  []Node
}

func (*Alias) node() {}

// RangeSubselect represents a subquery in FROM.
type RangeSubselect struct {
	NodeInfo
	Subquery Node
	Alias    *Alias
}

func (*RangeSubselect) node() {}

// Join-type labels for JoinExpr.Jointype.
const (
	JoinInner = "JOIN_INNER"
	JoinLeft  = "JOIN_LEFT"
	JoinRight = "JOIN_RIGHT"
	JoinFull  = "JOIN_FULL"
)

// JoinExpr represents a join between two FROM items. Cross joins are
// JOIN_INNER with no qualifiers.
type JoinExpr struct {
	NodeInfo
	Jointype    string // JOIN_* label
	IsNatural   bool
	Larg        Node
	Rarg        Node
	UsingClause []Node
	Quals       Node
}

func (*JoinExpr) node() {}

// Sort-direction labels for SortBy.SortbyDir.
const (
	SortByDefault = "SORTBY_DEFAULT"
	SortByAsc     = "SORTBY_ASC"
	SortByDesc    = "SORTBY_DESC"
)

// SortBy represents one ORDER BY item.
type SortBy struct {
	NodeInfo
	Node      Node
	SortbyDir string // SORTBY_* label
}

func (*SortBy) node() {}

// List represents an ordered list of nodes, such as one VALUES row.
type List struct {
	NodeInfo
	Items []Node
}

func (*List) node() {}

// String represents a bare string component, such as one part of a
// dotted column reference or function name.
type String struct {
	NodeInfo
	Sval string
}

func (*String) node() {}
