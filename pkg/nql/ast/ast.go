// Package ast defines the syntax tree NQL's parser produces: one Statement
// node per supported statement kind, and a small Expression tree for
// WHERE clauses, INSERT values, and UPDATE assignments.
package ast

import (
	"github.com/Nokado04/NQL-Project/pkg/nql/lexer"
	"github.com/Nokado04/NQL-Project/pkg/types"
)

// Statement is any top-level NQL statement.
type Statement interface {
	statementNode()
}

// Expression is any node that evaluates to a Value.
type Expression interface {
	expressionNode()
}

// ColumnDef is one column in a CREATE TABLE or ALTER TABLE ... ADD COLUMN.
type ColumnDef struct {
	Name       string
	Type       types.DataType
	MaxLength  int // only meaningful for STRING columns
	PrimaryKey bool
	NotNull    bool
}

// CreateTableStmt is `CREATE TABLE name (col def, ...)`.
type CreateTableStmt struct {
	TableName string
	Columns   []ColumnDef
}

func (*CreateTableStmt) statementNode() {}

// AlterTableKind distinguishes the two ALTER TABLE forms NQL's grammar
// accepts.
type AlterTableKind int

const (
	AlterAddColumn AlterTableKind = iota
	AlterDropColumn
)

// AlterTableStmt is `ALTER TABLE name ADD COLUMN def` or
// `ALTER TABLE name DROP COLUMN name`. The validator rejects the drop form
// with a NotImplemented error; it still parses so the grammar stays
// unambiguous with the add form.
type AlterTableStmt struct {
	TableName  string
	Kind       AlterTableKind
	AddColumn  *ColumnDef // set when Kind == AlterAddColumn
	DropColumn string     // set when Kind == AlterDropColumn
}

func (*AlterTableStmt) statementNode() {}

// DropTableStmt is `DROP TABLE name`.
type DropTableStmt struct {
	TableName string
}

func (*DropTableStmt) statementNode() {}

// DescribeStmt is `DESCRIBE name`, rendering the table's column layout.
type DescribeStmt struct {
	TableName string
}

func (*DescribeStmt) statementNode() {}

// InsertStmt is `INSERT INTO name [(col, ...)] VALUES (expr, ...), ...`.
// Columns is nil when the column list was omitted, meaning "all columns in
// declared order".
type InsertStmt struct {
	TableName string
	Columns   []string
	Values    [][]Expression
}

func (*InsertStmt) statementNode() {}

// SelectColumn is either `*`, a COUNT(*) marker, or a single column
// reference, per spec.md's Non-goal of excluding general expression
// projection.
type SelectColumn struct {
	Star     bool
	CountAll bool
	Name     string
}

// SelectStmt is `SELECT cols FROM name [WHERE expr]`.
type SelectStmt struct {
	Columns []SelectColumn
	From    string
	Where   Expression // nil if no WHERE clause
}

func (*SelectStmt) statementNode() {}

// Assignment is one `col = expr` pair in an UPDATE's SET clause.
type Assignment struct {
	Column string
	Value  Expression
}

// UpdateStmt is `UPDATE name SET assignment, ... [WHERE expr]`.
type UpdateStmt struct {
	TableName   string
	Assignments []Assignment
	Where       Expression
}

func (*UpdateStmt) statementNode() {}

// DeleteStmt is `DELETE FROM name [WHERE expr]`.
type DeleteStmt struct {
	TableName string
	Where     Expression
}

func (*DeleteStmt) statementNode() {}

// Literal is a constant value appearing in source text (an INT, FLOAT,
// STRING, BOOL literal or NULL).
type Literal struct {
	Value types.Value
}

func (*Literal) expressionNode() {}

// ColumnRef refers to a column by name, resolved against the active
// table by the validator and executor.
type ColumnRef struct {
	Name string
}

func (*ColumnRef) expressionNode() {}

// BinaryExpr is `left op right`, where op is one of the arithmetic,
// comparison or logical operators in spec.md §4.5 (+, -, *, /, =, <>, <, >,
// <=, >=, AND, OR).
type BinaryExpr struct {
	Left  Expression
	Op    lexer.TokenType
	Right Expression
}

func (*BinaryExpr) expressionNode() {}

// UnaryExpr is `op right`, where op is unary `-` or `NOT`.
type UnaryExpr struct {
	Op    lexer.TokenType
	Right Expression
}

func (*UnaryExpr) expressionNode() {}
