// Package validator checks a parsed ast.Statement against the live catalog
// and reports structured, positioned semantic errors before any executor
// is allowed to run.
package validator

import (
	"fmt"

	"github.com/Nokado04/NQL-Project/pkg/catalog"
	"github.com/Nokado04/NQL-Project/pkg/nql/ast"
	"github.com/Nokado04/NQL-Project/pkg/types"
)

// Kind names one of the semantic error families from spec.md §7.
type Kind int

const (
	UnknownTable Kind = iota
	DuplicateTable
	UnknownColumn
	DuplicateColumn
	ArityMismatch
	TypeMismatch
	NullViolation
	LengthViolation
	PrimaryKeyImmutable
	MultiplePrimaryKeys
	EmptyColumnList
	NonLiteralInsertValue
	NotImplemented
)

func (k Kind) String() string {
	switch k {
	case UnknownTable:
		return "UnknownTable"
	case DuplicateTable:
		return "DuplicateTable"
	case UnknownColumn:
		return "UnknownColumn"
	case DuplicateColumn:
		return "DuplicateColumn"
	case ArityMismatch:
		return "ArityMismatch"
	case TypeMismatch:
		return "TypeMismatch"
	case NullViolation:
		return "NullViolation"
	case LengthViolation:
		return "LengthViolation"
	case PrimaryKeyImmutable:
		return "PrimaryKeyImmutable"
	case MultiplePrimaryKeys:
		return "MultiplePrimaryKeys"
	case EmptyColumnList:
		return "EmptyColumnList"
	case NonLiteralInsertValue:
		return "NonLiteralInsertValue"
	case NotImplemented:
		return "NotImplemented"
	default:
		return "Unknown"
	}
}

// Error is a structured semantic error: a stable Kind, a human message,
// and (when known) the offending identifier. NQL statements are parsed in
// one shot, so validator errors are not yet carrying a
// lexer.Position the way parser errors do — the Kind plus Subject is the
// addressable identity, matching spec.md §7's "stable numeric codes
// grouped by phase" (Kind plays the role of that code here, numbered by
// declaration order in the const block above).
type Error struct {
	Kind    Kind
	Subject string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newErr(k Kind, subject, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Subject: subject, Message: fmt.Sprintf(format, args...)}
}

// Validate checks stmt against cat and returns a structured *Error if it
// would be unsafe to execute.
func Validate(stmt ast.Statement, cat *catalog.Catalog) error {
	switch s := stmt.(type) {
	case *ast.CreateTableStmt:
		return validateCreateTable(s, cat)
	case *ast.AlterTableStmt:
		return validateAlterTable(s, cat)
	case *ast.DropTableStmt:
		return validateDropTable(s, cat)
	case *ast.DescribeStmt:
		return validateDescribe(s, cat)
	case *ast.InsertStmt:
		return validateInsert(s, cat)
	case *ast.SelectStmt:
		return validateSelect(s, cat)
	case *ast.UpdateStmt:
		return validateUpdate(s, cat)
	case *ast.DeleteStmt:
		return validateDelete(s, cat)
	default:
		return newErr(NotImplemented, "", "unsupported statement type %T", stmt)
	}
}

func findTable(name string, cat *catalog.Catalog) (*catalog.TableDef, error) {
	t, err := cat.FindTable(name)
	if err != nil {
		return nil, newErr(UnknownTable, name, "table %q does not exist", name)
	}
	return t, nil
}

func validateCreateTable(s *ast.CreateTableStmt, cat *catalog.Catalog) error {
	if _, err := cat.FindTable(s.TableName); err == nil {
		return newErr(DuplicateTable, s.TableName, "table %q already exists", s.TableName)
	}
	if len(s.Columns) == 0 {
		return newErr(EmptyColumnList, s.TableName, "CREATE TABLE requires at least one column")
	}

	seen := make(map[string]bool, len(s.Columns))
	pkCount := 0
	for _, c := range s.Columns {
		key := asciiLower(c.Name)
		if seen[key] {
			return newErr(DuplicateColumn, c.Name, "column %q declared more than once", c.Name)
		}
		seen[key] = true
		if c.Type == types.TypeString && c.MaxLength <= 0 {
			return newErr(LengthViolation, c.Name, "STRING column %q must declare a positive length", c.Name)
		}
		if c.PrimaryKey {
			pkCount++
		}
	}
	if pkCount > 1 {
		return newErr(MultiplePrimaryKeys, s.TableName, "table %q declares more than one primary key", s.TableName)
	}
	return nil
}

func validateAlterTable(s *ast.AlterTableStmt, cat *catalog.Catalog) error {
	t, err := findTable(s.TableName, cat)
	if err != nil {
		return err
	}

	switch s.Kind {
	case ast.AlterAddColumn:
		c := s.AddColumn
		if t.ColumnIndex(c.Name) >= 0 {
			return newErr(DuplicateColumn, c.Name, "column %q already exists on table %q", c.Name, s.TableName)
		}
		if c.Type == types.TypeString && c.MaxLength <= 0 {
			return newErr(LengthViolation, c.Name, "STRING column %q must declare a positive length", c.Name)
		}
		if c.PrimaryKey && t.PrimaryKeyIndex() >= 0 {
			return newErr(MultiplePrimaryKeys, s.TableName, "table %q already has a primary key", s.TableName)
		}
		return nil
	case ast.AlterDropColumn:
		return newErr(NotImplemented, s.DropColumn, "ALTER TABLE DROP COLUMN is not implemented")
	default:
		return newErr(NotImplemented, "", "unsupported ALTER TABLE form")
	}
}

func validateDropTable(s *ast.DropTableStmt, cat *catalog.Catalog) error {
	_, err := findTable(s.TableName, cat)
	return err
}

func validateDescribe(s *ast.DescribeStmt, cat *catalog.Catalog) error {
	_, err := findTable(s.TableName, cat)
	return err
}

func validateInsert(s *ast.InsertStmt, cat *catalog.Catalog) error {
	t, err := findTable(s.TableName, cat)
	if err != nil {
		return err
	}

	// Resolve the target column order: either an explicit list or all
	// columns in declared order.
	targets := t.Columns
	if s.Columns != nil {
		targets = make([]catalog.ColumnDef, len(s.Columns))
		for i, name := range s.Columns {
			col := t.Column(name)
			if col == nil {
				return newErr(UnknownColumn, name, "column %q does not exist on table %q", name, s.TableName)
			}
			targets[i] = *col
		}
	}

	for _, row := range s.Values {
		if len(row) != len(targets) {
			return newErr(ArityMismatch, s.TableName, "expected %d value(s), got %d", len(targets), len(row))
		}
		for i, expr := range row {
			lit, ok := expr.(*ast.Literal)
			if !ok {
				return newErr(NonLiteralInsertValue, targets[i].Name, "INSERT values must be literals")
			}
			if err := checkValueAgainstColumn(lit.Value, targets[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkValueAgainstColumn(v types.Value, col catalog.ColumnDef) error {
	if v.IsNull() {
		if !col.AllowsNull {
			return newErr(NullViolation, col.Name, "column %q does not allow NULL", col.Name)
		}
		return nil
	}
	if !types.IsCompatible(col.Type, v.Type()) {
		return newErr(TypeMismatch, col.Name, "value of type %v is not compatible with column %q of type %v", v.Type(), col.Name, col.Type)
	}
	if col.Type == types.TypeString {
		coerced, _ := types.Coerce(v, col.Type)
		if len(coerced.Str()) > col.MaxLength {
			return newErr(LengthViolation, col.Name, "value exceeds max length %d for column %q", col.MaxLength, col.Name)
		}
	}
	return nil
}

func validateSelect(s *ast.SelectStmt, cat *catalog.Catalog) error {
	t, err := findTable(s.From, cat)
	if err != nil {
		return err
	}
	for _, c := range s.Columns {
		if c.Star || c.CountAll {
			continue
		}
		if !isRowidColumn(c.Name) && t.Column(c.Name) == nil {
			return newErr(UnknownColumn, c.Name, "column %q does not exist on table %q", c.Name, s.From)
		}
	}
	if s.Where != nil {
		return validateExpression(s.Where, t)
	}
	return nil
}

func validateUpdate(s *ast.UpdateStmt, cat *catalog.Catalog) error {
	t, err := findTable(s.TableName, cat)
	if err != nil {
		return err
	}
	for _, a := range s.Assignments {
		col := t.Column(a.Column)
		if col == nil {
			return newErr(UnknownColumn, a.Column, "column %q does not exist on table %q", a.Column, s.TableName)
		}
		if col.IsPrimaryKey {
			return newErr(PrimaryKeyImmutable, a.Column, "primary key column %q cannot be modified", a.Column)
		}
		lit, ok := a.Value.(*ast.Literal)
		if !ok {
			if err := validateExpression(a.Value, t); err != nil {
				return err
			}
			continue
		}
		if err := checkValueAgainstColumn(lit.Value, *col); err != nil {
			return err
		}
	}
	if s.Where != nil {
		return validateExpression(s.Where, t)
	}
	return nil
}

func validateDelete(s *ast.DeleteStmt, cat *catalog.Catalog) error {
	t, err := findTable(s.TableName, cat)
	if err != nil {
		return err
	}
	if s.Where != nil {
		return validateExpression(s.Where, t)
	}
	return nil
}

// validateExpression recursively checks that every column reference in
// expr exists on t. Type compatibility of comparisons is intentionally not
// enforced here beyond column existence, since NQL's WHERE values may mix
// column and literal operands of compatible but not identical Go types
// (e.g. FLOAT column compared against an INT literal); the executor's
// general predicate evaluator resolves mixed operands at comparison time
// (INT/FLOAT widening, string comparison when either side is a STRING) and
// reports an error for pairs it cannot compare, such as BOOL against INT.
func validateExpression(expr ast.Expression, t *catalog.TableDef) error {
	switch e := expr.(type) {
	case *ast.Literal:
		return nil
	case *ast.ColumnRef:
		if isRowidColumn(e.Name) {
			return nil
		}
		if t.Column(e.Name) == nil {
			return newErr(UnknownColumn, e.Name, "column %q does not exist on table %q", e.Name, t.Name)
		}
		return nil
	case *ast.UnaryExpr:
		return validateExpression(e.Right, t)
	case *ast.BinaryExpr:
		if err := validateExpression(e.Left, t); err != nil {
			return err
		}
		return validateExpression(e.Right, t)
	default:
		return newErr(NotImplemented, "", "unsupported expression node %T", expr)
	}
}

// isRowidColumn reports whether name refers to the synthetic read-only
// rowid column every table exposes (spec.md §9, §4.7/§11: rowid equals a
// row's current position).
func isRowidColumn(name string) bool {
	return asciiLower(name) == "rowid"
}

func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
