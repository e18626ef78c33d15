// Package exec translates validated ast.Statement trees into catalog
// operations and produces the user-visible Result of running them.
// Executors never re-check what the validator already guarantees (spec.md
// §4.7); they assume the statement has already passed Validate.
package exec

import (
	"fmt"

	"github.com/Nokado04/NQL-Project/pkg/catalog"
	"github.com/Nokado04/NQL-Project/pkg/nql/ast"
	"github.com/Nokado04/NQL-Project/pkg/nql/lexer"
	"github.com/Nokado04/NQL-Project/pkg/types"
)

// Result is what executing one statement produces: either a row set (for
// SELECT/DESCRIBE) or a rows-affected count (for DDL/DML).
type Result struct {
	Columns      []string
	ColumnTypes  []types.DataType
	Rows         [][]types.Value
	RowsAffected int
	Message      string // set for DDL and DML statements (e.g. "table created", "1 row(s) inserted")
}

// Execute runs stmt against cat. Callers must have already validated stmt
// with the validator package; Execute does not repeat those checks.
func Execute(stmt ast.Statement, cat *catalog.Catalog) (*Result, error) {
	switch s := stmt.(type) {
	case *ast.CreateTableStmt:
		return execCreateTable(s, cat)
	case *ast.AlterTableStmt:
		return execAlterTable(s, cat)
	case *ast.DropTableStmt:
		return execDropTable(s, cat)
	case *ast.DescribeStmt:
		return execDescribe(s, cat)
	case *ast.InsertStmt:
		return execInsert(s, cat)
	case *ast.SelectStmt:
		return execSelect(s, cat)
	case *ast.UpdateStmt:
		return execUpdate(s, cat)
	case *ast.DeleteStmt:
		return execDelete(s, cat)
	default:
		return nil, fmt.Errorf("exec: unsupported statement type %T", stmt)
	}
}

func execCreateTable(s *ast.CreateTableStmt, cat *catalog.Catalog) (*Result, error) {
	cols := make([]catalog.ColumnDef, len(s.Columns))
	for i, c := range s.Columns {
		cols[i] = catalog.ColumnDef{
			Name:         c.Name,
			Type:         c.Type,
			MaxLength:    c.MaxLength,
			IsPrimaryKey: c.PrimaryKey,
			AllowsNull:   !c.NotNull && !c.PrimaryKey,
		}
	}
	if _, err := cat.CreateTable(s.TableName, cols); err != nil {
		return nil, err
	}
	return &Result{Message: fmt.Sprintf("table %q created", s.TableName)}, nil
}

func execAlterTable(s *ast.AlterTableStmt, cat *catalog.Catalog) (*Result, error) {
	// Only AlterAddColumn reaches here: AlterDropColumn is rejected by the
	// validator before Execute is ever called (see validator.NotImplemented).
	c := s.AddColumn
	col := catalog.ColumnDef{
		Name:         c.Name,
		Type:         c.Type,
		MaxLength:    c.MaxLength,
		IsPrimaryKey: c.PrimaryKey,
		AllowsNull:   !c.NotNull && !c.PrimaryKey,
	}
	if err := cat.AddColumn(s.TableName, col); err != nil {
		return nil, err
	}
	return &Result{Message: fmt.Sprintf("column %q added to %q", c.Name, s.TableName)}, nil
}

func execDropTable(s *ast.DropTableStmt, cat *catalog.Catalog) (*Result, error) {
	if err := cat.DropTable(s.TableName); err != nil {
		return nil, err
	}
	return &Result{Message: fmt.Sprintf("table %q dropped", s.TableName)}, nil
}

func execDescribe(s *ast.DescribeStmt, cat *catalog.Catalog) (*Result, error) {
	t, err := cat.FindTable(s.TableName)
	if err != nil {
		return nil, err
	}
	res := &Result{Columns: []string{"Field", "Type", "Null", "Key"}}
	for _, c := range t.Columns {
		nullStr := "YES"
		if !c.AllowsNull {
			nullStr = "NO"
		}
		keyStr := ""
		if c.IsPrimaryKey {
			keyStr = "PRI"
		}
		res.Rows = append(res.Rows, []types.Value{
			types.NewString(c.Name),
			types.NewString(c.Type.String()),
			types.NewString(nullStr),
			types.NewString(keyStr),
		})
	}
	return res, nil
}

func execInsert(s *ast.InsertStmt, cat *catalog.Catalog) (*Result, error) {
	t, err := cat.FindTable(s.TableName)
	if err != nil {
		return nil, err
	}

	// Resolve each literal row into column-order values. If an explicit
	// column list was given, positions not named default to Null (the
	// validator has already confirmed every named column exists).
	affected := 0
	for _, row := range s.Values {
		values := make([]types.Value, len(t.Columns))
		for i := range values {
			values[i] = types.NewNull()
		}
		if s.Columns == nil {
			for i, expr := range row {
				values[i] = expr.(*ast.Literal).Value
			}
		} else {
			for i, name := range s.Columns {
				idx := t.ColumnIndex(name)
				values[idx] = row[i].(*ast.Literal).Value
			}
		}
		if _, err := cat.InsertRow(s.TableName, values); err != nil {
			return nil, err
		}
		affected++
	}
	return &Result{RowsAffected: affected, Message: fmt.Sprintf("%d row(s) inserted", affected)}, nil
}

func execSelect(s *ast.SelectStmt, cat *catalog.Catalog) (*Result, error) {
	t, err := cat.FindTable(s.From)
	if err != nil {
		return nil, err
	}

	if len(s.Columns) == 1 && s.Columns[0].CountAll {
		count := 0
		for i, row := range t.Rows {
			ok, err := matches(s.Where, t, row, i)
			if err != nil {
				return nil, err
			}
			if ok {
				count++
			}
		}
		return &Result{
			Columns:     []string{"count"},
			ColumnTypes: []types.DataType{types.TypeInt},
			Rows:        [][]types.Value{{types.NewInt(int64(count))}},
		}, nil
	}

	colNames, colTypes, projector := resolveProjection(s.Columns, t)

	var outRows [][]types.Value
	for i, row := range t.Rows {
		ok, err := matches(s.Where, t, row, i)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		outRows = append(outRows, projector(row, i))
	}

	return &Result{Columns: colNames, ColumnTypes: colTypes, Rows: outRows}, nil
}

// resolveProjection builds the output column list and a function that
// extracts one output row from a stored row, handling `*` and the
// synthetic rowid column.
func resolveProjection(cols []ast.SelectColumn, t *catalog.TableDef) ([]string, []types.DataType, func(catalog.Row, int) []types.Value) {
	if len(cols) == 1 && cols[0].Star {
		names := make([]string, len(t.Columns))
		types_ := make([]types.DataType, len(t.Columns))
		for i, c := range t.Columns {
			names[i] = c.Name
			types_[i] = c.Type
		}
		return names, types_, func(r catalog.Row, _ int) []types.Value {
			out := make([]types.Value, len(r.Values))
			copy(out, r.Values)
			return out
		}
	}

	names := make([]string, len(cols))
	dts := make([]types.DataType, len(cols))
	indices := make([]int, len(cols))
	for i, c := range cols {
		names[i] = c.Name
		if isRowid(c.Name) {
			indices[i] = -1
			dts[i] = types.TypeInt
			continue
		}
		idx := t.ColumnIndex(c.Name)
		indices[i] = idx
		dts[i] = t.Columns[idx].Type
	}
	return names, dts, func(r catalog.Row, rowIdx int) []types.Value {
		out := make([]types.Value, len(indices))
		for i, idx := range indices {
			if idx < 0 {
				out[i] = types.NewInt(int64(rowIdx))
				continue
			}
			out[i] = r.Values[idx]
		}
		return out
	}
}

// cellUpdate is one already-type-checked cell write staged by execUpdate,
// applied only once every assignment in the statement is known to succeed.
type cellUpdate struct {
	rowIdx int
	column string
	value  types.Value
}

// execUpdate mirrors execInsert's construct-then-splice shape: every
// assignment, for every matched row, is evaluated and type-checked against
// its target column before any of them is spliced into the live catalog.
// A failure anywhere in that pass leaves the catalog untouched, per
// spec.md §5's statement-level atomicity rule.
func execUpdate(s *ast.UpdateStmt, cat *catalog.Catalog) (*Result, error) {
	t, err := cat.FindTable(s.TableName)
	if err != nil {
		return nil, err
	}

	var matchedRows []int
	for i, row := range t.Rows {
		ok, err := matches(s.Where, t, row, i)
		if err != nil {
			return nil, err
		}
		if ok {
			matchedRows = append(matchedRows, i)
		}
	}

	var updates []cellUpdate
	for _, rowIdx := range matchedRows {
		row := t.Rows[rowIdx]
		for _, a := range s.Assignments {
			v, err := evalExpr(a.Value, t, row, rowIdx)
			if err != nil {
				return nil, err
			}
			coerced, err := t.CoerceForColumn(a.Column, v)
			if err != nil {
				return nil, err
			}
			updates = append(updates, cellUpdate{rowIdx: rowIdx, column: a.Column, value: coerced})
		}
	}

	for _, u := range updates {
		if err := cat.UpdateCell(s.TableName, u.rowIdx, u.column, u.value); err != nil {
			return nil, err
		}
	}
	return &Result{RowsAffected: len(matchedRows), Message: fmt.Sprintf("%d row(s) updated", len(matchedRows))}, nil
}

func execDelete(s *ast.DeleteStmt, cat *catalog.Catalog) (*Result, error) {
	t, err := cat.FindTable(s.TableName)
	if err != nil {
		return nil, err
	}

	var matchedRows []int
	for i, row := range t.Rows {
		ok, err := matches(s.Where, t, row, i)
		if err != nil {
			return nil, err
		}
		if ok {
			matchedRows = append(matchedRows, i)
		}
	}

	// Delete from highest index to lowest so earlier indices stay valid
	// as rows compact (spec.md invariant #3).
	for i := len(matchedRows) - 1; i >= 0; i-- {
		if err := cat.DeleteRow(s.TableName, matchedRows[i]); err != nil {
			return nil, err
		}
	}
	return &Result{RowsAffected: len(matchedRows), Message: fmt.Sprintf("%d row(s) deleted", len(matchedRows))}, nil
}

func isRowid(name string) bool {
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

// matches reports whether row (at position rowIdx in t) satisfies where.
// A nil where matches every row. This is the general predicate evaluator
// chosen in SPEC_FULL.md §11 over restricting WHERE to `rowid = N`.
func matches(where ast.Expression, t *catalog.TableDef, row catalog.Row, rowIdx int) (bool, error) {
	if where == nil {
		return true, nil
	}
	v, err := evalExpr(where, t, row, rowIdx)
	if err != nil {
		return false, err
	}
	return truthy(v), nil
}

func truthy(v types.Value) bool {
	if v.IsNull() {
		return false
	}
	switch v.Type() {
	case types.ValBool:
		return v.Bool()
	case types.ValInt:
		return v.Int() != 0
	case types.ValFloat:
		return v.Float() != 0
	case types.ValString:
		return v.Str() != ""
	default:
		return false
	}
}

// evalExpr evaluates expr against one row, resolving ColumnRef (including
// the synthetic rowid column) and applying the comparison/logical/
// arithmetic operators spec.md §4.5 defines.
func evalExpr(expr ast.Expression, t *catalog.TableDef, row catalog.Row, rowIdx int) (types.Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return e.Value, nil
	case *ast.ColumnRef:
		if isRowid(e.Name) {
			return types.NewInt(int64(rowIdx)), nil
		}
		idx := t.ColumnIndex(e.Name)
		if idx < 0 {
			return types.Value{}, fmt.Errorf("unknown column %q", e.Name)
		}
		return row.Values[idx], nil
	case *ast.UnaryExpr:
		v, err := evalExpr(e.Right, t, row, rowIdx)
		if err != nil {
			return types.Value{}, err
		}
		switch e.Op {
		case lexer.MINUS:
			return negate(v)
		case lexer.NOT:
			return types.NewBool(!truthy(v)), nil
		default:
			return types.Value{}, fmt.Errorf("unsupported unary operator %v", e.Op)
		}
	case *ast.BinaryExpr:
		return evalBinary(e, t, row, rowIdx)
	default:
		return types.Value{}, fmt.Errorf("unsupported expression node %T", expr)
	}
}

func negate(v types.Value) (types.Value, error) {
	switch v.Type() {
	case types.ValInt:
		return types.NewInt(-v.Int()), nil
	case types.ValFloat:
		return types.NewFloat(-v.Float()), nil
	default:
		return types.Value{}, fmt.Errorf("cannot negate value of type %v", v.Type())
	}
}

func evalBinary(e *ast.BinaryExpr, t *catalog.TableDef, row catalog.Row, rowIdx int) (types.Value, error) {
	switch e.Op {
	case lexer.AND:
		l, err := evalExpr(e.Left, t, row, rowIdx)
		if err != nil {
			return types.Value{}, err
		}
		if !truthy(l) {
			return types.NewBool(false), nil
		}
		r, err := evalExpr(e.Right, t, row, rowIdx)
		if err != nil {
			return types.Value{}, err
		}
		return types.NewBool(truthy(r)), nil
	case lexer.OR:
		l, err := evalExpr(e.Left, t, row, rowIdx)
		if err != nil {
			return types.Value{}, err
		}
		if truthy(l) {
			return types.NewBool(true), nil
		}
		r, err := evalExpr(e.Right, t, row, rowIdx)
		if err != nil {
			return types.Value{}, err
		}
		return types.NewBool(truthy(r)), nil
	}

	l, err := evalExpr(e.Left, t, row, rowIdx)
	if err != nil {
		return types.Value{}, err
	}
	r, err := evalExpr(e.Right, t, row, rowIdx)
	if err != nil {
		return types.Value{}, err
	}

	switch e.Op {
	case lexer.PLUS, lexer.MINUS, lexer.STAR, lexer.SLASH:
		return arithmetic(e.Op, l, r)
	case lexer.EQ, lexer.NEQ, lexer.LT, lexer.GT, lexer.LTE, lexer.GTE:
		return compare(e.Op, l, r)
	default:
		return types.Value{}, fmt.Errorf("unsupported binary operator %v", e.Op)
	}
}

// asFloat64 widens an Int or Float value for numeric comparison/
// arithmetic; the validator has already confirmed type compatibility for
// assignment/insert contexts, but WHERE predicates over mixed column/
// literal types (e.g. FLOAT column = 1) are resolved here by widening.
func asFloat64(v types.Value) (float64, bool) {
	switch v.Type() {
	case types.ValInt:
		return float64(v.Int()), true
	case types.ValFloat:
		return v.Float(), true
	default:
		return 0, false
	}
}

func arithmetic(op lexer.TokenType, l, r types.Value) (types.Value, error) {
	if l.Type() == types.ValInt && r.Type() == types.ValInt {
		li, ri := l.Int(), r.Int()
		switch op {
		case lexer.PLUS:
			return types.NewInt(li + ri), nil
		case lexer.MINUS:
			return types.NewInt(li - ri), nil
		case lexer.STAR:
			return types.NewInt(li * ri), nil
		case lexer.SLASH:
			if ri == 0 {
				return types.Value{}, fmt.Errorf("division by zero")
			}
			return types.NewInt(li / ri), nil
		}
	}
	lf, ok1 := asFloat64(l)
	rf, ok2 := asFloat64(r)
	if !ok1 || !ok2 {
		return types.Value{}, fmt.Errorf("arithmetic requires numeric operands, got %v and %v", l.Type(), r.Type())
	}
	switch op {
	case lexer.PLUS:
		return types.NewFloat(lf + rf), nil
	case lexer.MINUS:
		return types.NewFloat(lf - rf), nil
	case lexer.STAR:
		return types.NewFloat(lf * rf), nil
	case lexer.SLASH:
		if rf == 0 {
			return types.Value{}, fmt.Errorf("division by zero")
		}
		return types.NewFloat(lf / rf), nil
	default:
		return types.Value{}, fmt.Errorf("unsupported arithmetic operator %v", op)
	}
}

func compare(op lexer.TokenType, l, r types.Value) (types.Value, error) {
	if l.IsNull() || r.IsNull() {
		// NULL compares equal only to NULL under `=`; every other
		// comparison against NULL is false, including `<>`.
		eq := l.IsNull() && r.IsNull()
		switch op {
		case lexer.EQ:
			return types.NewBool(eq), nil
		default:
			return types.NewBool(false), nil
		}
	}

	if l.Type() == types.ValString || r.Type() == types.ValString {
		ls, rs := types.CoerceToString(l), types.CoerceToString(r)
		return types.NewBool(stringCompare(op, ls, rs)), nil
	}
	if l.Type() == types.ValBool && r.Type() == types.ValBool {
		return types.NewBool(boolCompare(op, l.Bool(), r.Bool())), nil
	}

	lf, ok1 := asFloat64(l)
	rf, ok2 := asFloat64(r)
	if !ok1 || !ok2 {
		return types.Value{}, fmt.Errorf("cannot compare values of type %v and %v", l.Type(), r.Type())
	}
	return types.NewBool(numericCompare(op, lf, rf)), nil
}

func numericCompare(op lexer.TokenType, l, r float64) bool {
	switch op {
	case lexer.EQ:
		return l == r
	case lexer.NEQ:
		return l != r
	case lexer.LT:
		return l < r
	case lexer.GT:
		return l > r
	case lexer.LTE:
		return l <= r
	case lexer.GTE:
		return l >= r
	default:
		return false
	}
}

func stringCompare(op lexer.TokenType, l, r string) bool {
	switch op {
	case lexer.EQ:
		return l == r
	case lexer.NEQ:
		return l != r
	case lexer.LT:
		return l < r
	case lexer.GT:
		return l > r
	case lexer.LTE:
		return l <= r
	case lexer.GTE:
		return l >= r
	default:
		return false
	}
}

func boolCompare(op lexer.TokenType, l, r bool) bool {
	switch op {
	case lexer.EQ:
		return l == r
	case lexer.NEQ:
		return l != r
	default:
		li, ri := 0, 0
		if l {
			li = 1
		}
		if r {
			ri = 1
		}
		return numericCompare(op, float64(li), float64(ri))
	}
}
