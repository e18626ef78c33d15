package exec

import (
	"testing"

	"github.com/Nokado04/NQL-Project/pkg/catalog"
	"github.com/Nokado04/NQL-Project/pkg/nql/ast"
	"github.com/Nokado04/NQL-Project/pkg/nql/lexer"
	"github.com/Nokado04/NQL-Project/pkg/nql/parser"
	"github.com/Nokado04/NQL-Project/pkg/nql/validator"
	"github.com/Nokado04/NQL-Project/pkg/types"
)

// run parses, validates, and executes one statement in sequence, the way
// the engine package's pipeline will — used here so exec tests read like
// end-to-end statements instead of hand-built ASTs.
func run(t *testing.T, cat *catalog.Catalog, sql string) *Result {
	t.Helper()
	stmt, err := parser.Parse(sql)
	if err != nil {
		t.Fatalf("Parse(%q): %v", sql, err)
	}
	if err := validator.Validate(stmt, cat); err != nil {
		t.Fatalf("Validate(%q): %v", sql, err)
	}
	res, err := Execute(stmt, cat)
	if err != nil {
		t.Fatalf("Execute(%q): %v", sql, err)
	}
	return res
}

func seedUsers(t *testing.T) *catalog.Catalog {
	t.Helper()
	c := catalog.New()
	run(t, c, `CREATE TABLE users (id INT PRIMARY KEY, name STRING(32) NOT NULL, age INT)`)
	run(t, c, `INSERT INTO users VALUES (1, "alice", 30)`)
	run(t, c, `INSERT INTO users VALUES (2, "bob", 25)`)
	run(t, c, `INSERT INTO users VALUES (3, "carol", 40)`)
	return c
}

func TestExecCreateAndDescribe(t *testing.T) {
	c := catalog.New()
	run(t, c, `CREATE TABLE t (id INT PRIMARY KEY, n STRING(10))`)
	res := run(t, c, `DESCRIBE t`)
	if len(res.Rows) != 2 {
		t.Fatalf("got %d describe rows, want 2", len(res.Rows))
	}
	if res.Rows[0][0].Str() != "id" || res.Rows[0][3].Str() != "PRI" {
		t.Fatalf("row0 = %+v", res.Rows[0])
	}
}

func TestExecInsertAndSelectStar(t *testing.T) {
	c := seedUsers(t)
	res := run(t, c, `SELECT * FROM users`)
	if len(res.Rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(res.Rows))
	}
	if len(res.Columns) != 3 {
		t.Fatalf("got %d columns, want 3", len(res.Columns))
	}
}

func TestExecSelectColumnProjection(t *testing.T) {
	c := seedUsers(t)
	res := run(t, c, `SELECT name FROM users`)
	if len(res.Columns) != 1 || res.Columns[0] != "name" {
		t.Fatalf("columns = %v", res.Columns)
	}
	if res.Rows[0][0].Str() != "alice" {
		t.Fatalf("row0 = %+v", res.Rows[0])
	}
}

func TestExecSelectWhereGeneralPredicate(t *testing.T) {
	c := seedUsers(t)
	res := run(t, c, `SELECT name FROM users WHERE age > 28`)
	if len(res.Rows) != 2 {
		t.Fatalf("got %d rows, want 2 (alice, carol)", len(res.Rows))
	}
}

func TestExecSelectWhereRowid(t *testing.T) {
	c := seedUsers(t)
	res := run(t, c, `SELECT name FROM users WHERE rowid = 1`)
	if len(res.Rows) != 1 || res.Rows[0][0].Str() != "bob" {
		t.Fatalf("got %+v, want single row bob", res.Rows)
	}
}

func TestExecSelectCountAll(t *testing.T) {
	c := seedUsers(t)
	res := run(t, c, `SELECT COUNT(*) FROM users WHERE age >= 30`)
	if len(res.Rows) != 1 || res.Rows[0][0].Int() != 2 {
		t.Fatalf("got %+v, want count 2", res.Rows)
	}
}

func TestExecUpdateMatchingRows(t *testing.T) {
	c := seedUsers(t)
	res := run(t, c, `UPDATE users SET age = 99 WHERE name = "bob"`)
	if res.RowsAffected != 1 {
		t.Fatalf("RowsAffected = %d, want 1", res.RowsAffected)
	}
	sel := run(t, c, `SELECT age FROM users WHERE name = "bob"`)
	if sel.Rows[0][0].Int() != 99 {
		t.Fatalf("age = %d, want 99", sel.Rows[0][0].Int())
	}
}

// TestExecUpdateAtomicAcrossAssignments exercises spec.md §5's atomicity
// rule: an UPDATE with several assignments must construct and type-check
// every new cell value before splicing any of them in. The validator only
// type-checks literal assignment values (validator.go's validateUpdate),
// so a column-reference assignment that is incompatible with its target
// column passes validation and fails only when execUpdate evaluates it —
// after an earlier, literal assignment in the same statement would have
// succeeded on its own. The table must be left completely unchanged.
func TestExecUpdateAtomicAcrossAssignments(t *testing.T) {
	c := catalog.New()
	run(t, c, `CREATE TABLE t (id INT PRIMARY KEY, age INT, active BOOL)`)
	run(t, c, `INSERT INTO t VALUES (1, 10, TRUE)`)

	stmt, err := parser.Parse(`UPDATE t SET age = 99, active = age WHERE rowid = 0`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := validator.Validate(stmt, c); err != nil {
		t.Fatalf("Validate: %v (expected to pass — the validator does not type-check column-reference assignments)", err)
	}
	if _, err := Execute(stmt, c); err == nil {
		t.Fatal("expected an error executing active = age (an INT value into a BOOL column)")
	}

	sel := run(t, c, `SELECT age, active FROM t`)
	if sel.Rows[0][0].Int() != 10 {
		t.Fatalf("age = %d, want unchanged 10 (statement must be all-or-nothing)", sel.Rows[0][0].Int())
	}
	if !sel.Rows[0][1].Bool() {
		t.Fatalf("active = %+v, want unchanged true", sel.Rows[0][1])
	}
}

func TestExecDeleteMatchingRows(t *testing.T) {
	c := seedUsers(t)
	res := run(t, c, `DELETE FROM users WHERE age < 30`)
	if res.RowsAffected != 1 {
		t.Fatalf("RowsAffected = %d, want 1", res.RowsAffected)
	}
	sel := run(t, c, `SELECT * FROM users`)
	if len(sel.Rows) != 2 {
		t.Fatalf("got %d rows remaining, want 2", len(sel.Rows))
	}
}

func TestExecDeleteCompactsRowidPositions(t *testing.T) {
	c := seedUsers(t)
	run(t, c, `DELETE FROM users WHERE rowid = 0`)
	sel := run(t, c, `SELECT name FROM users WHERE rowid = 0`)
	if len(sel.Rows) != 1 || sel.Rows[0][0].Str() != "bob" {
		t.Fatalf("got %+v, want bob to now be at rowid 0", sel.Rows)
	}
}

func TestExecAlterTableAddColumnBackfillsNull(t *testing.T) {
	c := seedUsers(t)
	run(t, c, `ALTER TABLE users ADD COLUMN nickname STRING(16)`)
	sel := run(t, c, `SELECT nickname FROM users WHERE rowid = 0`)
	if !sel.Rows[0][0].IsNull() {
		t.Fatalf("expected backfilled NULL, got %+v", sel.Rows[0][0])
	}
}

func TestExecDropTable(t *testing.T) {
	c := seedUsers(t)
	run(t, c, `DROP TABLE users`)
	if _, err := c.FindTable("users"); err == nil {
		t.Fatal("expected table to be gone")
	}
}

func TestExecInsertWithExplicitColumnListDefaultsMissingToNull(t *testing.T) {
	c := catalog.New()
	run(t, c, `CREATE TABLE t (id INT PRIMARY KEY, note STRING(16))`)
	run(t, c, `INSERT INTO t (id) VALUES (1)`)
	sel := run(t, c, `SELECT note FROM t`)
	if !sel.Rows[0][0].IsNull() {
		t.Fatalf("expected NULL note, got %+v", sel.Rows[0][0])
	}
}

func TestEvalExprDirectAndOrShortCircuit(t *testing.T) {
	c := seedUsers(t)
	tbl, err := c.FindTable("users")
	if err != nil {
		t.Fatalf("FindTable: %v", err)
	}
	row := tbl.Rows[0]

	expr := &ast.BinaryExpr{
		Left:  &ast.Literal{Value: types.NewBool(true)},
		Op:    lexer.OR,
		Right: &ast.ColumnRef{Name: "does-not-exist"}, // must not be evaluated
	}
	v, err := evalExpr(expr, tbl, row, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Bool() {
		t.Fatalf("got %v, want true (short-circuited OR)", v)
	}
}
