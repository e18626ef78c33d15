// Package catalog implements NQL's in-memory schema catalog: the mapping
// from table name to typed table storage that the validator checks against
// and the executors mutate. It is an explicit value threaded through the
// pipeline rather than global state (see spec.md §9, "Global catalog").
package catalog

import (
	"errors"
	"sort"
	"sync"

	"github.com/Nokado04/NQL-Project/pkg/types"
)

// Catalog-level sentinel errors, in the teacher's style of var-declared
// errors.New values rather than a single error type per failure mode.
var (
	ErrTableExists         = errors.New("table already exists")
	ErrTableNotFound       = errors.New("table not found")
	ErrCapacityExceeded    = errors.New("catalog table capacity exceeded")
	ErrColumnExists        = errors.New("column already exists")
	ErrColumnNotFound      = errors.New("column not found")
	ErrArityMismatch       = errors.New("value count does not match column count")
	ErrTypeMismatch        = errors.New("value type is not compatible with column type")
	ErrNullViolation       = errors.New("NULL not allowed for this column")
	ErrLengthViolation     = errors.New("value exceeds column max length")
	ErrPrimaryKeyImmutable = errors.New("primary key column cannot be modified")
	ErrOutOfRange          = errors.New("row index out of range")
)

// DefaultMaxTables is the default bound on table count per spec.md §3.
const DefaultMaxTables = 100

// ColumnDef describes one column of a table, per spec.md §3.
type ColumnDef struct {
	Name         string
	Type         types.DataType
	MaxLength    int // meaningful only when Type == TypeString
	IsPrimaryKey bool
	AllowsNull   bool
}

// Row is an ordered sequence of values, one per column, indexed by column
// position (spec.md §3).
type Row struct {
	Values []types.Value
}

// TableDef is a table's schema plus its row storage.
type TableDef struct {
	Name    string
	Columns []ColumnDef
	Rows    []Row
}

// ColumnIndex returns the position of the named column (case-insensitive),
// or -1 if it does not exist.
func (t *TableDef) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if asciiEqualFold(c.Name, name) {
			return i
		}
	}
	return -1
}

// Column returns the column definition by name (case-insensitive), or nil.
func (t *TableDef) Column(name string) *ColumnDef {
	i := t.ColumnIndex(name)
	if i < 0 {
		return nil
	}
	return &t.Columns[i]
}

// PrimaryKeyIndex returns the position of the table's primary-key column,
// or -1 if it has none.
func (t *TableDef) PrimaryKeyIndex() int {
	for i, c := range t.Columns {
		if c.IsPrimaryKey {
			return i
		}
	}
	return -1
}

// RowCount returns the number of live rows.
func (t *TableDef) RowCount() int { return len(t.Rows) }

// asciiEqualFold compares two strings case-insensitively using ASCII-only
// folding, per the explicit Design Notes guidance in spec.md §9 to keep the
// legacy source's ASCII-only behaviour rather than switch to Unicode
// casefolding.
func asciiEqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// Catalog is the process-scoped mapping from table name to TableDef. It is
// safe for concurrent use, guarded by a single RWMutex held for the
// duration of one operation — the discipline spec.md §5 recommends if a
// future caller exposes the catalog across goroutines, even though the
// core pipeline itself is single-threaded and synchronous.
type Catalog struct {
	mu        sync.RWMutex
	tables    map[string]*TableDef
	order     []string // insertion order of table names, used by ListTables
	maxTables int
}

// New creates an empty Catalog with the default table-count bound.
func New() *Catalog {
	return NewWithCapacity(DefaultMaxTables)
}

// NewWithCapacity creates an empty Catalog bounded to maxTables tables.
func NewWithCapacity(maxTables int) *Catalog {
	return &Catalog{
		tables:    make(map[string]*TableDef),
		maxTables: maxTables,
	}
}

func (c *Catalog) findLocked(name string) *TableDef {
	for k, t := range c.tables {
		if asciiEqualFold(k, name) {
			return t
		}
	}
	return nil
}

// CreateTable registers a new, empty table. Table names are compared
// case-insensitively but stored case-preserving.
func (c *Catalog) CreateTable(name string, columns []ColumnDef) (*TableDef, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.findLocked(name) != nil {
		return nil, ErrTableExists
	}
	if len(c.tables) >= c.maxTables {
		return nil, ErrCapacityExceeded
	}

	t := &TableDef{Name: name, Columns: append([]ColumnDef(nil), columns...)}
	c.tables[name] = t
	c.order = append(c.order, name)
	return t, nil
}

// FindTable returns the live table definition by name (case-insensitive),
// or ErrTableNotFound.
func (c *Catalog) FindTable(name string) (*TableDef, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t := c.findLocked(name)
	if t == nil {
		return nil, ErrTableNotFound
	}
	return t, nil
}

// DropTable removes a table from the catalog.
func (c *Catalog) DropTable(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k := range c.tables {
		if asciiEqualFold(k, name) {
			delete(c.tables, k)
			for i, n := range c.order {
				if n == k {
					c.order = append(c.order[:i], c.order[i+1:]...)
					break
				}
			}
			return nil
		}
	}
	return ErrTableNotFound
}

// ListTables returns table names in creation order.
func (c *Catalog) ListTables() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// ListTablesSorted returns table names in lexical order, used by the
// `.tables` CLI command.
func (c *Catalog) ListTablesSorted() []string {
	out := c.ListTables()
	sort.Strings(out)
	return out
}

// AddColumn appends a column to an existing table, backfilling Null cells
// into every pre-existing row (spec.md invariant #2).
func (c *Catalog) AddColumn(tableName string, col ColumnDef) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.findLocked(tableName)
	if t == nil {
		return ErrTableNotFound
	}
	if t.ColumnIndex(col.Name) >= 0 {
		return ErrColumnExists
	}
	if col.IsPrimaryKey && t.PrimaryKeyIndex() >= 0 {
		return errors.New("table already has a primary key")
	}

	t.Columns = append(t.Columns, col)
	for i := range t.Rows {
		t.Rows[i].Values = append(t.Rows[i].Values, types.NewNull())
	}
	return nil
}

// InsertRow validates and appends a row built from values (already ordered
// to match t.Columns) to the table, returning its row index. The table is
// left unchanged if validation fails, per spec.md §5's atomicity rule.
func (c *Catalog) InsertRow(tableName string, values []types.Value) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.findLocked(tableName)
	if t == nil {
		return -1, ErrTableNotFound
	}
	if len(values) != len(t.Columns) {
		return -1, ErrArityMismatch
	}

	coerced := make([]types.Value, len(values))
	for i, v := range values {
		col := t.Columns[i]
		if v.IsNull() {
			if !col.AllowsNull {
				return -1, ErrNullViolation
			}
			coerced[i] = v
			continue
		}
		if !types.IsCompatible(col.Type, v.Type()) {
			return -1, ErrTypeMismatch
		}
		cv, err := types.Coerce(v, col.Type)
		if err != nil {
			return -1, ErrTypeMismatch
		}
		if col.Type == types.TypeString && len(cv.Str()) > col.MaxLength {
			return -1, ErrLengthViolation
		}
		coerced[i] = cv
	}

	t.Rows = append(t.Rows, Row{Values: coerced})
	return len(t.Rows) - 1, nil
}

// DeleteRow removes the row at rowIndex, compacting the row sequence so
// that rows after it shift down by one position (spec.md invariant #3).
func (c *Catalog) DeleteRow(tableName string, rowIndex int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.findLocked(tableName)
	if t == nil {
		return ErrTableNotFound
	}
	if rowIndex < 0 || rowIndex >= len(t.Rows) {
		return ErrOutOfRange
	}

	t.Rows = append(t.Rows[:rowIndex], t.Rows[rowIndex+1:]...)
	return nil
}

// CoerceForColumn type-checks value against columnName's type, null, and
// length rules and returns the coerced cell value, without mutating any
// row. Callers that must construct and type-check a full set of new cell
// values before splicing any of them in — e.g. an UPDATE touching several
// assignments or rows, per spec.md §5's atomicity rule — call this once
// per candidate value and only apply the results (via UpdateCell) once
// every one of them has succeeded.
func (t *TableDef) CoerceForColumn(columnName string, value types.Value) (types.Value, error) {
	ci := t.ColumnIndex(columnName)
	if ci < 0 {
		return types.Value{}, ErrColumnNotFound
	}
	col := t.Columns[ci]
	if col.IsPrimaryKey {
		return types.Value{}, ErrPrimaryKeyImmutable
	}
	if value.IsNull() {
		if !col.AllowsNull {
			return types.Value{}, ErrNullViolation
		}
		return value, nil
	}
	if !types.IsCompatible(col.Type, value.Type()) {
		return types.Value{}, ErrTypeMismatch
	}
	cv, err := types.Coerce(value, col.Type)
	if err != nil {
		return types.Value{}, ErrTypeMismatch
	}
	if col.Type == types.TypeString && len(cv.Str()) > col.MaxLength {
		return types.Value{}, ErrLengthViolation
	}
	return cv, nil
}

// UpdateCell sets a single cell of a single row, enforcing the same type,
// null, length, and primary-key-immutability rules as InsertRow (via
// CoerceForColumn).
func (c *Catalog) UpdateCell(tableName string, rowIndex int, columnName string, value types.Value) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.findLocked(tableName)
	if t == nil {
		return ErrTableNotFound
	}
	if rowIndex < 0 || rowIndex >= len(t.Rows) {
		return ErrOutOfRange
	}
	coerced, err := t.CoerceForColumn(columnName, value)
	if err != nil {
		return err
	}
	ci := t.ColumnIndex(columnName)
	t.Rows[rowIndex].Values[ci] = coerced
	return nil
}

// Snapshot returns a deep copy of a table's current rows, used by tests
// asserting the atomicity invariant (spec.md testable property #7): the
// catalog must equal its pre-statement state after any failed statement.
func (t *TableDef) Snapshot() []Row {
	out := make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		vals := make([]types.Value, len(r.Values))
		copy(vals, r.Values)
		out[i] = Row{Values: vals}
	}
	return out
}
