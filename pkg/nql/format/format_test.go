package format

import (
	"strings"
	"testing"

	"github.com/Nokado04/NQL-Project/pkg/catalog"
	"github.com/Nokado04/NQL-Project/pkg/types"
)

func TestTableColumnWidthMatchesLongestCell(t *testing.T) {
	out := Table(
		[]string{"id", "name"},
		[]types.DataType{types.TypeInt, types.TypeString},
		[][]types.Value{
			{types.NewInt(1), types.NewString("alice")},
			{types.NewInt(2), types.NewString("a-much-longer-name")},
		},
	)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// border, header, border, row, row, border, footer
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], strings.Repeat("-", len("a-much-longer-name")+2)) {
		t.Fatalf("border does not reflect widest cell:\n%s", lines[0])
	}
}

func TestTableRowCountFooter(t *testing.T) {
	out := Table([]string{"id"}, []types.DataType{types.TypeInt}, [][]types.Value{
		{types.NewInt(1)}, {types.NewInt(2)}, {types.NewInt(3)},
	})
	if !strings.Contains(out, "3 row(s) total") {
		t.Fatalf("missing row count footer:\n%s", out)
	}
}

func TestTableEmptyRowSet(t *testing.T) {
	out := Table([]string{"id"}, []types.DataType{types.TypeInt}, nil)
	if !strings.Contains(out, "0 row(s) total") {
		t.Fatalf("missing zero-row footer:\n%s", out)
	}
}

func TestGenerateCreateSQL(t *testing.T) {
	tbl := &catalog.TableDef{
		Name: "users",
		Columns: []catalog.ColumnDef{
			{Name: "id", Type: types.TypeInt, IsPrimaryKey: true},
			{Name: "name", Type: types.TypeString, MaxLength: 32, AllowsNull: false},
			{Name: "bio", Type: types.TypeString, MaxLength: 200, AllowsNull: true},
		},
	}
	got := GenerateCreateSQL(tbl)
	want := `CREATE TABLE users (id INT PRIMARY KEY, name STRING(32) NOT NULL, bio STRING(200))`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
