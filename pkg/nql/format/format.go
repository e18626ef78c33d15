// Package format renders exec.Result row sets as a bordered ASCII table,
// the way the interactive shell displays SELECT and DESCRIBE output.
package format

import (
	"fmt"
	"strings"

	"github.com/Nokado04/NQL-Project/pkg/catalog"
	"github.com/Nokado04/NQL-Project/pkg/types"
)

// Table renders columns/rows as a bordered ASCII table followed by a
// row-count footer line, per spec.md §4.8: per-column width is
// max(len(column name), max over rows of len(cell)).
func Table(columns []string, columnTypes []types.DataType, rows [][]types.Value) string {
	widths := make([]int, len(columns))
	for i, name := range columns {
		widths[i] = len(name)
	}

	rendered := make([][]string, len(rows))
	for r, row := range rows {
		rendered[r] = make([]string, len(row))
		for i, v := range row {
			var dt types.DataType
			if i < len(columnTypes) {
				dt = columnTypes[i]
			} else {
				dt = inferDataType(v)
			}
			cell := types.Format(v, dt)
			rendered[r][i] = cell
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var sb strings.Builder
	writeSeparator(&sb, widths)
	writeRow(&sb, columns, widths)
	writeSeparator(&sb, widths)
	for _, row := range rendered {
		writeRow(&sb, row, widths)
	}
	writeSeparator(&sb, widths)

	fmt.Fprintf(&sb, "%d row(s) total\n", len(rows))
	return sb.String()
}

func inferDataType(v types.Value) types.DataType {
	switch v.Type() {
	case types.ValFloat:
		return types.TypeFloat
	case types.ValBool:
		return types.TypeBool
	case types.ValString:
		return types.TypeString
	default:
		return types.TypeInt
	}
}

func writeSeparator(sb *strings.Builder, widths []int) {
	sb.WriteByte('+')
	for _, w := range widths {
		sb.WriteString(strings.Repeat("-", w+2))
		sb.WriteByte('+')
	}
	sb.WriteByte('\n')
}

func writeRow(sb *strings.Builder, cells []string, widths []int) {
	sb.WriteByte('|')
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		fmt.Fprintf(sb, " %-*s|", w+1, cell)
	}
	sb.WriteByte('\n')
}

// GenerateCreateSQL reconstructs the `CREATE TABLE` statement that would
// recreate t's schema, used by the `.schema` CLI command (spec.md §13).
func GenerateCreateSQL(t *catalog.TableDef) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "CREATE TABLE %s (", t.Name)
	for i, c := range t.Columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(c.Name)
		sb.WriteByte(' ')
		sb.WriteString(c.Type.String())
		if c.Type == types.TypeString {
			fmt.Fprintf(&sb, "(%d)", c.MaxLength)
		}
		if c.IsPrimaryKey {
			sb.WriteString(" PRIMARY KEY")
		} else if !c.AllowsNull {
			sb.WriteString(" NOT NULL")
		}
	}
	sb.WriteString(")")
	return sb.String()
}
