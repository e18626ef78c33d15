package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nokado04/NQL-Project/pkg/catalog"
	"github.com/Nokado04/NQL-Project/pkg/nql/engine"
)

func newTestREPL(t *testing.T, input string) (*REPL, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	eng := engine.New(catalog.New(), nil)
	r := NewREPLWithInput(eng, strings.NewReader(input), &out, &errOut)
	return r, &out, &errOut
}

func TestREPLExecutesStatementAndPrintsTable(t *testing.T) {
	input := "CREATE TABLE t (id INT PRIMARY KEY, name STRING(8));\n" +
		"INSERT INTO t VALUES (1, \"a\");\n" +
		"SELECT * FROM t;\n"
	r, out, errOut := newTestREPL(t, input)
	r.Run()

	require.Empty(t, errOut.String())
	assert.Contains(t, out.String(), "id")
	assert.Contains(t, out.String(), "1 row(s) total")
}

func TestREPLPrintsErrorOnInvalidStatement(t *testing.T) {
	r, _, errOut := newTestREPL(t, "SELECT * FROM missing;\n")
	r.Run()

	assert.True(t, strings.HasPrefix(errOut.String(), "Error: "))
}

func TestREPLDotTablesAndSchema(t *testing.T) {
	input := "CREATE TABLE users (id INT PRIMARY KEY, name STRING(16) NOT NULL);\n" +
		".tables\n" +
		".schema users\n"
	r, out, errOut := newTestREPL(t, input)
	r.Run()

	require.Empty(t, errOut.String())
	assert.Contains(t, out.String(), "users")
	assert.Contains(t, out.String(), "CREATE TABLE users (id INT PRIMARY KEY, name STRING(16) NOT NULL);")
}

func TestREPLDotSchemaUnknownTableIsError(t *testing.T) {
	r, _, errOut := newTestREPL(t, ".schema ghost\n")
	r.Run()

	assert.Contains(t, errOut.String(), "Error: no such table: ghost")
}

func TestREPLExitStopsLoop(t *testing.T) {
	input := ".exit\nSELECT 1;\n"
	r, out, _ := newTestREPL(t, input)
	r.Run()

	// The statement after .exit must never be executed.
	assert.NotContains(t, out.String(), "row(s) total")
}

func TestREPLUnknownDotCommand(t *testing.T) {
	r, _, errOut := newTestREPL(t, ".frobnicate\n")
	r.Run()

	assert.Contains(t, errOut.String(), "unknown command: .frobnicate")
}

func TestREPLHelpTopic(t *testing.T) {
	r, out, _ := newTestREPL(t, ".help schema\n")
	r.Run()

	assert.Contains(t, out.String(), ".schema [TABLE]")
}
