// REPL wires a Shell, an engine.Engine, and the format package into the
// interactive loop spec.md §6 describes: read a statement, dispatch it
// either to a dot-command or to the engine, and render whatever comes
// back.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Nokado04/NQL-Project/pkg/nql/engine"
	"github.com/Nokado04/NQL-Project/pkg/nql/exec"
	"github.com/Nokado04/NQL-Project/pkg/nql/format"
)

// REPL drives the read-eval-print loop over a single engine.Engine.
type REPL struct {
	engine *engine.Engine
	shell  *Shell
	config Config

	output    io.Writer
	errOutput io.Writer

	running       bool
	exitRequested bool
}

// NewREPL creates a REPL with DefaultConfig, reading from stdin and
// writing to output/errOutput. If stdin is not an interactive terminal
// (e.g. piped from a script), the REPL suppresses its prompts so
// redirected output stays clean.
func NewREPL(eng *engine.Engine, output, errOutput io.Writer) *REPL {
	return NewREPLWithConfig(eng, DefaultConfig(), os.Stdin, output, errOutput)
}

// NewREPLWithInput creates a REPL over a custom input stream with
// DefaultConfig, for tests and scripted (piped) operation.
func NewREPLWithInput(eng *engine.Engine, input io.Reader, output, errOutput io.Writer) *REPL {
	return NewREPLWithConfig(eng, DefaultConfig(), input, output, errOutput)
}

// NewREPLWithConfig creates a REPL over a custom input stream, applying
// cfg's prompt strings and statement-length bound. When input is os.Stdin
// and it is not an interactive terminal, prompts are suppressed regardless
// of cfg.
func NewREPLWithConfig(eng *engine.Engine, cfg Config, input io.Reader, output, errOutput io.Writer) *REPL {
	shell := NewShell(input, output, errOutput)
	shell.SetPrompt(cfg.Prompt)
	shell.SetContinuePrompt(cfg.ContinuePrompt)
	if f, ok := input.(*os.File); ok && f == os.Stdin && !isTerminal(f) {
		shell.SetPrompt("")
		shell.SetContinuePrompt("")
	}
	return &REPL{
		engine:    eng,
		shell:     shell,
		config:    cfg,
		output:    output,
		errOutput: errOutput,
	}
}

// Run prints the startup banner and loops reading/executing statements
// until EOF or a ".exit"/".quit" command.
func (r *REPL) Run() {
	r.running = true
	r.exitRequested = false

	fmt.Fprintln(r.output, "NQL version 0.1.0")
	fmt.Fprintln(r.output, `Enter ".help" for usage hints.`)

	for r.running && !r.exitRequested {
		stmt, eof := r.shell.ReadStatement()

		if eof && stmt == "" {
			fmt.Fprintln(r.output)
			break
		}

		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			if eof {
				break
			}
			continue
		}

		if strings.HasPrefix(stmt, ".") {
			r.handleDotCommand(stmt)
		} else if err := r.ExecuteStatement(stmt); err != nil {
			r.printError(err)
		}

		if eof {
			break
		}
	}

	r.running = false
}

// ExecuteStatement runs one statement through the engine and renders its
// result. Statements longer than the REPL's configured MaxInputLength are
// rejected before ever reaching the lexer.
func (r *REPL) ExecuteStatement(sql string) error {
	if max := r.config.MaxInputLength; max > 0 && len(sql) > max {
		return fmt.Errorf("statement exceeds maximum length of %d bytes", max)
	}
	result, err := r.engine.Execute(sql)
	if err != nil {
		return err
	}
	r.displayResult(result)
	return nil
}

// displayResult renders a row set as a table, or a rows-affected count
// for DDL/DML statements that return none.
func (r *REPL) displayResult(result *exec.Result) {
	if result == nil {
		return
	}
	if len(result.Columns) == 0 {
		if result.Message != "" {
			fmt.Fprintln(r.output, result.Message)
		}
		if result.RowsAffected > 0 {
			fmt.Fprintf(r.output, "%d row(s) affected\n", result.RowsAffected)
		}
		return
	}
	fmt.Fprint(r.output, format.Table(result.Columns, result.ColumnTypes, result.Rows))
}

// handleDotCommand processes a command beginning with "." (spec.md §6).
func (r *REPL) handleDotCommand(cmd string) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}

	switch strings.ToLower(parts[0]) {
	case ".exit", ".quit":
		r.exitRequested = true
	case ".help":
		if len(parts) > 1 {
			r.printHelpTopic(parts[1])
		} else {
			r.printHelp()
		}
	case ".clear":
		r.shell.ClearHistory()
	case ".tables":
		r.showTables()
	case ".schema":
		if len(parts) > 1 {
			r.showSchema(parts[1])
		} else {
			r.showAllSchemas()
		}
	default:
		fmt.Fprintf(r.errOutput, "Error: unknown command: %s\n", parts[0])
		fmt.Fprintln(r.errOutput, `Use ".help" for usage hints.`)
	}
}

// printHelp displays the general help message.
func (r *REPL) printHelp() {
	help := `
.clear             Clear command history
.exit              Exit this program
.help [COMMAND]    Show this help message, or detail on one command
.quit              Exit this program
.schema [TABLE]    Show CREATE TABLE statement for table(s)
.tables            List all tables

Enter SQL statements terminated with a semicolon.
Multi-line statements are supported.
`
	fmt.Fprintln(r.output, help)
}

// printHelpTopic displays detail for a single dot-command.
func (r *REPL) printHelpTopic(topic string) {
	topics := map[string]string{
		".clear":  ".clear - discard recorded statement history for this session.",
		".exit":   ".exit - close the shell and exit with status 0.",
		".quit":   ".quit - an alias for .exit.",
		".help":   ".help [COMMAND] - list commands, or show detail for one.",
		".schema": ".schema [TABLE] - print the CREATE TABLE statement for TABLE, or every table if omitted.",
		".tables": ".tables - list every table currently in the catalog.",
	}
	name := topic
	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}
	if text, ok := topics[strings.ToLower(name)]; ok {
		fmt.Fprintln(r.output, text)
		return
	}
	fmt.Fprintf(r.errOutput, "Error: no help available for %q\n", topic)
}

// showTables lists every table in the engine's catalog.
func (r *REPL) showTables() {
	tables := r.engine.Catalog().ListTablesSorted()
	if len(tables) == 0 {
		fmt.Fprintln(r.output, "(no tables)")
		return
	}
	for _, name := range tables {
		fmt.Fprintln(r.output, name)
	}
}

// showSchema prints the CREATE TABLE statement that would recreate the
// named table.
func (r *REPL) showSchema(tableName string) {
	table, err := r.engine.Catalog().FindTable(tableName)
	if err != nil {
		fmt.Fprintf(r.errOutput, "Error: no such table: %s\n", tableName)
		return
	}
	fmt.Fprintln(r.output, format.GenerateCreateSQL(table)+";")
}

// showAllSchemas prints the CREATE TABLE statement for every table.
func (r *REPL) showAllSchemas() {
	for _, name := range r.engine.Catalog().ListTablesSorted() {
		table, err := r.engine.Catalog().FindTable(name)
		if err != nil {
			continue
		}
		fmt.Fprintln(r.output, format.GenerateCreateSQL(table)+";")
	}
}

// printError writes err as the single-line "Error: ..." message spec.md
// §6 specifies for the shell's error surface.
func (r *REPL) printError(err error) {
	fmt.Fprintf(r.errOutput, "Error: %v\n", err)
}
