// cmd/nqlsh/main.go
//
// nqlsh - interactive shell for NQL, the in-memory relational data store.
//
// Usage:
//
//	nqlsh                    start the interactive REPL
//	nqlsh exec "<statement>" run one statement and exit
//
// This binary is the external-collaborator surface from spec.md §6; it
// wires up a fresh in-memory catalog and hands the user's input to
// pkg/nql/engine, printing whatever comes back.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Nokado04/NQL-Project/pkg/catalog"
	"github.com/Nokado04/NQL-Project/pkg/cli"
	"github.com/Nokado04/NQL-Project/pkg/nql/engine"
	"github.com/Nokado04/NQL-Project/pkg/nql/format"
)

var (
	maxTables      int
	maxInputLength int
	verbose        bool
)

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func newEngine() *engine.Engine {
	cat := catalog.NewWithCapacity(maxTables)
	return engine.New(cat, newLogger())
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "nqlsh",
		Short: "nqlsh is the interactive shell for NQL",
		Long: "nqlsh drops into an interactive prompt over a fresh, in-memory NQL\n" +
			"catalog. Statements are terminated with a semicolon; dot-commands\n" +
			"(.tables, .schema, .help, .exit) are also available.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := cli.DefaultConfig(
				cli.WithMaxTables(maxTables),
				cli.WithMaxInputLength(maxInputLength),
			)
			eng := newEngine()
			repl := cli.NewREPLWithConfig(eng, cfg, os.Stdin, os.Stdout, os.Stderr)
			repl.Run()
			return nil
		},
	}

	root.PersistentFlags().IntVar(&maxTables, "max-tables", catalog.DefaultMaxTables, "maximum number of tables the catalog accepts")
	root.PersistentFlags().IntVar(&maxInputLength, "max-input", 8192, "maximum length in bytes of a single statement")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log each executed statement to stderr")

	root.AddCommand(newExecCmd())
	return root
}

// newExecCmd implements `nqlsh exec "<statement>"`, the one-shot surface
// spec.md §1's contract describes: execute(statement_text, catalog) ->
// result | error, rendered to stdout/stderr instead of returned to a
// caller.
func newExecCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exec <statement>",
		Short: "run a single NQL statement against a fresh catalog and exit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := newEngine()
			result, err := eng.Execute(args[0])
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return err
			}
			if result == nil {
				return nil
			}
			if len(result.Columns) > 0 {
				fmt.Fprint(cmd.OutOrStdout(), format.Table(result.Columns, result.ColumnTypes, result.Rows))
			} else if result.Message != "" {
				fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			}
			return nil
		},
	}
}

func main() {
	root := newRootCmd()
	root.SilenceUsage = true
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
