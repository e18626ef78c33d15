// Package engine glues the lexer, parser, validator and executors behind
// a single Execute entry point, and emits structured logging for each
// statement processed.
package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/Nokado04/NQL-Project/pkg/catalog"
	"github.com/Nokado04/NQL-Project/pkg/nql/ast"
	"github.com/Nokado04/NQL-Project/pkg/nql/exec"
	"github.com/Nokado04/NQL-Project/pkg/nql/parser"
	"github.com/Nokado04/NQL-Project/pkg/nql/validator"
)

// Engine runs NQL statements against a single Catalog, logging one
// structured event per statement.
type Engine struct {
	catalog *catalog.Catalog
	log     *zap.Logger
}

// New creates an Engine over cat, logging through log. If log is nil, a
// no-op logger is used.
func New(cat *catalog.Catalog, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{catalog: cat, log: log}
}

// Catalog returns the engine's underlying catalog, for callers (the CLI's
// `.tables`/`.schema` commands) that need direct read access.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Execute parses, validates, and runs one statement, returning the
// exec.Result or the first error from any phase.
func (e *Engine) Execute(statementText string) (*exec.Result, error) {
	start := time.Now()

	stmt, err := parser.Parse(statementText)
	if err != nil {
		e.log.Info("parse failed", zap.Error(err), zap.String("statement", statementText))
		return nil, err
	}

	if err := validator.Validate(stmt, e.catalog); err != nil {
		verr, _ := err.(*validator.Error)
		kind := "unknown"
		if verr != nil {
			kind = verr.Kind.String()
		}
		e.log.Info("validation failed", zap.Error(err), zap.String("kind", kind), zap.String("statement", statementText))
		return nil, err
	}

	result, err := exec.Execute(stmt, e.catalog)
	if err != nil {
		e.log.Info("execution failed", zap.Error(err), zap.String("statement", statementText))
		return nil, err
	}

	rows := 0
	if result != nil {
		rows = result.RowsAffected
		if rows == 0 {
			rows = len(result.Rows)
		}
	}
	e.log.Debug("statement executed",
		zap.String("kind", statementKind(stmt)),
		zap.Int("rows", rows),
		zap.Duration("duration", time.Since(start)),
	)

	return result, nil
}

func statementKind(stmt ast.Statement) string {
	switch stmt.(type) {
	case *ast.SelectStmt:
		return "SELECT"
	case *ast.InsertStmt:
		return "INSERT"
	case *ast.UpdateStmt:
		return "UPDATE"
	case *ast.DeleteStmt:
		return "DELETE"
	case *ast.CreateTableStmt:
		return "CREATE TABLE"
	case *ast.AlterTableStmt:
		return "ALTER TABLE"
	case *ast.DropTableStmt:
		return "DROP TABLE"
	case *ast.DescribeStmt:
		return "DESCRIBE"
	default:
		return "UNKNOWN"
	}
}
