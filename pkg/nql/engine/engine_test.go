package engine

import (
	"testing"

	"github.com/Nokado04/NQL-Project/pkg/catalog"
)

func TestEngineExecutePipeline(t *testing.T) {
	e := New(catalog.New(), nil)

	if _, err := e.Execute(`CREATE TABLE t (id INT PRIMARY KEY, name STRING(16))`); err != nil {
		t.Fatalf("CREATE TABLE: %v", err)
	}
	if _, err := e.Execute(`INSERT INTO t VALUES (1, "a")`); err != nil {
		t.Fatalf("INSERT: %v", err)
	}
	res, err := e.Execute(`SELECT * FROM t`)
	if err != nil {
		t.Fatalf("SELECT: %v", err)
	}
	if len(res.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(res.Rows))
	}
}

func TestEngineReturnsParseError(t *testing.T) {
	e := New(catalog.New(), nil)
	if _, err := e.Execute(`SELECT * users`); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEngineReturnsValidationError(t *testing.T) {
	e := New(catalog.New(), nil)
	if _, err := e.Execute(`SELECT * FROM missing`); err == nil {
		t.Fatal("expected validation error for unknown table")
	}
}

func TestEngineCatalogAccessor(t *testing.T) {
	cat := catalog.New()
	e := New(cat, nil)
	if e.Catalog() != cat {
		t.Fatal("Catalog() should return the same instance passed to New")
	}
}
