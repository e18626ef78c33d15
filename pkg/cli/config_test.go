package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Nokado04/NQL-Project/pkg/catalog"
	"github.com/Nokado04/NQL-Project/pkg/nql/engine"
)

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, catalog.DefaultMaxTables, cfg.MaxTables)
	assert.Equal(t, "NQL> ", cfg.Prompt)
	assert.Equal(t, "  -> ", cfg.ContinuePrompt)
}

func TestConfigOptionsOverrideDefaults(t *testing.T) {
	cfg := DefaultConfig(WithMaxTables(3), WithMaxInputLength(16), WithPrompt(">> ", ".. "))
	assert.Equal(t, 3, cfg.MaxTables)
	assert.Equal(t, 16, cfg.MaxInputLength)
	assert.Equal(t, ">> ", cfg.Prompt)
	assert.Equal(t, ".. ", cfg.ContinuePrompt)
}

func TestREPLRejectsStatementOverMaxInputLength(t *testing.T) {
	var out, errOut bytes.Buffer
	eng := engine.New(catalog.New(), nil)
	cfg := DefaultConfig(WithMaxInputLength(8))
	r := NewREPLWithConfig(eng, cfg, strings.NewReader(""), &out, &errOut)

	err := r.ExecuteStatement("SELECT * FROM a_long_table_name")
	assert.ErrorContains(t, err, "exceeds maximum length")
}
