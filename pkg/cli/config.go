package cli

import "github.com/Nokado04/NQL-Project/pkg/catalog"

// Config bundles the knobs cmd/nqlsh exposes as flags: how many tables the
// catalog tolerates, how long a single statement may be, and the prompt
// strings the shell prints. The teacher configures turdb through a plain
// Options struct set by value; the functional-options shape here is an
// idiomatic Go addition, not teacher-derived (SPEC_FULL.md §3).
type Config struct {
	MaxTables      int
	MaxInputLength int
	Prompt         string
	ContinuePrompt string
}

// Option configures a Config.
type Option func(*Config)

// WithMaxTables sets Config.MaxTables. The REPL does not apply it to the
// engine's catalog; that catalog's table bound is fixed when it is built
// (catalog.NewWithCapacity).
func WithMaxTables(n int) Option {
	return func(c *Config) { c.MaxTables = n }
}

// WithMaxInputLength bounds the length, in bytes, of a single statement
// the REPL will hand to the engine; longer input is rejected before
// parsing.
func WithMaxInputLength(n int) Option {
	return func(c *Config) { c.MaxInputLength = n }
}

// WithPrompt overrides the primary and continuation prompt strings.
func WithPrompt(prompt, continuePrompt string) Option {
	return func(c *Config) {
		c.Prompt = prompt
		c.ContinuePrompt = continuePrompt
	}
}

// DefaultConfig returns a Config with the package's default table/input
// bounds and "NQL> "/"  -> " prompts.
func DefaultConfig(opts ...Option) Config {
	cfg := Config{
		MaxTables:      catalog.DefaultMaxTables,
		MaxInputLength: 8192,
		Prompt:         "NQL> ",
		ContinuePrompt: "  -> ",
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
