//go:build linux

package cli

import (
	"os"

	"golang.org/x/sys/unix"
)

// isTerminal reports whether f is attached to an interactive terminal,
// used to decide whether the REPL prints prompts or runs silently when fed
// from a pipe or script (SPEC_FULL.md §3, "Terminal detection").
func isTerminal(f *os.File) bool {
	_, err := unix.IoctlGetTermios(int(f.Fd()), unix.TCGETS)
	return err == nil
}
