package cli

import (
	"os"

	"github.com/mattn/go-isatty"
)

// colorMode selects when diagnostics and REPL output are styled.
type colorMode string

const (
	colorAuto   colorMode = "auto"
	colorAlways colorMode = "always"
	colorNever  colorMode = "never"
)

// enabled reports whether output written to f should be styled.
// Auto mode styles terminals only and honors NO_COLOR.
func (c colorMode) enabled(f *os.File) bool {
	switch c {
	case colorAlways:
		return true
	case colorNever:
		return false
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}

	fd := f.Fd()

	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
