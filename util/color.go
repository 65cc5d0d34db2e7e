package util

import (
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Stdout returns an io.Writer that renders ANSI color on terminals
// (including the Windows console, via go-colorable) and strips it when
// stdout is redirected to a file or pipe, or when NO_COLOR is set.
func Stdout() io.Writer {
	if os.Getenv("NO_COLOR") != "" || !IsTerminal() {
		return colorable.NewNonColorable(os.Stdout)
	}
	return colorable.NewColorableStdout()
}

// IsTerminal reports whether stdout is attached to an interactive
// terminal, used by Stdout to decide whether to keep ANSI color.
func IsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
