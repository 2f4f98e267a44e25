package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Output formats accepted by Setup.
const (
	FormatAuto    = "auto"
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Setup builds the application logger. The "auto" format selects the console
// writer when w is a terminal and JSON otherwise.
func Setup(w io.Writer, component, level, format string, noColor bool) *ZerologAdapter {
	var l *ZerologAdapter
	if useConsole(w, format) {
		l = NewConsoleLogger(w, component, noColor)
	} else {
		l = NewLogger(w, component)
	}
	return l.WithLevel(ParseLevel(level))
}

func useConsole(w io.Writer, format string) bool {
	switch format {
	case FormatConsole:
		return true
	case FormatJSON:
		return false
	}
	return IsTerminal(w)
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
