package tui

import (
	"os"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"
)

// OutputMode is how the dashboard is presented.
type OutputMode int

const (
	// OutputModePlain writes unstyled text.
	OutputModePlain OutputMode = iota
	// OutputModeStyled writes a static, styled snapshot.
	OutputModeStyled
	// OutputModeInteractive runs the Bubble Tea program.
	OutputModeInteractive
)

// String returns the mode name.
func (m OutputMode) String() string {
	switch m {
	case OutputModeInteractive:
		return "interactive"
	case OutputModeStyled:
		return "styled"
	default:
		return "plain"
	}
}

// Present adapts rendered text to the mode: plain output has every ANSI sequence removed.
func (m OutputMode) Present(s string) string {
	if m == OutputModePlain {
		return ansi.Strip(s)
	}
	return s
}

const defaultTerminalWidth = 100

// IsTTY reports whether stdout is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// TerminalWidth returns the width of stdout, or a default when it is not a terminal.
func TerminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultTerminalWidth
	}
	return w
}

// DetectOutputMode picks the presentation from flags and the environment.
// forcePlain wins over everything; NO_COLOR and TERM=dumb downgrade to plain.
// A terminal gets the interactive program unless noInteractive is set.
func DetectOutputMode(forcePlain, noColor, noInteractive bool) OutputMode {
	return detectOutputMode(forcePlain, noColor, noInteractive, IsTTY(), os.LookupEnv)
}

func detectOutputMode(
	forcePlain, noColor, noInteractive, tty bool,
	lookupEnv func(string) (string, bool),
) OutputMode {
	if forcePlain || noColor {
		return OutputModePlain
	}
	if _, ok := lookupEnv("NO_COLOR"); ok {
		return OutputModePlain
	}
	if t, _ := lookupEnv("TERM"); t == "dumb" {
		return OutputModePlain
	}
	if !tty {
		return OutputModePlain
	}
	if noInteractive {
		return OutputModeStyled
	}
	return OutputModeInteractive
}
