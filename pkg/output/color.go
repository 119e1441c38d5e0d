package output

import (
	"os"

	"golang.org/x/term"
)

// ColorEnabled resolves a color mode (auto, always, never) for f. In auto mode
// color is used only when f is a terminal and NO_COLOR is unset.
func ColorEnabled(mode string, f *os.File) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return f != nil && term.IsTerminal(int(f.Fd()))
}
