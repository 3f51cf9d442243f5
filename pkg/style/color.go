package style

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
)

// Configure applies the color mode (auto, always, never) to every
// rendering backend. In auto mode color requires a terminal on stdout
// and an unset NO_COLOR; an explicit always overrides both.
func Configure(mode string) {
	switch {
	case mode == "always":
		lipgloss.SetColorProfile(termenv.TrueColor)
		pterm.EnableColor()
	case mode == "never" || !colorWanted():
		lipgloss.SetColorProfile(termenv.Ascii)
		pterm.DisableColor()
	default:
		// Auto on a terminal keeps the detected profile.
		pterm.EnableColor()
	}
}

func colorWanted() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
