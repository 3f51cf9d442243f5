package style

import (
	"fmt"

	"github.com/pterm/pterm"
)

// Header renders a section title.
func Header(title string) string {
	return TitleStyle.Render(title)
}

// KeyValue renders an aligned label/value pair for overview output.
func KeyValue(key, value string) string {
	return MutedStyle.Render(fmt.Sprintf("%-16s", key)) + value
}

// CheckIndicator maps a health-check state to its glyph.
func CheckIndicator(state string) string {
	switch state {
	case "ok":
		return SuccessIndicator()
	case "warn":
		return WarningIndicator()
	case "error":
		return ErrorIndicator()
	default:
		return InfoIndicator()
	}
}

// ActiveMarker renders the marker column used in list output.
func ActiveMarker(active bool) string {
	if active {
		return SuccessStyle.Render("*")
	}
	return " "
}

// RenderError formats an error for terminal display. Coded errors
// already carry their code in Error(), so no extra decoration is added.
func RenderError(err error) string {
	if err == nil {
		return ""
	}
	return ErrorStyle.Render("Error: ") + err.Error()
}

// Successf prints a success line through pterm.
func Successf(format string, args ...any) string {
	return pterm.Success.Sprintfln(format, args...)
}

// Warningf prints a warning line through pterm.
func Warningf(format string, args ...any) string {
	return pterm.Warning.Sprintfln(format, args...)
}

// Infof prints an informational line through pterm.
func Infof(format string, args ...any) string {
	return pterm.Info.Sprintfln(format, args...)
}
