package output

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// Color palette: named constants for all ANSI 256 colors used in the CLI.
// Never use inline lipgloss.Color literals elsewhere.
var (
	// ColorCyan is used for identifiable nouns: plugin names, route paths, slot names.
	ColorCyan = lipgloss.Color("14")

	// ColorYellow marks overridden entries (a route or plugin shadowed by a later one).
	ColorYellow = lipgloss.Color("220")

	// ColorGreenCheck is used for the completion checkmark (✔).
	ColorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")
)

// Semantic styles map domain concepts to visual presentation.
var (
	// StyleNoun styles identifiable nouns (plugin names, route paths, slot names).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleDim styles structural chrome (prefixes, separators, sources).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleOverride styles entries shadowed by a later registration.
	StyleOverride = lipgloss.NewStyle().Foreground(ColorYellow)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}

// FormatSlotKey renders a slot key ("shell-sidebar-footer-0") with the slot
// name highlighted and the index dimmed.
func FormatSlotKey(slot string, index int) string {
	return StyleNoun.Render(slot) + StyleDim.Render("-"+strconv.Itoa(index))
}
