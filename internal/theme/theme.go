package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kerem/todoterm/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
)

// Status colors match the web client so both frontends read the same.
var (
	ColorCompleted  = lipgloss.Color("#4caf50")
	ColorInProgress = lipgloss.Color("#ff9800")
	ColorExpired    = lipgloss.Color("#f44336")
	ColorNotStarted = lipgloss.Color("#9e9e9e")
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// ErrorBarStyle highlights surfaced failures in the status bar.
var ErrorBarStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FFFFFF")).
	Background(ColorExpired).
	Padding(0, 1)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// DimmedStyle de-emphasizes completed items.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Strikethrough(true)

// DeadlineStyle renders an item's deadline.
var DeadlineStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// LastDayStyle flags a deadline that falls on today.
var LastDayStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorInProgress)

// ExpiredStyle flags a deadline that has passed.
var ExpiredStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorExpired)

// DependencyStyle renders an item's dependency tags.
var DependencyStyle = lipgloss.NewStyle().
	Foreground(ColorBlue)

// PanelStyle frames full-screen overlays such as the help view.
var PanelStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder).
	Padding(1, 2)

// StatusStyle returns the color-coded style for an item status. It is
// total: any unknown value falls back to the NOT_STARTED color.
func StatusStyle(status string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch status {
	case model.StatusCompleted:
		return base.Foreground(ColorCompleted)
	case model.StatusInProgress:
		return base.Foreground(ColorInProgress)
	case model.StatusExpired:
		return base.Foreground(ColorExpired)
	default:
		return base.Foreground(ColorNotStarted)
	}
}

// StatusColor returns the raw color for an item status with the same
// total mapping as StatusStyle.
func StatusColor(status string) lipgloss.Color {
	switch status {
	case model.StatusCompleted:
		return ColorCompleted
	case model.StatusInProgress:
		return ColorInProgress
	case model.StatusExpired:
		return ColorExpired
	default:
		return ColorNotStarted
	}
}
