package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kerem/todoterm/internal/theme"
)

// Layout manages the terminal layout dimensions: a one-line header, the
// content area, and a one-line status bar.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content area,
// accounting for the header and status bar.
func (l Layout) ContentHeight() int {
	return l.Height - l.HeaderHeight - l.StatusBarHeight
}

// RenderHeader renders the top header bar with the application title on
// the left and the session identity on the right.
func (l Layout) RenderHeader(title string, right string) string {
	return l.renderBar(theme.HeaderStyle, title, right)
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	return l.renderBar(theme.StatusBarStyle, hints, "")
}

// RenderErrorBar renders the bottom bar carrying a surfaced failure.
func (l Layout) RenderErrorBar(message string) string {
	return l.renderBar(theme.ErrorBarStyle, message, "")
}

func (l Layout) renderBar(style lipgloss.Style, left string, right string) string {
	leftRendered := style.Render(left)

	var rightRendered string
	if right != "" {
		rightRendered = style.Align(lipgloss.Right).Render(right)
	}

	gap := l.Width - lipgloss.Width(leftRendered) - lipgloss.Width(rightRendered)
	if gap < 0 {
		gap = 0
	}

	filler := style.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(style.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftRendered,
		filler,
		rightRendered,
	)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, content area, and status bar.
func (l Layout) RenderWithFrame(
	header string,
	content string,
	statusBar string,
) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		statusBar,
	)
}
