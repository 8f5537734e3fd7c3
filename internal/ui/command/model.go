package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kerem/todoterm/internal/theme"
)

// Msg is emitted when the user executes a command.
type Msg string

// Commands understood by the palette. The root model dispatches them.
const (
	CmdRefresh       = "refresh"
	CmdLists         = "lists"
	CmdNew           = "new"
	CmdClearFilters  = "clear-filters"
	CmdFilterExpired = "filter-expired"
	CmdAccount       = "account"
	CmdDeleteAccount = "delete-account"
	CmdLogout        = "logout"
	CmdHelp          = "help"
	CmdQuit          = "quit"
)

var known = []struct {
	name string
	desc string
}{
	{CmdRefresh, "refetch the current list"},
	{CmdLists, "open the list manager"},
	{CmdNew, "create a new item"},
	{CmdClearFilters, "reset filters and search"},
	{CmdFilterExpired, "cycle the expired filter"},
	{CmdAccount, "update username or email"},
	{CmdDeleteAccount, "delete your account"},
	{CmdLogout, "sign out"},
	{CmdHelp, "show keyboard shortcuts"},
	{CmdQuit, "exit"},
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command..."
	ti.Prompt = ": "
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "enter" {
		cmd := strings.TrimSpace(m.input.Value())
		m.input.Reset()
		if cmd != "" {
			return m, func() tea.Msg { return Msg(cmd) }
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette with the commands matching the
// current input.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	parts := []string{
		titleStyle.Render("Command Palette"),
		m.input.View(),
		"",
	}

	prefix := strings.TrimSpace(m.input.Value())
	nameStyle := lipgloss.NewStyle().Foreground(theme.ColorBlue)
	for _, c := range known {
		if prefix != "" && !strings.HasPrefix(c.name, prefix) {
			continue
		}
		parts = append(parts, nameStyle.Render(c.name)+theme.HelpStyle.Render("  "+c.desc))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
