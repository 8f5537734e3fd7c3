package depselect

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kerem/todoterm/internal/api"
	"github.com/kerem/todoterm/internal/keys"
	"github.com/kerem/todoterm/internal/model"
	"github.com/kerem/todoterm/internal/theme"
	"github.com/kerem/todoterm/internal/ui"
)

// CloseMsg signals the parent to close the dependency selector.
type CloseMsg struct{}

// ChangedMsg signals that a dependency edge was added or removed and the
// item list should be refetched.
type ChangedMsg struct{}

// entry is one selectable row: an item of the active list together with
// whether it is currently a dependency of the edited item.
type entry struct {
	item   model.TodoItem
	linked bool
}

// Model is the Bubble Tea model for editing an item's dependencies.
// Every other item of the list is offered; enter toggles the edge.
// The item itself is never offered, and the server rejects edges that
// would close a cycle.
type Model struct {
	client      *api.Client
	keys        *keys.KeyMap
	listID      int64
	item        model.TodoItem
	entries     []entry
	selectedIdx int
	pending     bool
	statusMsg   string
	width       int
	height      int
}

// New creates a new dependency selector.
func New(client *api.Client, k *keys.KeyMap, width, height int) Model {
	return Model{
		client: client,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Start loads the selector for the given item using the already-fetched
// items of its list.
func (m *Model) Start(item model.TodoItem, listItems []model.TodoItem) {
	m.listID = item.ListID
	m.item = item
	m.selectedIdx = 0
	m.pending = false
	m.statusMsg = ""

	linked := make(map[int64]bool, len(item.Dependencies))
	for _, dep := range item.Dependencies {
		linked[dep.ID] = true
	}

	m.entries = nil
	for _, candidate := range listItems {
		if candidate.ID == item.ID {
			continue
		}
		m.entries = append(m.entries, entry{item: candidate, linked: linked[candidate.ID]})
	}
}

type toggledMsg struct {
	depID  int64
	linked bool
	err    error
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case toggledMsg:
		m.pending = false
		if msg.err != nil {
			m.statusMsg = api.UserMessage(msg.err)
			return m, func() tea.Msg { return ui.RequestFailedMsg{Err: msg.err} }
		}
		for i := range m.entries {
			if m.entries[i].item.ID == msg.depID {
				m.entries[i].linked = msg.linked
			}
		}
		if msg.linked {
			m.statusMsg = "Dependency added"
		} else {
			m.statusMsg = "Dependency removed"
		}
		return m, func() tea.Msg { return ChangedMsg{} }

	case tea.KeyMsg:
		if m.pending {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return CloseMsg{} }

		case key.Matches(msg, m.keys.Down):
			if len(m.entries) > 0 {
				m.selectedIdx = (m.selectedIdx + 1) % len(m.entries)
			}
			return m, nil

		case key.Matches(msg, m.keys.Up):
			if len(m.entries) > 0 {
				m.selectedIdx--
				if m.selectedIdx < 0 {
					m.selectedIdx = len(m.entries) - 1
				}
			}
			return m, nil

		case key.Matches(msg, m.keys.Select):
			if len(m.entries) == 0 {
				return m, nil
			}
			m.pending = true
			m.statusMsg = ""
			e := m.entries[m.selectedIdx]
			return m, m.toggle(e)
		}
	}
	return m, nil
}

func (m Model) toggle(e entry) tea.Cmd {
	client := m.client
	listID := m.listID
	itemID := m.item.ID
	depID := e.item.ID
	if e.linked {
		return func() tea.Msg {
			err := client.RemoveDependency(context.Background(), listID, itemID, depID)
			return toggledMsg{depID: depID, linked: false, err: err}
		}
	}
	return func() tea.Msg {
		err := client.AddDependency(context.Background(), listID, itemID, depID)
		return toggledMsg{depID: depID, linked: true, err: err}
	}
}

// View renders the selector.
func (m Model) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	b.WriteString(titleStyle.Render(fmt.Sprintf("Dependencies of %q", m.item.Name)))
	b.WriteString("\n\n")

	if len(m.entries) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)
		b.WriteString(emptyStyle.Render("No other items in this list to depend on."))
	} else {
		for i, e := range m.entries {
			marker := "[ ]"
			if e.linked {
				marker = "[x]"
			}
			label := fmt.Sprintf("%s %s", marker, e.item.Name)
			if e.linked {
				label += theme.DependencyStyle.Render("  " + model.StatusDisplayName(e.item.Status))
			}
			if i == m.selectedIdx {
				b.WriteString(theme.SelectedItemStyle.Render(label))
			} else {
				b.WriteString(theme.ListItemStyle.Render(label))
			}
			b.WriteString("\n")
		}
	}

	if m.pending {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGray).Render("saving..."))
	} else if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true).Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGray).Render(
		"enter toggle | esc back",
	))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
