package listmgr

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/kerem/todoterm/internal/api"
	"github.com/kerem/todoterm/internal/keys"
	"github.com/kerem/todoterm/internal/model"
	"github.com/kerem/todoterm/internal/theme"
	"github.com/kerem/todoterm/internal/ui"
)

// CloseMsg signals the parent to close the list manager.
type CloseMsg struct{}

// SelectMsg signals that the user picked a list to work in.
type SelectMsg struct {
	List model.TodoList
}

// ListsLoadedMsg carries the fetched list collection. The root model
// watches it to auto-select the first list on startup.
type ListsLoadedMsg struct {
	Lists []model.TodoList
	Err   error
}

// SavedMsg signals a create/rename completed. A newly created list
// becomes the selected one.
type SavedMsg struct {
	List  model.TodoList
	IsNew bool
}

// DeletedMsg signals a list (and, server-side, its items) was deleted.
type DeletedMsg struct {
	ID int64
}

type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirmDelete
)

// formBindings holds form field values on the heap so huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name    string
	confirm bool
}

// Model is the Bubble Tea model for managing todo lists: selection,
// create, rename, delete. The form is a small state machine gated by
// client-side validation; invalid input never reaches the API.
type Model struct {
	mode        mode
	client      *api.Client
	keys        *keys.KeyMap
	lists       []model.TodoList
	selectedIdx int
	editingID   int64
	isNew       bool
	form        *huh.Form
	confirmForm *huh.Form
	fb          *formBindings
	statusMsg   string
	width       int
	height      int
}

// New creates a new list manager model.
func New(client *api.Client, k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:   modeList,
		client: client,
		keys:   k,
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Init loads the lists from the backend.
func (m Model) Init() tea.Cmd {
	return m.loadLists()
}

// Lists returns the last loaded collection.
func (m Model) Lists() []model.TodoList {
	return m.lists
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case ListsLoadedMsg:
		if msg.Err != nil {
			return m, func() tea.Msg { return ui.RequestFailedMsg{Err: msg.Err} }
		}
		m.lists = msg.Lists
		if m.selectedIdx >= len(m.lists) && m.selectedIdx > 0 {
			m.selectedIdx = len(m.lists) - 1
		}
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.statusMsg = api.UserMessage(msg.err)
			m.mode = modeList
			return m, func() tea.Msg { return ui.RequestFailedMsg{Err: msg.err} }
		}
		m.statusMsg = "List saved"
		m.mode = modeList
		return m, tea.Batch(
			m.loadLists(),
			func() tea.Msg { return SavedMsg{List: msg.list, IsNew: msg.isNew} },
		)

	case deletedMsg:
		if msg.err != nil {
			m.statusMsg = api.UserMessage(msg.err)
			m.mode = modeList
			return m, func() tea.Msg { return ui.RequestFailedMsg{Err: msg.err} }
		}
		m.statusMsg = "List deleted"
		m.mode = modeList
		return m, tea.Batch(
			m.loadLists(),
			func() tea.Msg { return DeletedMsg{ID: msg.id} },
		)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActiveForm(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.mode {
	case modeList:
		return m.handleListKey(msg)
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.lists) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.lists)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.lists) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.lists) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if len(m.lists) == 0 {
			return m, nil
		}
		selected := m.lists[m.selectedIdx]
		return m, func() tea.Msg { return SelectMsg{List: selected} }

	case key.Matches(msg, m.keys.NewItem):
		m.isNew = true
		m.editingID = 0
		m.fb.name = ""
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.EditItem):
		if len(m.lists) == 0 {
			return m, nil
		}
		l := m.lists[m.selectedIdx]
		m.isNew = false
		m.editingID = l.ID
		m.fb.name = l.Name
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.DeleteItem):
		if len(m.lists) == 0 {
			return m, nil
		}
		m.fb.confirm = false
		m.confirmForm = m.buildConfirmForm()
		m.mode = modeConfirmDelete
		return m, m.confirmForm.Init()
	}
	return m, nil
}

// ValidateName gates form submission: required after trimming, at most
// MaxListNameLen characters.
func ValidateName(s string) error {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return fmt.Errorf("list name is required")
	}
	if len([]rune(trimmed)) > model.MaxListNameLen {
		return fmt.Errorf("list name cannot exceed %d characters", model.MaxListNameLen)
	}
	return nil
}

func (m Model) buildForm() *huh.Form {
	title := "New List"
	if !m.isNew {
		title = "Rename List"
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Placeholder("List name").
				CharLimit(model.MaxListNameLen).
				Value(&m.fb.name).
				Validate(ValidateName),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) buildConfirmForm() *huh.Form {
	name := ""
	if m.selectedIdx < len(m.lists) {
		name = m.lists[m.selectedIdx].Name
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete list %q?", name)).
				Description("All items in this list will be deleted too.").
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		return m, m.saveList()
	}
	if m.form.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}
	if m.confirmForm.State == huh.StateCompleted {
		if m.fb.confirm {
			l := m.lists[m.selectedIdx]
			return m, m.deleteList(l.ID)
		}
		m.mode = modeList
		return m, nil
	}
	if m.confirmForm.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateActiveForm(msg tea.Msg) (Model, tea.Cmd) {
	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

// View renders the list manager.
func (m Model) View() string {
	switch m.mode {
	case modeForm:
		return m.viewForm(m.form)
	case modeConfirmDelete:
		return m.viewForm(m.confirmForm)
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	b.WriteString(titleStyle.Render("My Lists"))
	b.WriteString("\n\n")

	if len(m.lists) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)
		b.WriteString(emptyStyle.Render("No lists yet. Press 'n' to create one."))
	} else {
		for i, l := range m.lists {
			label := l.Name
			if i == m.selectedIdx {
				b.WriteString(theme.SelectedItemStyle.Render(label))
			} else {
				b.WriteString(theme.ListItemStyle.Render(label))
			}
			b.WriteString("\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true).Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGray).Render(
		"enter open | n new | e rename | d delete | esc back",
	))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) viewForm(f *huh.Form) string {
	if f == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(f.View())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

type savedMsg struct {
	list  model.TodoList
	isNew bool
	err   error
}

type deletedMsg struct {
	id  int64
	err error
}

func (m Model) loadLists() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		lists, err := client.GetLists(context.Background())
		return ListsLoadedMsg{Lists: lists, Err: err}
	}
}

func (m Model) saveList() tea.Cmd {
	client := m.client
	name := strings.TrimSpace(m.fb.name)
	editID := m.editingID
	isNew := m.isNew
	return func() tea.Msg {
		req := api.ListRequest{Name: name}
		if isNew {
			list, err := client.CreateList(context.Background(), req)
			if err != nil {
				return savedMsg{err: err}
			}
			return savedMsg{list: *list, isNew: true}
		}
		list, err := client.UpdateList(context.Background(), editID, req)
		if err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{list: *list}
	}
}

func (m Model) deleteList(id int64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.DeleteList(context.Background(), id)
		return deletedMsg{id: id, err: err}
	}
}
