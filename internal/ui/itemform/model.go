package itemform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/kerem/todoterm/internal/api"
	"github.com/kerem/todoterm/internal/model"
	"github.com/kerem/todoterm/internal/theme"
)

// SubmitMsg is dispatched when the form completes. EditID is zero for a
// create, the item's id for an edit.
type SubmitMsg struct {
	Request api.ItemRequest
	EditID  int64
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name        string
	description string
	deadline    string
	status      string
}

// Model is the Bubble Tea model for the item create/edit form.
//
// A deadline is entered as a calendar date; the submitted payload pins it
// to the end of that day so an item stays actionable until midnight.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editID   int64
	width    int
	height   int
}

// New creates a new item form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{status: model.StatusNotStarted},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for creating a new item.
func (m *Model) StartCreate() tea.Cmd {
	m.editMode = false
	m.editID = 0
	m.fb.name = ""
	m.fb.description = ""
	m.fb.deadline = ""
	m.fb.status = model.StatusNotStarted
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing item. An item
// shown as EXPIRED still edits its stored status; expiry is derived,
// never stored.
func (m *Model) StartEdit(item model.TodoItem) tea.Cmd {
	m.editMode = true
	m.editID = item.ID
	m.fb.name = item.Name
	m.fb.description = item.Description
	m.fb.deadline = model.DeadlineInput(item)
	m.fb.status = item.Status
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the item form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the item form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Item"
	if m.editMode {
		titleText = "Edit Item"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Name").
			Placeholder("What needs to be done?").
			CharLimit(model.MaxItemNameLen).
			Value(&m.fb.name).
			Validate(validateName),
		huh.NewText().
			Title("Description").
			Placeholder("Optional details...").
			CharLimit(model.MaxItemDescriptionLen).
			Value(&m.fb.description).
			Validate(validateDescription),
		huh.NewInput().
			Title("Deadline").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&m.fb.deadline).
			Validate(validateOptionalDate),
		m.statusField(),
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

// statusField offers only the storable statuses. EXPIRED is a display
// state and never an option.
func (m *Model) statusField() huh.Field {
	statuses := model.FormStatuses()
	opts := make([]huh.Option[string], len(statuses))
	for i, s := range statuses {
		opts[i] = huh.NewOption(model.StatusDisplayName(s), s)
	}
	return huh.NewSelect[string]().
		Title("Status").
		Options(opts...).
		Value(&m.fb.status)
}

func (m Model) handleSubmit() tea.Cmd {
	req := api.ItemRequest{
		Name:        strings.TrimSpace(m.fb.name),
		Description: strings.TrimSpace(m.fb.description),
		Deadline:    DeadlinePayload(m.fb.deadline),
		Status:      m.fb.status,
	}
	editID := int64(0)
	if m.editMode {
		editID = m.editID
	}
	return func() tea.Msg { return SubmitMsg{Request: req, EditID: editID} }
}

// DeadlinePayload turns a date-only input into the timestamp the backend
// stores, pinned to the end of the entered day. Empty input stays empty.
func DeadlinePayload(date string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return ""
	}
	return date + "T23:59:59"
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

func validateName(s string) error {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return fmt.Errorf("name is required")
	}
	if len([]rune(trimmed)) > model.MaxItemNameLen {
		return fmt.Errorf("name cannot exceed %d characters", model.MaxItemNameLen)
	}
	return nil
}

func validateDescription(s string) error {
	if len([]rune(s)) > model.MaxItemDescriptionLen {
		return fmt.Errorf("description cannot exceed %d characters", model.MaxItemDescriptionLen)
	}
	return nil
}

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}
