package itemlist

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kerem/todoterm/internal/api"
	"github.com/kerem/todoterm/internal/keys"
	"github.com/kerem/todoterm/internal/model"
	"github.com/kerem/todoterm/internal/theme"
	"github.com/kerem/todoterm/internal/ui"
)

// ItemsLoadedMsg carries a completed item fetch. Seq identifies which
// issued fetch produced it; stale sequences are dropped so overlapping
// fetches cannot overwrite newer state.
type ItemsLoadedMsg struct {
	Seq    int
	ListID int64
	Items  []model.TodoItem
	Err    error
}

// statusFilterCycle is the order the status filter steps through.
var statusFilterCycle = []string{
	"",
	model.StatusNotStarted,
	model.StatusInProgress,
	model.StatusCompleted,
}

// expiredFilterCycle is the order the expired filter steps through.
var expiredFilterCycle = []string{"", "true", "false"}

// sortCycle is the order Tab steps the sort field through.
var sortCycle = []string{
	api.SortByCreateDate,
	api.SortByDeadline,
	api.SortByName,
	api.SortByStatus,
}

// Model is the item collection view for the selected list. It owns the
// filter/sort criteria and forwards them to the backend on every
// change; it never filters or sorts client-side.
type Model struct {
	list        list.Model
	client      *api.Client
	keys        *keys.KeyMap
	activeList  *model.TodoList
	query       api.ItemQuery
	sortIndex   int
	seq         int
	loading     bool
	spinner     spinner.Model
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a new item list model.
func New(client *api.Client, k *keys.KeyMap, width, height int) Model {
	delegate := ItemDelegate{}
	l := list.New([]list.Item{}, delegate, width, height-2)
	l.Title = "Items"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search by name..."
	si.Prompt = "/ "
	si.Width = width - 4

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorBlue)

	return Model{
		list:   l,
		client: client,
		keys:   k,
		query: api.ItemQuery{
			SortBy:    api.SortByCreateDate,
			SortOrder: api.SortAsc,
		},
		spinner:     sp,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// SetList switches the active list and fetches its items. A nil list
// clears the view.
func (m *Model) SetList(l *model.TodoList) tea.Cmd {
	m.activeList = l
	if l == nil {
		m.loading = false
		return m.list.SetItems(nil)
	}
	m.list.Title = l.Name
	return m.fetch()
}

// ActiveList returns the currently selected list, or nil.
func (m Model) ActiveList() *model.TodoList {
	return m.activeList
}

// Items returns the currently loaded items.
func (m Model) Items() []model.TodoItem {
	entries := m.list.Items()
	items := make([]model.TodoItem, 0, len(entries))
	for _, entry := range entries {
		if e, ok := entry.(ItemEntry); ok {
			items = append(items, e.Item)
		}
	}
	return items
}

// SelectedItem returns the focused item, if any.
func (m Model) SelectedItem() (model.TodoItem, bool) {
	entry, ok := m.list.SelectedItem().(ItemEntry)
	if !ok {
		return model.TodoItem{}, false
	}
	return entry.Item, true
}

// Loading reports whether a fetch is in flight.
func (m Model) Loading() bool {
	return m.loading
}

// Reload refetches the active list's items with the current criteria.
// Called after any mutation so the display always reflects
// server-derived state rather than a local guess.
func (m *Model) Reload() tea.Cmd {
	return m.fetch()
}

// fetch issues a new request with a fresh sequence number. Exactly one
// fetch per criteria change; the latest sequence wins. Filter and sort
// keys reach here with no list selected; there is nothing to fetch.
func (m *Model) fetch() tea.Cmd {
	if m.activeList == nil {
		return nil
	}
	m.seq++
	m.loading = true

	seq := m.seq
	listID := m.activeList.ID
	query := m.query
	client := m.client

	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			items, err := client.GetItems(context.Background(), listID, query)
			return ItemsLoadedMsg{Seq: seq, ListID: listID, Items: items, Err: err}
		},
	)
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the item list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ItemsLoadedMsg:
		if msg.Seq != m.seq {
			// A newer fetch has been issued since; drop this response.
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			// Keep current items; the root model shows the message.
			loadErr := msg.Err
			return m, func() tea.Msg { return ui.RequestFailedMsg{Err: loadErr} }
		}
		items := make([]list.Item, len(msg.Items))
		for i, item := range msg.Items {
			items[i] = ItemEntry{Item: item}
		}
		return m, m.list.SetItems(items)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while the search bar is focused.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.query.Name = strings.TrimSpace(m.searchInput.Value())
		return m, m.fetch()

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		if m.query.Name != "" {
			m.query.Name = ""
			return m, m.fetch()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes filter/sort/search keys. Item actions
// (new/edit/delete/complete/dependencies) are owned by the root model.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		m.searchInput.SetValue(m.query.Name)
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.CycleStatusFilter):
		m.query.Status = cycleNext(statusFilterCycle, m.query.Status)
		return m, m.fetch()

	case key.Matches(msg, m.keys.CycleExpiredFilter):
		return m, m.CycleExpiredFilter()

	case key.Matches(msg, m.keys.ClearFilters):
		return m, m.ClearFilters()

	case key.Matches(msg, m.keys.CycleSort):
		m.sortIndex = (m.sortIndex + 1) % len(sortCycle)
		m.query.SortBy = sortCycle[m.sortIndex]
		return m, m.fetch()

	case key.Matches(msg, m.keys.ToggleSortOrder):
		if m.query.SortOrder == api.SortDesc {
			m.query.SortOrder = api.SortAsc
		} else {
			m.query.SortOrder = api.SortDesc
		}
		return m, m.fetch()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// CycleExpiredFilter advances the expired filter (all, expired only,
// not expired) and refetches.
func (m *Model) CycleExpiredFilter() tea.Cmd {
	m.query.Expired = cycleNext(expiredFilterCycle, m.query.Expired)
	return m.fetch()
}

// ClearFilters resets the status, expired, and name criteria and
// refetches. No-op when nothing is set.
func (m *Model) ClearFilters() tea.Cmd {
	if m.query.Status == "" && m.query.Expired == "" && m.query.Name == "" {
		return nil
	}
	m.query.Status = ""
	m.query.Expired = ""
	m.query.Name = ""
	m.searchInput.Reset()
	return m.fetch()
}

// SearchActive reports whether the search input has keyboard focus, in
// which case the root model must not intercept character keys.
func (m Model) SearchActive() bool {
	return m.searchMode
}

// Query returns the current filter/sort criteria.
func (m Model) Query() api.ItemQuery {
	return m.query
}

// FilterSummary describes the active filters for the status bar, or ""
// when none are set.
func (m Model) FilterSummary() string {
	var parts []string
	if m.query.Status != "" {
		parts = append(parts, "status: "+model.StatusDisplayName(m.query.Status))
	}
	switch m.query.Expired {
	case "true":
		parts = append(parts, "expired only")
	case "false":
		parts = append(parts, "not expired")
	}
	if m.query.Name != "" {
		parts = append(parts, fmt.Sprintf("name: %q", m.query.Name))
	}
	return strings.Join(parts, " | ")
}

// View renders the item list view.
func (m Model) View() string {
	if m.activeList == nil {
		return m.renderCentered("Select a list or create a new one (press L).")
	}

	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, m.list.View())
	}

	if m.loading && len(m.list.Items()) == 0 {
		return m.renderCentered(m.spinner.View() + " loading items...")
	}

	if len(m.list.Items()) == 0 {
		if m.FilterSummary() != "" {
			return m.renderCentered("No matching items.\nTry adjusting your filters (3 clears).")
		}
		return m.renderCentered("No items yet. Press n to add one.")
	}

	view := m.list.View()
	if m.loading {
		bar := lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Padding(0, 1).
			Render(m.spinner.View() + " refreshing...")
		view = lipgloss.JoinVertical(lipgloss.Left, bar, view)
	}
	return view
}

func (m Model) renderCentered(text string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray).
		Render(text)
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}

// cycleNext returns the entry after current in cycle, wrapping around.
// An unknown current value restarts the cycle.
func cycleNext(cycle []string, current string) string {
	for i, v := range cycle {
		if v == current {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}
