package itemlist

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerem/todoterm/internal/api"
	"github.com/kerem/todoterm/internal/keys"
	"github.com/kerem/todoterm/internal/ui"
	"github.com/kerem/todoterm/internal/model"
)

func newTestModel() Model {
	return New(nil, keys.DefaultKeyMap(), 80, 24)
}

func pressKey(m Model, k string) (Model, tea.Cmd) {
	var msg tea.KeyMsg
	switch k {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	return m.Update(msg)
}

func TestStatusFilterCycles(t *testing.T) {
	m := newTestModel()
	m.activeList = &model.TodoList{ID: 1, Name: "Groceries"}

	want := []string{
		model.StatusNotStarted,
		model.StatusInProgress,
		model.StatusCompleted,
		"",
	}
	for _, expected := range want {
		var cmd tea.Cmd
		m, cmd = pressKey(m, "1")
		assert.Equal(t, expected, m.Query().Status)
		assert.NotNil(t, cmd, "every filter change issues a fetch")
	}
}

func TestExpiredFilterCycles(t *testing.T) {
	m := newTestModel()
	m.activeList = &model.TodoList{ID: 1, Name: "Groceries"}

	for _, expected := range []string{"true", "false", ""} {
		m, _ = pressKey(m, "2")
		assert.Equal(t, expected, m.Query().Expired)
	}
}

func TestSortCyclesThroughBackendFields(t *testing.T) {
	m := newTestModel()
	m.activeList = &model.TodoList{ID: 1, Name: "Groceries"}

	assert.Equal(t, api.SortByCreateDate, m.Query().SortBy)

	for _, expected := range []string{
		api.SortByDeadline, api.SortByName, api.SortByStatus, api.SortByCreateDate,
	} {
		m, _ = pressKey(m, "tab")
		assert.Equal(t, expected, m.Query().SortBy)
	}
}

func TestSortOrderToggles(t *testing.T) {
	m := newTestModel()
	m.activeList = &model.TodoList{ID: 1, Name: "Groceries"}

	assert.Equal(t, api.SortAsc, m.Query().SortOrder)
	m, _ = pressKey(m, "o")
	assert.Equal(t, api.SortDesc, m.Query().SortOrder)
	m, _ = pressKey(m, "o")
	assert.Equal(t, api.SortAsc, m.Query().SortOrder)
}

func TestFilterKeysWithoutListAreSafe(t *testing.T) {
	m := newTestModel()
	require.Nil(t, m.ActiveList())

	for _, k := range []string{"1", "2", "tab", "o", "3"} {
		var cmd tea.Cmd
		m, cmd = pressKey(m, k)
		assert.Nil(t, cmd, "no list selected, key %q must not fetch", k)
	}
}

func TestClearFiltersNoFetchWhenAlreadyClear(t *testing.T) {
	m := newTestModel()
	m.activeList = &model.TodoList{ID: 1, Name: "Groceries"}

	_, cmd := pressKey(m, "3")
	assert.Nil(t, cmd, "clearing clear filters must not refetch")
}

func TestStaleResponseDropped(t *testing.T) {
	m := newTestModel()
	m.activeList = &model.TodoList{ID: 1, Name: "Groceries"}
	m.seq = 2
	m.loading = true

	fresh := []model.TodoItem{{ID: 10, Name: "current"}}
	m, _ = m.Update(ItemsLoadedMsg{Seq: 2, ListID: 1, Items: fresh})
	require.Len(t, m.Items(), 1)
	assert.False(t, m.Loading())

	// A response from an older fetch arrives late; it must not
	// overwrite the newer one.
	stale := []model.TodoItem{{ID: 9, Name: "stale"}}
	m, _ = m.Update(ItemsLoadedMsg{Seq: 1, ListID: 1, Items: stale})
	require.Len(t, m.Items(), 1)
	assert.Equal(t, int64(10), m.Items()[0].ID)
}

func TestErrorResponseKeepsCurrentItems(t *testing.T) {
	m := newTestModel()
	m.activeList = &model.TodoList{ID: 1, Name: "Groceries"}
	m.seq = 1

	m, _ = m.Update(ItemsLoadedMsg{Seq: 1, ListID: 1, Items: []model.TodoItem{{ID: 5}}})
	require.Len(t, m.Items(), 1)

	m.seq = 2
	m.loading = true
	var cmd tea.Cmd
	m, cmd = m.Update(ItemsLoadedMsg{Seq: 2, ListID: 1, Err: &api.Error{StatusCode: 500}})
	assert.False(t, m.Loading(), "a failed fetch clears the loading state")
	assert.Len(t, m.Items(), 1, "failed refresh leaves prior state intact")

	require.NotNil(t, cmd, "the failure is reported upward")
	failed, ok := cmd().(ui.RequestFailedMsg)
	require.True(t, ok)
	assert.Error(t, failed.Err)
}

func TestStaleErrorResponseNotSurfaced(t *testing.T) {
	m := newTestModel()
	m.activeList = &model.TodoList{ID: 1, Name: "Groceries"}
	m.seq = 3
	m.loading = true

	// An error from a superseded fetch is irrelevant; only the
	// in-flight sequence may touch state or surface a message.
	m, cmd := m.Update(ItemsLoadedMsg{Seq: 2, ListID: 1, Err: &api.Error{StatusCode: 500}})
	assert.Nil(t, cmd)
	assert.True(t, m.Loading(), "the newer fetch is still pending")
}

func TestFilterSummary(t *testing.T) {
	m := newTestModel()
	assert.Empty(t, m.FilterSummary())

	m.query.Status = model.StatusInProgress
	m.query.Expired = "true"
	m.query.Name = "milk"
	summary := m.FilterSummary()
	assert.Contains(t, summary, "In Progress")
	assert.Contains(t, summary, "expired only")
	assert.Contains(t, summary, `"milk"`)
}

func TestSetListClearsOnNil(t *testing.T) {
	m := newTestModel()
	m.activeList = &model.TodoList{ID: 1, Name: "Groceries"}
	m.seq = 1
	m, _ = m.Update(ItemsLoadedMsg{Seq: 1, ListID: 1, Items: []model.TodoItem{{ID: 5}}})
	require.Len(t, m.Items(), 1)

	m.SetList(nil)
	assert.Nil(t, m.ActiveList())
}

func TestDelegateRenderLinesUseCalendarExpiry(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	d := ItemDelegate{Now: func() time.Time { return now }}

	yesterday := time.Date(2025, time.March, 14, 23, 0, 0, 0, time.UTC)
	item := model.TodoItem{
		ID:       1,
		Name:     "Pay rent",
		Status:   model.StatusNotStarted,
		Deadline: &yesterday,
	}

	line := d.renderDetailLine(item, now)
	assert.Contains(t, line, "EXPIRED")

	today := time.Date(2025, time.March, 15, 8, 0, 0, 0, time.UTC)
	item.Deadline = &today
	line = d.renderDetailLine(item, now)
	assert.Contains(t, line, "TODAY")
	assert.NotContains(t, line, "EXPIRED")
}

func TestLongMultibyteDescriptionTruncatesOnRunes(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	d := ItemDelegate{Now: func() time.Time { return now }}

	item := model.TodoItem{
		ID:          1,
		Name:        "Einkaufen",
		Status:      model.StatusNotStarted,
		Description: strings.Repeat("ü", 80),
	}

	line := d.renderDetailLine(item, now)
	assert.True(t, utf8.ValidString(line))
	assert.Contains(t, line, strings.Repeat("ü", 57)+"…")
	assert.NotContains(t, line, strings.Repeat("ü", 58))
}
