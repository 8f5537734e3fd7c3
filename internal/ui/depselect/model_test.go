package depselect

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerem/todoterm/internal/keys"
	"github.com/kerem/todoterm/internal/model"
	"github.com/kerem/todoterm/internal/ui"
)

func started(item model.TodoItem, listItems []model.TodoItem) Model {
	m := New(nil, keys.DefaultKeyMap(), 80, 24)
	m.Start(item, listItems)
	return m
}

func TestStartExcludesItemItself(t *testing.T) {
	item := model.TodoItem{ID: 1, ListID: 10, Name: "a"}
	listItems := []model.TodoItem{
		{ID: 1, Name: "a"},
		{ID: 2, Name: "b"},
		{ID: 3, Name: "c"},
	}

	m := started(item, listItems)
	require.Len(t, m.entries, 2)
	assert.Equal(t, int64(2), m.entries[0].item.ID)
	assert.Equal(t, int64(3), m.entries[1].item.ID)
}

func TestStartMarksExistingDependencies(t *testing.T) {
	item := model.TodoItem{
		ID:           1,
		ListID:       10,
		Dependencies: []model.TodoItem{{ID: 3, Name: "c"}},
	}
	listItems := []model.TodoItem{
		{ID: 1, Name: "a"},
		{ID: 2, Name: "b"},
		{ID: 3, Name: "c"},
	}

	m := started(item, listItems)
	require.Len(t, m.entries, 2)
	assert.False(t, m.entries[0].linked)
	assert.True(t, m.entries[1].linked)
}

func TestToggledMsgFlipsEntryAndSignalsChange(t *testing.T) {
	item := model.TodoItem{ID: 1, ListID: 10}
	m := started(item, []model.TodoItem{{ID: 1}, {ID: 2, Name: "b"}})

	m, cmd := m.Update(toggledMsg{depID: 2, linked: true})
	assert.True(t, m.entries[0].linked)
	assert.Equal(t, "Dependency added", m.statusMsg)

	require.NotNil(t, cmd)
	_, ok := cmd().(ChangedMsg)
	assert.True(t, ok)
}

func TestToggledMsgErrorSurfaces(t *testing.T) {
	item := model.TodoItem{ID: 1, ListID: 10}
	m := started(item, []model.TodoItem{{ID: 1}, {ID: 2}})

	boom := errors.New("boom")
	m, cmd := m.Update(toggledMsg{depID: 2, linked: true, err: boom})
	assert.False(t, m.entries[0].linked, "entry stays untouched on failure")

	require.NotNil(t, cmd)
	failed, ok := cmd().(ui.RequestFailedMsg)
	require.True(t, ok)
	assert.Equal(t, boom, failed.Err)
}

func TestKeysIgnoredWhilePending(t *testing.T) {
	item := model.TodoItem{ID: 1, ListID: 10}
	m := started(item, []model.TodoItem{{ID: 1}, {ID: 2}, {ID: 3}})
	m.pending = true

	m2, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, m.selectedIdx, m2.selectedIdx)
	assert.Nil(t, cmd)
}

func TestEscCloses(t *testing.T) {
	m := started(model.TodoItem{ID: 1}, nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	_, ok := cmd().(CloseMsg)
	assert.True(t, ok)
}

func TestViewEmptyState(t *testing.T) {
	m := started(model.TodoItem{ID: 1, Name: "solo"}, []model.TodoItem{{ID: 1, Name: "solo"}})
	assert.Contains(t, m.View(), "No other items")
}
