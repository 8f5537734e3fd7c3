package listmgr

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerem/todoterm/internal/keys"
	"github.com/kerem/todoterm/internal/model"
)

func newTestModel() Model {
	return New(nil, keys.DefaultKeyMap(), 80, 24)
}

func loaded(t *testing.T, m Model, lists ...model.TodoList) Model {
	t.Helper()
	m, _ = m.Update(ListsLoadedMsg{Lists: lists})
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Groceries"))
	assert.NoError(t, ValidateName("  padded  "))
	assert.Error(t, ValidateName(""))
	assert.Error(t, ValidateName("   "))
	assert.NoError(t, ValidateName(strings.Repeat("a", model.MaxListNameLen)))
	assert.Error(t, ValidateName(strings.Repeat("a", model.MaxListNameLen+1)))
}

func TestNavigationWraps(t *testing.T) {
	m := loaded(t, newTestModel(),
		model.TodoList{ID: 1, Name: "Work"},
		model.TodoList{ID: 2, Name: "Home"},
		model.TodoList{ID: 3, Name: "Errands"},
	)

	require.Equal(t, 0, m.selectedIdx)

	m, _ = m.Update(keyMsg("j"))
	m, _ = m.Update(keyMsg("j"))
	assert.Equal(t, 2, m.selectedIdx)

	m, _ = m.Update(keyMsg("j"))
	assert.Equal(t, 0, m.selectedIdx, "down from last wraps to first")

	m, _ = m.Update(keyMsg("k"))
	assert.Equal(t, 2, m.selectedIdx, "up from first wraps to last")
}

func TestSelectEmitsListSelection(t *testing.T) {
	m := loaded(t, newTestModel(),
		model.TodoList{ID: 1, Name: "Work"},
		model.TodoList{ID: 2, Name: "Home"},
	)

	m, _ = m.Update(keyMsg("j"))
	_, cmd := m.Update(keyMsg("enter"))
	require.NotNil(t, cmd)

	msg := cmd()
	sel, ok := msg.(SelectMsg)
	require.True(t, ok)
	assert.Equal(t, int64(2), sel.List.ID)
}

func TestSelectWithNoListsIsNoop(t *testing.T) {
	m := newTestModel()
	_, cmd := m.Update(keyMsg("enter"))
	assert.Nil(t, cmd)
}

func TestEscClosesManager(t *testing.T) {
	m := newTestModel()
	_, cmd := m.Update(keyMsg("esc"))
	require.NotNil(t, cmd)
	_, ok := cmd().(CloseMsg)
	assert.True(t, ok)
}

func TestNewListOpensForm(t *testing.T) {
	m := newTestModel()
	m, _ = m.Update(keyMsg("n"))
	assert.Equal(t, modeForm, m.mode)
	assert.True(t, m.isNew)
	assert.Empty(t, m.fb.name)
}

func TestRenameSeedsFormWithCurrentName(t *testing.T) {
	m := loaded(t, newTestModel(), model.TodoList{ID: 7, Name: "Work"})
	m, _ = m.Update(keyMsg("e"))
	assert.Equal(t, modeForm, m.mode)
	assert.False(t, m.isNew)
	assert.Equal(t, int64(7), m.editingID)
	assert.Equal(t, "Work", m.fb.name)
}

func TestSelectionClampedAfterReload(t *testing.T) {
	m := loaded(t, newTestModel(),
		model.TodoList{ID: 1, Name: "Work"},
		model.TodoList{ID: 2, Name: "Home"},
	)
	m, _ = m.Update(keyMsg("j"))
	require.Equal(t, 1, m.selectedIdx)

	m = loaded(t, m, model.TodoList{ID: 1, Name: "Work"})
	assert.Equal(t, 0, m.selectedIdx)
}

func TestViewShowsEmptyState(t *testing.T) {
	m := newTestModel()
	view := m.View()
	assert.Contains(t, view, "No lists yet")
}

func TestViewListsNames(t *testing.T) {
	m := loaded(t, newTestModel(),
		model.TodoList{ID: 1, Name: "Work"},
		model.TodoList{ID: 2, Name: "Home"},
	)
	view := m.View()
	assert.Contains(t, view, "Work")
	assert.Contains(t, view, "Home")
}
