package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerem/todoterm/internal/api"
	"github.com/kerem/todoterm/internal/model"
	"github.com/kerem/todoterm/internal/session"
	"github.com/kerem/todoterm/internal/ui"
	"github.com/kerem/todoterm/internal/ui/authview"
	"github.com/kerem/todoterm/internal/ui/command"
	"github.com/kerem/todoterm/internal/ui/listmgr"
)

type memStore struct {
	token string
}

func (s *memStore) Token() (string, error)    { return s.token, nil }
func (s *memStore) StoreToken(t string) error { s.token = t; return nil }
func (s *memStore) ClearToken() error         { s.token = ""; return nil }

func loggedInSession(t *testing.T) *session.Session {
	t.Helper()
	sess := session.New(&memStore{token: "tok-123"})
	require.NoError(t, sess.Load())
	require.True(t, sess.LoggedIn())
	return sess
}

func TestStartsAtLoginWithoutToken(t *testing.T) {
	sess := session.New(&memStore{})
	require.NoError(t, sess.Load())

	m := New(sess, nil, nil)
	assert.Equal(t, ViewAuth, m.currentView)
}

func TestPersistedTokenSkipsLogin(t *testing.T) {
	m := New(loggedInSession(t), nil, nil)
	assert.Equal(t, ViewItems, m.currentView)
}

func TestUnauthorizedForcesLogin(t *testing.T) {
	sess := loggedInSession(t)
	m := New(sess, nil, nil)

	updated, _ := m.Update(ui.RequestFailedMsg{Err: api.ErrUnauthorized})
	root := updated.(Model)

	assert.Equal(t, ViewAuth, root.currentView)
	assert.False(t, sess.LoggedIn(), "forced logout clears the session")
}

func TestRequestFailureSurfacesMessage(t *testing.T) {
	m := New(loggedInSession(t), nil, nil)

	apiErr := &api.Error{StatusCode: 409, Message: "Cannot add dependency: it would create a cycle"}
	updated, _ := m.Update(ui.RequestFailedMsg{Err: apiErr})
	root := updated.(Model)

	assert.Equal(t, ViewItems, root.currentView, "read errors never change the view")
	assert.Equal(t, "Cannot add dependency: it would create a cycle", root.errMsg)
}

func TestFirstListAutoSelected(t *testing.T) {
	m := New(loggedInSession(t), nil, nil)

	updated, cmd := m.Update(listmgr.ListsLoadedMsg{Lists: []model.TodoList{
		{ID: 5, Name: "Groceries"},
		{ID: 6, Name: "Work"},
	}})
	root := updated.(Model)

	require.NotNil(t, root.itemList.ActiveList())
	assert.Equal(t, int64(5), root.itemList.ActiveList().ID)
	assert.NotNil(t, cmd, "selecting a list triggers the first item fetch")
}

func TestListSelectionSwitchesToItems(t *testing.T) {
	m := New(loggedInSession(t), nil, nil)
	m.currentView = ViewLists

	updated, cmd := m.Update(listmgr.SelectMsg{List: model.TodoList{ID: 9, Name: "Home"}})
	root := updated.(Model)

	assert.Equal(t, ViewItems, root.currentView)
	require.NotNil(t, root.itemList.ActiveList())
	assert.Equal(t, int64(9), root.itemList.ActiveList().ID)
	assert.NotNil(t, cmd)
}

func TestDeletingActiveListClearsIt(t *testing.T) {
	m := New(loggedInSession(t), nil, nil)
	updated, _ := m.Update(listmgr.ListsLoadedMsg{Lists: []model.TodoList{{ID: 5, Name: "Groceries"}}})
	m = updated.(Model)
	require.NotNil(t, m.itemList.ActiveList())

	updated, _ = m.Update(listmgr.DeletedMsg{ID: 5})
	root := updated.(Model)
	assert.Nil(t, root.itemList.ActiveList())
}

func TestMutationSuccessReloadsItems(t *testing.T) {
	m := New(loggedInSession(t), nil, nil)
	updated, _ := m.Update(listmgr.ListsLoadedMsg{Lists: []model.TodoList{{ID: 5, Name: "Groceries"}}})
	m = updated.(Model)

	updated, cmd := m.Update(itemMutatedMsg{notice: "Item completed"})
	root := updated.(Model)

	assert.Equal(t, "Item completed", root.notice)
	assert.NotNil(t, cmd, "a successful mutation refetches the list")
}

func TestUnknownCommandSurfaces(t *testing.T) {
	m := New(loggedInSession(t), nil, nil)
	m.previousView = ViewItems
	m.currentView = ViewCommand

	updated, _ := m.Update(command.Msg("frobnicate"))
	root := updated.(Model)

	assert.Equal(t, ViewItems, root.currentView)
	assert.Contains(t, root.errMsg, "frobnicate")
}

func TestAccountDeletedReturnsToLogin(t *testing.T) {
	sess := loggedInSession(t)
	m := New(sess, nil, nil)
	m.currentView = ViewAccount

	updated, _ := m.Update(authview.AccountDeletedMsg{})
	root := updated.(Model)

	assert.Equal(t, ViewAuth, root.currentView)
}
