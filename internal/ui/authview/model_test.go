package authview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerem/todoterm/internal/model"
	"github.com/kerem/todoterm/internal/session"
)

func TestValidateUsername(t *testing.T) {
	assert.Error(t, validateUsername("ab"))
	assert.NoError(t, validateUsername("abc"))
	assert.NoError(t, validateUsername(strings.Repeat("a", model.MaxUsernameLen)))
	assert.Error(t, validateUsername(strings.Repeat("a", model.MaxUsernameLen+1)))
	assert.Error(t, validateUsername("   "))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, validateEmail("kerem@example.com"))
	assert.Error(t, validateEmail("not-an-email"))
	assert.Error(t, validateEmail("@example.com"))
	assert.Error(t, validateEmail("kerem@nodot"))
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, validatePassword("12345"))
	assert.NoError(t, validatePassword("123456"))
}

func TestValidateConfirmMatchesPassword(t *testing.T) {
	m := New(nil, 80, 24)
	m.fb.password = "secret1"
	assert.NoError(t, m.validateConfirm("secret1"))
	assert.Error(t, m.validateConfirm("secret2"))
}

func TestStartLoginClearsStateAndKeepsNotice(t *testing.T) {
	sess := session.New(memStore{})
	m := New(sess, 80, 24)
	m.fb.username = "old"
	m.errMsg = "old error"

	cmd := m.StartLogin("Your session has expired. Please sign in again.")
	require.NotNil(t, cmd)
	assert.Empty(t, m.fb.username)
	assert.Empty(t, m.errMsg)
	assert.Contains(t, m.View(), "session has expired")
}

func TestStartAccountPrefillsIdentity(t *testing.T) {
	sess := session.New(memStore{})
	m := New(sess, 80, 24)

	// No identity known yet: fields stay empty.
	m.StartAccount()
	assert.Empty(t, m.fb.username)
	assert.Equal(t, modeAccount, m.mode)
}

func TestResultErrorRebuildsForm(t *testing.T) {
	sess := session.New(memStore{})
	m := New(sess, 80, 24)
	m.Init()
	m.submitting = true

	m, cmd := m.Update(resultMsg{err: assert.AnError})
	assert.False(t, m.submitting)
	assert.NotEmpty(t, m.errMsg)
	require.NotNil(t, m.form, "a fresh form replaces the completed one")
	_ = cmd
}

func TestRegisteredSwitchesToLoginWithNotice(t *testing.T) {
	sess := session.New(memStore{})
	m := New(sess, 80, 24)
	m.start(modeRegister)
	m.fb.username = "kerem"
	m.submitting = true

	m, _ = m.Update(resultMsg{registered: true})
	assert.Equal(t, modeLogin, m.mode)
	assert.Equal(t, "kerem", m.fb.username, "username carries over to the login form")
	assert.Contains(t, m.notice, "Account created")
}

func TestLoginSuccessEmitsLoggedIn(t *testing.T) {
	sess := session.New(memStore{})
	m := New(sess, 80, 24)
	m.Init()
	m.submitting = true

	m, cmd := m.Update(resultMsg{user: model.User{ID: 1, Username: "kerem"}})
	require.NotNil(t, cmd)
	msg, ok := cmd().(LoggedInMsg)
	require.True(t, ok)
	assert.Equal(t, "kerem", msg.User.Username)
}

func TestDeleteSuccessEmitsAccountDeleted(t *testing.T) {
	sess := session.New(memStore{})
	m := New(sess, 80, 24)
	m.StartDeleteAccount()
	m.submitting = true

	_, cmd := m.Update(resultMsg{deleted: true})
	require.NotNil(t, cmd)
	_, ok := cmd().(AccountDeletedMsg)
	assert.True(t, ok)
}

type memStore struct{}

func (memStore) Token() (string, error)  { return "", nil }
func (memStore) StoreToken(string) error { return nil }
func (memStore) ClearToken() error       { return nil }
