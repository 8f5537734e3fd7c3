package authview

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/kerem/todoterm/internal/api"
	"github.com/kerem/todoterm/internal/model"
	"github.com/kerem/todoterm/internal/session"
	"github.com/kerem/todoterm/internal/theme"
)

// LoggedInMsg is dispatched after a successful login.
type LoggedInMsg struct {
	User model.User
}

// AccountUpdatedMsg is dispatched after a successful account update.
// The session already carries the rotated token.
type AccountUpdatedMsg struct {
	User model.User
}

// AccountDeletedMsg is dispatched after the account was deleted; the
// session is already ended.
type AccountDeletedMsg struct{}

// CloseMsg signals the parent to leave an account form opened from
// within the app. It is never emitted from the login screen.
type CloseMsg struct{}

type mode int

const (
	modeLogin mode = iota
	modeRegister
	modeAccount
	modeDeleteAccount
)

type formBindings struct {
	username string
	email    string
	password string
	confirm  string
}

type resultMsg struct {
	user    model.User
	deleted bool
	// registered means the account was created; the user signs in next.
	registered bool
	err        error
}

// Model is the Bubble Tea model for authentication and account
// management. Validation runs client-side before any request; server
// rejections (taken username, wrong password) are shown under the form.
type Model struct {
	session    *session.Session
	mode       mode
	form       *huh.Form
	fb         *formBindings
	spinner    spinner.Model
	submitting bool
	errMsg     string
	notice     string
	width      int
	height     int
}

// New creates the auth view starting at the login form.
func New(sess *session.Session, width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorBlue)

	m := Model{
		session: sess,
		mode:    modeLogin,
		fb:      &formBindings{},
		spinner: sp,
		width:   width,
		height:  height,
	}
	m.form = m.buildForm()
	return m
}

// Init starts the login form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// StartLogin switches to the login form. The notice, if any, is shown
// above the form (used for the session-expired message).
func (m *Model) StartLogin(notice string) tea.Cmd {
	m.notice = notice
	return m.start(modeLogin)
}

// StartAccount opens the account update form pre-filled with the
// current identity, when it is known. The identity must be set before
// the form is built so the inputs pick it up.
func (m *Model) StartAccount() tea.Cmd {
	m.mode = modeAccount
	m.submitting = false
	m.errMsg = ""
	*m.fb = formBindings{}
	if u := m.session.User(); u != nil {
		m.fb.username = u.Username
		m.fb.email = u.Email
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// StartDeleteAccount opens the delete confirmation form.
func (m *Model) StartDeleteAccount() tea.Cmd {
	return m.start(modeDeleteAccount)
}

func (m *Model) start(md mode) tea.Cmd {
	m.mode = md
	m.submitting = false
	m.errMsg = ""
	*m.fb = formBindings{}
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the auth view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case resultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = api.UserMessage(msg.err)
			m.form = m.buildForm()
			return m, m.form.Init()
		}
		switch {
		case msg.registered:
			username := m.fb.username
			m.mode = modeLogin
			*m.fb = formBindings{username: username}
			m.notice = "Account created. Sign in with your new credentials."
			m.form = m.buildForm()
			return m, m.form.Init()
		case msg.deleted:
			return m, func() tea.Msg { return AccountDeletedMsg{} }
		case m.mode == modeAccount:
			user := msg.user
			return m, func() tea.Msg { return AccountUpdatedMsg{User: user} }
		default:
			user := msg.user
			return m, func() tea.Msg { return LoggedInMsg{User: user} }
		}

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		// Tab between login and register; the forms own every other key.
		if m.mode == modeLogin && msg.String() == "ctrl+r" {
			return m, m.start(modeRegister)
		}
		if m.mode == modeRegister && msg.Type == tea.KeyEsc {
			return m, m.start(modeLogin)
		}
		if (m.mode == modeAccount || m.mode == modeDeleteAccount) && msg.Type == tea.KeyEsc {
			return m, func() tea.Msg { return CloseMsg{} }
		}
	}

	if m.form == nil || m.submitting {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.submitting = true
		m.errMsg = ""
		return m, tea.Batch(m.spinner.Tick, m.submit())
	}
	if m.form.State == huh.StateAborted {
		switch m.mode {
		case modeRegister:
			return m, m.start(modeLogin)
		case modeAccount, modeDeleteAccount:
			return m, func() tea.Msg { return CloseMsg{} }
		default:
			return m, tea.Quit
		}
	}

	return m, cmd
}

// View renders the auth view.
func (m Model) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	b.WriteString(titleStyle.Render(m.title()))
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Render(m.notice))
		b.WriteString("\n\n")
	}

	if m.submitting {
		b.WriteString(m.spinner.View())
		b.WriteString(" working...")
	} else if m.form != nil {
		b.WriteString(m.form.View())
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.ExpiredStyle.Render(m.errMsg))
	}

	if m.mode == modeLogin && !m.submitting {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGray).Render(
			"ctrl+r register | esc quit",
		))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) title() string {
	switch m.mode {
	case modeRegister:
		return "Create Account"
	case modeAccount:
		return "Update Account"
	case modeDeleteAccount:
		return "Delete Account"
	default:
		return "Sign In"
	}
}

func (m *Model) buildForm() *huh.Form {
	var fields []huh.Field
	switch m.mode {
	case modeLogin:
		fields = []huh.Field{
			huh.NewInput().
				Title("Username").
				Value(&m.fb.username).
				Validate(validateRequired("Username")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validateRequired("Password")),
		}
	case modeRegister:
		fields = []huh.Field{
			huh.NewInput().
				Title("Username").
				Value(&m.fb.username).
				Validate(validateUsername),
			huh.NewInput().
				Title("Email").
				Value(&m.fb.email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validatePassword),
			huh.NewInput().
				Title("Confirm Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.confirm).
				Validate(m.validateConfirm),
		}
	case modeAccount:
		fields = []huh.Field{
			huh.NewInput().
				Title("Username").
				Value(&m.fb.username).
				Validate(validateUsername),
			huh.NewInput().
				Title("Email").
				Value(&m.fb.email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Current Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validateRequired("Password")),
		}
	case modeDeleteAccount:
		fields = []huh.Field{
			huh.NewInput().
				Title("Password").
				Description("Deleting your account removes all lists and items. This cannot be undone.").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validateRequired("Password")),
		}
	}

	return huh.NewForm(huh.NewGroup(fields...)).
		WithWidth(m.formWidth()).
		WithHeight(m.formHeight())
}

func (m Model) submit() tea.Cmd {
	sess := m.session
	md := m.mode
	username := strings.TrimSpace(m.fb.username)
	email := strings.TrimSpace(m.fb.email)
	password := m.fb.password

	return func() tea.Msg {
		ctx := context.Background()
		switch md {
		case modeRegister:
			if err := sess.Register(ctx, username, email, password); err != nil {
				return resultMsg{err: err}
			}
			return resultMsg{registered: true}
		case modeAccount:
			user, err := sess.Update(ctx, username, email, password)
			return resultMsg{user: user, err: err}
		case modeDeleteAccount:
			if err := sess.DeleteAccount(ctx, password); err != nil {
				return resultMsg{err: err}
			}
			return resultMsg{deleted: true}
		default:
			user, err := sess.Login(ctx, username, password)
			return resultMsg{user: user, err: err}
		}
	}
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 6
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateUsername(s string) error {
	trimmed := strings.TrimSpace(s)
	if n := len([]rune(trimmed)); n < model.MinUsernameLen || n > model.MaxUsernameLen {
		return fmt.Errorf("username must be %d-%d characters", model.MinUsernameLen, model.MaxUsernameLen)
	}
	return nil
}

func validateEmail(s string) error {
	if !model.ValidEmail(strings.TrimSpace(s)) {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}

func validatePassword(s string) error {
	if len(s) < model.MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters", model.MinPasswordLen)
	}
	return nil
}

func (m *Model) validateConfirm(s string) error {
	if s != m.fb.password {
		return fmt.Errorf("passwords do not match")
	}
	return nil
}
