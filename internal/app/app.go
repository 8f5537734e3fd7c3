package app

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/kerem/todoterm/internal/api"
	"github.com/kerem/todoterm/internal/keys"
	"github.com/kerem/todoterm/internal/session"
	"github.com/kerem/todoterm/internal/ui"
	"github.com/kerem/todoterm/internal/ui/authview"
	"github.com/kerem/todoterm/internal/ui/command"
	"github.com/kerem/todoterm/internal/ui/depselect"
	helpview "github.com/kerem/todoterm/internal/ui/help"
	"github.com/kerem/todoterm/internal/ui/itemform"
	"github.com/kerem/todoterm/internal/ui/itemlist"
	"github.com/kerem/todoterm/internal/ui/listmgr"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewAuth ViewState = iota
	ViewItems
	ViewLists
	ViewItemForm
	ViewDeps
	ViewHelp
	ViewCommand
	// ViewAccount covers the update and delete account forms, both
	// rendered by the auth view.
	ViewAccount
)

// Model is the root Bubble Tea model that manages view routing, layout,
// the session, and the API-backed mutations.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	session      *session.Session
	client       *api.Client
	logger       *log.Logger
	keys         *keys.KeyMap

	authView    authview.Model
	itemList    itemlist.Model
	listMgr     listmgr.Model
	itemForm    itemform.Model
	depSelect   depselect.Model
	helpView    helpview.Model
	commandView command.Model

	ready  bool
	errMsg string
	notice string
}

// New creates the root application model. The session decides the
// starting view: a persisted token skips the login screen.
func New(sess *session.Session, client *api.Client, logger *log.Logger) Model {
	k := keys.DefaultKeyMap()

	view := ViewAuth
	if sess.LoggedIn() {
		view = ViewItems
	}

	return Model{
		currentView: view,
		session:     sess,
		client:      client,
		logger:      logger,
		keys:        k,
		authView:    authview.New(sess, 80, 24),
		itemList:    itemlist.New(client, k, 80, 24),
		listMgr:     listmgr.New(client, k, 80, 24),
		itemForm:    itemform.New(80, 24),
		depSelect:   depselect.New(client, k, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(80, 24),
	}
}

// Init starts either the login form or the initial list fetch.
func (m Model) Init() tea.Cmd {
	if m.currentView == ViewAuth {
		return m.authView.Init()
	}
	return m.listMgr.Init()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.authView.SetSize(w, h)
		m.itemList.SetSize(w, h)
		m.listMgr.SetSize(w, h)
		m.itemForm.SetSize(w, h)
		m.depSelect.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		// Forward to the active view so huh forms can lay themselves out.
		return m.updateActiveView(msg)

	case authview.LoggedInMsg:
		m.currentView = ViewItems
		m.notice = fmt.Sprintf("Signed in as %s", msg.User.Username)
		m.errMsg = ""
		return m, m.listMgr.Init()

	case authview.AccountUpdatedMsg:
		m.currentView = ViewItems
		m.notice = fmt.Sprintf("Account updated: %s", msg.User.Username)
		return m, nil

	case authview.AccountDeletedMsg:
		return m.forceLogin("Your account has been deleted.")

	case authview.CloseMsg:
		m.currentView = ViewItems
		return m, nil

	case listmgr.ListsLoadedMsg:
		var cmd tea.Cmd
		m.listMgr, cmd = m.listMgr.Update(msg)
		// First load: drop straight into the first list.
		if msg.Err == nil && m.itemList.ActiveList() == nil && len(msg.Lists) > 0 {
			first := msg.Lists[0]
			return m, tea.Batch(cmd, m.itemList.SetList(&first))
		}
		return m, cmd

	case listmgr.SelectMsg:
		m.currentView = ViewItems
		selected := msg.List
		return m, m.itemList.SetList(&selected)

	case listmgr.SavedMsg:
		var cmd tea.Cmd
		m.listMgr, cmd = m.listMgr.Update(msg)
		if msg.IsNew {
			m.currentView = ViewItems
			created := msg.List
			return m, tea.Batch(cmd, m.itemList.SetList(&created))
		}
		if active := m.itemList.ActiveList(); active != nil && active.ID == msg.List.ID {
			renamed := msg.List
			return m, tea.Batch(cmd, m.itemList.SetList(&renamed))
		}
		return m, cmd

	case listmgr.DeletedMsg:
		var cmd tea.Cmd
		m.listMgr, cmd = m.listMgr.Update(msg)
		if active := m.itemList.ActiveList(); active != nil && active.ID == msg.ID {
			return m, tea.Batch(cmd, m.itemList.SetList(nil))
		}
		return m, cmd

	case listmgr.CloseMsg:
		m.currentView = ViewItems
		return m, nil

	case itemform.SubmitMsg:
		m.currentView = ViewItems
		return m, m.saveItem(msg)

	case itemform.CancelMsg:
		m.currentView = ViewItems
		return m, nil

	case depselect.ChangedMsg:
		// Refetch in the background so dependency badges are current
		// when the selector closes.
		return m, m.itemList.Reload()

	case depselect.CloseMsg:
		m.currentView = ViewItems
		return m, nil

	case itemlist.ItemsLoadedMsg:
		// The controller clears its loading flag and drops stale
		// sequences; failures come back as RequestFailedMsg.
		if msg.Err == nil {
			m.errMsg = ""
		}
		var cmd tea.Cmd
		m.itemList, cmd = m.itemList.Update(msg)
		return m, cmd

	case ui.RequestFailedMsg:
		return m.handleAPIError(msg.Err)

	case itemMutatedMsg:
		if msg.err != nil {
			return m.handleAPIError(msg.err)
		}
		m.errMsg = ""
		if msg.notice != "" {
			m.notice = msg.notice
		}
		return m, m.itemList.Reload()

	case command.Msg:
		m.currentView = m.previousView
		return m.executeCommand(string(msg))

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActiveView(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// A fresh key press supersedes a surfaced error.
	if m.errMsg != "" {
		m.errMsg = ""
	}

	switch m.currentView {
	case ViewHelp:
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
			return m, nil
		}

	case ViewCommand:
		if key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
			return m, nil
		}

	case ViewItems:
		if m.itemList.SearchActive() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return m, nil

		case key.Matches(msg, m.keys.Command):
			m.previousView = m.currentView
			m.currentView = ViewCommand
			return m, m.commandView.Focus()

		case key.Matches(msg, m.keys.Lists):
			m.currentView = ViewLists
			return m, nil

		case key.Matches(msg, m.keys.Refresh):
			return m, m.itemList.Reload()

		case key.Matches(msg, m.keys.NewItem):
			if m.itemList.ActiveList() == nil {
				m.errMsg = "Select a list first (press L)"
				return m, nil
			}
			m.currentView = ViewItemForm
			return m, m.itemForm.StartCreate()

		case key.Matches(msg, m.keys.EditItem):
			if item, ok := m.itemList.SelectedItem(); ok {
				m.currentView = ViewItemForm
				return m, m.itemForm.StartEdit(item)
			}
			return m, nil

		case key.Matches(msg, m.keys.DeleteItem):
			if item, ok := m.itemList.SelectedItem(); ok {
				return m, m.deleteItem(item)
			}
			return m, nil

		case key.Matches(msg, m.keys.CompleteItem):
			if item, ok := m.itemList.SelectedItem(); ok {
				return m, m.completeItem(item)
			}
			return m, nil

		case key.Matches(msg, m.keys.Dependencies):
			if item, ok := m.itemList.SelectedItem(); ok {
				m.depSelect.Start(item, m.itemList.Items())
				m.currentView = ViewDeps
				return m, nil
			}
			return m, nil
		}
	}

	return m.updateActiveView(msg)
}

// executeCommand dispatches a command palette entry.
func (m Model) executeCommand(cmd string) (tea.Model, tea.Cmd) {
	switch cmd {
	case command.CmdRefresh:
		return m, m.itemList.Reload()
	case command.CmdLists:
		m.currentView = ViewLists
		return m, nil
	case command.CmdNew:
		if m.itemList.ActiveList() == nil {
			m.errMsg = "Select a list first (press L)"
			return m, nil
		}
		m.currentView = ViewItemForm
		return m, m.itemForm.StartCreate()
	case command.CmdClearFilters:
		return m, m.itemList.ClearFilters()
	case command.CmdFilterExpired:
		return m, m.itemList.CycleExpiredFilter()
	case command.CmdAccount:
		m.currentView = ViewAccount
		return m, m.authView.StartAccount()
	case command.CmdDeleteAccount:
		m.currentView = ViewAccount
		return m, m.authView.StartDeleteAccount()
	case command.CmdLogout:
		if err := m.session.Logout(); err != nil && m.logger != nil {
			m.logger.Warn("logout", "error", err)
		}
		return m.forceLogin("")
	case command.CmdHelp:
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil
	case command.CmdQuit:
		return m, tea.Quit
	default:
		m.errMsg = fmt.Sprintf("Unknown command: %s", cmd)
		return m, nil
	}
}

// handleAPIError surfaces a failed request in the status bar. A 401
// means the token is no longer valid: the session ends and the login
// screen takes over, whatever view was active.
func (m Model) handleAPIError(err error) (tea.Model, tea.Cmd) {
	if errors.Is(err, api.ErrUnauthorized) {
		if logoutErr := m.session.Logout(); logoutErr != nil && m.logger != nil {
			m.logger.Warn("forced logout", "error", logoutErr)
		}
		return m.forceLogin("Your session has expired. Please sign in again.")
	}
	m.errMsg = api.UserMessage(err)
	return m, nil
}

// forceLogin resets to a fresh login screen and drops all loaded data.
func (m Model) forceLogin(notice string) (tea.Model, tea.Cmd) {
	m.currentView = ViewAuth
	m.errMsg = ""
	m.notice = ""
	m.itemList.SetList(nil)
	m.listMgr = listmgr.New(m.client, m.keys, m.layout.ContentWidth(), m.layout.ContentHeight())
	return m, m.authView.StartLogin(notice)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewAuth, ViewAccount:
		m.authView, cmd = m.authView.Update(msg)
	case ViewItems:
		m.itemList, cmd = m.itemList.Update(msg)
	case ViewLists:
		m.listMgr, cmd = m.listMgr.Update(msg)
	case ViewItemForm:
		m.itemForm, cmd = m.itemForm.Update(msg)
	case ViewDeps:
		m.depSelect, cmd = m.depSelect.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.currentView == ViewAuth {
		return m.authView.View()
	}

	header := m.layout.RenderHeader("todoterm", m.headerRight())
	content := m.renderContent()

	var statusBar string
	if m.errMsg != "" {
		statusBar = m.layout.RenderErrorBar(m.errMsg)
	} else {
		statusBar = m.layout.RenderStatusBar(m.keyHints())
	}

	return m.layout.RenderWithFrame(header, content, statusBar)
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewAccount:
		return m.authView.View()
	case ViewLists:
		return m.listMgr.View()
	case ViewItemForm:
		return m.itemForm.View()
	case ViewDeps:
		return m.depSelect.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return m.itemList.View()
	}
}

// headerRight shows the active list and the signed-in user.
func (m Model) headerRight() string {
	var parts []string
	if active := m.itemList.ActiveList(); active != nil {
		parts = append(parts, active.Name)
	}
	if u := m.session.User(); u != nil {
		parts = append(parts, u.Username)
	}
	if len(parts) == 0 {
		return ""
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += " | " + p
	}
	return out
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | esc back"
	case ViewLists:
		return "enter open | n new | e rename | d delete | esc back"
	case ViewItemForm:
		return "enter submit | esc cancel"
	case ViewDeps:
		return "enter toggle | esc back"
	case ViewAccount:
		return "enter submit | esc back"
	default:
		if summary := m.itemList.FilterSummary(); summary != "" {
			return summary + " | 3 clear"
		}
		if m.notice != "" {
			return m.notice
		}
		return "q quit | ? help | n new | / search | 1 status | 2 expired | tab sort | L lists"
	}
}
