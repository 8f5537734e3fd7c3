package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kerem/todoterm/internal/model"
	"github.com/kerem/todoterm/internal/ui/itemform"
)

// itemMutatedMsg reports the outcome of a create, update, delete, or
// complete call. On success the item list is refetched so the display
// always reflects server state.
type itemMutatedMsg struct {
	notice string
	err    error
}

// saveItem creates or updates an item in the active list.
func (m Model) saveItem(msg itemform.SubmitMsg) tea.Cmd {
	active := m.itemList.ActiveList()
	if active == nil {
		return nil
	}
	client := m.client
	listID := active.ID

	return func() tea.Msg {
		var err error
		notice := "Item created"
		if msg.EditID != 0 {
			_, err = client.UpdateItem(context.Background(), listID, msg.EditID, msg.Request)
			notice = "Item updated"
		} else {
			_, err = client.CreateItem(context.Background(), listID, msg.Request)
		}
		if err != nil {
			return itemMutatedMsg{err: err}
		}
		return itemMutatedMsg{notice: notice}
	}
}

// deleteItem removes the item. The server also removes any dependency
// edges pointing at it.
func (m Model) deleteItem(item model.TodoItem) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if err := client.DeleteItem(context.Background(), item.ListID, item.ID); err != nil {
			return itemMutatedMsg{err: err}
		}
		return itemMutatedMsg{notice: "Item deleted"}
	}
}

// completeItem marks the item COMPLETED. The server refuses while a
// dependency is unfinished; that message lands in the status bar as-is.
func (m Model) completeItem(item model.TodoItem) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if _, err := client.CompleteItem(context.Background(), item.ListID, item.ID); err != nil {
			return itemMutatedMsg{err: err}
		}
		return itemMutatedMsg{notice: "Item completed"}
	}
}
