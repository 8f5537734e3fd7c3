package itemlist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kerem/todoterm/internal/model"
	"github.com/kerem/todoterm/internal/theme"
)

// ItemEntry wraps a model.TodoItem so it can be used in a bubbles/list.
type ItemEntry struct {
	Item model.TodoItem
}

// FilterValue returns the string used for fuzzy filtering. The list's
// own filtering is disabled (the backend filters), so this is unused
// but required by the interface.
func (e ItemEntry) FilterValue() string { return e.Item.Name }

// ItemDelegate renders one todo item as a two-line card.
type ItemDelegate struct {
	// Now returns the current time for expiry display. Injected so
	// rendering is deterministic under test.
	Now func() time.Time
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 1 }

// Update handles per-item messages (none).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single item card.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	entry, ok := item.(ItemEntry)
	if !ok {
		return
	}

	now := time.Now()
	if d.Now != nil {
		now = d.Now()
	}

	line := d.renderTitleLine(entry.Item, now)
	detail := d.renderDetailLine(entry.Item, now)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
		detail = theme.SelectedItemStyle.Render(detail)
	} else {
		line = theme.ListItemStyle.Render(line)
		detail = theme.ListItemStyle.Render(detail)
	}

	fmt.Fprint(w, line+"\n"+detail)
}

func (d ItemDelegate) renderTitleLine(item model.TodoItem, now time.Time) string {
	status := model.DisplayStatus(item, now)

	var prefix string
	if status == model.StatusCompleted {
		prefix = "✓"
	} else {
		prefix = "○"
	}

	statusBadge := theme.StatusStyle(status).Render(model.StatusDisplayName(status))

	name := item.Name
	if status == model.StatusCompleted {
		name = theme.DimmedStyle.Render(name)
	}

	depBadge := ""
	if n := len(item.Dependencies); n > 0 {
		blocked := 0
		for _, dep := range item.Dependencies {
			if dep.Status != model.StatusCompleted {
				blocked++
			}
		}
		if blocked > 0 {
			depBadge = theme.DependencyStyle.Render(
				fmt.Sprintf(" ⛓ %d/%d", n-blocked, n),
			)
		} else {
			depBadge = theme.DependencyStyle.Render(fmt.Sprintf(" ⛓ %d", n))
		}
	}

	return fmt.Sprintf("%s %s %s%s", prefix, statusBadge, name, depBadge)
}

func (d ItemDelegate) renderDetailLine(item model.TodoItem, now time.Time) string {
	var parts []string

	if item.Description != "" {
		// Truncate on runes; descriptions may be multibyte.
		desc := []rune(item.Description)
		rendered := item.Description
		if len(desc) > 60 {
			rendered = string(desc[:57]) + "…"
		}
		parts = append(parts, theme.HelpStyle.Render(rendered))
	}

	if item.Deadline != nil {
		due := "due " + item.Deadline.Format("Jan 02")
		switch {
		case model.IsExpired(item, now):
			parts = append(parts, theme.ExpiredStyle.Render(due+" EXPIRED"))
		case model.IsLastDay(item, now):
			parts = append(parts, theme.LastDayStyle.Render(due+" TODAY"))
		default:
			parts = append(parts, theme.DeadlineStyle.Render(due))
		}
	}

	if len(item.Dependencies) > 0 {
		names := make([]string, 0, len(item.Dependencies))
		for _, dep := range item.Dependencies {
			names = append(names, dep.Name)
		}
		parts = append(parts, theme.DependencyStyle.Render(
			"needs: "+strings.Join(names, ", "),
		))
	}

	if len(parts) == 0 {
		return theme.HelpStyle.Render(
			"created " + item.CreatedAt.Format("Jan 02"),
		)
	}
	return strings.Join(parts, "  ")
}
