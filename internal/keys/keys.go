package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Search items by name
	Search key.Binding

	// Command palette
	Command key.Binding

	// Help toggle
	Help key.Binding

	// Manual refresh
	Refresh key.Binding

	// Item actions
	NewItem      key.Binding
	EditItem     key.Binding
	DeleteItem   key.Binding
	CompleteItem key.Binding
	Dependencies key.Binding

	// List management
	Lists key.Binding

	// Filters
	CycleStatusFilter  key.Binding
	CycleExpiredFilter key.Binding
	ClearFilters       key.Binding

	// Sort
	CycleSort       key.Binding
	ToggleSortOrder key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search by name"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		NewItem: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new item"),
		),
		EditItem: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit item"),
		),
		DeleteItem: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete item"),
		),
		CompleteItem: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "mark complete"),
		),
		Dependencies: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "dependencies"),
		),
		Lists: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "manage lists"),
		),
		CycleStatusFilter: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "cycle status filter"),
		),
		CycleExpiredFilter: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "cycle expired filter"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "clear filters"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "cycle sort"),
		),
		ToggleSortOrder: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "toggle sort order"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.Back,
		k.Quit, k.Help, k.Search,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back, k.Quit},
		{k.NewItem, k.EditItem, k.DeleteItem, k.CompleteItem, k.Dependencies},
		{k.Search, k.CycleStatusFilter, k.CycleExpiredFilter, k.ClearFilters},
		{k.CycleSort, k.ToggleSortOrder, k.Lists, k.Command, k.Help, k.Refresh},
	}
}
