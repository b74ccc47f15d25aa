package views

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the planner's top-level key bindings. It implements
// help.KeyMap for the quick guide.
type KeyMap struct {
	Today     key.Binding
	PrevMonth key.Binding
	NextMonth key.Binding
	Guide     key.Binding
	Sidebar   key.Binding
	Toggle    key.Binding
	TimeRange key.Binding
	Search    key.Binding
	Up        key.Binding
	Down      key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the planner bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "today"),
		),
		PrevMonth: key.NewBinding(
			key.WithKeys("[", "h", "left"),
			key.WithHelp("[/h", "prev month"),
		),
		NextMonth: key.NewBinding(
			key.WithKeys("]", "l", "right"),
			key.WithHelp("]/l", "next month"),
		),
		Guide: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "guide"),
		),
		Sidebar: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sidebar"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("1", "2", "3", "4"),
			key.WithHelp("1-4", "toggle category"),
		),
		TimeRange: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "time range"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// SetSidebar enables the bindings that act on the sidebar.
func (k *KeyMap) SetSidebar(open bool) {
	for _, b := range []*key.Binding{&k.Toggle, &k.TimeRange, &k.Search, &k.Up, &k.Down, &k.Edit, &k.Delete} {
		b.SetEnabled(open)
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevMonth, k.NextMonth, k.Today, k.Sidebar, k.Guide, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevMonth, k.NextMonth, k.Today, k.Guide, k.Quit},
		{k.Sidebar, k.Toggle, k.TimeRange, k.Search},
		{k.Up, k.Down, k.Edit, k.Delete},
	}
}
