package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the list view bindings. It implements help.KeyMap.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	group   key.Binding
	sort    key.Binding
	reverse key.Binding
	overdue key.Binding
	mine    key.Binding
	open    key.Binding
	del     key.Binding
	help    key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		down:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		group:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "group by")),
		sort:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort key")),
		reverse: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reverse")),
		overdue: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "overdue only")),
		mine:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "my tasks")),
		open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		del:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.group, k.sort, k.overdue, k.mine, k.help, k.quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.open, k.del},
		{k.group, k.sort, k.reverse},
		{k.overdue, k.mine, k.help, k.quit},
	}
}
