package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap lists the TUI bindings. It implements help.KeyMap.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Toggle   key.Binding
	MarkDone key.Binding
	Delete   key.Binding
	Refresh  key.Binding
	Add      key.Binding
	Priority key.Binding
	Next     key.Binding
	Prev     key.Binding
	Back     key.Binding
	Help     key.Binding
	Quit     key.Binding
	ForceQ   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Top:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		MarkDone: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mark done")),
		Delete:   key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete done")),
		Refresh:  key.NewBinding(key.WithKeys("r", "f5"), key.WithHelp("r", "refresh")),
		Add:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add task")),
		Priority: key.NewBinding(key.WithKeys(" ", "left", "right"), key.WithHelp("←/→", "priority")),
		Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "list")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQ:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.MarkDone, k.Delete, k.Refresh, k.Next, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.Toggle, k.MarkDone, k.Delete, k.Refresh},
		{k.Add, k.Priority, k.Next, k.Prev, k.Back},
		{k.Help, k.Quit, k.ForceQ},
	}
}
