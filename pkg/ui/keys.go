package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists the picker's key bindings.
type KeyMap struct {
	Open   key.Binding
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Drill  key.Binding
	Use    key.Binding
	Back   key.Binding
	Close  key.Binding
	Copy   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Open:   key.NewBinding(key.WithKeys("enter", " ", "down"), key.WithHelp("enter", "open")),
		Up:     key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "down")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Drill:  key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "drill in")),
		Use:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "use group")),
		Back:   key.NewBinding(key.WithKeys("left", "backspace"), key.WithHelp("←", "back")),
		Close:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Copy:   key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy")),
		Help:   key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp returns the bindings shown in the footer while the picker is open.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Drill, k.Use, k.Back, k.Close, k.Help}
}
