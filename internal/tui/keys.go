package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines keybindings for every page.
type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Open       key.Binding
	Shortcut   key.Binding
	Back       key.Binding
	Browse     key.Binding
	TypePath   key.Binding
	Submit     key.Binding
	Copy       key.Binding
	Cancel     key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
	PickerHint key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter", "right", "l"),
			key.WithHelp("enter", "open"),
		),
		Shortcut: key.NewBinding(
			key.WithKeys("1", "2", "3"),
			key.WithHelp("1-3", "jump"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b", "backspace"),
			key.WithHelp("esc/b", "go back"),
		),
		Browse: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "browse files"),
		),
		TypePath: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "type a path"),
		),
		Submit: key.NewBinding(
			key.WithKeys("u", "enter"),
			key.WithHelp("u", "upload"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy status"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
		PickerHint: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
	}
}
