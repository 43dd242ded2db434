package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextTab  key.Binding
	Playback key.Binding
	Capture  key.Binding
	Left     key.Binding
	Right    key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Mute     key.Binding
	Cycle    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch view"),
		),
		Playback: key.NewBinding(
			key.WithKeys("1", "f3"),
			key.WithHelp("1", "playback"),
		),
		Capture: key.NewBinding(
			key.WithKeys("2", "f4"),
			key.WithHelp("2", "capture"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous control"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next control"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k", "+", "="),
			key.WithHelp("↑/k/+", "raise"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "-"),
			key.WithHelp("↓/j/-", "lower"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "raise more"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "lower more"),
		),
		Mute: key.NewBinding(
			key.WithKeys(" ", "m"),
			key.WithHelp("space/m", "toggle switch"),
		),
		Cycle: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "next item"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Left, k.Right, k.Up, k.Down, k.Mute, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.Playback, k.Capture},
		{k.Left, k.Right},
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Mute, k.Cycle},
		{k.Help, k.Quit},
	}
}
