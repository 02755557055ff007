package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all panel key bindings with built-in help text.
type KeyMap struct {
	// Global
	Quit      key.Binding
	ForceQuit key.Binding
	Help      key.Binding
	Escape    key.Binding

	// Selection
	Live      key.Binding
	Photo     key.Binding
	NextPhoto key.Binding
	PrevPhoto key.Binding

	// Help page
	Up   key.Binding
	Down key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "h"),
			key.WithHelp("?/h", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("escape", "esc"),
			key.WithHelp("esc", "close"),
		),

		Live: key.NewBinding(
			key.WithKeys("l", "enter", "0"),
			key.WithHelp("l/enter", "live video"),
		),
		Photo: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "pin photo"),
		),
		NextPhoto: key.NewBinding(
			key.WithKeys("right", "tab"),
			key.WithHelp("→/tab", "next photo"),
		),
		PrevPhoto: key.NewBinding(
			key.WithKeys("left", "shift+tab"),
			key.WithHelp("←/shift+tab", "prev photo"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// ShortHelp implements help.KeyMap for the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Live, k.Photo, k.NextPhoto, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap for the help page.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Live, k.Photo, k.NextPhoto, k.PrevPhoto},
		{k.Help, k.Escape, k.Up, k.Down},
		{k.Quit, k.ForceQuit},
	}
}
