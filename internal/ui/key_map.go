package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	play      key.Binding
	next      key.Binding
	reconnect key.Binding
	settings  key.Binding
	up        key.Binding
	down      key.Binding
	enter     key.Binding
	focus     key.Binding
	create    key.Binding
	add       key.Binding
	remove    key.Binding
	clear     key.Binding
	cycle     key.Binding
	back      key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		play:      key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "play/pause")),
		next:      key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n/→", "next")),
		reconnect: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reconnect")),
		settings:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "settings")),
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		focus:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		create:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "new playlist")),
		add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add content")),
		remove:    key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
		clear:     key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear playlist")),
		cycle:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "type")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.play, k.next, k.settings, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.play, k.next, k.reconnect, k.settings},
		{k.up, k.down, k.enter, k.focus},
		{k.create, k.add, k.remove, k.clear},
		{k.back, k.quit},
	}
}
