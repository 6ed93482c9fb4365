package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	enter  key.Binding
	back   key.Binding
	yes    key.Binding
	no     key.Binding
	tab    key.Binding
	delete key.Binding
	upload key.Binding
	play   key.Binding
	next   key.Binding
	prev   key.Binding
	close  key.Binding
	resend key.Binding
	mode   key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		yes:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
		tab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		upload: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload")),
		play:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
		next:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		prev:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "previous")),
		close:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "close player")),
		resend: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "resend code")),
		mode:   key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "switch mode")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.back, k.yes, k.no},
		{k.delete, k.upload, k.quit},
	}
}
