package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the browser.
//
// Cursor movement, paging and filtering stay with the bubbles list; [newList] takes d out of
// its paging keys so download never pages.
type keyMap struct {
	enter    key.Binding
	back     key.Binding
	download key.Binding
	open     key.Binding
	login    key.Binding
	refresh  key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open playlist")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		download: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "download CSV")),
		open:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open link")),
		login:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "login")),
		refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) gridHelp() []key.Binding {
	return []key.Binding{k.enter, k.login, k.refresh, k.quit}
}

func (k keyMap) tracksHelp() []key.Binding {
	return []key.Binding{k.back, k.download, k.open, k.login, k.quit}
}
