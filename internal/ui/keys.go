package ui

import "github.com/charmbracelet/bubbles/key"

// globalKeyMap holds the bindings handled by the root model. The
// views handle their own keys.
type globalKeyMap struct {
	Quit    key.Binding
	Back    key.Binding
	Compose key.Binding
	Login   key.Binding
	Profile key.Binding
	Tabs    key.Binding
	Dismiss key.Binding
}

var globalKeys = globalKeyMap{
	Quit:    key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Compose: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new post")),
	Login:   key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "sign in")),
	Profile: key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "profile")),
	Tabs:    key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "switch tab")),
	Dismiss: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "dismiss toast")),
}
