package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Release key.Binding
	Skip    key.Binding
	Back    key.Binding
	Restart key.Binding
	Pick    key.Binding
	Random  key.Binding
	Scheme  key.Binding
	Stats   key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Release: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "release chord")),
		Skip:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "skip")),
		Back:    key.NewBinding(key.WithKeys("backspace"), key.WithHelp("bksp", "back")),
		Restart: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "restart/drills")),
		Pick:    key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("^o", "drills")),
		Random:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("^r", "random")),
		Scheme:  key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("^n", "next scheme")),
		Stats:   key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("^t", "stats")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("^c", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Release, k.Skip, k.Back, k.Restart, k.Random, k.Scheme, k.Stats, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Release, k.Skip, k.Back, k.Restart},
		{k.Pick, k.Random, k.Scheme, k.Stats, k.Quit},
	}
}

var _ help.KeyMap = keyMap{}
