package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/desertthunder/vidtube/internal/i18n"
)

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	panel   key.Binding
	back    key.Binding
	session key.Binding
	quit    key.Binding
	force   key.Binding
}

func newKeyMap(tr *i18n.Translator) keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", tr.T("help_select", nil))),
		panel:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", tr.T("help_toggle_panel", nil))),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", tr.T("help_toggle_panel", nil))),
		session: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", tr.T("help_sign_in", nil)+"/"+tr.T("help_sign_out", nil))),
		quit:    key.NewBinding(key.WithKeys("q"), key.WithHelp("q", tr.T("help_quit", nil))),
		force:   key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.panel, k.enter, k.session, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.panel, k.back},
		{k.session, k.quit},
	}
}
