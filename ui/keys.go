package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/shameless/shameless/internal/i18n"
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Select  key.Binding
	Back    key.Binding
	Skip    key.Binding
	SkipAll key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "next"),
		),
		Back: key.NewBinding(
			key.WithKeys("left", "h", "backspace"),
			key.WithHelp("←", "back"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip"),
		),
		SkipAll: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "skip onboarding"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// localize relabels the navigation bindings in lang.
func (k *keyMap) localize(cat *i18n.Catalog, lang string) {
	k.Select.SetHelp("enter", cat.Lookup(lang, "nav.next"))
	k.Back.SetHelp("←", cat.Lookup(lang, "nav.back"))
	k.Skip.SetHelp("s", cat.Lookup(lang, "nav.skip"))
	k.SkipAll.SetHelp("esc", cat.Lookup(lang, "nav.skip_all"))
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Back, k.Skip, k.SkipAll, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Back, k.Skip, k.SkipAll, k.Quit},
	}
}
