package study

import "charm.land/bubbles/v2/key"

type keyMap struct {
	Next       key.Binding
	Prev       key.Binding
	Covered    key.Binding
	Generate   key.Binding
	Help       key.Binding
	Shorter    key.Binding
	Longer     key.Binding
	Save       key.Binding
	FocusNext  key.Binding
	FocusPrev  key.Binding
	Activate   key.Binding
	MarkAsked  key.Binding
	Reveal     key.Binding
	Pin        key.Binding
	Export     key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:       key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next block")),
		Prev:       key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "previous block")),
		Covered:    key.NewBinding(key.WithKeys("m", "M"), key.WithHelp("m", "toggle covered")),
		Generate:   key.NewBinding(key.WithKeys("g", "G"), key.WithHelp("g", "generate MCQs")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Shorter:    key.NewBinding(key.WithKeys("["), key.WithHelp("[", "shorter")),
		Longer:     key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "longer")),
		Save:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save duration")),
		FocusNext:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next control")),
		FocusPrev:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous control")),
		Activate:   key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("enter", "activate")),
		MarkAsked:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "mark asked")),
		Reveal:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "show answer")),
		Pin:        key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pin note")),
		Export:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		ScrollUp:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		ScrollDown: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Generate, k.Covered, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.ScrollUp, k.ScrollDown},
		{k.Generate, k.Covered, k.FocusNext, k.FocusPrev, k.Activate},
		{k.MarkAsked, k.Reveal, k.Shorter, k.Longer, k.Save},
		{k.Pin, k.Export, k.Help},
	}
}
