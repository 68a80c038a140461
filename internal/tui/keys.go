package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Success      key.Binding
	Error        key.Binding
	Warning      key.Binding
	Info         key.Binding
	Plain        key.Binding
	Loading      key.Binding
	Promise      key.Binding
	Custom       key.Binding
	WithAction   key.Binding
	Trigger      key.Binding
	Cancel       key.Binding
	Dismiss      key.Binding
	DismissAll   key.Binding
	Pause        key.Binding
	NextPosition key.Binding
	More         key.Binding
	Fewer        key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Success:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "success")),
		Error:        key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "error")),
		Warning:      key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "warning")),
		Info:         key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "info")),
		Plain:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "plain")),
		Loading:      key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "loading")),
		Promise:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "promise")),
		Custom:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "custom")),
		WithAction:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "with action")),
		Trigger:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run action")),
		Cancel:       key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "cancel")),
		Dismiss:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dismiss newest")),
		DismissAll:   key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "dismiss all")),
		Pause:        key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "pause/resume")),
		NextPosition: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next position")),
		More:         key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more cards")),
		Fewer:        key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "fewer cards")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Success, k.Error, k.Promise, k.Dismiss, k.Pause, k.NextPosition, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Success, k.Error, k.Warning, k.Info, k.Plain},
		{k.Loading, k.Promise, k.Custom, k.WithAction},
		{k.Trigger, k.Cancel, k.Dismiss, k.DismissAll},
		{k.Pause, k.NextPosition, k.More, k.Fewer},
		{k.Help, k.Quit},
	}
}
