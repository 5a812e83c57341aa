package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the list-mode bindings shown in the help line
type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Add        key.Binding
	Toggle     key.Binding
	Edit       key.Binding
	Delete     key.Binding
	ClearDone  key.Binding
	NextFilter key.Binding
	FilterAll  key.Binding
	FilterOpen key.Binding
	FilterDone key.Binding
	Demo       key.Binding
	Theme      key.Binding
	Help       key.Binding
	Quit       key.Binding
	Interrupt  key.Binding
	Submit     key.Binding
	Cancel     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		Add:        key.NewBinding(key.WithKeys("a", "i"), key.WithHelp("a", "add")),
		Toggle:     key.NewBinding(key.WithKeys(" ", "space", "x"), key.WithHelp("space", "done")),
		Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:     key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		ClearDone:  key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear completed")),
		NextFilter: key.NewBinding(key.WithKeys("f", "tab"), key.WithHelp("f", "next filter")),
		FilterAll:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		FilterOpen: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "active")),
		FilterDone: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "completed")),
		Demo:       key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "demo tasks")),
		Theme:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Interrupt:  key.NewBinding(key.WithKeys("ctrl+c")),
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Edit, k.Delete, k.NextFilter, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Add, k.Edit},
		{k.Toggle, k.Delete, k.ClearDone, k.Demo},
		{k.NextFilter, k.FilterAll, k.FilterOpen, k.FilterDone},
		{k.Theme, k.Help, k.Quit},
	}
}

// inputKeyMap is shown while the text input has focus
type inputKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
}

func (k inputKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Cancel}
}

func (k inputKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
