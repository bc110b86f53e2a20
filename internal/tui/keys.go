package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextView  key.Binding
	Board     key.Binding
	List      key.Binding
	Timeline  key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	MoveLeft  key.Binding
	MoveRight key.Binding
	Toggle    key.Binding
	Add       key.Binding
	Edit      key.Binding
	Open      key.Binding
	Delete    key.Binding
	Refresh   key.Binding
	Language  key.Binding
	Theme     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		NextView:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		Board:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "board")),
		List:      key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "list")),
		Timeline:  key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "timeline")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev column")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next column")),
		MoveLeft:  key.NewBinding(key.WithKeys("shift+left", "<"), key.WithHelp("<", "move back")),
		MoveRight: key.NewBinding(key.WithKeys("shift+right", ">"), key.WithHelp(">", "move on")),
		Toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle done")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Language:  key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "en/fr")),
		Theme:     key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "theme")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextView, k.Add, k.Toggle, k.MoveRight, k.Delete, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextView, k.Board, k.List, k.Timeline},
		{k.Up, k.Down, k.Left, k.Right},
		{k.MoveLeft, k.MoveRight, k.Toggle, k.Open},
		{k.Add, k.Edit, k.Delete, k.Refresh},
		{k.Language, k.Theme, k.Help, k.Quit},
	}
}
