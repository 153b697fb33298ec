package table

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the viewer bindings. Row navigation keys belong to the
// embedded bubbles table.
type KeyMap struct {
	FocusLeft  key.Binding
	FocusRight key.Binding
	Sort       key.Binding
	MoveLeft   key.Binding
	MoveRight  key.Binding
	Grow       key.Binding
	Shrink     key.Binding
	Customize  key.Binding
	Expand     key.Binding
	Copy       key.Binding
	Help       key.Binding
	Quit       key.Binding

	PanelUp     key.Binding
	PanelDown   key.Binding
	PanelToggle key.Binding
	PanelClose  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		FocusLeft:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev column")),
		FocusRight: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next column")),
		Sort:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		MoveLeft:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "move left")),
		MoveRight:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "move right")),
		Grow:       key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "wider")),
		Shrink:     key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "narrower")),
		Customize:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "columns")),
		Expand:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Copy:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy row")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		PanelUp:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		PanelDown:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PanelToggle: key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "show/hide")),
		PanelClose:  key.NewBinding(key.WithKeys("esc", "c", "enter"), key.WithHelp("esc", "close")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.FocusLeft, k.FocusRight, k.Sort, k.Customize, k.Expand, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.FocusLeft, k.FocusRight, k.Sort},
		{k.MoveLeft, k.MoveRight, k.Grow, k.Shrink},
		{k.Customize, k.Expand, k.Copy},
		{k.Help, k.Quit},
	}
}
