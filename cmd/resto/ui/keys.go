package ui

import "github.com/charmbracelet/bubbles/key"

// listingKeyMap holds the listing screen bindings. It implements
// help.KeyMap.
type listingKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Open     key.Binding
	Search   key.Binding
	City     key.Binding
	More     key.Binding
	ClearAll key.Binding
	Retry    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newListingKeyMap() listingKeyMap {
	return listingKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		City:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "next city")),
		More:     key.NewBinding(key.WithKeys("m", " "), key.WithHelp("m", "load more")),
		ClearAll: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear all")),
		Retry:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
	}
}

func (k listingKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Search, k.City, k.More, k.Help, k.Quit}
}

func (k listingKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open},
		{k.Search, k.City, k.ClearAll},
		{k.More, k.Retry},
		{k.Help, k.Quit},
	}
}

// detailKeyMap holds the detail screen bindings.
type detailKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	More   key.Binding
	Review key.Binding
	Retry  key.Binding
	Help   key.Binding
	Back   key.Binding
}

func newDetailKeyMap() detailKeyMap {
	return detailKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k", "pgup"), key.WithHelp("↑/k", "scroll up")),
		Down:   key.NewBinding(key.WithKeys("down", "j", "pgdown"), key.WithHelp("↓/j", "scroll down")),
		More:   key.NewBinding(key.WithKeys("m", " "), key.WithHelp("m", "more reviews")),
		Review: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "write a review")),
		Retry:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Back:   key.NewBinding(key.WithKeys("esc", "q", "backspace"), key.WithHelp("esc", "back")),
	}
}

func (k detailKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.More, k.Review, k.Help, k.Back}
}

func (k detailKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.More, k.Review, k.Retry},
		{k.Help, k.Back},
	}
}

// modalKeyMap holds the review modal bindings.
type modalKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Cancel key.Binding
}

func newModalKeyMap() modalKeyMap {
	return modalKeyMap{
		Next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
		Submit: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (k modalKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Submit, k.Cancel}
}

func (k modalKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Next, k.Prev}, {k.Submit, k.Cancel}}
}
