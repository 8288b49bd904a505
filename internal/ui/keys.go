package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	ForceQuit  key.Binding
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Activity   key.Binding
	Back       key.Binding

	// Header menus
	MenuSearch key.Binding
	MenuSample key.Binding

	// Search bar
	FocusInput key.Binding
	Submit     key.Binding
	Reset      key.Binding
	LeaveInput key.Binding

	// Results
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Open   key.Binding
	Poster key.Binding

	// Poster
	Copy key.Binding

	// Activity overlay
	Refresh key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Activity: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Activity log"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "Back"),
		),

		MenuSearch: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Search"),
		),
		MenuSample: key.NewBinding(
			key.WithKeys("2", "s"),
			key.WithHelp("2/s", "Sample movie"),
		),

		FocusInput: key.NewBinding(
			key.WithKeys("/", "i"),
			key.WithHelp("/", "Edit search"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Search"),
		),
		Reset: key.NewBinding(
			key.WithKeys("ctrl+r", "R"),
			key.WithHelp("R/ctrl+r", "Reset"),
		),
		LeaveInput: key.NewBinding(
			key.WithKeys("esc", "tab"),
			key.WithHelp("esc/tab", "Leave search box"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Movie details"),
		),
		Poster: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "Poster"),
		),

		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "Copy poster URL"),
		),

		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload log"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.FocusInput, k.Open, k.Poster, k.Reset, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay, one group per column.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.FocusInput, k.Submit, k.Reset, k.LeaveInput},
		{k.Up, k.Down, k.Top, k.Bottom, k.Open, k.Poster},
		{k.MenuSearch, k.MenuSample, k.Back, k.Copy},
		{k.CycleTheme, k.Activity, k.Help, k.Quit},
	}
}
