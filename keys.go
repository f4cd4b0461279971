package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left       key.Binding
	Right      key.Binding
	Up         key.Binding
	Down       key.Binding
	NextPort   key.Binding
	PrevPort   key.Binding
	Cycle      key.Binding
	Disconnect key.Binding
	Goto       key.Binding
	AddPanel   key.Binding
	CenterHub  key.Binding
	Arrange    key.Binding
	Copy       key.Binding
	Paste      key.Binding
	ExportPNG  key.Binding
	ExportTXT  key.Binding
	Zoom       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Left: key.NewBinding(
			key.WithKeys("h", "left", "H", "shift+left"),
			key.WithHelp("←/h", "pan left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right", "L", "shift+right"),
			key.WithHelp("→/l", "pan right"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up", "K", "shift+up"),
			key.WithHelp("↑/k", "pan up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down", "J", "shift+down"),
			key.WithHelp("↓/j", "pan down"),
		),
		NextPort: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next port"),
		),
		PrevPort: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev port"),
		),
		Cycle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "cycle device"),
		),
		Disconnect: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "unplug"),
		),
		Goto: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "go to panel"),
		),
		AddPanel: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add panel"),
		),
		CenterHub: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "center hub"),
		),
		Arrange: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "re-arrange"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy layout"),
		),
		Paste: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "paste layout"),
		),
		ExportPNG: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export png"),
		),
		ExportTXT: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "export txt"),
		),
		Zoom: key.NewBinding(
			key.WithKeys("+", "=", "-", "_", "0"),
			key.WithHelp("+/-/0", "zoom / reset"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Cycle, k.NextPort, k.Goto, k.Zoom, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down, k.Zoom, k.CenterHub},
		{k.NextPort, k.PrevPort, k.Cycle, k.Disconnect},
		{k.Goto, k.AddPanel, k.Arrange},
		{k.Copy, k.Paste, k.ExportPNG, k.ExportTXT, k.Help, k.Quit},
	}
}
