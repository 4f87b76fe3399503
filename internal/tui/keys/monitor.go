package keys

import "github.com/charmbracelet/bubbles/key"

// MonitorKeys adds sending and table navigation to the display bindings
type MonitorKeys struct {
	TerminalKeys
	Enter          key.Binding
	ToggleSendMode key.Binding
	Up             key.Binding
	Down           key.Binding
	VisualMode     key.Binding
}

func NewMonitorKeys() MonitorKeys {
	up := bind("previous input", "up")
	up.SetHelp("↑", "previous input")
	down := bind("next input", "down")
	down.SetHelp("↓", "next input")
	return MonitorKeys{
		TerminalKeys:   NewTerminalKeys(),
		Enter:          bind("send line", "enter"),
		ToggleSendMode: bind("ascii/hex input", "tab"),
		Up:             up,
		Down:           down,
		VisualMode:     bind("scroll table", "v"),
	}
}

func (k MonitorKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.InsertMode, k.Enter, k.Quit}
}

func (k MonitorKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.InsertMode, k.VisualMode, k.Escape, k.Clear, k.Poll},
		{k.ToggleHex, k.ToggleASCII, k.ToggleTimestamps, k.ToggleSendMode},
		{k.Enter, k.Up, k.Down, k.Help, k.Quit},
	}
}
