// Package keys holds the key maps of the serialctl terminal views.
package keys

import "github.com/charmbracelet/bubbles/key"

// bind builds a binding whose help line shows the first key.
func bind(desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], desc))
}

// CommonKeys covers quitting, help and the vim-like insert/normal switch.
type CommonKeys struct {
	Quit       key.Binding
	Help       key.Binding
	InsertMode key.Binding
	Escape     key.Binding
}

func NewCommonKeys() CommonKeys {
	quit := bind("quit", "q", "Q", "ctrl+c")
	quit.SetHelp("q/ctrl+c", "quit")
	return CommonKeys{
		Quit:       quit,
		Help:       bind("toggle help", "?"),
		InsertMode: bind("insert mode", "i", "I"),
		Escape:     bind("normal mode", "esc"),
	}
}

// TerminalKeys adds the bindings that change how traffic is shown and
// whether the port is polled.
type TerminalKeys struct {
	CommonKeys
	Clear            key.Binding
	ToggleHex        key.Binding
	ToggleASCII      key.Binding
	ToggleTimestamps key.Binding
	Poll             key.Binding
}

func NewTerminalKeys() TerminalKeys {
	return TerminalKeys{
		CommonKeys:       NewCommonKeys(),
		Clear:            bind("clear log", "c"),
		ToggleHex:        bind("hex column", "h"),
		ToggleASCII:      bind("ascii column", "a"),
		ToggleTimestamps: bind("timestamps", "t"),
		Poll:             bind("pause/resume polling", "p"),
	}
}

func (k TerminalKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Poll, k.Clear, k.Quit}
}

func (k TerminalKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ToggleHex, k.ToggleASCII, k.ToggleTimestamps},
		{k.Clear, k.Poll, k.Help, k.Quit},
	}
}
