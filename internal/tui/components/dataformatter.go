package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/allbin/go-serialctl/internal/tui/colors"
	"github.com/charmbracelet/lipgloss"
)

// TX outcomes shown next to sent data.
const (
	TxWritten = "WRITTEN"
	TxError   = "ERROR"
)

// DataMsg is one chunk of traffic: a ReadPort result or a SendMessage call.
type DataMsg struct {
	Timestamp time.Time
	Data      []byte
	IsTX      bool
	Status    string // TX only
	Note      string // local notices such as input errors; Data is empty
}

type DisplayMode struct {
	ShowHex        bool
	ShowASCII      bool
	ShowTimestamps bool
}

type DataFormatter struct {
	mode DisplayMode
}

func NewDataFormatter(showHex, showASCII bool) *DataFormatter {
	return &DataFormatter{
		mode: DisplayMode{
			ShowHex:        showHex,
			ShowASCII:      showASCII,
			ShowTimestamps: true,
		},
	}
}

func (df *DataFormatter) GetDisplayMode() DisplayMode {
	return df.mode
}

func (df *DataFormatter) FormatMessage(msg DataMsg) string {
	var prefix string
	if df.mode.ShowTimestamps {
		prefix = lipgloss.NewStyle().
			Foreground(colors.Subtext0).
			Render("["+msg.Timestamp.Format("15:04:05.000")+"]") + " "
	}

	if msg.Note != "" {
		note := lipgloss.NewStyle().Foreground(colors.Red).Render("! " + msg.Note)
		return prefix + note
	}

	return fmt.Sprintf("%s%s: %s", prefix, indicator(msg), strings.Join(df.parts(msg.Data), "  "))
}

func (df *DataFormatter) parts(data []byte) []string {
	var parts []string
	if df.mode.ShowHex {
		parts = append(parts, "HEX: "+HexString(data))
	}
	if df.mode.ShowASCII {
		parts = append(parts, "ASCII: "+PrintableASCII(data))
	}
	if !df.mode.ShowHex && !df.mode.ShowASCII {
		parts = append(parts, fmt.Sprintf("BYTES: %d", len(data)))
	}
	return parts
}

func indicator(msg DataMsg) string {
	if !msg.IsTX {
		return lipgloss.NewStyle().
			Foreground(colors.Sky).
			Bold(true).
			Render("↙ RX")
	}

	var txColor lipgloss.Color
	var text string
	switch msg.Status {
	case TxWritten:
		txColor = colors.Green
		text = "TX ✓"
	case TxError:
		txColor = colors.Red
		text = "TX ✗"
	default:
		txColor = colors.Peach
		text = "TX"
	}
	return lipgloss.NewStyle().
		Foreground(txColor).
		Bold(true).
		Render("↗ " + text)
}

func (df *DataFormatter) FormatMessages(messages []DataMsg) []string {
	formatted := make([]string, len(messages))
	for i, msg := range messages {
		formatted[i] = df.FormatMessage(msg)
	}
	return formatted
}

func (df *DataFormatter) ToggleHex() {
	df.mode.ShowHex = !df.mode.ShowHex
}

func (df *DataFormatter) ToggleASCII() {
	df.mode.ShowASCII = !df.mode.ShowASCII
}

func (df *DataFormatter) ToggleTimestamps() {
	df.mode.ShowTimestamps = !df.mode.ShowTimestamps
}

// HexString renders data as space separated upper-case hex pairs.
func HexString(data []byte) string {
	return fmt.Sprintf("% X", data)
}

// PrintableASCII replaces everything outside printable ASCII with dots so
// device output cannot inject terminal control sequences.
func PrintableASCII(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		if c >= 32 && c <= 126 {
			b.WriteByte(c)
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}
