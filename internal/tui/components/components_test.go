package components

import (
	"strings"
	"testing"
	"time"

	serial "github.com/allbin/go-serialctl"
	"github.com/stretchr/testify/assert"
)

func TestPrintableASCII(t *testing.T) {
	tests := []struct {
		input []byte
		want  string
	}{
		{[]byte("OK"), "OK"},
		{[]byte("OK\r\n"), "OK.."},
		{[]byte{0x1b, '[', '2', 'J'}, ".[2J"},
		{[]byte{0x00, 0x7f, 0xff}, "..."},
		{nil, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PrintableASCII(tt.input))
	}
}

func TestHexString(t *testing.T) {
	assert.Equal(t, "41 54 0D", HexString([]byte("AT\r")))
	assert.Equal(t, "", HexString(nil))
}

func TestLineSettings(t *testing.T) {
	assert.Equal(t, "9600 8N1", LineSettings(serial.DefaultSettings()))
	assert.Equal(t, "115200 7E2", LineSettings(serial.Settings{
		BaudRate: 115200,
		DataBits: 7,
		Parity:   serial.ParityEven,
		StopBits: serial.StopBitsTwo,
	}))
	assert.Equal(t, "4800 8O1.5", LineSettings(serial.Settings{
		BaudRate: 4800,
		DataBits: 8,
		Parity:   serial.ParityOdd,
		StopBits: serial.StopBitsOnePointFive,
	}))
}

func TestFormatMessage(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	df := NewDataFormatter(true, true)

	rx := df.FormatMessage(DataMsg{Timestamp: ts, Data: []byte("OK")})
	assert.Contains(t, rx, "03:04:05.000")
	assert.Contains(t, rx, "RX")
	assert.Contains(t, rx, "HEX: 4F 4B")
	assert.Contains(t, rx, "ASCII: OK")

	df.ToggleHex()
	df.ToggleTimestamps()
	tx := df.FormatMessage(DataMsg{Timestamp: ts, Data: []byte("AT"), IsTX: true, Status: TxWritten})
	assert.NotContains(t, tx, "03:04:05")
	assert.NotContains(t, tx, "HEX:")
	assert.Contains(t, tx, "TX ✓")

	df.ToggleASCII()
	assert.Contains(t, df.FormatMessage(DataMsg{Data: []byte("abc")}), "BYTES: 3")

	note := df.FormatMessage(DataMsg{Note: "Invalid hex input"})
	assert.Contains(t, note, "Invalid hex input")
	assert.NotContains(t, note, "BYTES")
}

func TestInputHistory(t *testing.T) {
	in := NewInput()
	in.AddToHistory("AT")
	in.AddToHistory("AT")
	in.AddToHistory("  ")
	in.AddToHistory("ATI")

	in.SetValue("draft")
	in.NavigateHistoryUp()
	assert.Equal(t, "ATI", in.Value())
	in.NavigateHistoryUp()
	assert.Equal(t, "AT", in.Value())
	in.NavigateHistoryUp()
	assert.Equal(t, "AT", in.Value(), "stays on the oldest entry")

	in.NavigateHistoryDown()
	assert.Equal(t, "ATI", in.Value())
	in.NavigateHistoryDown()
	assert.Equal(t, "draft", in.Value(), "restores the line being typed")
}

func TestInputSendingMode(t *testing.T) {
	in := NewInput()
	assert.Equal(t, SendingModeASCII, in.GetSendingMode())
	in.ToggleSendingMode()
	assert.Equal(t, SendingModeHex, in.GetSendingMode())
	in.ToggleSendingMode()
	assert.Equal(t, SendingModeASCII, in.GetSendingMode())
}

func TestTerminalTableRows(t *testing.T) {
	tt := NewTerminalTable(100, 10)
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	row := tt.row(DataMsg{Timestamp: ts, Data: []byte("OK")})
	assert.Equal(t, "03:04:05.000", row[0])
	assert.Equal(t, "↙", row[1])
	assert.Equal(t, "2", row[len(row)-1])

	tt.Formatter().ToggleHex()
	tt.Formatter().ToggleASCII()
	row = tt.row(DataMsg{Timestamp: ts, Data: []byte("AT"), IsTX: true})
	assert.Equal(t, "↗", row[1])
	assert.Equal(t, "2 bytes", row[2])

	note := tt.row(DataMsg{Timestamp: ts, Note: "paused"})
	assert.Equal(t, "!", note[1])
	assert.True(t, strings.Contains(note[2], "paused"))
}

func TestTerminalKeepsLines(t *testing.T) {
	term := NewTerminal(80, 10)
	term.AddMessage(DataMsg{Data: []byte("one")})
	term.AddMessage(DataMsg{Data: []byte("two")})
	assert.Contains(t, term.View(), "two")

	term.Clear()
	assert.NotContains(t, term.View(), "two")
}
