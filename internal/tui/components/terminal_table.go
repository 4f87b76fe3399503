package components

import (
	"strconv"

	"github.com/allbin/go-serialctl/internal/tui/colors"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type ViewMode int

const (
	ViewModeFollow ViewMode = iota
	ViewModeVisual
)

func (v ViewMode) String() string {
	if v == ViewModeVisual {
		return "VISUAL"
	}
	return "FOLLOW"
}

// TerminalTable renders traffic as one table row per chunk. In visual mode
// the rows can be scrolled; in follow mode the newest row stays in view.
type TerminalTable struct {
	table     table.Model
	formatter *DataFormatter
	viewMode  ViewMode
	messages  []DataMsg
}

var _ DataView = (*TerminalTable)(nil)

const (
	timeWidth  = 14
	dirWidth   = 3
	bytesWidth = 6
	minWidth   = 80
)

func NewTerminalTable(width, height int) *TerminalTable {
	t := table.New(
		table.WithFocused(false),
		table.WithHeight(max(height, 5)),
		table.WithWidth(max(width, minWidth)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colors.Subtext0).
		BorderBottom(true).
		Bold(true).
		Foreground(colors.Text)
	s.Selected = s.Selected.
		Foreground(colors.Text).
		Background(colors.Surface1).
		Bold(false)
	t.SetStyles(s)

	tt := &TerminalTable{
		table:     t,
		formatter: NewDataFormatter(true, true),
	}
	tt.updateColumns(width)
	return tt
}

func (tt *TerminalTable) SetSize(width, height int) {
	tt.updateColumns(width)
	tt.table.SetHeight(height)
	tt.table.SetWidth(width)
	tt.table.UpdateViewport()
}

func (tt *TerminalTable) Width() int {
	return tt.table.Width()
}

func (tt *TerminalTable) Formatter() *DataFormatter {
	return tt.formatter
}

// updateColumns lays out the data columns for the current display mode.
func (tt *TerminalTable) updateColumns(width int) {
	width = max(width, minWidth)
	mode := tt.formatter.GetDisplayMode()

	// fixed columns plus separators
	remaining := max(width-(timeWidth+dirWidth+bytesWidth+10), 20)

	columns := []table.Column{
		{Title: "Time", Width: timeWidth},
		{Title: "↕", Width: dirWidth},
	}
	switch {
	case mode.ShowHex && mode.ShowASCII:
		columns = append(columns,
			table.Column{Title: "Hex", Width: max(remaining*7/10, 20)},
			table.Column{Title: "ASCII", Width: max(remaining*3/10, 10)},
		)
	case mode.ShowHex:
		columns = append(columns, table.Column{Title: "Hex", Width: max(remaining, 30)})
	case mode.ShowASCII:
		columns = append(columns, table.Column{Title: "ASCII", Width: remaining})
	default:
		columns = append(columns, table.Column{Title: "Data", Width: max(remaining, 25)})
	}
	columns = append(columns, table.Column{Title: "Bytes", Width: bytesWidth})

	// Rows must match the new column count before the columns are swapped in.
	tt.table.SetRows(nil)
	tt.table.SetColumns(columns)
	tt.refreshRows()
}

func (tt *TerminalTable) AddMessage(msg DataMsg) {
	tt.messages = append(tt.messages, msg)
	tt.refreshRows()
}

func (tt *TerminalTable) Refresh(messages []DataMsg) {
	tt.messages = messages
	tt.updateColumns(tt.table.Width())
}

func (tt *TerminalTable) refreshRows() {
	rows := make([]table.Row, len(tt.messages))
	for i, msg := range tt.messages {
		rows[i] = tt.row(msg)
	}
	tt.table.SetRows(rows)
	if tt.viewMode == ViewModeFollow {
		tt.table.GotoBottom()
	}
	tt.table.UpdateViewport()
}

func (tt *TerminalTable) row(msg DataMsg) table.Row {
	mode := tt.formatter.GetDisplayMode()

	direction := "↙"
	if msg.IsTX {
		direction = "↗"
	}
	r := table.Row{msg.Timestamp.Format("15:04:05.000"), direction}

	if msg.Note != "" {
		r[1] = "!"
		if mode.ShowHex && mode.ShowASCII {
			r = append(r, msg.Note, "")
		} else {
			r = append(r, msg.Note)
		}
		return append(r, "")
	}

	switch {
	case mode.ShowHex && mode.ShowASCII:
		r = append(r, HexString(msg.Data), PrintableASCII(msg.Data))
	case mode.ShowHex:
		r = append(r, HexString(msg.Data))
	case mode.ShowASCII:
		r = append(r, PrintableASCII(msg.Data))
	default:
		r = append(r, strconv.Itoa(len(msg.Data))+" bytes")
	}
	return append(r, strconv.Itoa(len(msg.Data)))
}

func (tt *TerminalTable) Clear() {
	tt.messages = nil
	tt.table.SetRows(nil)
}

func (tt *TerminalTable) GetViewMode() ViewMode {
	return tt.viewMode
}

func (tt *TerminalTable) SetViewMode(mode ViewMode) {
	tt.viewMode = mode
	if mode == ViewModeFollow {
		if len(tt.messages) > 0 {
			tt.table.SetCursor(len(tt.messages) - 1)
		}
		tt.table.GotoBottom()
		tt.table.Blur()
	} else {
		tt.table.Focus()
	}
	tt.table.UpdateViewport()
}

func (tt *TerminalTable) Update(msg tea.Msg) tea.Cmd {
	if tt.viewMode != ViewModeVisual {
		return nil
	}
	var cmd tea.Cmd
	tt.table, cmd = tt.table.Update(msg)
	return cmd
}

func (tt *TerminalTable) View() string {
	return tt.table.View()
}
