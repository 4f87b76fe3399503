package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// DataView is a scrolling display of traffic.
type DataView interface {
	SetSize(width, height int)
	Width() int
	AddMessage(msg DataMsg)
	Refresh(messages []DataMsg)
	Clear()
	Formatter() *DataFormatter
	Update(msg tea.Msg) tea.Cmd
	View() string
}

// Terminal renders traffic as formatted lines in a viewport.
type Terminal struct {
	viewport  viewport.Model
	formatter *DataFormatter
	lines     []string
}

var _ DataView = (*Terminal)(nil)

func NewTerminal(width, height int) *Terminal {
	return &Terminal{
		viewport:  viewport.New(width, height),
		formatter: NewDataFormatter(true, true),
	}
}

func (t *Terminal) SetSize(width, height int) {
	t.viewport.Width = width
	t.viewport.Height = height
}

func (t *Terminal) Width() int {
	return t.viewport.Width
}

func (t *Terminal) Formatter() *DataFormatter {
	return t.formatter
}

func (t *Terminal) AddMessage(msg DataMsg) {
	t.lines = append(t.lines, t.formatter.FormatMessage(msg))
	t.render()
}

// Refresh reformats every message, e.g. after a display toggle.
func (t *Terminal) Refresh(messages []DataMsg) {
	t.lines = t.formatter.FormatMessages(messages)
	t.render()
}

func (t *Terminal) render() {
	t.viewport.SetContent(strings.Join(t.lines, "\n"))
	t.viewport.GotoBottom()
}

func (t *Terminal) Clear() {
	t.lines = nil
	t.viewport.SetContent("")
}

func (t *Terminal) Update(msg tea.Msg) tea.Cmd {
	// Key messages stay with the monitor's own bindings.
	if _, ok := msg.(tea.KeyMsg); ok {
		return nil
	}
	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return cmd
}

func (t *Terminal) View() string {
	return t.viewport.View()
}
