/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	serial "github.com/allbin/go-serialctl"
	"github.com/allbin/go-serialctl/internal/tui/components"
	"github.com/allbin/go-serialctl/internal/tui/keys"
	"github.com/allbin/go-serialctl/internal/tui/models"
	"github.com/allbin/go-serialctl/internal/tui/styles"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor <port>",
	Short: "Interactive terminal for a serial port",
	Long: `Open a serial port in an interactive terminal that polls it for incoming
data and sends typed lines.

The port is polled every --interval with a non-blocking read, so an idle
device never stalls the interface. Press 'i' to type, Enter to send and Tab
to switch between ASCII and hex input. 'p' pauses polling.

With --table traffic is shown as a table; 'v' then enters visual mode to
scroll through it.

Example usage:
  serialctl monitor /dev/ttyUSB0
  serialctl monitor /dev/ttyUSB0 --baud 115200 --line-ending crlf
  serialctl monitor COM3 --table --interval 20ms`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		interval, _ := cmd.Flags().GetDuration("interval")
		lineEnding, _ := cmd.Flags().GetString("line-ending")
		useTable, _ := cmd.Flags().GetBool("table")

		ending, err := parseLineEnding(lineEnding)
		if err != nil {
			return err
		}
		if interval <= 0 {
			return fmt.Errorf("interval must be positive, got %v", interval)
		}

		port, settings, err := preparePort(args[0], true)
		if err != nil {
			return err
		}
		defer func() {
			if port.State() == serial.StateOpened {
				closePort(port, &err)
			}
		}()

		m := newMonitorModel(port, port.Device(), settings, interval, ending, useTable)
		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return err
		}
		return m.closeErr
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().Duration("interval", 50*time.Millisecond, "Time between polls of the port")
	monitorCmd.Flags().String("line-ending", "lf", "Appended to ASCII input: lf, crlf, cr, none")
	monitorCmd.Flags().Bool("table", false, "Show traffic as a table")
}

var lineEndings = map[string]string{
	"lf":   "\n",
	"crlf": "\r\n",
	"cr":   "\r",
	"none": "",
}

func parseLineEnding(name string) (string, error) {
	ending, ok := lineEndings[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("unknown line ending %q (want lf, crlf, cr or none)", name)
	}
	return ending, nil
}

// pollMsg triggers one non-blocking read of the port.
type pollMsg time.Time

func pollAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return pollMsg(t) })
}

// monitorModel drives a Session from the Bubble Tea loop. All port I/O
// happens in Update.
type monitorModel struct {
	session    *models.Session
	view       components.DataView
	table      *components.TerminalTable
	statusBar  *components.StatusBar
	input      *components.Input
	help       help.Model
	keys       keys.MonitorKeys
	interval   time.Duration
	lineEnding string
	closeErr   error
}

func newMonitorModel(port models.Port, device string, settings serial.Settings, interval time.Duration, lineEnding string, useTable bool) *monitorModel {
	m := &monitorModel{
		session:    models.NewSession(port, device),
		statusBar:  components.NewStatusBar(device, settings),
		input:      components.NewInput(),
		help:       help.New(),
		keys:       keys.NewMonitorKeys(),
		interval:   interval,
		lineEnding: lineEnding,
	}
	if useTable {
		m.table = components.NewTerminalTable(0, 0)
		m.view = m.table
	} else {
		m.view = components.NewTerminal(0, 0)
	}
	m.statusBar.SetState(port.State())
	return m
}

func (m *monitorModel) Init() tea.Cmd {
	return pollAfter(m.interval)
}

func (m *monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Top border, input box and status bar.
		const verticalMargin = 1 + 3 + 1
		m.view.SetSize(msg.Width, max(msg.Height-verticalMargin, 1))
		m.input.SetWidth(msg.Width)
		m.statusBar.SetWidth(msg.Width)
		m.help.Width = msg.Width
		m.session.SetReady(true)

	case pollMsg:
		return m, m.poll(time.Time(msg))

	case tea.KeyMsg:
		if m.session.IsInInsertMode() {
			if cmd, handled := m.insertKey(msg); handled {
				return m, cmd
			}
		} else if m.table != nil && m.table.GetViewMode() == components.ViewModeVisual {
			if key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.VisualMode) {
				m.table.SetViewMode(components.ViewModeFollow)
				return m, nil
			}
			if key.Matches(msg, m.keys.Quit) {
				return m, m.quit()
			}
			return m, m.view.Update(msg)
		} else if cmd, handled := m.normalKey(msg); handled {
			return m, cmd
		}
	}

	if m.session.IsInInsertMode() {
		cmds = append(cmds, m.input.Update(msg))
	}
	if _, ok := msg.(tea.KeyMsg); !ok {
		cmds = append(cmds, m.view.Update(msg))
	}
	return m, tea.Batch(cmds...)
}

// poll reads once and schedules the next poll unless the port has gone.
func (m *monitorModel) poll(now time.Time) tea.Cmd {
	data, ok, err := m.session.Poll(now)
	if ok && m.session.IsReady() {
		m.view.AddMessage(data)
		m.statusBar.CountRX(len(data.Data))
	}
	m.statusBar.SetError(err)
	m.statusBar.SetState(m.session.State())
	if err != nil {
		logger.Debug("poll failed", zap.Error(err))
	}
	if m.session.State() != serial.StateOpened {
		return nil
	}
	return pollAfter(m.interval)
}

func (m *monitorModel) insertKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.session.SetInputMode(models.InputModeNormal)
		m.input.Blur()
	case key.Matches(msg, m.keys.Enter):
		m.send(time.Now())
	case key.Matches(msg, m.keys.Up):
		m.input.NavigateHistoryUp()
	case key.Matches(msg, m.keys.Down):
		m.input.NavigateHistoryDown()
	case key.Matches(msg, m.keys.ToggleSendMode):
		m.input.ToggleSendingMode()
	default:
		return nil, false
	}
	return nil, true
}

func (m *monitorModel) normalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit(), true
	case key.Matches(msg, m.keys.InsertMode):
		m.session.SetInputMode(models.InputModeInsert)
		m.input.Focus()
	case key.Matches(msg, m.keys.VisualMode):
		if m.table != nil {
			m.table.SetViewMode(components.ViewModeVisual)
		}
	case key.Matches(msg, m.keys.Clear):
		m.session.Clear()
		m.view.Clear()
		m.statusBar.ResetCounters()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.ToggleHex):
		m.view.Formatter().ToggleHex()
		m.view.Refresh(m.session.Messages())
	case key.Matches(msg, m.keys.ToggleASCII):
		m.view.Formatter().ToggleASCII()
		m.view.Refresh(m.session.Messages())
	case key.Matches(msg, m.keys.ToggleTimestamps):
		m.view.Formatter().ToggleTimestamps()
		m.view.Refresh(m.session.Messages())
	case key.Matches(msg, m.keys.Poll):
		paused := m.session.TogglePaused()
		m.view.AddMessage(m.session.Note(fmt.Sprintf("polling paused: %t", paused), time.Now()))
	case key.Matches(msg, m.keys.ToggleSendMode):
		m.input.ToggleSendingMode()
	default:
		return nil, false
	}
	return nil, true
}

// send writes the input line. Hex input that does not parse is logged as a
// note and nothing is written.
func (m *monitorModel) send(now time.Time) {
	line := m.input.Value()
	if line == "" {
		return
	}

	var data []byte
	switch m.input.GetSendingMode() {
	case components.SendingModeHex:
		parsed, err := parseHexString(line)
		if err != nil {
			m.view.AddMessage(m.session.Note(fmt.Sprintf("Invalid hex input: %v", err), now))
			return
		}
		data = parsed
	default:
		data = []byte(line + m.lineEnding)
	}

	msg, err := m.session.Send(data, now)
	m.view.AddMessage(msg)
	m.statusBar.SetError(err)
	m.statusBar.SetState(m.session.State())
	if err == nil {
		m.statusBar.CountTX(len(data))
	}

	m.input.AddToHistory(line)
	m.input.SetValue("")
}

func (m *monitorModel) quit() tea.Cmd {
	if m.session.State() == serial.StateOpened {
		m.closeErr = m.session.Close()
	}
	return tea.Quit
}

func (m *monitorModel) View() string {
	content := "Initializing..."
	if m.session.IsReady() {
		content = m.view.View()
	}
	if m.help.ShowAll {
		content = styles.HelpStyle.Render(m.help.View(m.keys))
	}

	viewMode := ""
	if m.table != nil {
		viewMode = m.table.GetViewMode().String()
	}
	statusBar := m.statusBar.View(
		m.session.GetInputMode().String(),
		m.input.GetSendingMode().String(),
		viewMode,
		time.Now().Format("15:04:05"),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ContentBorderStyle.Render(content),
		m.input.View(m.session.IsInInsertMode()),
		statusBar,
	)
}
