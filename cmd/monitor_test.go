package cmd

import (
	"errors"
	"testing"
	"time"

	serial "github.com/allbin/go-serialctl"
	"github.com/allbin/go-serialctl/internal/tui/components"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type monitorPort struct {
	reads   [][]byte
	sent    [][]byte
	sendErr error
	state   serial.State
	closed  bool
}

func (p *monitorPort) ReadPort(count int) ([]byte, error) {
	if len(p.reads) == 0 {
		return nil, nil
	}
	data := p.reads[0]
	p.reads = p.reads[1:]
	return data, nil
}

func (p *monitorPort) SendMessage(data []byte, settle time.Duration) error {
	if p.sendErr != nil {
		return p.sendErr
	}
	p.sent = append(p.sent, data)
	return nil
}

func (p *monitorPort) State() serial.State { return p.state }

func (p *monitorPort) Close() error {
	p.closed = true
	p.state = serial.StateSet
	return nil
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestMonitor(t *testing.T, port *monitorPort, table bool) *monitorModel {
	t.Helper()
	m := newMonitorModel(port, "/dev/ttyS0", serial.DefaultSettings(), time.Millisecond, "\r\n", table)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	require.True(t, m.session.IsReady())
	return m
}

func TestMonitorPollsPort(t *testing.T) {
	port := &monitorPort{state: serial.StateOpened, reads: [][]byte{[]byte("OK\r\n")}}
	m := newTestMonitor(t, port, false)

	_, cmd := m.Update(pollMsg(time.Now()))
	assert.NotNil(t, cmd, "next poll should be scheduled")
	require.Len(t, m.session.Messages(), 1)
	assert.Equal(t, []byte("OK\r\n"), m.session.Messages()[0].Data)

	// Nothing buffered still reschedules.
	_, cmd = m.Update(pollMsg(time.Now()))
	assert.NotNil(t, cmd)
	assert.Len(t, m.session.Messages(), 1)
}

func TestMonitorStopsPollingWhenPortCloses(t *testing.T) {
	port := &monitorPort{state: serial.StateSet}
	m := newTestMonitor(t, port, false)

	_, cmd := m.Update(pollMsg(time.Now()))
	assert.Nil(t, cmd)
}

func TestMonitorPauseSkipsReads(t *testing.T) {
	port := &monitorPort{state: serial.StateOpened, reads: [][]byte{[]byte("x")}}
	m := newTestMonitor(t, port, false)

	m.Update(runes("p"))
	require.True(t, m.session.IsPaused())
	m.Update(pollMsg(time.Now()))
	assert.Len(t, port.reads, 1)

	m.Update(runes("p"))
	m.Update(pollMsg(time.Now()))
	assert.Empty(t, port.reads)
}

func TestMonitorSendsInput(t *testing.T) {
	port := &monitorPort{state: serial.StateOpened}
	m := newTestMonitor(t, port, false)

	m.Update(runes("i"))
	require.True(t, m.session.IsInInsertMode())

	m.input.SetValue("AT")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, port.sent, 1)
	assert.Equal(t, []byte("AT\r\n"), port.sent[0])
	assert.Empty(t, m.input.Value())

	msgs := m.session.Messages()
	require.NotEmpty(t, msgs)
	assert.True(t, msgs[len(msgs)-1].IsTX)
	assert.Equal(t, components.TxWritten, msgs[len(msgs)-1].Status)
}

func TestMonitorHexInput(t *testing.T) {
	port := &monitorPort{state: serial.StateOpened}
	m := newTestMonitor(t, port, false)

	m.Update(runes("i"))
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, components.SendingModeHex, m.input.GetSendingMode())

	m.input.SetValue("41 54 0D")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, port.sent, 1)
	assert.Equal(t, []byte("AT\r"), port.sent[0], "hex input is sent without a line ending")

	m.input.SetValue("4")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Len(t, port.sent, 1)
	msgs := m.session.Messages()
	assert.Contains(t, msgs[len(msgs)-1].Note, "Invalid hex input")
}

func TestMonitorSendFailure(t *testing.T) {
	port := &monitorPort{state: serial.StateOpened, sendErr: errors.New("write failed")}
	m := newTestMonitor(t, port, false)

	m.Update(runes("i"))
	m.input.SetValue("AT")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	msgs := m.session.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, components.TxError, msgs[0].Status)
	assert.Error(t, m.session.Err())
}

func TestMonitorQuitClosesPort(t *testing.T) {
	port := &monitorPort{state: serial.StateOpened}
	m := newTestMonitor(t, port, false)

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.True(t, port.closed)
	assert.NoError(t, m.closeErr)
}

func TestMonitorVisualMode(t *testing.T) {
	port := &monitorPort{state: serial.StateOpened}
	m := newTestMonitor(t, port, true)

	m.Update(runes("v"))
	assert.Equal(t, components.ViewModeVisual, m.table.GetViewMode())

	m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	assert.Equal(t, components.ViewModeFollow, m.table.GetViewMode())
	assert.False(t, port.closed)

	// Without a table, v is a no-op.
	plain := newTestMonitor(t, &monitorPort{state: serial.StateOpened}, false)
	plain.Update(runes("v"))
	assert.Nil(t, plain.table)
}
