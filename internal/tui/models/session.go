package models

import (
	"time"

	serial "github.com/allbin/go-serialctl"
	"github.com/allbin/go-serialctl/internal/tui/components"
)

// InputMode represents the current input mode (vim-like)
type InputMode int

const (
	InputModeNormal InputMode = iota
	InputModeInsert
)

func (m InputMode) String() string {
	if m == InputModeInsert {
		return "INSERT"
	}
	return "NORMAL"
}

// Port is the part of *serial.SerialPort a monitor session drives.
type Port interface {
	ReadPort(count int) ([]byte, error)
	SendMessage(data []byte, settle time.Duration) error
	State() serial.State
	Close() error
}

var _ Port = (*serial.SerialPort)(nil)

// Session keeps the traffic log and input state of one monitor run.
//
// A Session is owned by the Bubble Tea event loop: every method, including
// the port I/O, must be called from Update so the port is never used from
// two goroutines.
type Session struct {
	port   Port
	device string

	messages  []components.DataMsg
	inputMode InputMode
	paused    bool
	ready     bool
	err       error
}

func NewSession(port Port, device string) *Session {
	return &Session{port: port, device: device}
}

func (s *Session) Device() string {
	return s.device
}

func (s *Session) State() serial.State {
	return s.port.State()
}

// Poll reads whatever the port has buffered. It returns false when nothing
// was read or polling is paused.
func (s *Session) Poll(now time.Time) (components.DataMsg, bool, error) {
	if s.paused {
		return components.DataMsg{}, false, nil
	}

	data, err := s.port.ReadPort(0)
	s.err = err
	if len(data) == 0 {
		return components.DataMsg{}, false, err
	}

	msg := components.DataMsg{Timestamp: now, Data: data}
	s.messages = append(s.messages, msg)
	return msg, true, err
}

// Send writes data through SendMessage without a settle delay; the next
// poll picks up the reply.
func (s *Session) Send(data []byte, now time.Time) (components.DataMsg, error) {
	err := s.port.SendMessage(data, 0)
	s.err = err

	msg := components.DataMsg{Timestamp: now, Data: data, IsTX: true, Status: components.TxWritten}
	if err != nil {
		msg.Status = components.TxError
	}
	s.messages = append(s.messages, msg)
	return msg, err
}

// Note records a local notice, such as rejected input, in the traffic log.
func (s *Session) Note(text string, now time.Time) components.DataMsg {
	msg := components.DataMsg{Timestamp: now, Note: text}
	s.messages = append(s.messages, msg)
	return msg
}

func (s *Session) Messages() []components.DataMsg {
	return s.messages
}

func (s *Session) Clear() {
	s.messages = nil
}

func (s *Session) Err() error {
	return s.err
}

func (s *Session) IsReady() bool {
	return s.ready
}

func (s *Session) SetReady(ready bool) {
	s.ready = ready
}

func (s *Session) IsPaused() bool {
	return s.paused
}

func (s *Session) TogglePaused() bool {
	s.paused = !s.paused
	return s.paused
}

func (s *Session) GetInputMode() InputMode {
	return s.inputMode
}

func (s *Session) SetInputMode(mode InputMode) {
	s.inputMode = mode
}

func (s *Session) IsInInsertMode() bool {
	return s.inputMode == InputModeInsert
}

// Close releases the port.
func (s *Session) Close() error {
	return s.port.Close()
}
