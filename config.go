package serial

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Parity represents the parity mode
type Parity int

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
)

func (p Parity) String() string {
	switch p {
	case ParityNone:
		return "none"
	case ParityOdd:
		return "odd"
	case ParityEven:
		return "even"
	default:
		return fmt.Sprintf("Parity(%d)", int(p))
	}
}

func (p Parity) valid() bool {
	return p >= ParityNone && p <= ParityEven
}

// ParseParity parses "none", "odd" or "even" (or their first letter).
func ParseParity(s string) (Parity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "n":
		return ParityNone, nil
	case "odd", "o":
		return ParityOdd, nil
	case "even", "e":
		return ParityEven, nil
	default:
		return 0, fmt.Errorf("%w: parity mode %q not supported", ErrInvalidConfig, s)
	}
}

// FlowControl represents the flow control mode
type FlowControl int

const (
	FlowControlNone FlowControl = iota
	FlowControlRTSCTS
	FlowControlXONXOFF
)

func (f FlowControl) String() string {
	switch f {
	case FlowControlNone:
		return "none"
	case FlowControlRTSCTS:
		return "rts/cts"
	case FlowControlXONXOFF:
		return "xon/xoff"
	default:
		return fmt.Sprintf("FlowControl(%d)", int(f))
	}
}

func (f FlowControl) valid() bool {
	return f >= FlowControlNone && f <= FlowControlXONXOFF
}

// ParseFlowControl parses "none", "rts/cts" or "xon/xoff".
func ParseFlowControl(s string) (FlowControl, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return FlowControlNone, nil
	case "rts/cts", "rtscts":
		return FlowControlRTSCTS, nil
	case "xon/xoff", "xonxoff":
		return FlowControlXONXOFF, nil
	default:
		return 0, fmt.Errorf("%w: flow control mode %q not supported", ErrInvalidConfig, s)
	}
}

// StopBits represents the length of the stop bit
type StopBits int

const (
	StopBitsOne StopBits = iota
	StopBitsOnePointFive
	StopBitsTwo
)

func (s StopBits) String() string {
	switch s {
	case StopBitsOne:
		return "1"
	case StopBitsOnePointFive:
		return "1.5"
	case StopBitsTwo:
		return "2"
	default:
		return fmt.Sprintf("StopBits(%d)", int(s))
	}
}

func (s StopBits) valid() bool {
	return s >= StopBitsOne && s <= StopBitsTwo
}

// StopBitsFromFloat converts 1, 1.5 or 2 to a StopBits value.
func StopBitsFromFloat(length float64) (StopBits, error) {
	switch length {
	case 1:
		return StopBitsOne, nil
	case 1.5:
		return StopBitsOnePointFive, nil
	case 2:
		return StopBitsTwo, nil
	default:
		return 0, fmt.Errorf("%w: stop bit length %v is invalid", ErrInvalidConfig, length)
	}
}

// ParseStopBits parses "1", "1.5" or "2".
func ParseStopBits(s string) (StopBits, error) {
	switch strings.TrimSpace(s) {
	case "1":
		return StopBitsOne, nil
	case "1.5":
		return StopBitsOnePointFive, nil
	case "2":
		return StopBitsTwo, nil
	default:
		return 0, fmt.Errorf("%w: stop bit length %q is invalid", ErrInvalidConfig, s)
	}
}

// Settings holds the line parameters applied by Configure
type Settings struct {
	BaudRate    int
	DataBits    int
	StopBits    StopBits
	Parity      Parity
	FlowControl FlowControl
}

// DefaultSettings returns 9600 8N1 without flow control
func DefaultSettings() Settings {
	return Settings{
		BaudRate:    9600,
		DataBits:    8,
		StopBits:    StopBitsOne,
		Parity:      ParityNone,
		FlowControl: FlowControlNone,
	}
}

// Validate checks every field against its domain. DataBits is not checked
// because ConfCharacterLength clamps it.
func (s Settings) Validate() error {
	if !validBaudRate(s.BaudRate) {
		return fmt.Errorf("%w: %d", ErrInvalidBaudRate, s.BaudRate)
	}
	if !s.Parity.valid() {
		return fmt.Errorf("%w: parity %v", ErrInvalidConfig, s.Parity)
	}
	if !s.StopBits.valid() {
		return fmt.Errorf("%w: stop bits %v", ErrInvalidConfig, s.StopBits)
	}
	if !s.FlowControl.valid() {
		return fmt.Errorf("%w: flow control %v", ErrInvalidConfig, s.FlowControl)
	}
	return nil
}

type options struct {
	runner    CommandRunner
	opener    Opener
	logger    *zap.Logger
	family    OSFamily
	autoFlush bool
}

// Option is a functional option for constructing a SerialPort
type Option func(*options) error

func defaultOptions() options {
	return options{
		runner:    ExecRunner{},
		opener:    FileOpener{},
		logger:    zap.NewNop(),
		autoFlush: true,
	}
}

// WithCommandRunner replaces the runner used for stty/mode invocations
func WithCommandRunner(runner CommandRunner) Option {
	return func(o *options) error {
		if runner == nil {
			return fmt.Errorf("%w: nil command runner", ErrInvalidConfig)
		}
		o.runner = runner
		return nil
	}
}

// WithOpener replaces the opener used to acquire device handles
func WithOpener(opener Opener) Option {
	return func(o *options) error {
		if opener == nil {
			return fmt.Errorf("%w: nil opener", ErrInvalidConfig)
		}
		o.opener = opener
		return nil
	}
}

// WithLogger sets the structured logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			logger = zap.NewNop()
		}
		o.logger = logger
		return nil
	}
}

// WithOSFamily skips host detection and uses family instead. The stty
// availability check still runs for POSIX families.
func WithOSFamily(family OSFamily) Option {
	return func(o *options) error {
		if _, err := DetectOSFamily(family.String()); err != nil {
			return err
		}
		o.family = family
		return nil
	}
}

// WithAutoFlush controls whether SendMessage flushes immediately (default true)
func WithAutoFlush(enabled bool) Option {
	return func(o *options) error {
		o.autoFlush = enabled
		return nil
	}
}
