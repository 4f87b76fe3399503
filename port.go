package serial

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
)

// State is the position of a SerialPort in its set → open → close lifecycle.
type State int

const (
	StateNotSet State = iota
	StateSet
	StateOpened
)

func (s State) String() string {
	switch s {
	case StateNotSet:
		return "not set"
	case StateSet:
		return "set"
	case StateOpened:
		return "opened"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// SerialPort configures a serial device through the host's configuration
// utility and performs buffered, non-blocking I/O on it.
//
// Configuration is only possible while the device is set but not opened.
// A SerialPort is not safe for concurrent use.
type SerialPort struct {
	family   OSFamily
	platform PlatformStrategy
	runner   CommandRunner
	opener   Opener
	base     *zap.Logger
	log      *zap.Logger

	device  Device
	state   State
	handle  Handle
	cleanup runtime.Cleanup

	buffer    []byte
	autoFlush bool
	sleep     func(time.Duration)
}

// New detects the host OS family, checks that its configuration utility is
// available and returns a SerialPort with no device set.
func New(opts ...Option) (*SerialPort, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}

	family := o.family
	if family == 0 {
		detected, err := HostOSFamily()
		if err != nil {
			return nil, err
		}
		family = detected
	}

	if err := checkUtility(family, o.runner); err != nil {
		return nil, err
	}

	platform, err := NewPlatformStrategy(family)
	if err != nil {
		return nil, err
	}

	logger := o.logger.With(zap.Stringer("os", family))
	return &SerialPort{
		family:    family,
		platform:  platform,
		runner:    o.runner,
		opener:    o.opener,
		base:      logger,
		log:       logger,
		autoFlush: o.autoFlush,
		sleep:     time.Sleep,
	}, nil
}

// State returns the current lifecycle state.
func (p *SerialPort) State() State { return p.state }

// OSFamily returns the family selected at construction.
func (p *SerialPort) OSFamily() OSFamily { return p.family }

// Device returns the resolved device path, e.g. /dev/ttyS2 for COM3 on Linux.
func (p *SerialPort) Device() string { return p.device.Path }

// WindowsDeviceName returns the COMn name on Windows hosts and "" elsewhere.
func (p *SerialPort) WindowsDeviceName() string {
	if p.family != OSWindows {
		return ""
	}
	return p.device.Name
}

// AutoFlush reports whether SendMessage flushes immediately.
func (p *SerialPort) AutoFlush() bool { return p.autoFlush }

// SetAutoFlush toggles flushing on every SendMessage.
func (p *SerialPort) SetAutoFlush(enabled bool) { p.autoFlush = enabled }

// Buffered returns the number of bytes waiting for the next Flush.
func (p *SerialPort) Buffered() int { return len(p.buffer) }

// SetDevice resolves and validates name and makes it the configured device.
//
// On Linux, COM<n> is accepted and translated to /dev/ttyS<n-1>. On Windows
// only COM<n> is accepted.
func (p *SerialPort) SetDevice(name string) error {
	const op = "set device"
	if p.state == StateOpened {
		return p.fail(stateError(op, fmt.Errorf("%w: close the device before setting another one", ErrInvalidState)))
	}

	dev, err := p.platform.ResolveDevice(name)
	if err != nil {
		return p.fail(validationError(op, err))
	}
	if err := p.run(op, p.platform.ValidateDevice(dev)); err != nil {
		return err
	}

	p.device = dev
	p.state = StateSet
	p.log = p.base.With(zap.String("device", dev.Path))
	p.log.Debug("device set", zap.String("requested", name))
	return nil
}

// Open acquires a handle to the device with an fopen-style mode ("r", "w",
// "a", optionally followed by "+" and "b") and switches it to non-blocking
// mode. Opening an already opened device is a no-op.
//
// The handle is released when Close is called. If the SerialPort is dropped
// while still open, a runtime cleanup closes the handle.
func (p *SerialPort) Open(mode string) error {
	const op = "open"
	switch p.state {
	case StateOpened:
		p.log.Info("the device is already opened")
		return nil
	case StateNotSet:
		return p.fail(stateError(op, fmt.Errorf("%w: the device must be set before it can be opened", ErrInvalidState)))
	}

	m, err := ParseOpenMode(mode)
	if err != nil {
		return p.fail(validationError(op, err))
	}

	h, err := p.opener.Open(p.device.Path, m)
	if err != nil {
		return p.fail(ioError(op, fmt.Errorf("unable to open the device: %w", err)))
	}
	if err := h.SetNonblock(); err != nil {
		_ = h.Close()
		return p.fail(ioError(op, err))
	}

	p.handle = h
	p.cleanup = runtime.AddCleanup(p, closeAbandoned, h)
	p.state = StateOpened
	p.log.Debug("device opened", zap.Stringer("mode", m))
	return nil
}

func closeAbandoned(h Handle) {
	_ = h.Close()
}

// Close releases the handle. It is a no-op unless the device is opened.
// A failure to release the handle is fatal-class and the port stays opened.
// Calling Close again then releases the port: the handle has already given
// up its descriptor and reports ErrPortClosed.
func (p *SerialPort) Close() error {
	if p.state != StateOpened {
		return nil
	}

	if err := p.handle.Close(); err != nil {
		if !errors.Is(err, ErrPortClosed) {
			e := ioError("close", fmt.Errorf("unable to close the device: %w", err))
			e.fatal = true
			p.log.Error("close failed", zap.Error(err))
			return e
		}
		p.log.Warn("handle already released", zap.Error(err))
	}

	p.cleanup.Stop()
	p.handle = nil
	p.state = StateSet
	p.log.Debug("device closed")
	return nil
}

// ConfBaudRate sets the baud rate. Accepted rates: 110, 150, 300, 600, 1200,
// 2400, 4800, 9600, 19200, 38400, 57600 and 115200.
func (p *SerialPort) ConfBaudRate(rate int) error {
	const op = "conf baud rate"
	if err := p.requireSet(op); err != nil {
		return err
	}
	cmd, err := p.platform.BaudCommand(p.device, rate)
	if err != nil {
		return p.fail(validationError(op, err))
	}
	return p.run(op, cmd)
}

// ConfParity sets the parity mode.
func (p *SerialPort) ConfParity(parity Parity) error {
	const op = "conf parity"
	if err := p.requireSet(op); err != nil {
		return err
	}
	cmd, err := p.platform.ParityCommand(p.device, parity)
	if err != nil {
		return p.fail(validationError(op, err))
	}
	return p.run(op, cmd)
}

// ConfCharacterLength sets the character length. Values outside 5..8 are
// clamped into that range rather than rejected.
func (p *SerialPort) ConfCharacterLength(length int) error {
	const op = "conf character length"
	if err := p.requireSet(op); err != nil {
		return err
	}
	if clamped := clampCharacterLength(length); clamped != length {
		p.log.Debug("character length clamped", zap.Int("requested", length), zap.Int("applied", clamped))
	}
	return p.run(op, p.platform.LengthCommand(p.device, length))
}

// ConfStopBits sets the stop bit length. 1.5 is only supported on Linux.
func (p *SerialPort) ConfStopBits(stop StopBits) error {
	const op = "conf stop bits"
	if err := p.requireSet(op); err != nil {
		return err
	}
	cmd, err := p.platform.StopBitsCommand(p.device, stop)
	if err != nil {
		return p.fail(validationError(op, err))
	}
	return p.run(op, cmd)
}

// ConfFlowControl sets the flow control mode.
func (p *SerialPort) ConfFlowControl(flow FlowControl) error {
	const op = "conf flow control"
	if err := p.requireSet(op); err != nil {
		return err
	}
	cmd, err := p.platform.FlowControlCommand(p.device, flow)
	if err != nil {
		return p.fail(validationError(op, err))
	}
	return p.run(op, cmd)
}

// Configure applies baud rate, parity, character length, stop bits and flow
// control in that order, stopping at the first failure.
func (p *SerialPort) Configure(s Settings) error {
	const op = "configure"
	if err := p.requireSet(op); err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return p.fail(validationError(op, err))
	}
	// Stop bit support depends on the platform; reject it before any command runs.
	if _, err := p.platform.StopBitsCommand(p.device, s.StopBits); err != nil {
		return p.fail(validationError(op, err))
	}

	steps := []func() error{
		func() error { return p.ConfBaudRate(s.BaudRate) },
		func() error { return p.ConfParity(s.Parity) },
		func() error { return p.ConfCharacterLength(s.DataBits) },
		func() error { return p.ConfStopBits(s.StopBits) },
		func() error { return p.ConfFlowControl(s.FlowControl) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (p *SerialPort) requireSet(op string) error {
	if p.state != StateSet {
		return p.fail(stateError(op, fmt.Errorf("%w: the device is either not set or opened", ErrInvalidState)))
	}
	return nil
}

func (p *SerialPort) requireOpened(op string) error {
	if p.state != StateOpened {
		return p.fail(stateError(op, fmt.Errorf("%w: device must be opened", ErrInvalidState)))
	}
	return nil
}

// run executes a configuration command; only exit code 0 is success.
func (p *SerialPort) run(op string, cmd Command) error {
	p.log.Debug("running configuration command", zap.String("op", op), zap.Stringer("command", cmd))

	res, err := p.runner.Run(cmd)
	if err != nil {
		return p.fail(&Error{
			Kind:    KindPlatformCommandFailed,
			Op:      op,
			Command: cmd.String(),
			Err:     fmt.Errorf("%w: %w", ErrPlatformCommand, err),
		})
	}
	if res.ExitCode != 0 {
		return p.fail(&Error{
			Kind:    KindPlatformCommandFailed,
			Op:      op,
			Command: cmd.String(),
			Stderr:  res.Diagnostic(),
			Err:     fmt.Errorf("%w: exit status %d", ErrPlatformCommand, res.ExitCode),
		})
	}
	return nil
}

func (p *SerialPort) fail(e *Error) error {
	p.log.Warn(e.Op+" failed",
		zap.Stringer("kind", e.Kind),
		zap.Stringer("state", p.state),
		zap.Error(e))
	return e
}
