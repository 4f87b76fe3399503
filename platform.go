package serial

import (
	"fmt"
	"regexp"
	"strconv"
)

const (
	sttyCommand = "stty"
	modeCommand = "mode"
)

// comPattern matches Windows-style port names such as COM1 or com12:.
var comPattern = regexp.MustCompile(`(?i)^COM(\d+):?$`)

// baudRates lists the accepted rates. Windows' mode utility takes the
// abbreviated token for the lower rates.
var baudRates = map[int]string{
	110:    "11",
	150:    "15",
	300:    "30",
	600:    "60",
	1200:   "12",
	2400:   "24",
	4800:   "48",
	9600:   "96",
	19200:  "19",
	38400:  "38400",
	57600:  "57600",
	115200: "115200",
}

func validBaudRate(rate int) bool {
	_, ok := baudRates[rate]
	return ok
}

// clampCharacterLength raises values below 5 to 5 and lowers values above 8 to 8.
func clampCharacterLength(n int) int {
	switch {
	case n < 5:
		return 5
	case n > 8:
		return 8
	default:
		return n
	}
}

// Device is a resolved serial device.
type Device struct {
	// Path is what gets opened: /dev/ttyS0 on POSIX hosts, \\.\COM1 on Windows.
	Path string
	// Name is what the configuration utility is pointed at. It equals Path
	// on POSIX hosts and is the COMn display name on Windows.
	Name string
}

// PlatformStrategy turns logical configuration intents into the concrete
// configuration commands of one OS family.
type PlatformStrategy interface {
	Family() OSFamily
	ResolveDevice(name string) (Device, error)
	ValidateDevice(dev Device) Command
	BaudCommand(dev Device, rate int) (Command, error)
	ParityCommand(dev Device, parity Parity) (Command, error)
	LengthCommand(dev Device, length int) Command
	StopBitsCommand(dev Device, stop StopBits) (Command, error)
	FlowControlCommand(dev Device, flow FlowControl) (Command, error)
}

// NewPlatformStrategy returns the strategy for family.
func NewPlatformStrategy(family OSFamily) (PlatformStrategy, error) {
	switch family {
	case OSLinux:
		return sttyStrategy{family: OSLinux, pathFlag: "-F"}, nil
	case OSDarwin:
		return sttyStrategy{family: OSDarwin, pathFlag: "-f"}, nil
	case OSWindows:
		return modeStrategy{}, nil
	default:
		return nil, &Error{
			Kind: KindUnsupportedPlatform,
			Op:   "select platform",
			Err:  fmt.Errorf("%w: %v", ErrUnsupportedPlatform, family),
		}
	}
}

func parseCOMNumber(name string) (int, bool, error) {
	m := comPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false, nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 0, true, fmt.Errorf("%w: %q has no valid port number", ErrInvalidDevice, name)
	}
	return n, true, nil
}

// sttyStrategy configures Linux and Darwin hosts through stty.
type sttyStrategy struct {
	family   OSFamily
	pathFlag string // -F on GNU stty, -f on BSD stty
}

func (s sttyStrategy) Family() OSFamily { return s.family }

func (s sttyStrategy) ResolveDevice(name string) (Device, error) {
	if name == "" {
		return Device{}, fmt.Errorf("%w: empty device name", ErrInvalidDevice)
	}
	if s.family == OSLinux {
		n, ok, err := parseCOMNumber(name)
		if err != nil {
			return Device{}, err
		}
		if ok {
			name = "/dev/ttyS" + strconv.Itoa(n-1)
		}
	}
	return Device{Path: name, Name: name}, nil
}

func (s sttyStrategy) command(dev Device, flags ...string) Command {
	args := make([]string, 0, len(flags)+2)
	args = append(args, s.pathFlag, dev.Name)
	args = append(args, flags...)
	return Command{Name: sttyCommand, Args: args}
}

func (s sttyStrategy) ValidateDevice(dev Device) Command {
	return s.command(dev)
}

func (s sttyStrategy) BaudCommand(dev Device, rate int) (Command, error) {
	if !validBaudRate(rate) {
		return Command{}, fmt.Errorf("%w: %d", ErrInvalidBaudRate, rate)
	}
	return s.command(dev, strconv.Itoa(rate)), nil
}

func (s sttyStrategy) ParityCommand(dev Device, parity Parity) (Command, error) {
	switch parity {
	case ParityNone:
		return s.command(dev, "-parenb"), nil
	case ParityOdd:
		return s.command(dev, "parenb", "parodd"), nil
	case ParityEven:
		return s.command(dev, "parenb", "-parodd"), nil
	default:
		return Command{}, fmt.Errorf("%w: parity mode %v not supported", ErrInvalidConfig, parity)
	}
}

func (s sttyStrategy) LengthCommand(dev Device, length int) Command {
	return s.command(dev, "cs"+strconv.Itoa(clampCharacterLength(length)))
}

func (s sttyStrategy) StopBitsCommand(dev Device, stop StopBits) (Command, error) {
	switch stop {
	case StopBitsOne:
		return s.command(dev, "-cstopb"), nil
	case StopBitsOnePointFive:
		if s.family != OSLinux {
			return Command{}, fmt.Errorf("%w: stop bit length 1.5 is not supported on %v", ErrInvalidConfig, s.family)
		}
		// stty has a single two-state flag; 1.5 maps to the long setting.
		return s.command(dev, "cstopb"), nil
	case StopBitsTwo:
		return s.command(dev, "cstopb"), nil
	default:
		return Command{}, fmt.Errorf("%w: stop bit length %v is invalid", ErrInvalidConfig, stop)
	}
}

func (s sttyStrategy) FlowControlCommand(dev Device, flow FlowControl) (Command, error) {
	switch flow {
	case FlowControlNone:
		return s.command(dev, "clocal", "-crtscts", "-ixon", "-ixoff"), nil
	case FlowControlRTSCTS:
		return s.command(dev, "-clocal", "crtscts", "-ixon", "-ixoff"), nil
	case FlowControlXONXOFF:
		return s.command(dev, "-clocal", "-crtscts", "ixon", "ixoff"), nil
	default:
		return Command{}, fmt.Errorf("%w: flow control mode %v not supported", ErrInvalidConfig, flow)
	}
}

// modeStrategy configures Windows hosts through the mode utility.
type modeStrategy struct{}

func (modeStrategy) Family() OSFamily { return OSWindows }

func (modeStrategy) ResolveDevice(name string) (Device, error) {
	n, ok, err := parseCOMNumber(name)
	if err != nil {
		return Device{}, err
	}
	if !ok {
		return Device{}, fmt.Errorf("%w: %q is not a COM<n> port name", ErrInvalidDevice, name)
	}
	com := "COM" + strconv.Itoa(n)
	return Device{Path: `\\.\` + com, Name: com}, nil
}

func (modeStrategy) command(dev Device, params ...string) Command {
	args := make([]string, 0, len(params)+1)
	args = append(args, dev.Name)
	args = append(args, params...)
	return Command{Name: modeCommand, Args: args}
}

func (m modeStrategy) ValidateDevice(dev Device) Command {
	return m.command(dev, "xon=on", "BAUD=9600")
}

func (m modeStrategy) BaudCommand(dev Device, rate int) (Command, error) {
	token, ok := baudRates[rate]
	if !ok {
		return Command{}, fmt.Errorf("%w: %d", ErrInvalidBaudRate, rate)
	}
	return m.command(dev, "BAUD="+token), nil
}

func (m modeStrategy) ParityCommand(dev Device, parity Parity) (Command, error) {
	if !parity.valid() {
		return Command{}, fmt.Errorf("%w: parity mode %v not supported", ErrInvalidConfig, parity)
	}
	return m.command(dev, "PARITY="+parity.String()[:1]), nil
}

func (m modeStrategy) LengthCommand(dev Device, length int) Command {
	return m.command(dev, "DATA="+strconv.Itoa(clampCharacterLength(length)))
}

func (m modeStrategy) StopBitsCommand(dev Device, stop StopBits) (Command, error) {
	switch stop {
	case StopBitsOne, StopBitsTwo:
		return m.command(dev, "STOP="+stop.String()), nil
	case StopBitsOnePointFive:
		return Command{}, fmt.Errorf("%w: stop bit length 1.5 is not supported on %v", ErrInvalidConfig, OSWindows)
	default:
		return Command{}, fmt.Errorf("%w: stop bit length %v is invalid", ErrInvalidConfig, stop)
	}
}

func (m modeStrategy) FlowControlCommand(dev Device, flow FlowControl) (Command, error) {
	switch flow {
	case FlowControlNone:
		return m.command(dev, "xon=off", "octs=off", "rts=on"), nil
	case FlowControlRTSCTS:
		return m.command(dev, "xon=off", "octs=on", "rts=hs"), nil
	case FlowControlXONXOFF:
		return m.command(dev, "xon=on", "octs=off", "rts=on"), nil
	default:
		return Command{}, fmt.Errorf("%w: flow control mode %v not supported", ErrInvalidConfig, flow)
	}
}
