package serial

import (
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

const setserialCommand = "setserial"

// SetSetserialFlag passes a low-level parameter to setserial(8) for the
// opened device, e.g. SetSetserialFlag("spd_hi", "") or
// SetSetserialFlag("irq", "4").
//
// Requirements:
// - Linux host with the setserial utility (from the setserial package)
// - Appropriate permissions on the device (typically root/sudo)
//
// Returns:
// - nil if setserial accepted the flag
// - a KindValidation error if the host is not Linux or the flag is invalid
// - a KindPlatformCommandFailed error wrapping ErrSetserialNotAvailable if
// the utility is missing, or ErrPlatformCommand if it rejected the device
func (p *SerialPort) SetSetserialFlag(param, arg string) error {
	const op = "setserial"
	if err := p.requireOpened(op); err != nil {
		return err
	}
	if p.family != OSLinux {
		return p.fail(validationError(op, fmt.Errorf("%w: only available on linux, host is %v", ErrSetserialNotAvailable, p.family)))
	}
	if param == "" {
		return p.fail(validationError(op, fmt.Errorf("%w: empty setserial parameter", ErrInvalidConfig)))
	}

	if _, err := p.runner.LookPath(setserialCommand); err != nil {
		return p.fail(&Error{
			Kind: KindPlatformCommandFailed,
			Op:   op,
			Err:  fmt.Errorf("%w: %v", ErrSetserialNotAvailable, err),
		})
	}

	args := []string{p.device.Path, param}
	if arg != "" {
		args = append(args, arg)
	}
	cmd := Command{Name: setserialCommand, Args: args}

	p.log.Debug("running setserial", zap.Stringer("command", cmd))
	res, err := p.runner.Run(cmd)
	if err != nil {
		return p.fail(&Error{
			Kind:    KindPlatformCommandFailed,
			Op:      op,
			Command: cmd.String(),
			Err:     fmt.Errorf("%w: %w", ErrPlatformCommand, err),
		})
	}

	// setserial reports problems on its output: "Invalid flag: ..." for an
	// unknown parameter and "/dev/...: ..." for a device it cannot handle.
	out := res.Diagnostic()
	switch {
	case strings.HasPrefix(out, "I"):
		return p.fail(&Error{
			Kind:    KindValidation,
			Op:      op,
			Command: cmd.String(),
			Stderr:  out,
			Err:     fmt.Errorf("%w: setserial: invalid flag %q", ErrInvalidConfig, param),
		})
	case strings.HasPrefix(out, "/"), res.ExitCode != 0:
		return p.fail(&Error{
			Kind:    KindPlatformCommandFailed,
			Op:      op,
			Command: cmd.String(),
			Stderr:  out,
			Err:     fmt.Errorf("%w: setserial: error with device file", ErrPlatformCommand),
		})
	}
	return nil
}

// IsSetserialAvailable checks if setserial utility is available in PATH
func IsSetserialAvailable() bool {
	_, err := exec.LookPath(setserialCommand)
	return err == nil
}
