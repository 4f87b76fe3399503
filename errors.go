package serial

import (
	"errors"
	"strings"
)

// Predefined error types for robust error handling
var (
	ErrInvalidState        = errors.New("operation not allowed in current port state")
	ErrInvalidConfig       = errors.New("invalid serial configuration")
	ErrInvalidBaudRate     = errors.New("invalid baud rate")
	ErrInvalidOpenMode     = errors.New("invalid opening mode")
	ErrInvalidDevice       = errors.New("invalid serial device")
	ErrPlatformCommand     = errors.New("platform configuration command failed")
	ErrDeviceNotFound      = errors.New("serial device not found")
	ErrPortClosed          = errors.New("serial port is closed")
	ErrWriteIncomplete     = errors.New("write did not complete")
	ErrWouldBlock          = errors.New("no data currently available")
	ErrUnsupportedPlatform = errors.New("unsupported host platform")

	// setserial passthrough
	ErrSetserialNotAvailable = errors.New("setserial utility not available")
)

// Kind classifies a failure so callers can decide whether to retry or abort.
type Kind int

const (
	KindInvalidState Kind = iota + 1
	KindValidation
	KindPlatformCommandFailed
	KindIO
	KindUnsupportedPlatform
)

func (k Kind) String() string {
	switch k {
	case KindInvalidState:
		return "invalid state"
	case KindValidation:
		return "validation error"
	case KindPlatformCommandFailed:
		return "platform command failed"
	case KindIO:
		return "i/o failure"
	case KindUnsupportedPlatform:
		return "unsupported platform"
	default:
		return "unknown"
	}
}

// Error is returned by every SerialPort operation that fails.
type Error struct {
	Kind    Kind
	Op      string // step that failed, e.g. "conf baud rate"
	Command string // external command line, if one was run
	Stderr  string // captured diagnostic output of Command
	Err     error

	fatal bool
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	if e.Err != nil {
		b.WriteString(e.Err.Error())
	} else {
		b.WriteString(e.Kind.String())
	}
	if e.Command != "" {
		b.WriteString(" (command: ")
		b.WriteString(e.Command)
		b.WriteString(")")
	}
	if e.Stderr != "" {
		b.WriteString(": ")
		b.WriteString(e.Stderr)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Fatal reports whether the failure leaves the resource model inconsistent.
// A failed Close and an unsupported host are fatal; everything else can be
// retried with corrected input.
func (e *Error) Fatal() bool {
	return e.fatal || e.Kind == KindUnsupportedPlatform
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Kind == kind
	}
	return false
}

// IsFatal reports whether err is a fatal-class *Error.
func IsFatal(err error) bool {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Fatal()
	}
	return false
}

func stateError(op string, err error) *Error {
	return &Error{Kind: KindInvalidState, Op: op, Err: err}
}

func validationError(op string, err error) *Error {
	return &Error{Kind: KindValidation, Op: op, Err: err}
}

func ioError(op string, err error) *Error {
	return &Error{Kind: KindIO, Op: op, Err: err}
}
