//go:build unix

package serial

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/sys/unix"
)

// Open opens path with the flags derived from mode. O_NOCTTY keeps the
// device from becoming the controlling terminal.
func (FileOpener) Open(path string, mode OpenMode) (Handle, error) {
	flags := unix.O_NOCTTY
	switch {
	case mode.Read && mode.Write:
		flags |= unix.O_RDWR
	case mode.Write:
		flags |= unix.O_WRONLY
	default:
		flags |= unix.O_RDONLY
	}
	if mode.Append {
		flags |= unix.O_APPEND
	}

	fd, err := unix.Open(path, flags, 0)
	if err != nil {
		if errors.Is(err, unix.ENOENT) {
			return nil, fmt.Errorf("failed to open %s: %w", path, ErrDeviceNotFound)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return &fdHandle{fd: fd, path: path}, nil
}

// fdHandle is a raw file descriptor. Reads bypass the runtime poller so a
// non-blocking descriptor reports EAGAIN instead of parking the goroutine.
type fdHandle struct {
	fd     int
	path   string
	closed bool
}

func (h *fdHandle) SetNonblock() error {
	if h.closed {
		return ErrPortClosed
	}
	if err := unix.SetNonblock(h.fd, true); err != nil {
		return fmt.Errorf("failed to set non-blocking mode on %s: %w", h.path, err)
	}
	return nil
}

func (h *fdHandle) Read(p []byte) (int, error) {
	if h.closed {
		return 0, ErrPortClosed
	}
	if len(p) == 0 {
		return 0, nil
	}
	for {
		n, err := unix.Read(h.fd, p)
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.EAGAIN):
			return 0, ErrWouldBlock
		case err != nil:
			return 0, err
		case n == 0:
			return 0, io.EOF
		}
		return n, nil
	}
}

func (h *fdHandle) Write(p []byte) (int, error) {
	if h.closed {
		return 0, ErrPortClosed
	}
	for {
		n, err := unix.Write(h.fd, p)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if n < 0 {
			n = 0
		}
		return n, err
	}
}

func (h *fdHandle) Close() error {
	if h.closed {
		return ErrPortClosed
	}
	h.closed = true
	return unix.Close(h.fd)
}
