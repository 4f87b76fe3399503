//go:build windows

package serial

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/sys/windows"
)

// Open opens a COM device such as \\.\COM3.
func (FileOpener) Open(path string, mode OpenMode) (Handle, error) {
	name, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	var access uint32
	if mode.Read {
		access |= windows.GENERIC_READ
	}
	if mode.Write {
		access |= windows.GENERIC_WRITE
	}

	h, err := windows.CreateFile(name, access, 0, nil, windows.OPEN_EXISTING, windows.FILE_ATTRIBUTE_NORMAL, 0)
	if err != nil {
		if errors.Is(err, windows.ERROR_FILE_NOT_FOUND) {
			return nil, fmt.Errorf("failed to open %s: %w", path, ErrDeviceNotFound)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return &commHandle{h: h, path: path}, nil
}

type commHandle struct {
	h      windows.Handle
	path   string
	closed bool
}

// SetNonblock makes ReadFile return immediately with whatever is buffered.
func (c *commHandle) SetNonblock() error {
	if c.closed {
		return ErrPortClosed
	}
	timeouts := windows.CommTimeouts{ReadIntervalTimeout: math.MaxUint32}
	if err := windows.SetCommTimeouts(c.h, &timeouts); err != nil {
		return fmt.Errorf("failed to set comm timeouts on %s: %w", c.path, err)
	}
	return nil
}

func (c *commHandle) Read(p []byte) (int, error) {
	if c.closed {
		return 0, ErrPortClosed
	}
	if len(p) == 0 {
		return 0, nil
	}
	var done uint32
	if err := windows.ReadFile(c.h, p, &done, nil); err != nil {
		return int(done), err
	}
	if done == 0 {
		return 0, ErrWouldBlock
	}
	return int(done), nil
}

func (c *commHandle) Write(p []byte) (int, error) {
	if c.closed {
		return 0, ErrPortClosed
	}
	var done uint32
	err := windows.WriteFile(c.h, p, &done, nil)
	return int(done), err
}

func (c *commHandle) Close() error {
	if c.closed {
		return ErrPortClosed
	}
	c.closed = true
	return windows.CloseHandle(c.h)
}
