package serial

import "io"

// Handle is an open byte stream to a serial device.
//
// After SetNonblock, Read must return promptly: when nothing is buffered it
// returns 0 and ErrWouldBlock (io.EOF is treated the same way).
type Handle interface {
	io.Reader
	io.Writer
	io.Closer
	SetNonblock() error
}

// Opener acquires handles to devices.
type Opener interface {
	Open(path string, mode OpenMode) (Handle, error)
}

// FileOpener opens devices through the host operating system.
type FileOpener struct{}

var _ Opener = FileOpener{}
