package serial

import (
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
)

// readChunkSize is how many bytes ReadPort asks for per read.
const readChunkSize = 128

// SendMessage queues data for output, flushes it if auto-flush is enabled and
// then blocks for settle, a caller-supplied guess of how long the device needs
// to process the message. The sleep happens whether or not the flush succeeded.
func (p *SerialPort) SendMessage(data []byte, settle time.Duration) error {
	p.buffer = append(p.buffer, data...)

	var err error
	if p.autoFlush {
		err = p.Flush()
	}
	if settle > 0 {
		p.sleep(settle)
	}
	return err
}

// Flush writes the whole output buffer to the device in a single write.
//
// The buffer is emptied before the write is attempted, so bytes from a failed
// flush are dropped and never retried. This policy is worth revisiting if
// callers ever need to recover unsent data.
func (p *SerialPort) Flush() error {
	const op = "flush"
	if err := p.requireOpened(op); err != nil {
		return err
	}
	if len(p.buffer) == 0 {
		return nil
	}

	data := p.buffer
	p.buffer = nil

	n, err := p.handle.Write(data)
	if err != nil {
		return p.fail(ioError(op, fmt.Errorf("error while sending message: %w", err)))
	}
	if n != len(data) {
		return p.fail(ioError(op, fmt.Errorf("%w: wrote %d of %d bytes", ErrWriteIncomplete, n, len(data))))
	}
	p.log.Debug("buffer flushed", zap.Int("bytes", n))
	return nil
}

// ReadPort returns what the device currently has buffered.
//
// It reads 128-byte chunks and stops as soon as a read comes back short.
// When count is positive, the read that would reach count asks only for the
// remaining bytes and is the last one.
//
// The loop does not wait for more data: a message that arrives in bursts
// separated by short gaps can be returned partially, with the remainder
// available to the next call.
func (p *SerialPort) ReadPort(count int) ([]byte, error) {
	const op = "read port"
	if err := p.requireOpened(op); err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, p.fail(validationError(op, fmt.Errorf("%w: negative read count %d", ErrInvalidConfig, count)))
	}

	var content []byte
	chunk := make([]byte, readChunkSize)
	requested := 0
	for {
		want := readChunkSize
		last := false
		if count > 0 && requested+readChunkSize >= count {
			want = count - requested
			last = true
		}

		n, err := p.handle.Read(chunk[:want])
		if n > 0 {
			content = append(content, chunk[:n]...)
		}
		if err != nil && !errors.Is(err, ErrWouldBlock) && !errors.Is(err, io.EOF) {
			return content, p.fail(ioError(op, fmt.Errorf("unable to read the device: %w", err)))
		}

		requested += readChunkSize
		if last || len(content) != requested {
			return content, nil
		}
	}
}
