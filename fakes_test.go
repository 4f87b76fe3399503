package serial

import (
	"os/exec"
	"testing"
	"time"
)

// fakeRunner records commands and replays scripted results in order.
// Once the script is exhausted every command exits 0.
type fakeRunner struct {
	commands []Command
	results  []CommandResult
	runErr   error
	missing  map[string]bool
}

func (r *fakeRunner) Run(cmd Command) (CommandResult, error) {
	r.commands = append(r.commands, cmd)
	if r.runErr != nil {
		return CommandResult{}, r.runErr
	}
	if len(r.results) == 0 {
		return CommandResult{}, nil
	}
	res := r.results[0]
	r.results = r.results[1:]
	return res, nil
}

func (r *fakeRunner) LookPath(name string) (string, error) {
	if r.missing[name] {
		return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
	return "/usr/bin/" + name, nil
}

func (r *fakeRunner) last() Command {
	if len(r.commands) == 0 {
		return Command{}
	}
	return r.commands[len(r.commands)-1]
}

// fakeHandle serves scripted reads and records writes.
type fakeHandle struct {
	reads     [][]byte
	readErr   error
	readSizes []int

	writes     [][]byte
	writeErr   error
	shortWrite bool

	nonblock    bool
	nonblockErr error
	closeErr    error
	closed      bool
	closeCalls  int
	released    bool
}

func (h *fakeHandle) SetNonblock() error {
	if h.nonblockErr != nil {
		return h.nonblockErr
	}
	h.nonblock = true
	return nil
}

func (h *fakeHandle) Read(p []byte) (int, error) {
	h.readSizes = append(h.readSizes, len(p))
	if len(h.reads) == 0 {
		if h.readErr != nil {
			return 0, h.readErr
		}
		return 0, ErrWouldBlock
	}
	chunk := h.reads[0]
	n := copy(p, chunk)
	if n < len(chunk) {
		h.reads[0] = chunk[n:]
	} else {
		h.reads = h.reads[1:]
	}
	return n, nil
}

func (h *fakeHandle) Write(p []byte) (int, error) {
	h.writes = append(h.writes, append([]byte(nil), p...))
	if h.writeErr != nil {
		return 0, h.writeErr
	}
	if h.shortWrite {
		return len(p) / 2, nil
	}
	return len(p), nil
}

// Close behaves like the real handles: the descriptor is given up even when
// closing reports an error, and later calls return ErrPortClosed.
func (h *fakeHandle) Close() error {
	h.closeCalls++
	if h.released {
		return ErrPortClosed
	}
	h.released = true
	if h.closeErr != nil {
		return h.closeErr
	}
	h.closed = true
	return nil
}

type fakeOpener struct {
	handle *fakeHandle
	err    error
	paths  []string
	modes  []OpenMode
}

func (o *fakeOpener) Open(path string, mode OpenMode) (Handle, error) {
	o.paths = append(o.paths, path)
	o.modes = append(o.modes, mode)
	if o.err != nil {
		return nil, o.err
	}
	return o.handle, nil
}

type testRig struct {
	port   *SerialPort
	runner *fakeRunner
	opener *fakeOpener
	handle *fakeHandle
	sleeps []time.Duration
}

func newTestRig(t *testing.T, family OSFamily) *testRig {
	t.Helper()
	rig := &testRig{
		runner: &fakeRunner{},
		handle: &fakeHandle{},
	}
	rig.opener = &fakeOpener{handle: rig.handle}

	port, err := New(
		WithOSFamily(family),
		WithCommandRunner(rig.runner),
		WithOpener(rig.opener),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	port.sleep = func(d time.Duration) { rig.sleeps = append(rig.sleeps, d) }
	rig.port = port
	return rig
}

// setDevice brings the rig to StateSet and forgets the validation command.
func (r *testRig) setDevice(t *testing.T, name string) {
	t.Helper()
	if err := r.port.SetDevice(name); err != nil {
		t.Fatalf("SetDevice(%q) failed: %v", name, err)
	}
	r.runner.commands = nil
}

func (r *testRig) open(t *testing.T, name string) {
	t.Helper()
	r.setDevice(t, name)
	if err := r.port.Open(DefaultOpenMode); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
}

func defaultDevice(family OSFamily) string {
	if family == OSWindows {
		return "COM1"
	}
	return "/dev/ttyS0"
}
