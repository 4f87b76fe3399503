// Package serial configures and talks to RS-232 class serial ports on Linux,
// macOS and Windows.
//
// Line parameters are applied through the host's own configuration utility
// (stty on Linux and macOS, mode on Windows) and data is exchanged over a
// non-blocking handle that is polled for whatever the device has buffered.
//
// # Lifecycle
//
// A SerialPort moves through three states: not set, set and opened.
// Configuration is only possible while the device is set and not opened:
//
//	port, err := serial.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := port.SetDevice("/dev/ttyUSB0"); err != nil {
//	    log.Fatal(err)
//	}
//	port.ConfBaudRate(9600)
//	port.ConfParity(serial.ParityNone)
//	port.ConfCharacterLength(8)
//	port.ConfStopBits(serial.StopBitsOne)
//	port.ConfFlowControl(serial.FlowControlNone)
//
//	if err := port.Open(serial.DefaultOpenMode); err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
// On Linux, COM1..COMn are accepted and mapped to /dev/ttyS0..ttyS(n-1).
// On Windows only COMn names are accepted.
//
// # I/O
//
// SendMessage queues bytes, flushes them when auto-flush is on and then
// sleeps for a caller-chosen settle time before the reply is read:
//
//	port.SendMessage([]byte("AT\r"), 100*time.Millisecond)
//	reply, err := port.ReadPort(0)
//
// ReadPort returns what is currently buffered and does not wait for more.
//
// # Error Handling
//
// Every failing operation returns a *serial.Error whose Kind tells the caller
// what to do next:
//
//	KindInvalidState          // operation not allowed in the current state
//	KindValidation            // argument outside its domain
//	KindPlatformCommandFailed // stty/mode exited non-zero (Stderr attached)
//	KindIO                    // open, read, write or close failed
//	KindUnsupportedPlatform   // host is not linux, darwin or windows
//
// Use errors.Is() with the sentinel errors, or IsKind and IsFatal:
//
//	if errors.Is(err, serial.ErrInvalidBaudRate) {
//	    // retry with a supported rate
//	}
//	if serial.IsFatal(err) {
//	    // a close failed, the handle state is unknown
//	}
//
// # Testing
//
// The external command layer and the device handle are interfaces. Inject
// them with WithCommandRunner and WithOpener, and simulate another host with
// WithOSFamily.
package serial
