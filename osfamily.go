package serial

import (
	"fmt"
	"runtime"
)

// OSFamily identifies which configuration utility and syntax the host uses.
type OSFamily int

const (
	OSLinux OSFamily = iota + 1
	OSDarwin
	OSWindows
)

func (f OSFamily) String() string {
	switch f {
	case OSLinux:
		return "linux"
	case OSDarwin:
		return "darwin"
	case OSWindows:
		return "windows"
	default:
		return fmt.Sprintf("OSFamily(%d)", int(f))
	}
}

// IsPOSIX reports whether the family is configured through stty.
func (f OSFamily) IsPOSIX() bool {
	return f == OSLinux || f == OSDarwin
}

// DetectOSFamily maps a GOOS value to an OSFamily.
func DetectOSFamily(goos string) (OSFamily, error) {
	switch goos {
	case "linux":
		return OSLinux, nil
	case "darwin":
		return OSDarwin, nil
	case "windows":
		return OSWindows, nil
	default:
		return 0, &Error{
			Kind: KindUnsupportedPlatform,
			Op:   "detect os",
			Err:  fmt.Errorf("%w: host OS %q is neither linux, darwin nor windows", ErrUnsupportedPlatform, goos),
		}
	}
}

// HostOSFamily returns the family of the running host.
func HostOSFamily() (OSFamily, error) {
	return DetectOSFamily(runtime.GOOS)
}

// checkUtility verifies that the configuration utility required by family
// can be invoked through runner.
func checkUtility(family OSFamily, runner CommandRunner) error {
	if !family.IsPOSIX() {
		return nil
	}
	if _, err := runner.LookPath(sttyCommand); err != nil {
		return &Error{
			Kind: KindUnsupportedPlatform,
			Op:   "detect os",
			Err:  fmt.Errorf("%w: no %s available, unable to run: %v", ErrUnsupportedPlatform, sttyCommand, err),
		}
	}
	return nil
}
