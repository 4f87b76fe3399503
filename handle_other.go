//go:build !unix && !windows

package serial

import (
	"fmt"
	"runtime"
)

// Open always fails: the host has no supported device API.
func (FileOpener) Open(path string, mode OpenMode) (Handle, error) {
	return nil, fmt.Errorf("failed to open %s: %w: %s", path, ErrUnsupportedPlatform, runtime.GOOS)
}
