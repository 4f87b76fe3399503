package serial

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	bugserial "go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// Regular expressions for different types of serial devices
var devPortPatterns = map[OSFamily][]*regexp.Regexp{
	OSLinux: {
		regexp.MustCompile(`^ttyUSB\d+$`), // USB serial adapters
		regexp.MustCompile(`^ttyACM\d+$`), // USB CDC/ACM devices
		regexp.MustCompile(`^ttyS\d+$`),   // Standard serial ports
		regexp.MustCompile(`^ttyAMA\d+$`), // ARM/Raspberry Pi serial
		regexp.MustCompile(`^ttymxc\d+$`), // i.MX serial ports
		regexp.MustCompile(`^ttyO\d+$`),   // OMAP serial ports
		regexp.MustCompile(`^ttySAC\d+$`), // Samsung serial ports
		regexp.MustCompile(`^ttyTHS\d+$`), // Tegra serial ports
	},
	OSDarwin: {
		regexp.MustCompile(`^cu\..+$`),  // Call-up devices
		regexp.MustCompile(`^tty\..+$`), // Dial-in devices
	},
}

// Exclude patterns for virtual terminals and other non-serial devices
var devExcludePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^tty\d+$`),  // Virtual terminals (tty1, tty2, etc.)
	regexp.MustCompile(`^console$`), // Console
	regexp.MustCompile(`^ptmx$`),    // Pseudo-terminal multiplexer
	regexp.MustCompile(`^pty.*$`),   // Pseudo-terminals
	regexp.MustCompile(`^pts/.*$`),  // Pseudo-terminal slaves
}

// ListPorts returns the serial ports available on the host, sorted.
// Linux and Darwin scan /dev; Windows asks the system registry.
func ListPorts() ([]string, error) {
	family, err := HostOSFamily()
	if err != nil {
		return nil, err
	}
	if family.IsPOSIX() {
		return listDevPorts("/dev", family)
	}

	ports, err := bugserial.GetPortsList()
	if err != nil {
		return nil, err
	}
	sort.Strings(ports)
	return ports, nil
}

// listDevPorts scans dir for character devices matching the family's patterns.
func listDevPorts(dir string, family OSFamily) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	patterns := devPortPatterns[family]
	var ports []string
	for _, entry := range entries {
		name := entry.Name()
		if matchesAny(devExcludePatterns, name) || !matchesAny(patterns, name) {
			continue
		}

		fullPath := filepath.Join(dir, name)
		if isCharacterDevice(fullPath) {
			ports = append(ports, fullPath)
		}
	}

	sort.Strings(ports)
	return ports, nil
}

func matchesAny(patterns []*regexp.Regexp, name string) bool {
	for _, pattern := range patterns {
		if pattern.MatchString(name) {
			return true
		}
	}
	return false
}

// isCharacterDevice checks if the given path is a character device
func isCharacterDevice(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// PortInfo describes a serial port and, for USB adapters, the USB device.
type PortInfo struct {
	Name         string
	Path         string
	Description  string
	IsUSB        bool
	VendorID     string
	ProductID    string
	SerialNumber string
	Product      string
}

// GetPortInfo returns detailed information about a specific port. USB
// metadata is filled in when the host enumerator knows the port.
func GetPortInfo(portPath string) (*PortInfo, error) {
	family, err := HostOSFamily()
	if err != nil {
		return nil, err
	}
	if family.IsPOSIX() && !isCharacterDevice(portPath) {
		return nil, ErrDeviceNotFound
	}

	name := filepath.Base(portPath)
	info := &PortInfo{
		Name:        name,
		Path:        portPath,
		Description: getPortDescription(name),
	}

	if details, err := enumerator.GetDetailedPortsList(); err == nil {
		enrichUSBInfo(info, details)
	}
	return info, nil
}

// enrichUSBInfo copies USB metadata from the enumerator entry for info.Path.
func enrichUSBInfo(info *PortInfo, details []*enumerator.PortDetails) {
	for _, d := range details {
		if d == nil || (d.Name != info.Path && d.Name != info.Name) {
			continue
		}
		info.IsUSB = d.IsUSB
		if !d.IsUSB {
			return
		}
		info.VendorID = d.VID
		info.ProductID = d.PID
		info.SerialNumber = d.SerialNumber
		info.Product = d.Product
		return
	}
}

// getPortDescription provides human-readable descriptions for different port types
func getPortDescription(name string) string {
	switch {
	case strings.HasPrefix(name, "ttyUSB"):
		return "USB Serial Port"
	case strings.HasPrefix(name, "ttyACM"):
		return "USB CDC/ACM Device"
	case strings.HasPrefix(name, "ttyAMA"):
		return "ARM Serial Port"
	case strings.HasPrefix(name, "ttymxc"):
		return "i.MX Serial Port"
	case strings.HasPrefix(name, "ttySAC"):
		return "Samsung Serial Port"
	case strings.HasPrefix(name, "ttyTHS"):
		return "Tegra Serial Port"
	case strings.HasPrefix(name, "ttyO"):
		return "OMAP Serial Port"
	case strings.HasPrefix(name, "ttyS"):
		return "Standard Serial Port"
	case strings.HasPrefix(name, "cu."), strings.HasPrefix(name, "tty."):
		return "macOS Serial Port"
	case comPattern.MatchString(name):
		return "Windows COM Port"
	default:
		return "Serial Port"
	}
}
