package serial

import (
	"fmt"
	"regexp"
)

// DefaultOpenMode opens the device for reading and writing.
const DefaultOpenMode = "r+b"

// openModePattern accepts the fopen-style modes r, w and a, each with an
// optional + and an optional b qualifier.
var openModePattern = regexp.MustCompile(`^[raw]\+?b?$`)

// OpenMode is a parsed fopen-style opening mode.
type OpenMode struct {
	Read   bool
	Write  bool
	Append bool
	Binary bool

	raw string
}

// ParseOpenMode validates mode against the r/w/a[+][b] grammar.
func ParseOpenMode(mode string) (OpenMode, error) {
	if !openModePattern.MatchString(mode) {
		return OpenMode{}, fmt.Errorf("%w: %q, use fopen() modes", ErrInvalidOpenMode, mode)
	}

	m := OpenMode{raw: mode}
	plus := len(mode) > 1 && mode[1] == '+'
	switch mode[0] {
	case 'r':
		m.Read = true
		m.Write = plus
	case 'w':
		m.Write = true
		m.Read = plus
	case 'a':
		m.Write = true
		m.Append = true
		m.Read = plus
	}
	m.Binary = mode[len(mode)-1] == 'b'
	return m, nil
}

func (m OpenMode) String() string {
	return m.raw
}
