package serial

import (
	"errors"
	"testing"
)

func TestParseOpenMode(t *testing.T) {
	tests := []struct {
		mode string
		want OpenMode
	}{
		{"r", OpenMode{Read: true}},
		{"rb", OpenMode{Read: true, Binary: true}},
		{"r+", OpenMode{Read: true, Write: true}},
		{"r+b", OpenMode{Read: true, Write: true, Binary: true}},
		{"w", OpenMode{Write: true}},
		{"w+", OpenMode{Read: true, Write: true}},
		{"a", OpenMode{Write: true, Append: true}},
		{"a+b", OpenMode{Read: true, Write: true, Append: true, Binary: true}},
	}

	for _, tt := range tests {
		got, err := ParseOpenMode(tt.mode)
		if err != nil {
			t.Errorf("ParseOpenMode(%q) failed: %v", tt.mode, err)
			continue
		}
		if got.Read != tt.want.Read || got.Write != tt.want.Write ||
			got.Append != tt.want.Append || got.Binary != tt.want.Binary {
			t.Errorf("ParseOpenMode(%q) = %+v, want %+v", tt.mode, got, tt.want)
		}
		if got.String() != tt.mode {
			t.Errorf("String() = %q, want %q", got.String(), tt.mode)
		}
	}
}

func TestParseOpenModeInvalid(t *testing.T) {
	for _, mode := range []string{"", "zzz", "x", "rw", "+r", "r++", "rb+", "wbb", " r", "W"} {
		if _, err := ParseOpenMode(mode); !errors.Is(err, ErrInvalidOpenMode) {
			t.Errorf("ParseOpenMode(%q): expected ErrInvalidOpenMode, got %v", mode, err)
		}
	}
}
