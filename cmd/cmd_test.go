package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	serial "github.com/allbin/go-serialctl"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHexString(t *testing.T) {
	tests := []struct {
		input   string
		want    []byte
		wantErr bool
	}{
		{input: "41540D", want: []byte("AT\r")},
		{input: "41 54 0d", want: []byte("AT\r")},
		{input: "0x41 0x54", want: []byte("AT")},
		{input: "  ff00  ", want: []byte{0xff, 0x00}},
		{input: "", wantErr: true},
		{input: "415", wantErr: true},
		{input: "zz", wantErr: true},
		{input: "4G", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseHexString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildPayload(t *testing.T) {
	got, err := buildPayload("AT", false, true)
	require.NoError(t, err)
	assert.Equal(t, []byte("AT\n"), got)

	got, err = buildPayload("AT", false, false)
	require.NoError(t, err)
	assert.Equal(t, []byte("AT"), got)

	// --newline does not apply to hex data
	got, err = buildPayload("4154", true, true)
	require.NoError(t, err)
	assert.Equal(t, []byte("AT"), got)

	_, err = buildPayload("41 5", true, false)
	assert.ErrorContains(t, err, "invalid hex data")
}

func TestReadInputFromPipe(t *testing.T) {
	got, err := readInput(strings.NewReader("ATI\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "ATI", got)
}

func TestSettingsFrom(t *testing.T) {
	base := func() *viper.Viper {
		v := viper.New()
		v.Set("baud", 9600)
		v.Set("parity", "none")
		v.Set("data-bits", 8)
		v.Set("stop-bits", "1")
		v.Set("flow-control", "none")
		return v
	}

	t.Run("defaults", func(t *testing.T) {
		s, err := settingsFrom(base())
		require.NoError(t, err)
		assert.Equal(t, serial.DefaultSettings(), s)
	})

	t.Run("overrides", func(t *testing.T) {
		v := base()
		v.Set("baud", 115200)
		v.Set("parity", "E")
		v.Set("data-bits", 7)
		v.Set("stop-bits", "2")
		v.Set("flow-control", "xon/xoff")

		s, err := settingsFrom(v)
		require.NoError(t, err)
		assert.Equal(t, serial.Settings{
			BaudRate:    115200,
			DataBits:    7,
			StopBits:    serial.StopBitsTwo,
			Parity:      serial.ParityEven,
			FlowControl: serial.FlowControlXONXOFF,
		}, s)
	})

	invalid := []struct {
		key, value string
		want       error
	}{
		{"baud", "14400", serial.ErrInvalidBaudRate},
		{"parity", "mark", serial.ErrInvalidConfig},
		{"stop-bits", "3", serial.ErrInvalidConfig},
		{"flow-control", "dtr/dsr", serial.ErrInvalidConfig},
	}
	for _, tt := range invalid {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			v := base()
			v.Set(tt.key, tt.value)
			_, err := settingsFrom(v)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseLineEnding(t *testing.T) {
	for name, want := range map[string]string{"lf": "\n", "CRLF": "\r\n", "cr": "\r", "none": ""} {
		got, err := parseLineEnding(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := parseLineEnding("nl")
	assert.Error(t, err)
}

func TestGetPortType(t *testing.T) {
	tests := map[string]string{
		"ttyUSB0":                "USB Serial",
		"ttyACM1":                "USB CDC/ACM",
		"ttyAMA0":                "ARM Serial",
		"ttymxc2":                "i.MX Serial",
		"ttyS0":                  "Standard Serial",
		"cu.usbserial-1410":      "macOS Call-up",
		"tty.Bluetooth-Incoming": "macOS Dial-in",
		"COM3":                   "COM Port",
		"rfcomm0":                "Serial Port",
	}
	for name, want := range tests {
		assert.Equal(t, want, getPortType(name), name)
	}
}

func TestFilterPorts(t *testing.T) {
	infos := []*serial.PortInfo{
		{Path: "/dev/ttyUSB0", Name: "ttyUSB0"},
		{Path: "/dev/ttyS0", Name: "ttyS0"},
		{Path: "/dev/ttyAMA0", Name: "ttyAMA0"},
		{Path: "/dev/ttyXRUSB0", Name: "ttyXRUSB0", IsUSB: true},
		{Path: "COM4", Name: "COM4"},
	}

	names := func(in []*serial.PortInfo) []string {
		var out []string
		for _, info := range in {
			out = append(out, info.Name)
		}
		return out
	}

	assert.Len(t, filterPorts(infos, ""), len(infos))
	assert.Len(t, filterPorts(infos, "all"), len(infos))
	assert.Equal(t, []string{"ttyUSB0", "ttyXRUSB0"}, names(filterPorts(infos, "USB")))
	assert.Equal(t, []string{"ttyS0", "COM4"}, names(filterPorts(infos, "standard")))
	assert.Equal(t, []string{"ttyAMA0"}, names(filterPorts(infos, "arm")))
	assert.Empty(t, filterPorts(infos, "bluetooth"))
}

// scriptedReader serves chunks and cancels the capture once they run out.
type scriptedReader struct {
	chunks [][]byte
	err    error
	cancel context.CancelFunc
	calls  int
}

func (r *scriptedReader) ReadPort(count int) ([]byte, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	if len(r.chunks) == 0 {
		r.cancel()
		return nil, nil
	}
	chunk := r.chunks[0]
	r.chunks = r.chunks[1:]
	return chunk, nil
}

func TestRunCapture(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := &scriptedReader{
		chunks: [][]byte{[]byte("line 1\n"), []byte("line 2\n")},
		cancel: cancel,
	}
	var out, console bytes.Buffer

	total, err := runCapture(ctx, r, &out, &console, 0, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, int64(14), total)
	assert.Equal(t, "line 1\nline 2\n", out.String())
	assert.Equal(t, out.String(), console.String())
	assert.Equal(t, 3, r.calls)
}

func TestRunCaptureStopsOnReadError(t *testing.T) {
	boom := errors.New("boom")
	r := &scriptedReader{err: boom}
	var out bytes.Buffer

	total, err := runCapture(context.Background(), r, &out, nil, 0, time.Millisecond)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, total)
}
