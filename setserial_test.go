package serial

import (
	"errors"
	"testing"
)

func TestSetSetserialFlag(t *testing.T) {
	tests := []struct {
		name     string
		result   CommandResult
		param    string
		arg      string
		wantArgs string
		wantKind Kind
	}{
		{
			name:     "accepted flag",
			param:    "spd_hi",
			wantArgs: "setserial /dev/ttyS0 spd_hi",
		},
		{
			name:     "flag with argument",
			param:    "irq",
			arg:      "4",
			wantArgs: "setserial /dev/ttyS0 irq 4",
		},
		{
			name:     "invalid flag",
			result:   CommandResult{ExitCode: 1, Stdout: []byte("Invalid flag: bogus\n")},
			param:    "bogus",
			wantArgs: "setserial /dev/ttyS0 bogus",
			wantKind: KindValidation,
		},
		{
			name:     "device error",
			result:   CommandResult{ExitCode: 1, Stderr: []byte("/dev/ttyS0: Permission denied\n")},
			param:    "spd_hi",
			wantArgs: "setserial /dev/ttyS0 spd_hi",
			wantKind: KindPlatformCommandFailed,
		},
		{
			name:     "silent failure",
			result:   CommandResult{ExitCode: 2},
			param:    "spd_hi",
			wantArgs: "setserial /dev/ttyS0 spd_hi",
			wantKind: KindPlatformCommandFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rig := newTestRig(t, OSLinux)
			rig.open(t, "/dev/ttyS0")
			rig.runner.results = []CommandResult{tt.result}

			err := rig.port.SetSetserialFlag(tt.param, tt.arg)
			if got := rig.runner.last().String(); got != tt.wantArgs {
				t.Errorf("Ran %q, want %q", got, tt.wantArgs)
			}
			if tt.wantKind == 0 {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				return
			}
			if !IsKind(err, tt.wantKind) {
				t.Errorf("Expected %v, got %v", tt.wantKind, err)
			}
		})
	}
}

func TestSetSetserialFlagPreconditions(t *testing.T) {
	rig := newTestRig(t, OSLinux)
	rig.setDevice(t, "/dev/ttyS0")
	if err := rig.port.SetSetserialFlag("spd_hi", ""); !IsKind(err, KindInvalidState) {
		t.Errorf("Expected invalid state before open, got %v", err)
	}

	rig.open(t, "/dev/ttyS0")
	if err := rig.port.SetSetserialFlag("", ""); !IsKind(err, KindValidation) {
		t.Errorf("Expected validation error for empty parameter, got %v", err)
	}

	rig.runner.missing = map[string]bool{"setserial": true}
	err := rig.port.SetSetserialFlag("spd_hi", "")
	if !IsKind(err, KindPlatformCommandFailed) || !errors.Is(err, ErrSetserialNotAvailable) {
		t.Errorf("Expected ErrSetserialNotAvailable, got %v", err)
	}
	if len(rig.runner.commands) != 0 {
		t.Errorf("Expected no command, got %v", rig.runner.commands)
	}

	darwin := newTestRig(t, OSDarwin)
	darwin.open(t, "/dev/cu.usbserial")
	err = darwin.port.SetSetserialFlag("spd_hi", "")
	if !IsKind(err, KindValidation) || !errors.Is(err, ErrSetserialNotAvailable) {
		t.Errorf("Expected setserial to be linux only, got %v", err)
	}
}
