package serial

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Command is an external configuration command and its arguments.
type Command struct {
	Name string
	Args []string
}

// String renders the command line for diagnostics.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// CommandResult holds the exit status and captured output of a Command.
type CommandResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Diagnostic returns the most useful captured output, preferring stderr.
func (r CommandResult) Diagnostic() string {
	if msg := strings.TrimSpace(string(r.Stderr)); msg != "" {
		return msg
	}
	return strings.TrimSpace(string(r.Stdout))
}

// CommandRunner runs external commands synchronously.
//
// Run must capture both output streams fully before returning. A non-zero
// exit code is reported through CommandResult, not as an error; the error is
// reserved for commands that could not be started at all.
type CommandRunner interface {
	Run(cmd Command) (CommandResult, error)
	LookPath(name string) (string, error)
}

// ExecRunner runs commands with os/exec. It enforces no timeout: a command
// that never exits blocks the caller.
type ExecRunner struct{}

var _ CommandRunner = ExecRunner{}

// Run executes cmd and waits for it to exit.
func (ExecRunner) Run(cmd Command) (CommandResult, error) {
	var stdout, stderr bytes.Buffer

	c := exec.Command(cmd.Name, cmd.Args...)
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	result := CommandResult{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return result, nil
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	default:
		return result, fmt.Errorf("failed to run %s: %w", cmd.Name, err)
	}
}

// LookPath checks if name is available in PATH
func (ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
