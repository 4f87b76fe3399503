//go:build unix

package serial

import (
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunnerCapturesOutput(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	res, err := ExecRunner{}.Run(Command{
		Name: "sh",
		Args: []string{"-c", "echo out; echo err >&2; exit 3"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "out", strings.TrimSpace(string(res.Stdout)))
	assert.Equal(t, "err", strings.TrimSpace(string(res.Stderr)))
	assert.Equal(t, "err", res.Diagnostic())
}

func TestExecRunnerSuccess(t *testing.T) {
	res, err := ExecRunner{}.Run(Command{Name: "sh", Args: []string{"-c", "true"}})
	if err != nil {
		t.Skipf("sh not available: %v", err)
	}
	assert.Equal(t, 0, res.ExitCode)
	assert.Empty(t, res.Diagnostic())
}

func TestExecRunnerMissingCommand(t *testing.T) {
	_, err := ExecRunner{}.Run(Command{Name: "definitely-not-a-serial-utility"})
	assert.Error(t, err)

	_, err = ExecRunner{}.LookPath("definitely-not-a-serial-utility")
	assert.Error(t, err)
}
