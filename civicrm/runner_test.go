// ABOUTME: Tests for the process invoker using /bin/sh stand-ins for cv
// ABOUTME: Covers output capture, settings env, non-zero exits, timeouts and missing binaries
package civicrm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shellCommand(script string, env ...string) Command {
	return Command{Entity: "Contact", Action: "get", Path: "/bin/sh", Args: []string{"-c", script}, Env: env}
}

func TestExecRunnerCapturesOutput(t *testing.T) {
	runner := NewExecRunner(5*time.Second, nil)

	out, err := runner.Run(context.Background(), shellCommand(`printf '%s' "$CIVICRM_SETTINGS"`, "CIVICRM_SETTINGS=/tmp/civicrm.settings.php"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/civicrm.settings.php", out.Stdout)
}

func TestExecRunnerStderrOnSuccessIsNotAnError(t *testing.T) {
	runner := NewExecRunner(5*time.Second, nil)

	out, err := runner.Run(context.Background(), shellCommand(`echo '[]'; echo 'Deprecated: something' >&2`))
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out.Stdout)
	assert.Contains(t, out.Stderr, "Deprecated")
}

func TestExecRunnerNonZeroExit(t *testing.T) {
	runner := NewExecRunner(5*time.Second, nil)

	_, err := runner.Run(context.Background(), shellCommand(`echo 'Entity not found' >&2; exit 3`))
	require.Error(t, err)

	var perr *ProcessError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 3, perr.ExitCode)
	assert.Equal(t, "Entity not found\n", perr.Stderr)
	assert.Contains(t, err.Error(), "exit status 3")
	assert.Contains(t, err.Error(), "Entity not found")
}

func TestExecRunnerTimeout(t *testing.T) {
	runner := NewExecRunner(50*time.Millisecond, nil)

	start := time.Now()
	_, err := runner.Run(context.Background(), shellCommand(`sleep 5`))
	require.Error(t, err)
	assert.Less(t, time.Since(start), 4*time.Second)

	var perr *ProcessError
	require.True(t, errors.As(err, &perr))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestExecRunnerCancellation(t *testing.T) {
	runner := NewExecRunner(10*time.Second, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx, shellCommand(`sleep 5`))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecRunnerMissingBinary(t *testing.T) {
	runner := NewExecRunner(time.Second, nil)

	_, err := runner.Run(context.Background(), Command{Path: "/nonexistent/cv", Args: []string{"api4", "Contact.get", "{}"}})
	require.Error(t, err)

	var perr *ProcessError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, -1, perr.ExitCode)
	assert.Contains(t, perr.Command, "/nonexistent/cv api4 Contact.get '{}'")
}

func TestNewExecRunnerDefaultsTimeout(t *testing.T) {
	assert.Equal(t, DefaultTimeout, NewExecRunner(0, nil).Timeout)
}
