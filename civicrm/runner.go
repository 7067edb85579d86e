// ABOUTME: Process invoker for cv commands with per-call timeout and cancellation
// ABOUTME: Captures stdout/stderr; non-zero exit or spawn failure becomes a ProcessError
package civicrm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single cv invocation.
const DefaultTimeout = 30 * time.Second

const waitDelay = 2 * time.Second

// Output is what a command wrote.
type Output struct {
	Stdout string
	Stderr string
}

// Runner executes a rendered command.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Output, error)
}

// ExecRunner runs commands as child processes.
type ExecRunner struct {
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewExecRunner returns a runner with the given timeout. A non-positive
// timeout falls back to DefaultTimeout.
func NewExecRunner(timeout time.Duration, logger *slog.Logger) *ExecRunner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecRunner{Timeout: timeout, Logger: logger}
}

func (r *ExecRunner) Run(ctx context.Context, cmd Command) (Output, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	proc := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	proc.Env = append(os.Environ(), cmd.Env...)
	// cv may leave php children holding the output pipes after a kill.
	proc.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	proc.Stdout = &stdout
	proc.Stderr = &stderr

	err := proc.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		perr := &ProcessError{
			Command:  cmd.String(),
			ExitCode: -1,
			Stderr:   out.Stderr,
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			perr.ExitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			perr.Err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		return out, perr
	}

	// cv prints deprecation notices and similar diagnostics on stderr even
	// when the call succeeds.
	if stderr := strings.TrimSpace(out.Stderr); stderr != "" && r.Logger != nil {
		r.Logger.Warn("cv wrote to stderr",
			slog.String("entity", cmd.Entity),
			slog.String("action", cmd.Action),
			slog.String("stderr", stderr),
		)
	}
	return out, nil
}
