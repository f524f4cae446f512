package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"time"
)

// waitDelay caps how long Run waits for output pipes after the process is killed.
const waitDelay = time.Second

// CommandResult captures the output of a finished external command.
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args ...string) (CommandResult, error)
}

// CommandExecutor runs binaries through os/exec.
type CommandExecutor struct{}

// Run executes binary with args. A non-zero exit is not an error: callers
// inspect ExitCode. Errors are returned only when the command could not run
// to completion, tagged with ErrExternalToolUnavailable or ErrExternalToolTimeout
// where that applies.
func (CommandExecutor) Run(ctx context.Context, binary string, args ...string) (CommandResult, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.WaitDelay = waitDelay
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := CommandResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return result, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		result.ExitCode = -1
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return result, fmt.Errorf("%w: %s", ErrExternalToolTimeout, binary)
		}
		return result, ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, exec.ErrDot) || errors.Is(err, fs.ErrNotExist) {
		return result, fmt.Errorf("%w: %s: %w", ErrExternalToolUnavailable, binary, err)
	}
	return result, fmt.Errorf("run %s: %w", binary, err)
}

// RunWithTimeout bounds a single command invocation. A zero timeout leaves ctx untouched.
func RunWithTimeout(ctx context.Context, exec Executor, timeout time.Duration, binary string, args ...string) (CommandResult, error) {
	if exec == nil {
		exec = CommandExecutor{}
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	result, err := exec.Run(ctx, binary, args...)
	if err == nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return result, fmt.Errorf("%w: %s", ErrExternalToolTimeout, binary)
	}
	return result, err
}
