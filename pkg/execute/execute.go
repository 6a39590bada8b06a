package execute

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"
)

const DefaultTimeout = 30 * time.Second

var (
	ErrEmptyCommand = errors.New("empty command")
	ErrTimeout      = errors.New("command timed out")
	ErrCanceled     = errors.New("command canceled")
	ErrNilContext   = errors.New("context cannot be nil")
)

// ExecResult holds the outcome of one command run. ExitCode is -1 when the
// process did not exit normally.
type ExecResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Err      error
}

func (r *ExecResult) Success() bool {
	return r.Err == nil && r.ExitCode == 0
}

func (r *ExecResult) Error() string {
	if r.Err != nil {
		return fmt.Sprintf("exit code %d: %v", r.ExitCode, r.Err)
	}
	if r.ExitCode != 0 {
		return fmt.Sprintf("exit code %d: %s", r.ExitCode, bytes.TrimSpace(r.Stderr))
	}
	return ""
}

// AsError returns nil on success and the result itself otherwise.
func (r *ExecResult) AsError() error {
	if r.Success() {
		return nil
	}
	return r
}

// CommandWithContext runs name and captures its output. A ctx without a
// deadline is bounded by DefaultTimeout.
func CommandWithContext(ctx context.Context, name string, args ...string) *ExecResult {
	result := &ExecResult{ExitCode: -1}

	if name == "" {
		result.Err = ErrEmptyCommand
		return result
	}

	if ctx == nil {
		result.Err = ErrNilContext
		return result
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result.Stdout = stdout.Bytes()
	result.Stderr = stderr.Bytes()
	result.ExitCode = extractExitCode(err)
	result.Err = wrapError(ctx, err)

	return result
}

func extractExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			return status.ExitStatus()
		}
	}

	return -1
}

func wrapError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case errors.Is(ctx.Err(), context.Canceled):
		return fmt.Errorf("%w: %v", ErrCanceled, err)
	default:
		return err
	}
}
