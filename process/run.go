package process

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"syscall"
)

// Run executes a short-lived subprocess, capturing stdout and stderr, and
// waits for it to finish. Used for one-shot invocations like probing the
// ffmpeg install; streaming decodes go through Stream instead.
// If the context is canceled, SIGTERM is sent first, then SIGKILL after
// GracePeriod.
func Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Binary == "" {
		return nil, fmt.Errorf("process: binary is required")
	}

	c := exec.CommandContext(ctx, cmd.Binary, cmd.Args...) //nolint:gosec // dynamic args are the purpose of this package
	if cmd.Stdin != nil {
		c.Stdin = cmd.Stdin
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	// Process group so the whole tree dies with the parent.
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		return syscall.Kill(-c.Process.Pid, syscall.SIGTERM)
	}
	c.WaitDelay = cmd.gracePeriod()

	err := c.Run()
	result := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: c.ProcessState.ExitCode(),
	}

	if err != nil {
		if ctx.Err() != nil {
			return result, fmt.Errorf("process: killed by context: %w", ctx.Err())
		}
		return result, fmt.Errorf("process: exit code %d: %w", result.ExitCode, err)
	}
	return result, nil
}
