package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"syscall"
)

// Stream starts a subprocess and returns a reader over its stdout.
// Unlike Run, the process keeps writing until it exits or the returned
// StreamHandle is closed. Stderr is buffered (bounded) for diagnostics.
type StreamHandle struct {
	stdout io.ReadCloser
	cmd    *exec.Cmd
	stderr *boundedBuffer
}

// Read reads raw stdout bytes from the running process.
func (h *StreamHandle) Read(p []byte) (int, error) {
	return h.stdout.Read(p)
}

// Close terminates the process and releases pipes. Safe to call after exit.
func (h *StreamHandle) Close() error {
	_ = h.stdout.Close()
	if h.cmd.Process != nil {
		_ = syscall.Kill(-h.cmd.Process.Pid, syscall.SIGTERM)
	}
	err := h.cmd.Wait()
	if err != nil {
		// SIGTERM on our own request is a normal shutdown
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == -1 {
			return nil
		}
		return fmt.Errorf("process: %w (stderr: %s)", err, h.stderr.String())
	}
	return nil
}

// Stderr returns the tail of the process's stderr output.
func (h *StreamHandle) Stderr() string { return h.stderr.String() }

// Stream launches cmd and returns a handle streaming its stdout.
func Stream(ctx context.Context, cmd Command) (*StreamHandle, error) {
	if cmd.Binary == "" {
		return nil, fmt.Errorf("process: binary is required")
	}

	c := exec.CommandContext(ctx, cmd.Binary, cmd.Args...) //nolint:gosec // dynamic args are the purpose of this package
	if cmd.Stdin != nil {
		c.Stdin = cmd.Stdin
	}

	stderr := &boundedBuffer{limit: 8 * 1024}
	c.Stderr = stderr

	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		return syscall.Kill(-c.Process.Pid, syscall.SIGTERM)
	}
	c.WaitDelay = cmd.gracePeriod()

	stdout, err := c.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("process: stdout pipe: %w", err)
	}

	if err := c.Start(); err != nil {
		return nil, fmt.Errorf("process: start %s: %w", cmd.Binary, err)
	}

	return &StreamHandle{stdout: stdout, cmd: c, stderr: stderr}, nil
}

// boundedBuffer keeps only the most recent writes up to limit bytes.
type boundedBuffer struct {
	buf   []byte
	limit int
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	if len(b.buf) > b.limit {
		b.buf = b.buf[len(b.buf)-b.limit:]
	}
	return len(p), nil
}

func (b *boundedBuffer) String() string { return string(b.buf) }
