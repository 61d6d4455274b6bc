package process

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func TestRun_Success(t *testing.T) {
	res, err := Run(context.Background(), Command{
		Binary: "echo",
		Args:   []string{"hello"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(res.Stdout)) != "hello" {
		t.Errorf("got stdout %q", res.Stdout)
	}
	if res.ExitCode != 0 {
		t.Errorf("got exit code %d", res.ExitCode)
	}
}

func TestRun_MissingBinary(t *testing.T) {
	if _, err := Run(context.Background(), Command{}); err == nil {
		t.Fatal("expected error for empty binary")
	}
}

func TestRun_NonZeroExit(t *testing.T) {
	res, err := Run(context.Background(), Command{
		Binary: "sh",
		Args:   []string{"-c", "exit 3"},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if res.ExitCode != 3 {
		t.Errorf("got exit code %d, want 3", res.ExitCode)
	}
}

func TestRun_Stdin(t *testing.T) {
	res, err := Run(context.Background(), Command{
		Binary: "cat",
		Stdin:  strings.NewReader("piped"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if string(res.Stdout) != "piped" {
		t.Errorf("got %q", res.Stdout)
	}
}

func TestRun_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := Run(ctx, Command{
		Binary:      "sleep",
		Args:        []string{"10"},
		GracePeriod: time.Second,
	})
	if err == nil {
		t.Fatal("expected error from canceled context")
	}
}

func TestStream_ReadsStdout(t *testing.T) {
	h, err := Stream(context.Background(), Command{
		Binary: "sh",
		Args:   []string{"-c", "printf 'abcdef'"},
	})
	if err != nil {
		t.Fatal(err)
	}
	data, err := io.ReadAll(h)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "abcdef" {
		t.Errorf("got %q", data)
	}
	if err := h.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
}

func TestStream_CloseKillsProcess(t *testing.T) {
	h, err := Stream(context.Background(), Command{
		Binary:      "sleep",
		Args:        []string{"10"},
		GracePeriod: time.Second,
	})
	if err != nil {
		t.Fatal(err)
	}
	start := time.Now()
	if err := h.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("close took too long; process not terminated")
	}
}

func TestBoundedBuffer_KeepsTail(t *testing.T) {
	b := &boundedBuffer{limit: 4}
	_, _ = b.Write([]byte("abcdefgh"))
	if b.String() != "efgh" {
		t.Errorf("got %q, want efgh", b.String())
	}
}
