package process

import (
	"io"
	"time"
)

// Command describes a helper binary invocation, such as an ffmpeg decode.
type Command struct {
	// Binary is the executable path or name (resolved via PATH).
	Binary string
	// Args are the command-line arguments.
	Args []string
	// Stdin provides input to the process. May be nil.
	Stdin io.Reader
	// GracePeriod is how long to wait after SIGTERM before SIGKILL.
	// Defaults to 5 seconds if zero.
	GracePeriod time.Duration
}

func (c Command) gracePeriod() time.Duration {
	if c.GracePeriod == 0 {
		return 5 * time.Second
	}
	return c.GracePeriod
}
