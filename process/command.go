package process

import (
	"io"
	"time"
)

// DefaultGracePeriod is the wait between SIGTERM and SIGKILL.
const DefaultGracePeriod = 5 * time.Second

// Command describes a subprocess to run.
type Command struct {
	// Binary is the executable path or a name resolved via PATH.
	Binary string
	Args   []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env holds extra KEY=value pairs appended to the parent environment.
	Env []string
	// Stdin may be nil.
	Stdin io.Reader
	// GracePeriod defaults to DefaultGracePeriod.
	GracePeriod time.Duration
}

// String renders the command line for logs.
func (c Command) String() string {
	s := c.Binary
	for _, a := range c.Args {
		s += " " + a
	}
	return s
}
