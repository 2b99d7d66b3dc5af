package ports

import (
	"context"
	"time"
)

// Invocation is one run of the binary under test
type Invocation struct {
	Args    []string
	Binary  string
	Dir     string
	Env     []string
	Stdin   []byte
	Timeout time.Duration
}

// Outcome is what an invocation produced. ExitCode is -1 when the
// process was killed or never started.
type Outcome struct {
	Duration time.Duration
	ExitCode int
	Stderr   string
	Stdout   string
	TimedOut bool
}

// ProcessRunner spawns a child process and waits for it
type ProcessRunner interface {
	// Run blocks until the child exits, the timeout elapses, or ctx is done.
	// A non-zero exit is reported in Outcome, not as an error.
	Run(ctx context.Context, inv Invocation) (Outcome, error)
}
