package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"movecli/internal/logging"
	"movecli/internal/ports"
)

// DefaultWaitDelay is how long a cancelled child gets between the interrupt
// and the kill
const DefaultWaitDelay = 2 * time.Second

// OSRunner implements ports.ProcessRunner with os/exec
type OSRunner struct {
	waitDelay time.Duration
}

// Compile-time interface verification
var _ ports.ProcessRunner = (*OSRunner)(nil)

// NewOSRunner creates a process runner
func NewOSRunner() *OSRunner {
	return &OSRunner{waitDelay: DefaultWaitDelay}
}

// Run executes the invocation and captures its output after it exits
func (r *OSRunner) Run(ctx context.Context, inv ports.Invocation) (ports.Outcome, error) {
	runCtx := ctx
	if inv.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, inv.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, inv.Binary, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Env = inv.Env
	// Always attached, so a child reading stdin sees EOF instead of the terminal
	cmd.Stdin = bytes.NewReader(inv.Stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	cmd.Cancel = func() error {
		if runtime.GOOS == "windows" {
			return cmd.Process.Kill()
		}
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = r.waitDelay

	logging.Logger.Debug("Running binary", "binary", inv.Binary, "args", inv.Args, "dir", inv.Dir)

	start := time.Now()
	err := cmd.Run()
	outcome := ports.Outcome{
		Duration: time.Since(start),
		ExitCode: -1,
		Stderr:   stderr.String(),
		Stdout:   stdout.String(),
	}

	if cmd.ProcessState != nil {
		outcome.ExitCode = cmd.ProcessState.ExitCode()
	}

	if ctx.Err() != nil {
		logging.Logger.Debug("Invocation cancelled", "binary", inv.Binary, "error", ctx.Err())
		return outcome, ctx.Err()
	}
	if runCtx.Err() != nil {
		outcome.TimedOut = true
		logging.Logger.Warn("Invocation timed out", "binary", inv.Binary, "args", inv.Args, "timeout", inv.Timeout)
		return outcome, nil
	}

	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(err, &exitErr):
		case errors.Is(err, exec.ErrWaitDelay):
			// Exited, but a grandchild kept the output pipes open
			logging.Logger.Debug("Output pipes outlived the child", "binary", inv.Binary)
		default:
			return outcome, fmt.Errorf("failed to run %s: %w", inv.Binary, err)
		}
	}

	logging.Logger.Debug("Binary exited", "binary", inv.Binary, "exit_code", outcome.ExitCode, "duration", outcome.Duration)
	return outcome, nil
}
