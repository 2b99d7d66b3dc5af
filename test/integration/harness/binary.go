package harness

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

const defaultTimeout = 60 * time.Second

var (
	binaryPath string
	buildOnce  sync.Once
	buildErr   error

	coverBinaryPath string
	coverBuildOnce  sync.Once
	coverBuildErr   error

	buildDir string
)

// CommandResult holds the result of running a CLI command
type CommandResult struct {
	ExitCode int
	Stderr   string
	Stdout   string
}

// BuildBinary compiles the move binary once per test run.
// Call this from TestMain before running tests.
func BuildBinary() (string, error) {
	buildOnce.Do(func() {
		binaryPath, buildErr = build("move")
	})
	return binaryPath, buildErr
}

// BuildCoverBinary compiles a second move binary instrumented with -cover,
// used by the coverage-mode tests. Built lazily on first use.
func BuildCoverBinary() (string, error) {
	coverBuildOnce.Do(func() {
		coverBinaryPath, coverBuildErr = build("move-cover", "-cover")
	})
	return coverBinaryPath, coverBuildErr
}

func build(name string, flags ...string) (string, error) {
	if buildDir == "" {
		dir, err := os.MkdirTemp("", "move-integration-test-*")
		if err != nil {
			return "", err
		}
		buildDir = dir
	}

	projectRoot, err := findProjectRoot()
	if err != nil {
		return "", err
	}

	out := filepath.Join(buildDir, name)
	args := append([]string{"build"}, flags...)
	args = append(args, "-o", out, ".")

	cmd := exec.Command("go", args...)
	cmd.Dir = projectRoot
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return out, cmd.Run()
}

// CleanupBinary removes the compiled binaries and their temp directory.
// Call this from TestMain after tests complete.
func CleanupBinary() {
	if buildDir != "" {
		if err := os.RemoveAll(buildDir); err != nil {
			log.Printf("Warning: failed to cleanup binary directory: %v", err)
		}
	}
}

// GetBinaryPath returns the path to the compiled binary.
func GetBinaryPath() string {
	return binaryPath
}

// RunCommand executes the move binary with given arguments using default timeout.
func RunCommand(tb testing.TB, env *TestEnvironment, args ...string) CommandResult {
	tb.Helper()
	return run(tb, env, binaryPath, nil, defaultTimeout, args...)
}

// RunCommandWithInput executes the move binary with stdin attached to input.
func RunCommandWithInput(tb testing.TB, env *TestEnvironment, input string, args ...string) CommandResult {
	tb.Helper()
	return run(tb, env, binaryPath, strings.NewReader(input), defaultTimeout, args...)
}

// RunCommandWithTimeout executes the move binary with given arguments and timeout.
func RunCommandWithTimeout(tb testing.TB, env *TestEnvironment, timeout time.Duration, args ...string) CommandResult {
	tb.Helper()
	return run(tb, env, binaryPath, nil, timeout, args...)
}

// RunBinary executes an arbitrary binary (e.g. the -cover build) in env.
func RunBinary(tb testing.TB, env *TestEnvironment, binary string, args ...string) CommandResult {
	tb.Helper()
	return run(tb, env, binary, nil, defaultTimeout, args...)
}

func run(tb testing.TB, env *TestEnvironment, binary string, stdin io.Reader, timeout time.Duration, args ...string) CommandResult {
	tb.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Stdin = stdin
	cmd.Env = env.Environ()
	cmd.Dir = env.WorkDir

	err := cmd.Run()

	exitCode := 0
	var exitErr *exec.ExitError
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		tb.Logf("Command timed out after %v: %v %v", timeout, binary, args)
		exitCode = -1
	case errors.As(err, &exitErr):
		exitCode = exitErr.ExitCode()
	case err != nil:
		tb.Logf("Command execution error: %v", err)
		exitCode = -1
	}

	return CommandResult{
		ExitCode: exitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}
}

// findProjectRoot uses go list to find the module root directory.
func findProjectRoot() (string, error) {
	cmd := exec.Command("go", "list", "-m", "-f", "{{.Dir}}")
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
