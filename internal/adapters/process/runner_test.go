package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movecli/internal/ports"
)

const helperEnv = "MOVE_PROCESS_HELPER"

// TestMain turns the test binary into a tiny child program when asked to
func TestMain(m *testing.M) {
	switch os.Getenv(helperEnv) {
	case "":
		os.Exit(m.Run())
	case "echo":
		in, _ := io.ReadAll(os.Stdin)
		wd, _ := os.Getwd()
		fmt.Printf("args=%s\n", strings.Join(os.Args[1:], ","))
		fmt.Printf("stdin=%s\n", in)
		fmt.Printf("wd=%s\n", wd)
		fmt.Printf("custom=%s\n", os.Getenv("MOVE_PROCESS_CUSTOM"))
		fmt.Fprintln(os.Stderr, "to stderr")
		code, _ := strconv.Atoi(os.Getenv("MOVE_PROCESS_EXIT"))
		os.Exit(code)
	case "sleep":
		time.Sleep(time.Minute)
		os.Exit(0)
	}
}

func helper(mode string, extra ...string) ports.Invocation {
	return ports.Invocation{
		Binary: os.Args[0],
		Env:    append(append(os.Environ(), helperEnv+"="+mode), extra...),
	}
}

func TestRunCapturesOutput(t *testing.T) {
	dir := t.TempDir()
	inv := helper("echo", "MOVE_PROCESS_CUSTOM=yes")
	inv.Args = []string{"a", "b c"}
	inv.Dir = dir
	inv.Stdin = []byte("payload")

	out, err := NewOSRunner().Run(context.Background(), inv)
	require.NoError(t, err)

	assert.Equal(t, 0, out.ExitCode)
	assert.False(t, out.TimedOut)
	assert.Contains(t, out.Stdout, "args=a,b c\n")
	assert.Contains(t, out.Stdout, "stdin=payload\n")
	assert.Contains(t, out.Stdout, "custom=yes\n")
	assert.Equal(t, "to stderr\n", out.Stderr)

	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Contains(t, out.Stdout, "wd="+resolved+"\n")
}

func TestRunNonZeroExit(t *testing.T) {
	out, err := NewOSRunner().Run(context.Background(), helper("echo", "MOVE_PROCESS_EXIT=3"))
	require.NoError(t, err, "a failing child is an outcome, not an error")
	assert.Equal(t, 3, out.ExitCode)
}

func TestRunEmptyStdin(t *testing.T) {
	out, err := NewOSRunner().Run(context.Background(), helper("echo"))
	require.NoError(t, err)
	assert.Contains(t, out.Stdout, "stdin=\n")
}

func TestRunTimeout(t *testing.T) {
	inv := helper("sleep")
	inv.Timeout = 100 * time.Millisecond

	start := time.Now()
	out, err := NewOSRunner().Run(context.Background(), inv)
	require.NoError(t, err)

	assert.True(t, out.TimedOut)
	assert.NotEqual(t, 0, out.ExitCode)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestRunContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	_, err := NewOSRunner().Run(ctx, helper("sleep"))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunMissingBinary(t *testing.T) {
	out, err := NewOSRunner().Run(context.Background(), ports.Invocation{
		Binary: filepath.Join(t.TempDir(), "does-not-exist"),
	})
	require.Error(t, err)
	assert.Equal(t, -1, out.ExitCode)
}
