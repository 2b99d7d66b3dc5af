package harness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestEnvironment provides an isolated test environment with its own MOVE_HOME.
type TestEnvironment struct {
	MoveHome string
	WorkDir  string
	extraEnv map[string]string
	tb       testing.TB
}

// NewTestEnvironment creates an isolated test environment with a temp
// MOVE_HOME and a separate working directory.
// The temp directories are automatically cleaned up when the test completes.
func NewTestEnvironment(tb testing.TB) *TestEnvironment {
	tb.Helper()

	base := tb.TempDir()
	moveHome := filepath.Join(base, "home")
	workDir := filepath.Join(base, "work")
	for _, dir := range []string{moveHome, workDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			tb.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	return &TestEnvironment{
		MoveHome: moveHome,
		WorkDir:  workDir,
		extraEnv: make(map[string]string),
		tb:       tb,
	}
}

// Environ returns environment variables configured for test isolation.
// It filters out MOVE_* variables and GOCOVERDIR, and sets:
//   - MOVE_HOME to the temp directory
//   - MOVE_DEBUG to empty string (disables debug logging)
func (e *TestEnvironment) Environ() []string {
	env := make([]string, 0, len(os.Environ())+2+len(e.extraEnv))

	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "MOVE_") || key == "GOCOVERDIR" {
			continue
		}
		if _, ok := e.extraEnv[key]; ok {
			continue
		}
		env = append(env, kv)
	}

	env = append(env,
		"MOVE_HOME="+e.MoveHome,
		"MOVE_DEBUG=",
	)

	for k, v := range e.extraEnv {
		env = append(env, k+"="+v)
	}

	return env
}

// CredentialPath returns the credential file inside MOVE_HOME.
func (e *TestEnvironment) CredentialPath() string {
	return filepath.Join(e.MoveHome, "credential.toml")
}

// CachePath returns the shared dependency cache inside MOVE_HOME.
func (e *TestEnvironment) CachePath() string {
	return filepath.Join(e.MoveHome, "cache")
}

// SetEnv sets an additional environment variable for this test environment.
func (e *TestEnvironment) SetEnv(key, value string) {
	if e.extraEnv == nil {
		e.extraEnv = make(map[string]string)
	}
	e.extraEnv[key] = value
}

// WriteFile writes content to a path relative to the working directory.
func (e *TestEnvironment) WriteFile(rel, content string) string {
	e.tb.Helper()
	path := filepath.Join(e.WorkDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		e.tb.Fatalf("Failed to create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		e.tb.Fatalf("Failed to write %s: %v", rel, err)
	}
	return path
}
