package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeDisabled(t *testing.T) {
	t.Setenv("MOVE_DEBUG", "")
	t.Setenv("MOVE_DEBUG_FILE", "")

	path, err := Initialize(false, "", DefaultMaxLogFiles)

	require.NoError(t, err)
	assert.Empty(t, path)
	assert.NotNil(t, Logger)
}

func TestInitializeWithDebugFile(t *testing.T) {
	t.Setenv("MOVE_DEBUG", "1") // inherited: no banner on stderr
	t.Setenv("MOVE_DEBUG_FILE", "")
	logFile := filepath.Join(t.TempDir(), "nested", "move.log")

	path, err := Initialize(false, logFile, DefaultMaxLogFiles)
	require.NoError(t, err)
	assert.Equal(t, logFile, path)

	Logger.Info("hello", "key", "value")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"key":"value"`)
}

func TestRotateLogs(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)
	for i, name := range []string{"a.log", "b.log", "c.log", "d.log"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(name), 0644))
		mod := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(path, mod, mod))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), nil, 0644))

	require.NoError(t, rotateLogs(dir, 3))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	// Two oldest removed to leave room for the new file
	assert.ElementsMatch(t, []string{"c.log", "d.log", "keep.txt"}, names)
}
