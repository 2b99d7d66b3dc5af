package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movecli/internal/domain"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeManifest(t, `[package]
name = "Coin"
version = "1.0.0"

[addresses]
std = "0x1"

[dependencies]
MoveStdlib = { git = "https://github.com/move-language/move.git", rev = "main", subdir = "language/move-stdlib" }
Local = { local = "../local" }
`)

	m, err := NewLoader().Load(dir)
	require.NoError(t, err)

	assert.Equal(t, domain.PackageInfo{Name: "Coin", Version: "1.0.0"}, m.Package)
	require.Len(t, m.Dependencies, 2)

	stdlib := m.Dependencies["MoveStdlib"]
	assert.True(t, stdlib.IsGit())
	assert.Equal(t, "main", stdlib.Rev)
	assert.Equal(t, "language/move-stdlib", stdlib.Subdir)
	assert.Equal(t, domain.ResourceKey{Source: "https://github.com/move-language/move.git", Revision: "main"}, stdlib.Key())

	local := m.Dependencies["Local"]
	assert.False(t, local.IsGit())
	assert.Equal(t, "../local", local.Local)
}

func TestLoadNoDependencies(t *testing.T) {
	m, err := NewLoader().Load(writeManifest(t, "[package]\nname = \"Solo\"\n"))
	require.NoError(t, err)
	assert.Empty(t, m.Dependencies)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{name: "syntax", content: "[package\n", wantMsg: "Move.toml:1"},
		{name: "no name", content: "[package]\nversion = \"1\"\n", wantMsg: "name is required"},
		{name: "name with slash", content: "[package]\nname = \"a/b\"\n", wantMsg: "not a valid directory name"},
		{name: "both sources", content: "[package]\nname = \"A\"\n[dependencies]\nD = { git = \"x\", rev = \"r\", local = \"y\" }\n", wantMsg: "both git and local"},
		{name: "no source", content: "[package]\nname = \"A\"\n[dependencies]\nD = { rev = \"r\" }\n", wantMsg: "needs git or local"},
		{name: "git without rev", content: "[package]\nname = \"A\"\n[dependencies]\nD = { git = \"x\" }\n", wantMsg: "needs a rev"},
		{name: "wrong type", content: "[package]\nname = 7\n", wantMsg: "Move.toml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().Load(writeManifest(t, tt.content))
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrManifestInvalid))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := NewLoader().Load(t.TempDir())
	assert.ErrorIs(t, err, domain.ErrManifestInvalid)
}
