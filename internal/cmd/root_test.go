package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseCLI(t *testing.T, args ...string) *CLI {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("move"), kong.Bind(&cli), kong.Vars{"version": "test"})
	require.NoError(t, err)
	_, err = parser.Parse(args)
	require.NoError(t, err)
	t.Cleanup(func() { cli.Close() })
	return &cli
}

func TestLoadedSettingsBeforeParse(t *testing.T) {
	var cli CLI
	require.NotNil(t, cli.LoadedSettings())
	assert.Nil(t, cli.LoadedSettings().Parallelism)
}

func TestAfterApplyLoadsSettings(t *testing.T) {
	t.Setenv("MOVE_DEBUG", "")
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, "settings.json"),
		[]byte(`{"parallelism": 3, "registry_url": "https://registry.test", "lock_timeout_seconds": 9}`), 0644))

	cli := parseCLI(t, "--home", home, "settings", "meta")

	settings := cli.LoadedSettings()
	require.NotNil(t, settings.Parallelism)
	assert.Equal(t, 3, *settings.Parallelism)
	assert.Equal(t, "https://registry.test", settings.RegistryURL)
	assert.Equal(t, "9s", settings.LockTimeout().String())

	require.NotNil(t, cli.Container)
	assert.Equal(t, home, cli.Container.Paths.Home)
	assert.Equal(t, filepath.Join(home, "credential.toml"), cli.Container.Credentials.Path())
}

func TestAfterApplyInvalidSettingsFallsBack(t *testing.T) {
	t.Setenv("MOVE_DEBUG", "")
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, "settings.json"), []byte("{nope"), 0644))

	cli := parseCLI(t, "--home", home, "cache", "path")

	assert.Nil(t, cli.LoadedSettings().Parallelism)
	assert.Empty(t, cli.LoadedSettings().RegistryURL)
}
