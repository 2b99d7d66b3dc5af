package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	home := t.TempDir()
	p := NewPaths(home)

	assert.Equal(t, filepath.Join(home, "credential.toml"), p.CredentialFile())
	assert.Equal(t, filepath.Join(home, "cache"), p.CacheRoot())
	assert.Equal(t, filepath.Join(home, "history.db"), p.HistoryDB())
	assert.Equal(t, filepath.Join(home, "settings.json"), p.SettingsFile())
}

func TestNewPathsDefault(t *testing.T) {
	p := NewPaths("")
	assert.Equal(t, DefaultHome(), p.Home)
	assert.Equal(t, ".move", filepath.Base(p.Home))
}

func TestExpandPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, homeDir, ExpandPath("~"))
	assert.Equal(t, filepath.Join(homeDir, "x", "y"), ExpandPath("~/x/y"))
	assert.Equal(t, "/abs/path", ExpandPath("/abs/path"))
}

func TestLoadSettings(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		s, err := LoadSettings(filepath.Join(t.TempDir(), "settings.json"))
		require.NoError(t, err)
		assert.Equal(t, DefaultLockTimeout, s.LockTimeout())
	})

	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.json")
		seconds := 7
		require.NoError(t, SaveSettings(path, &Settings{LockTimeoutSeconds: &seconds, RegistryURL: "https://example.test"}))

		s, err := LoadSettings(path)
		require.NoError(t, err)
		assert.Equal(t, 7*time.Second, s.LockTimeout())
		assert.Equal(t, "https://example.test", s.RegistryURL)
	})

	t.Run("invalid json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
		_, err := LoadSettings(path)
		assert.ErrorContains(t, err, "invalid settings.json")
	})
}

func TestLoadSuiteConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    SuiteConfig
		wantErr string
	}{
		{
			name: "full",
			content: `parallelism: 3
step_timeout: 45s
env:
  RUST_LOG: "off"
exclude:
  - "wip/*"
`,
			want: SuiteConfig{
				Env:         map[string]string{"RUST_LOG": "off"},
				Exclude:     []string{"wip/*"},
				Parallelism: 3,
				StepTimeout: 45 * time.Second,
			},
		},
		{
			name:    "negative parallelism",
			content: "parallelism: -1\n",
			wantErr: "parallelism must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, SuiteConfigFileName), []byte(tt.content), 0644))

			got, err := LoadSuiteConfig(dir)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadSuiteConfigFromScriptPath(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "one.txtar")
	require.NoError(t, os.WriteFile(script, []byte("run --help\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, SuiteConfigFileName), []byte("parallelism: 2\n"), 0644))

	cfg, err := LoadSuiteConfig(script)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Parallelism)
}

func TestLoadSuiteConfigMissing(t *testing.T) {
	cfg, err := LoadSuiteConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, SuiteConfig{}, cfg)
}
