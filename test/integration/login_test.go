package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movecli/test/integration/harness"
)

func readCredentials(t *testing.T, path string) map[string]map[string]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var creds map[string]map[string]string
	require.NoError(t, toml.Unmarshal(data, &creds))
	return creds
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		input      string
		wantPrompt string
		wantTokens map[string]string
	}{
		{
			name:       "default registry",
			args:       []string{"login"},
			input:      "test-token\n",
			wantPrompt: "Please paste the API Token found on https://movey-app-staging.herokuapp.com/settings/tokens below",
			wantTokens: map[string]string{"registry": "test-token"},
		},
		{
			name:       "custom registry url with trailing slash",
			args:       []string{"login", "--registry", "mirror", "--registry-url", "https://mirror.example.com/"},
			input:      "  padded-token  \n",
			wantPrompt: "Please paste the API Token found on https://mirror.example.com/settings/tokens below",
			wantTokens: map[string]string{"mirror": "padded-token"},
		},
		{
			name:       "no trailing newline",
			args:       []string{"login"},
			input:      "eof-token",
			wantPrompt: "Please paste the API Token found on",
			wantTokens: map[string]string{"registry": "eof-token"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := harness.NewTestEnvironment(t)

			result := harness.RunCommandWithInput(t, env, tt.input, tt.args...)

			harness.AssertSuccess(t, result)
			harness.AssertStdoutContains(t, result, tt.wantPrompt)
			harness.AssertStdoutContains(t, result, "saved to "+env.CredentialPath())

			creds := readCredentials(t, env.CredentialPath())
			for registry, token := range tt.wantTokens {
				assert.Equal(t, token, creds[registry]["token"])
			}
		})
	}
}

func TestLoginKeepsOtherRegistries(t *testing.T) {
	env := harness.NewTestEnvironment(t)

	harness.AssertSuccess(t, harness.RunCommandWithInput(t, env, "first\n", "login"))
	harness.AssertSuccess(t, harness.RunCommandWithInput(t, env, "second\n", "login", "--registry", "mirror"))
	harness.AssertSuccess(t, harness.RunCommandWithInput(t, env, "third\n", "login"))

	creds := readCredentials(t, env.CredentialPath())
	assert.Equal(t, "third", creds["registry"]["token"])
	assert.Equal(t, "second", creds["mirror"]["token"])
}

func TestLoginEmptyToken(t *testing.T) {
	env := harness.NewTestEnvironment(t)

	result := harness.RunCommandWithInput(t, env, "\n", "login")

	harness.AssertExitCode(t, result, 1)
	harness.AssertStderrContains(t, result, "Error: ")
	harness.AssertStderrContains(t, result, "no token given")
	assert.NoFileExists(t, env.CredentialPath())
}

func TestLoginPermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root bypasses file permissions")
	}

	env := harness.NewTestEnvironment(t)
	original := "[registry]\ntoken = 'old'\n"
	require.NoError(t, os.WriteFile(env.CredentialPath(), []byte(original), 0644))
	require.NoError(t, os.Chmod(env.CredentialPath(), 0000))
	t.Cleanup(func() { os.Chmod(env.CredentialPath(), 0644) })

	result := harness.RunCommandWithInput(t, env, "new-token\n", "login")

	harness.AssertExitCode(t, result, 1)
	harness.AssertStderrContains(t, result, "Error: ")
	harness.AssertStderrContains(t, result, "permission denied")
	harness.AssertStderrContains(t, result, env.CredentialPath())

	// The prompt is shown before the write is attempted
	harness.AssertStdoutContains(t, result, "Please paste the API Token")

	require.NoError(t, os.Chmod(env.CredentialPath(), 0644))
	data, err := os.ReadFile(env.CredentialPath())
	require.NoError(t, err)
	assert.Equal(t, original, string(data), "file must be left untouched")

	// No temp files left next to it
	entries, err := os.ReadDir(filepath.Dir(env.CredentialPath()))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".credential"), "leftover %s", e.Name())
	}
}
