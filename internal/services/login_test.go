package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movecli/internal/domain"
	portsmocks "movecli/internal/ports/mocks"
)

const testRegistryURL = "https://movey-app-staging.herokuapp.com"

func TestLogin_ReadsFirstLine(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
	}{
		{name: "newline terminated", stdin: "test_token\n"},
		{name: "no trailing newline", stdin: "test_token"},
		{name: "surrounding space and extra lines", stdin: "  test_token \nignored\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := portsmocks.NewMockCredentialWriter(t)
			store.EXPECT().Save(domain.DefaultRegistry, "test_token").Return(nil)

			var out bytes.Buffer
			svc := NewLoginService(store, strings.NewReader(tt.stdin), &out, nil)

			require.NoError(t, svc.Login(context.Background(), "", testRegistryURL))
			assert.Equal(t,
				"Please paste the API Token found on https://movey-app-staging.herokuapp.com/settings/tokens below\n",
				out.String())
		})
	}
}

func TestLogin_PromptPrintedBeforeFailure(t *testing.T) {
	store := portsmocks.NewMockCredentialWriter(t)
	store.EXPECT().Save("staging", "tok").Return(domain.ErrCredentialPermissionDenied)

	var out bytes.Buffer
	svc := NewLoginService(store, strings.NewReader("tok\n"), &out, nil)

	err := svc.Login(context.Background(), "staging", testRegistryURL+"/")

	assert.True(t, errors.Is(err, domain.ErrCredentialPermissionDenied))
	assert.Contains(t, out.String(), testRegistryURL+"/settings/tokens below")
}

func TestLogin_EmptyInput(t *testing.T) {
	// No Save expected
	store := portsmocks.NewMockCredentialWriter(t)

	var out bytes.Buffer
	err := NewLoginService(store, strings.NewReader("\n"), &out, nil).Login(context.Background(), "", testRegistryURL)

	require.Error(t, err)
	assert.Contains(t, out.String(), "Please paste the API Token")
}

func TestLogin_Interactive(t *testing.T) {
	store := portsmocks.NewMockCredentialWriter(t)
	store.EXPECT().Save(domain.DefaultRegistry, "typed").Return(nil)

	var gotPrompt string
	prompter := func(_ context.Context, prompt string) (string, error) {
		gotPrompt = prompt
		return "typed", nil
	}

	var out bytes.Buffer
	err := NewLoginService(store, strings.NewReader("ignored\n"), &out, prompter).Login(context.Background(), "", testRegistryURL)

	require.NoError(t, err)
	assert.Equal(t, LoginPrompt(testRegistryURL), gotPrompt)
}
