package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"movecli/internal/domain"
	"movecli/internal/logging"
	"movecli/internal/ports"
)

// TokenPrompter asks the operator for a token interactively
type TokenPrompter func(ctx context.Context, prompt string) (string, error)

// LoginService stores a registry API token
type LoginService struct {
	in          io.Reader
	interactive TokenPrompter
	out         io.Writer
	store       ports.CredentialWriter
}

// NewLoginService creates a new LoginService. When interactive is nil the
// token is read as the first line of in.
func NewLoginService(store ports.CredentialWriter, in io.Reader, out io.Writer, interactive TokenPrompter) *LoginService {
	return &LoginService{
		in:          in,
		interactive: interactive,
		out:         out,
		store:       store,
	}
}

// LoginPrompt is printed before the token is read
func LoginPrompt(registryURL string) string {
	return fmt.Sprintf("Please paste the API Token found on %s/settings/tokens below", strings.TrimRight(registryURL, "/"))
}

// Login prompts for a token and saves it under registry
func (s *LoginService) Login(ctx context.Context, registry, registryURL string) error {
	if registry == "" {
		registry = domain.DefaultRegistry
	}
	prompt := LoginPrompt(registryURL)

	// The prompt goes out before anything can fail
	fmt.Fprintln(s.out, prompt)

	var token string
	var err error
	if s.interactive != nil {
		token, err = s.interactive(ctx, prompt)
	} else {
		token, err = readLine(s.in)
	}
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}

	logging.Logger.Info("Token read", "registry", registry, "length", len(token))

	if err := s.store.Save(registry, token); err != nil {
		return err
	}
	return nil
}

// readLine returns the first line of r, trimmed. A final line without a
// newline counts.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", fmt.Errorf("no token given")
	}
	return line, nil
}
