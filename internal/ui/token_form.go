package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"movecli/internal/logging"
)

// PromptToken asks for an API token on the terminal without echoing it
func PromptToken(ctx context.Context, prompt string) (string, error) {
	var token string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("API token").
				Description(prompt).
				EchoMode(huh.EchoModePassword).
				Value(&token).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("token required")
					}
					return nil
				}),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		logging.Logger.Debug("Token form aborted", "error", err)
		return "", err
	}
	return strings.TrimSpace(token), nil
}
