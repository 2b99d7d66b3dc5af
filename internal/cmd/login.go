package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"movecli/internal/config"
	"movecli/internal/domain"
	"movecli/internal/logging"
	"movecli/internal/services"
	"movecli/internal/ui"
)

// LoginCmd stores a registry API token in the credential file
type LoginCmd struct {
	Registry    string `help:"Registry name the token is stored under" default:"registry"`
	RegistryURL string `help:"Registry website shown in the prompt (default from settings.json)" name:"registry-url"`
}

// Run executes the login command
func (l *LoginCmd) Run(cli *CLI) error {
	url := l.RegistryURL
	if url == "" {
		url = cli.LoadedSettings().RegistryURL
	}
	if url == "" {
		url = config.DefaultRegistryURL
	}

	var interactive services.TokenPrompter
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		interactive = ui.PromptToken
	}

	svc := cli.Container.LoginService(os.Stdin, os.Stdout, interactive)
	err := svc.Login(context.Background(), l.Registry, url)
	if errors.Is(err, domain.ErrCredentialPermissionDenied) {
		logging.Logger.Error("Credential file not writable", "path", cli.Container.Credentials.Path(), "error", err)
		return fmt.Errorf("cannot write %s: permission denied", cli.Container.Credentials.Path())
	}
	if err != nil {
		return err
	}

	fmt.Printf("Token for %s saved to %s\n", l.Registry, cli.Container.Credentials.Path())
	return nil
}
