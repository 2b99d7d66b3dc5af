package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"
)

// PackageCmd groups package commands
type PackageCmd struct {
	Build PackageBuildCmd `cmd:"build" help:"Resolve dependencies and write the build info"`
}

// PackageBuildCmd checks out a package's git dependencies into the shared cache
type PackageBuildCmd struct {
	LockTimeout time.Duration `help:"How long to wait for a contended cache entry (default from settings.json, else 2m)"`
	Path        string        `help:"Package directory containing Move.toml" type:"path" default:"." short:"p"`
}

// Run executes the build command
func (b *PackageBuildCmd) Run(cli *CLI) error {
	timeout := b.LockTimeout
	if timeout <= 0 {
		timeout = cli.LoadedSettings().LockTimeout()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out, err := cli.Container.BuildService(timeout).Build(ctx, b.Path)
	if err != nil {
		return err
	}

	fmt.Printf("Build info written to %s\n", out)
	return nil
}
