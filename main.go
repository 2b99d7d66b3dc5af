package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"movecli/internal/cmd"
	"movecli/version"
)

func main() {
	// Container is created in CLI.AfterApply() after logging is initialized
	var cli cmd.CLI
	ctx := kong.Parse(&cli,
		kong.Name("move"),
		kong.Description(version.Tagline),
		kong.Vars{
			"version": version.Info(),
		},
		kong.UsageOnError(),
		kong.Bind(&cli),
	)

	err := ctx.Run()
	cli.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
