package cmd

import (
	"fmt"

	adapterdepcache "movecli/internal/adapters/depcache"
)

// CacheCmd groups dependency cache commands
type CacheCmd struct {
	Digest CacheDigestCmd `cmd:"digest" help:"Print a content digest of the dependency cache"`
	Path   CachePathCmd   `cmd:"path" help:"Print the dependency cache location"`
}

// CacheDigestCmd prints a digest that is equal for equal cache contents
type CacheDigestCmd struct {
	Root string `help:"Cache directory (default <home>/cache)" type:"path"`
}

// Run executes the digest command
func (d *CacheDigestCmd) Run(cli *CLI) error {
	root := d.Root
	if root == "" {
		root = cli.Container.Paths.CacheRoot()
	}

	digest, err := adapterdepcache.Digest(root)
	if err != nil {
		return err
	}
	fmt.Println(digest)
	return nil
}

// CachePathCmd prints the cache root
type CachePathCmd struct{}

// Run executes the path command
func (p *CachePathCmd) Run(cli *CLI) error {
	fmt.Println(cli.Container.Paths.CacheRoot())
	return nil
}
