package cmd

import (
	"fmt"
	"io"
	"sync"
	"time"

	adaptercoverage "movecli/internal/adapters/coverage"
	adaptercredential "movecli/internal/adapters/credential"
	adapterdepcache "movecli/internal/adapters/depcache"
	adaptergit "movecli/internal/adapters/git"
	adapterlock "movecli/internal/adapters/lock"
	adaptermanifest "movecli/internal/adapters/manifest"
	adapterprocess "movecli/internal/adapters/process"
	adapterscript "movecli/internal/adapters/script"
	adapterstorage "movecli/internal/adapters/storage"
	adapterworkspace "movecli/internal/adapters/workspace"
	"movecli/internal/config"
	"movecli/internal/logging"
	"movecli/internal/ports"
	"movecli/internal/services"
)

// Container holds all dependencies for the application
type Container struct {
	Credentials ports.CredentialStore
	Paths       config.Paths
	Settings    *config.Settings

	// Internal - opened on first use, closed by Close
	historyErr  error
	historyOnce sync.Once
	historyRepo ports.ResultRepository
}

// NewContainer creates a new Container rooted at paths
func NewContainer(paths config.Paths, settings *config.Settings) *Container {
	return &Container{
		Credentials: adaptercredential.NewFileStore(paths.Home),
		Paths:       paths,
		Settings:    settings,
	}
}

// LoginService returns a login service reading the token from in
func (c *Container) LoginService(in io.Reader, out io.Writer, interactive services.TokenPrompter) *services.LoginService {
	return services.NewLoginService(c.Credentials, in, out, interactive)
}

// DependencyCache returns the shared cache under the move home
func (c *Container) DependencyCache(lockTimeout time.Duration) *adapterdepcache.Cache {
	root := c.Paths.CacheRoot()
	return adapterdepcache.NewCache(root, adaptergit.NewFetcher(), adapterlock.NewFileLocker(root), lockTimeout)
}

// BuildService returns a build service using the shared cache
func (c *Container) BuildService(lockTimeout time.Duration) *services.BuildService {
	return services.NewBuildService(adaptermanifest.NewLoader(), c.DependencyCache(lockTimeout))
}

// SuiteService returns a suite service. When record is set, runs are
// stored in the history database.
func (c *Container) SuiteService(record bool) (*services.SuiteService, error) {
	var recorder ports.ResultRecorder
	if record {
		repo, err := c.History()
		if err != nil {
			return nil, err
		}
		recorder = repo
	}

	return services.NewSuiteService(
		adapterscript.NewLoader(),
		adapterprocess.NewOSRunner(),
		adapterworkspace.NewManager(""),
		func(dir string, enabled bool) ports.CoverageCollector {
			return adaptercoverage.NewCollector(dir, enabled, nil)
		},
		recorder,
	), nil
}

// HistoryService returns a history service over the history database
func (c *Container) HistoryService() (*services.HistoryService, error) {
	repo, err := c.History()
	if err != nil {
		return nil, err
	}
	return services.NewHistoryService(repo), nil
}

// History opens the history database once
func (c *Container) History() (ports.ResultRepository, error) {
	c.historyOnce.Do(func() {
		repo, err := adapterstorage.NewSQLiteRepository(c.Paths.HistoryDB())
		if err != nil {
			c.historyErr = fmt.Errorf("failed to open run history: %w", err)
			return
		}
		c.historyRepo = repo
	})
	return c.historyRepo, c.historyErr
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.historyRepo != nil {
		logging.Logger.Debug("Closing history database")
		return c.historyRepo.Close()
	}
	return nil
}
