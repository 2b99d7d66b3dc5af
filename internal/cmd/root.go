package cmd

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"movecli/internal/config"
	"movecli/internal/logging"
)

// CLI represents the command-line interface structure
type CLI struct {
	Version     kong.VersionFlag `help:"Show version information"`
	Debug       bool             `help:"Enable debug logging to file" short:"d"`
	DebugFile   string           `help:"Custom path for debug log file (disables automatic cleanup)"`
	MaxLogFiles int              `help:"Maximum number of log files to keep (0 = unlimited)" default:"1000"`
	Home        string           `help:"Move home directory holding credentials, cache and history (default ~/.move)" env:"MOVE_HOME"`

	Cache      CacheCmd    `cmd:"cache" help:"Inspect the shared dependency cache"`
	Login      LoginCmd    `cmd:"login" help:"Store an API token for a package registry"`
	Package    PackageCmd  `cmd:"package" help:"Package commands (build)"`
	Sandbox    SandboxCmd  `cmd:"sandbox" help:"Run CLI test scripts and inspect past runs"`
	Settings   SettingsCmd `cmd:"settings" help:"Show settings file location and options"`
	VersionCmd VersionCmd  `cmd:"version" name:"version" help:"Print version information"`

	// Internal fields (not flags)
	Container *Container       `kong:"-"`
	settings  *config.Settings `kong:"-"`
}

// AfterApply resolves the move home, loads settings, initializes logging,
// and builds the container
func (c *CLI) AfterApply() error {
	paths := config.NewPaths(c.Home)

	settings, err := config.LoadSettings(paths.SettingsFile())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load settings: %v\n", err)
		settings = &config.Settings{}
	}
	c.settings = settings

	// Precedence: CLI flags > env vars > settings.json > defaults.
	// Only apply if flag is at default value and env var is not set.
	if c.MaxLogFiles == logging.DefaultMaxLogFiles {
		if _, hasEnv := os.LookupEnv("MOVE_MAX_LOG_FILES"); !hasEnv {
			if settings.MaxLogFiles != nil {
				c.MaxLogFiles = *settings.MaxLogFiles
			}
		}
	}
	if !c.Debug {
		if _, hasEnv := os.LookupEnv("MOVE_DEBUG"); !hasEnv {
			if settings.Debug != nil && *settings.Debug {
				c.Debug = true
			}
		}
	}

	logFilePath, err := logging.Initialize(c.Debug, c.DebugFile, c.MaxLogFiles)
	if err != nil {
		return err
	}

	// Set AFTER initialization so children (including binaries run by the
	// sandbox) append to the same log file
	if c.Debug || c.DebugFile != "" {
		os.Setenv("MOVE_DEBUG", "1")
		if logFilePath != "" {
			os.Setenv("MOVE_DEBUG_FILE", logFilePath)
		}
	}
	if c.MaxLogFiles != logging.DefaultMaxLogFiles {
		os.Setenv("MOVE_MAX_LOG_FILES", fmt.Sprintf("%d", c.MaxLogFiles))
	}

	logging.Logger.Debug("CLI initialized", "home", paths.Home, "args", os.Args[1:])

	c.Container = NewContainer(paths, settings)
	return nil
}

// LoadedSettings returns the settings.json contents, never nil after AfterApply
func (c *CLI) LoadedSettings() *config.Settings {
	if c.settings == nil {
		return &config.Settings{}
	}
	return c.settings
}

// Close closes all resources held by the CLI
func (c *CLI) Close() error {
	if c.Container != nil {
		return c.Container.Close()
	}
	return nil
}
