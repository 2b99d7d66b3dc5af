package config

import (
	"os"
	"path/filepath"
)

// CredentialFileName is the credential file inside the move home
const CredentialFileName = "credential.toml"

// Paths resolves every on-disk location from one move home directory.
// The home is decided once at the entry point and passed down explicitly.
type Paths struct {
	Home string
}

// NewPaths returns Paths rooted at home, or at the default home when empty
func NewPaths(home string) Paths {
	if home == "" {
		return Paths{Home: DefaultHome()}
	}
	return Paths{Home: ExpandPath(home)}
}

// DefaultHome returns ~/.move
func DefaultHome() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".move"
	}
	return filepath.Join(homeDir, ".move")
}

// CredentialFile returns $MOVE_HOME/credential.toml
func (p Paths) CredentialFile() string {
	return filepath.Join(p.Home, CredentialFileName)
}

// CacheRoot returns $MOVE_HOME/cache, the shared dependency cache
func (p Paths) CacheRoot() string {
	return filepath.Join(p.Home, "cache")
}

// HistoryDB returns $MOVE_HOME/history.db
func (p Paths) HistoryDB() string {
	return filepath.Join(p.Home, "history.db")
}

// CoverageDir returns $MOVE_HOME/coverage
func (p Paths) CoverageDir() string {
	return filepath.Join(p.Home, "coverage")
}

// SettingsFile returns $MOVE_HOME/settings.json
func (p Paths) SettingsFile() string {
	return filepath.Join(p.Home, "settings.json")
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			if len(path) == 1 {
				return homeDir
			}
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}
