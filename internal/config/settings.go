package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// DefaultRegistryURL is where operators obtain API tokens
const DefaultRegistryURL = "https://movey-app-staging.herokuapp.com"

// DefaultLockTimeout bounds the wait for a dependency cache lock
const DefaultLockTimeout = 2 * time.Minute

// Settings represents the structure of $MOVE_HOME/settings.json
type Settings struct {
	Debug              *bool  `json:"debug,omitempty"`
	LockTimeoutSeconds *int   `json:"lock_timeout_seconds,omitempty"`
	MaxLogFiles        *int   `json:"max_log_files,omitempty"`
	Parallelism        *int   `json:"parallelism,omitempty"`
	RegistryURL        string `json:"registry_url,omitempty"`
}

// LockTimeout returns the configured lock timeout or the default
func (s *Settings) LockTimeout() time.Duration {
	if s == nil || s.LockTimeoutSeconds == nil || *s.LockTimeoutSeconds <= 0 {
		return DefaultLockTimeout
	}
	return time.Duration(*s.LockTimeoutSeconds) * time.Second
}

// LoadSettings loads settings from the given file.
// Returns empty Settings if file doesn't exist (not an error)
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("invalid settings.json: %w", err)
	}

	return &settings, nil
}

// SaveSettings saves settings to the given file
func SaveSettings(path string, settings *Settings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}

// SettingsExample returns an example value for every settings key
func SettingsExample() map[string]any {
	return map[string]any{
		"debug":                false,
		"lock_timeout_seconds": int(DefaultLockTimeout.Seconds()),
		"max_log_files":        1000,
		"parallelism":          4,
		"registry_url":         DefaultRegistryURL,
	}
}
