package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// SuiteConfigFileName is looked up in the suite root
const SuiteConfigFileName = "movetest.yaml"

// DefaultStepTimeout bounds a single invocation of the binary under test
const DefaultStepTimeout = 2 * time.Minute

// SuiteConfig is the optional per-suite configuration file
type SuiteConfig struct {
	Env         map[string]string `yaml:"env"`
	Exclude     []string          `yaml:"exclude"`
	Parallelism int               `yaml:"parallelism"`
	StepTimeout time.Duration     `yaml:"step_timeout"`
}

// LoadSuiteConfig reads movetest.yaml from root (or from root's directory
// when root is a single script). A missing file yields the zero config.
func LoadSuiteConfig(root string) (SuiteConfig, error) {
	dir := root
	if info, err := os.Stat(root); err == nil && !info.IsDir() {
		dir = filepath.Dir(root)
	}

	path := filepath.Join(dir, SuiteConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return SuiteConfig{}, nil
		}
		return SuiteConfig{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg SuiteConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SuiteConfig{}, fmt.Errorf("invalid %s: %w", path, err)
	}
	if cfg.Parallelism < 0 {
		return SuiteConfig{}, fmt.Errorf("invalid %s: parallelism must not be negative", path)
	}

	return cfg, nil
}
