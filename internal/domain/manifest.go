package domain

// PackageInfo is the [package] table of a manifest
type PackageInfo struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Dependency is one entry of the [dependencies] table.
// Exactly one of Git or Local is set.
type Dependency struct {
	Git    string `toml:"git"`
	Local  string `toml:"local"`
	Rev    string `toml:"rev"`
	Subdir string `toml:"subdir"`
}

// IsGit reports whether the dependency is fetched from a git source
func (d Dependency) IsGit() bool {
	return d.Git != ""
}

// Key returns the shared-cache identity of a git dependency
func (d Dependency) Key() ResourceKey {
	return ResourceKey{Source: d.Git, Revision: d.Rev}
}

// Manifest is a parsed Move.toml
type Manifest struct {
	Dependencies map[string]Dependency `toml:"dependencies"`
	Package      PackageInfo           `toml:"package"`
}

// ResolvedDependency records where a dependency was found during a build
type ResolvedDependency struct {
	Name     string `yaml:"name"`
	Path     string `yaml:"path"`
	Revision string `yaml:"revision,omitempty"`
	Source   string `yaml:"source"`
}

// BuildInfo is written to build/<package>/BuildInfo.yaml
type BuildInfo struct {
	Dependencies []ResolvedDependency `yaml:"dependencies"`
	Package      string               `yaml:"package"`
}
