package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"movecli/internal/domain"
	"movecli/internal/logging"
	"movecli/internal/ports"
)

// FileName is the package manifest inside a package directory
const FileName = "Move.toml"

// Loader implements ports.ManifestLoader
type Loader struct{}

// Compile-time interface verification
var _ ports.ManifestLoader = (*Loader)(nil)

// NewLoader creates a manifest loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads <pkgDir>/Move.toml. Tables other than [package] and
// [dependencies] (addresses, dev-dependencies) are ignored.
func (l *Loader) Load(pkgDir string) (*domain.Manifest, error) {
	path := filepath.Join(pkgDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s not found", domain.ErrManifestInvalid, path)
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m domain.Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return nil, fmt.Errorf("%w: %s:%d:%d: %s", domain.ErrManifestInvalid, path, row, col, decodeErr.Error())
		}
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrManifestInvalid, path, err)
	}

	if err := validate(&m); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrManifestInvalid, path, err)
	}

	logging.Logger.Debug("Loaded manifest", "path", path, "package", m.Package.Name, "dependencies", len(m.Dependencies))
	return &m, nil
}

func validate(m *domain.Manifest) error {
	if m.Package.Name == "" {
		return fmt.Errorf("[package] name is required")
	}
	if !filepath.IsLocal(m.Package.Name) || m.Package.Name != filepath.Base(m.Package.Name) {
		return fmt.Errorf("package name %q is not a valid directory name", m.Package.Name)
	}

	names := make([]string, 0, len(m.Dependencies))
	for name := range m.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		dep := m.Dependencies[name]
		switch {
		case dep.Git != "" && dep.Local != "":
			return fmt.Errorf("dependency %s sets both git and local", name)
		case dep.Git == "" && dep.Local == "":
			return fmt.Errorf("dependency %s needs git or local", name)
		case dep.Git != "" && dep.Rev == "":
			return fmt.Errorf("git dependency %s needs a rev", name)
		}
	}
	return nil
}
