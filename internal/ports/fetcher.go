package ports

import (
	"context"

	"movecli/internal/domain"
)

// RevisionFetcher materialises one revision of a source into an empty directory
type RevisionFetcher interface {
	// CanonicalSource maps equivalent spellings of a source to one identity.
	CanonicalSource(source string) string
	// Fetch returns the commit the revision resolved to.
	Fetch(ctx context.Context, source, revision, dst string) (string, error)
}

// DependencyCache resolves git dependencies into the shared cache
type DependencyCache interface {
	Checkout(ctx context.Context, dep domain.Dependency) (string, error)
	Root() string
}

// ManifestLoader reads a package manifest
type ManifestLoader interface {
	Load(pkgDir string) (*domain.Manifest, error)
}

// ScriptLoader parses a test script file
type ScriptLoader interface {
	Load(path string) (*domain.Script, error)
}
