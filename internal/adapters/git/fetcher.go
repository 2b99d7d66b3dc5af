package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"movecli/internal/logging"
	"movecli/internal/ports"
)

// Fetcher implements ports.RevisionFetcher with go-git. The result is a
// plain tree: the .git directory is removed after checkout.
type Fetcher struct{}

// Compile-time interface verification
var _ ports.RevisionFetcher = (*Fetcher)(nil)

// NewFetcher creates a go-git backed fetcher
func NewFetcher() *Fetcher {
	return &Fetcher{}
}

// CanonicalSource normalizes a dependency source
func (f *Fetcher) CanonicalSource(source string) string {
	return canonicalSource(source)
}

// Fetch clones source into dst (which must not exist or be empty) and
// checks out revision
func (f *Fetcher) Fetch(ctx context.Context, source, revision, dst string) (string, error) {
	if err := validateRevision(revision); err != nil {
		return "", fmt.Errorf("invalid revision for %s: %w", source, err)
	}

	url := source
	if !isGitURL(source) {
		abs, err := filepath.Abs(source)
		if err != nil {
			return "", fmt.Errorf("failed to resolve %s: %w", source, err)
		}
		url = abs
	}

	logging.Logger.Info("Cloning dependency", "source", url, "revision", revision, "dst", dst)

	repo, err := gogit.PlainCloneContext(ctx, dst, false, &gogit.CloneOptions{
		Tags: gogit.AllTags,
		URL:  url,
	})
	if err != nil {
		return "", fmt.Errorf("failed to clone %s: %w", source, err)
	}

	hash, err := resolveRevision(repo, revision)
	if err != nil {
		return "", fmt.Errorf("revision %s not found in %s: %w", revision, source, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to open worktree: %w", err)
	}
	if err := worktree.Checkout(&gogit.CheckoutOptions{Force: true, Hash: hash}); err != nil {
		return "", fmt.Errorf("failed to check out %s: %w", revision, err)
	}

	if err := os.RemoveAll(filepath.Join(dst, gogit.GitDirName)); err != nil {
		return "", fmt.Errorf("failed to strip git metadata: %w", err)
	}

	logging.Logger.Info("Dependency fetched", "source", source, "revision", revision, "commit", hash.String())
	return hash.String(), nil
}

// resolveRevision accepts a commit hash, a local or remote branch, or a tag
func resolveRevision(repo *gogit.Repository, revision string) (plumbing.Hash, error) {
	if isCommitHash(revision) {
		hash := plumbing.NewHash(revision)
		if _, err := repo.CommitObject(hash); err != nil {
			return plumbing.ZeroHash, err
		}
		return hash, nil
	}

	candidates := []string{
		revision,
		"refs/remotes/origin/" + revision,
		"refs/tags/" + revision,
	}
	var lastErr error
	for _, candidate := range candidates {
		hash, err := repo.ResolveRevision(plumbing.Revision(candidate))
		if err == nil {
			return *hash, nil
		}
		lastErr = err
	}
	return plumbing.ZeroHash, lastErr
}
