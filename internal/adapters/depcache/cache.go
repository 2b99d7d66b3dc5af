package depcache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"movecli/internal/domain"
	"movecli/internal/logging"
	"movecli/internal/ports"
)

const tempPrefix = ".tmp-"

// Cache implements ports.DependencyCache. Every mutation of an entry happens
// under that entry's resource lock; readers only ever see complete entries
// because checkouts are renamed into place.
type Cache struct {
	fetcher     ports.RevisionFetcher
	locker      ports.ResourceLocker
	lockTimeout time.Duration
	root        string
}

// Compile-time interface verification
var _ ports.DependencyCache = (*Cache)(nil)

// NewCache creates a cache rooted at root
func NewCache(root string, fetcher ports.RevisionFetcher, locker ports.ResourceLocker, lockTimeout time.Duration) *Cache {
	return &Cache{
		fetcher:     fetcher,
		locker:      locker,
		lockTimeout: lockTimeout,
		root:        root,
	}
}

// Root returns the cache directory
func (c *Cache) Root() string {
	return c.root
}

// EntryPath returns where a source/revision pair is checked out. The name
// shares the lock file's hash suffix, so distinct keys never collide after
// sanitizing.
func (c *Cache) EntryPath(key domain.ResourceKey) string {
	return filepath.Join(c.root, key.LockName())
}

// Checkout returns the cache path of a git dependency, fetching it first
// when no complete entry exists
func (c *Cache) Checkout(ctx context.Context, dep domain.Dependency) (string, error) {
	if !dep.IsGit() {
		return "", fmt.Errorf("%w: dependency has no git source", domain.ErrManifestInvalid)
	}
	if dep.Rev == "" {
		return "", fmt.Errorf("%w: git dependency %s has no rev", domain.ErrManifestInvalid, dep.Git)
	}

	key := domain.ResourceKey{Source: c.fetcher.CanonicalSource(dep.Git), Revision: dep.Rev}
	dest := c.EntryPath(key)

	if err := os.MkdirAll(c.root, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache root: %w", err)
	}

	guard, err := c.locker.Acquire(ctx, key, c.lockTimeout)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := guard.Release(); err != nil {
			logging.Logger.Warn("Failed to release cache lock", "key", key.String(), "error", err)
		}
	}()

	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		logging.Logger.Debug("Cache hit", "key", key.String(), "path", dest)
		return dest, nil
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("failed to inspect cache entry %s: %w", dest, err)
	}

	c.removeOrphans(dest)

	tmp, err := os.MkdirTemp(c.root, tempPrefix+filepath.Base(dest)+"-")
	if err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}
	// MkdirTemp uses 0700; entries are shared
	if err := os.Chmod(tmp, 0755); err != nil {
		os.RemoveAll(tmp)
		return "", fmt.Errorf("failed to prepare staging directory: %w", err)
	}

	commit, err := c.fetcher.Fetch(ctx, dep.Git, dep.Rev, tmp)
	if err != nil {
		os.RemoveAll(tmp)
		return "", fmt.Errorf("failed to fetch %s: %w", key, err)
	}

	if err := os.Rename(tmp, dest); err != nil {
		os.RemoveAll(tmp)
		return "", fmt.Errorf("failed to publish cache entry %s: %w", dest, err)
	}

	logging.Logger.Info("Cache entry created", "key", key.String(), "commit", commit, "path", dest)
	return dest, nil
}

// removeOrphans deletes staging directories for dest left behind by a
// holder that died mid-fetch. Only called while holding dest's lock.
func (c *Cache) removeOrphans(dest string) {
	prefix := tempPrefix + filepath.Base(dest) + "-"
	entries, err := os.ReadDir(c.root)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		path := filepath.Join(c.root, e.Name())
		logging.Logger.Warn("Removing orphaned staging directory", "path", path)
		if err := os.RemoveAll(path); err != nil {
			logging.Logger.Warn("Failed to remove orphaned staging directory", "path", path, "error", err)
		}
	}
}
