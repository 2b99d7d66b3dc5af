package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"movecli/internal/domain"
	"movecli/internal/logging"
	"movecli/internal/ports"
)

const (
	ephemeralPrefix = "movetest-"
	maxAttempts     = 100
)

// Manager implements ports.WorkspaceAllocator
type Manager struct {
	base    string
	counter atomic.Uint64
}

// Compile-time interface verification
var _ ports.WorkspaceAllocator = (*Manager)(nil)

// NewManager creates a manager placing ephemeral workspaces under base.
// An empty base means os.TempDir().
func NewManager(base string) *Manager {
	if base == "" {
		base = os.TempDir()
	}
	return &Manager{base: base}
}

// Allocate returns a workspace for one script. Ephemeral workspaces get a
// fresh directory whose name is unique across processes; persistent ones use
// hint as-is, creating it when absent.
func (m *Manager) Allocate(ephemeral bool, hint string) (*domain.Workspace, error) {
	if !ephemeral {
		if hint == "" {
			return nil, fmt.Errorf("%w: persistent workspace requires a directory", domain.ErrWorkspaceSetup)
		}
		if err := os.MkdirAll(hint, 0755); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrWorkspaceSetup, err)
		}
		root, err := filepath.Abs(hint)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrWorkspaceSetup, err)
		}
		logging.Logger.Debug("Using persistent workspace", "root", root)
		return &domain.Workspace{Root: root}, nil
	}

	if err := os.MkdirAll(m.base, 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrWorkspaceSetup, err)
	}

	pid := os.Getpid()
	for attempt := 0; attempt < maxAttempts; attempt++ {
		name := fmt.Sprintf("%s%d-%d-%d", ephemeralPrefix, pid, m.counter.Add(1), time.Now().UnixNano())
		root := filepath.Join(m.base, name)

		err := os.Mkdir(root, 0755)
		if err == nil {
			logging.Logger.Debug("Allocated ephemeral workspace", "root", root)
			return &domain.Workspace{Ephemeral: true, Root: root}, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: %v", domain.ErrWorkspaceSetup, err)
		}
		logging.Logger.Debug("Workspace name collision, retrying", "root", root)
	}

	return nil, fmt.Errorf("%w: no unique directory under %s after %d attempts", domain.ErrWorkspaceSetup, m.base, maxAttempts)
}

// Release removes an ephemeral workspace. Failures are logged, never returned.
func (m *Manager) Release(ws *domain.Workspace) {
	if ws == nil || !ws.Ephemeral {
		return
	}
	if !strings.HasPrefix(filepath.Base(ws.Root), ephemeralPrefix) {
		logging.Logger.Error("Refusing to remove unexpected workspace", "root", ws.Root)
		return
	}

	if err := removeAll(ws.Root); err != nil {
		logging.Logger.Warn("Failed to remove workspace", "root", ws.Root, "error", err)
		return
	}
	logging.Logger.Debug("Released workspace", "root", ws.Root)
}

// Reset empties a persistent workspace so a rerun starts from the same state
func (m *Manager) Reset(ws *domain.Workspace) error {
	entries, err := os.ReadDir(ws.Root)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrWorkspaceSetup, err)
	}
	for _, entry := range entries {
		if err := removeAll(filepath.Join(ws.Root, entry.Name())); err != nil {
			return fmt.Errorf("%w: failed to reset %s: %v", domain.ErrWorkspaceSetup, ws.Root, err)
		}
	}
	logging.Logger.Debug("Reset workspace", "root", ws.Root, "entries", len(entries))
	return nil
}

// removeAll restores owner permissions on every directory first, so files a
// script made unreadable or unwritable do not block removal.
func removeAll(path string) error {
	// WalkDir visits a directory before reading it, so the chmod lands in time
	filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if d != nil && d.IsDir() && err == nil {
			os.Chmod(p, 0755)
		}
		return nil
	})
	return os.RemoveAll(path)
}
