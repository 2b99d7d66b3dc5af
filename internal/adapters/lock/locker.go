package lock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"movecli/internal/domain"
	"movecli/internal/logging"
	"movecli/internal/ports"
)

const (
	lockDirName = ".locks"
	pollMin     = 5 * time.Millisecond
	pollMax     = 200 * time.Millisecond
)

// FileLocker implements ports.ResourceLocker with OS advisory locks on
// files under <root>/.locks. Locks are held per open file, so they exclude
// other processes as well as other Acquire calls in the same process, and
// the OS drops them when the holder exits.
type FileLocker struct {
	root string
}

// Compile-time interface verification
var _ ports.ResourceLocker = (*FileLocker)(nil)

// NewFileLocker creates a locker whose lock files live under root
func NewFileLocker(root string) *FileLocker {
	return &FileLocker{root: root}
}

// LockPath returns the lock file used for key
func (l *FileLocker) LockPath(key domain.ResourceKey) string {
	return filepath.Join(l.root, lockDirName, key.LockName()+".lock")
}

// Acquire takes the exclusive lock for key. A timeout <= 0 tries exactly once.
func (l *FileLocker) Acquire(ctx context.Context, key domain.ResourceKey, timeout time.Duration) (ports.Guard, error) {
	path := l.LockPath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("%w: failed to create lock directory: %v", domain.ErrLockAcquisition, err)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open lock file %s: %v", domain.ErrLockAcquisition, path, err)
	}

	start := time.Now()
	deadline := start.Add(timeout)
	wait := pollMin
	contended := false

	for {
		locked, err := tryLock(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrLockAcquisition, path, err)
		}
		if locked {
			break
		}

		if !contended {
			contended = true
			logging.Logger.Info("Waiting for resource lock", "key", key.String(), "lock_file", path, "timeout", timeout)
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			holder := readHolder(path)
			file.Close()
			logging.Logger.Warn("Resource lock timed out", "key", key.String(), "holder_pid", holder)
			return nil, &domain.LockTimeoutError{HolderPID: holder, Key: key, Timeout: timeout}
		}

		timer := time.NewTimer(min(wait, remaining))
		select {
		case <-ctx.Done():
			timer.Stop()
			file.Close()
			return nil, fmt.Errorf("waiting for lock on %s: %w", key, ctx.Err())
		case <-timer.C:
		}
		wait = min(wait*2, pollMax)
	}

	// Diagnostic only; liveness is the OS's job
	if err := file.Truncate(0); err == nil {
		file.WriteAt([]byte(strconv.Itoa(os.Getpid())+"\n"), 0)
	}

	logging.Logger.Debug("Resource lock acquired", "key", key.String(), "waited", time.Since(start))

	return &fileGuard{file: file, key: key}, nil
}

// readHolder returns the pid recorded by the current holder, or 0
func readHolder(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return pid
}

// fileGuard is a held lock; releasing closes the lock file
type fileGuard struct {
	file *os.File
	key  domain.ResourceKey
	once sync.Once
	err  error
}

func (g *fileGuard) Release() error {
	g.once.Do(func() {
		unlockErr := unlock(g.file)
		closeErr := g.file.Close()
		if unlockErr != nil {
			g.err = fmt.Errorf("failed to unlock %s: %w", g.key, unlockErr)
		} else if closeErr != nil {
			g.err = fmt.Errorf("failed to close lock file for %s: %w", g.key, closeErr)
		}
		logging.Logger.Debug("Resource lock released", "key", g.key.String())
	})
	return g.err
}
