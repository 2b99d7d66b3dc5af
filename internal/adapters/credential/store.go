package credential

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"movecli/internal/config"
	"movecli/internal/domain"
	"movecli/internal/logging"
	"movecli/internal/ports"
)

// FileStore implements ports.CredentialStore on <root>/credential.toml
type FileStore struct {
	root string
}

// Compile-time interface verification
var _ ports.CredentialStore = (*FileStore)(nil)

// NewFileStore creates a store rooted at the credential root directory
func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

// Path returns the credential file location
func (s *FileStore) Path() string {
	return filepath.Join(s.root, config.CredentialFileName)
}

// Load reads and validates the credential file
func (s *FileStore) Load() (domain.CredentialFile, error) {
	path := s.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrCredentialNotFound, path)
		}
		return nil, classify(path, err)
	}
	return decode(path, data)
}

// Save stores token under registry. The existing file is replaced atomically;
// on any failure it is left exactly as it was.
func (s *FileStore) Save(registry, token string) error {
	registry = strings.TrimSpace(registry)
	token = strings.TrimSpace(token)
	if registry == "" {
		return fmt.Errorf("registry name cannot be empty")
	}
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	path := s.Path()
	logging.Logger.Info("Saving credential", "registry", registry, "path", path)

	if err := os.MkdirAll(s.root, 0700); err != nil {
		return classify(s.root, err)
	}

	creds, err := s.Load()
	switch {
	case errors.Is(err, domain.ErrCredentialNotFound):
		creds = domain.CredentialFile{}
	case err != nil:
		logging.Logger.Error("Existing credential file unusable", "path", path, "error", err)
		return err
	default:
		// Readable is not enough; the rename would silently replace a file
		// the user cannot write.
		if err := checkWritable(path); err != nil {
			return classify(path, err)
		}
	}

	creds[registry] = domain.RegistryCredential{Token: token}
	data, err := toml.Marshal(creds)
	if err != nil {
		return fmt.Errorf("%w: failed to encode credentials: %v", domain.ErrCredentialIO, err)
	}

	if err := writeAtomic(path, data); err != nil {
		logging.Logger.Error("Failed to write credential file", "path", path, "error", err)
		return err
	}

	logging.Logger.Info("Credential saved", "registry", registry)
	return nil
}

// decode parses the strongly typed schema { [registry]: { token } }
func decode(path string, data []byte) (domain.CredentialFile, error) {
	creds := domain.CredentialFile{}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&creds); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w: %s: %s", domain.ErrCredentialMalformed, path, strict.String())
		}
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCredentialMalformed, path, err)
	}

	for _, name := range creds.Registries() {
		if strings.TrimSpace(creds[name].Token) == "" {
			return nil, fmt.Errorf("%w: %s: registry %q has no token", domain.ErrCredentialMalformed, path, name)
		}
	}
	return creds, nil
}

// writeAtomic writes data to a temp file in the destination directory,
// restricts it to the owner, syncs it, and renames it over path.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".credential-*.tmp")
	if err != nil {
		return classify(dir, err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := tmp.Chmod(0600); err != nil {
		return classify(tmpPath, err)
	}
	if _, err := tmp.Write(data); err != nil {
		return classify(tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		return classify(tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return classify(tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return classify(path, err)
	}
	committed = true

	syncDir(dir)
	return nil
}

// syncDir makes the rename durable. Best effort: not every platform
// supports syncing a directory.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	defer d.Close()
	if err := d.Sync(); err != nil {
		logging.Logger.Debug("Directory sync unsupported", "dir", dir, "error", err)
	}
}

// classify maps an OS error to the credential error taxonomy
func classify(path string, err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: cannot access %s: %w", domain.ErrCredentialPermissionDenied, path, err)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrCredentialIO, path, err)
}
