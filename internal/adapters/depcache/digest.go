package depcache

import (
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeebo/blake3"
)

const lockDirName = ".locks"

// Digest hashes the cache tree: every entry's relative path, type and
// permission bits, and file content, in lexical order. Lock files and
// staging directories are not part of the cache's content.
func Digest(root string) (string, error) {
	h := blake3.New()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() && (rel == lockDirName || strings.HasPrefix(d.Name(), tempPrefix)) {
			return filepath.SkipDir
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		mode := info.Mode()

		switch {
		case mode.IsDir():
			fmt.Fprintf(h, "d %s %o\n", rel, mode.Perm())
		case mode&fs.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(h, "l %s %s\n", rel, target)
		case mode.IsRegular():
			fmt.Fprintf(h, "f %s %o %d\n", rel, mode.Perm(), info.Size())
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			_, err = io.Copy(h, f)
			f.Close()
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to digest %s: %w", root, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
