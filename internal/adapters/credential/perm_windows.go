//go:build windows

package credential

import (
	"fmt"
	"io/fs"
	"os"
)

// checkWritable reports whether path is writable. Windows has no access(2);
// the read-only attribute is what os reports as a missing write bit.
func checkWritable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Mode().Perm()&0200 == 0 {
		return &fs.PathError{Op: "access", Path: path, Err: fmt.Errorf("read-only: %w", fs.ErrPermission)}
	}
	return nil
}
