//go:build unix

package credential

import (
	"golang.org/x/sys/unix"
)

// checkWritable reports whether the current user may read and write path
func checkWritable(path string) error {
	return unix.Access(path, unix.R_OK|unix.W_OK)
}
