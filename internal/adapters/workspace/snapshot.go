package workspace

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ulikunitz/xz"

	"movecli/internal/domain"
	"movecli/internal/logging"
)

// Snapshot packs the workspace into a tar.xz archive at dst
func (m *Manager) Snapshot(ws *domain.Workspace, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	file, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	defer file.Close()

	xzWriter, err := xz.NewWriter(file)
	if err != nil {
		return fmt.Errorf("failed to create xz writer: %w", err)
	}
	tarWriter := tar.NewWriter(xzWriter)

	walkErr := filepath.WalkDir(ws.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are part of what the script left behind
			logging.Logger.Debug("Skipping unreadable path in snapshot", "path", path, "error", err)
			return nil
		}
		if path == ws.Root {
			return nil
		}
		rel, err := filepath.Rel(ws.Root, path)
		if err != nil {
			return err
		}
		return addToTar(tarWriter, path, filepath.ToSlash(rel), d)
	})
	if walkErr != nil {
		return fmt.Errorf("failed to archive workspace: %w", walkErr)
	}

	if err := tarWriter.Close(); err != nil {
		return fmt.Errorf("failed to finish tar stream: %w", err)
	}
	if err := xzWriter.Close(); err != nil {
		return fmt.Errorf("failed to finish xz stream: %w", err)
	}

	logging.Logger.Info("Workspace snapshot written", "root", ws.Root, "snapshot", dst)
	return nil
}

func addToTar(tw *tar.Writer, path, name string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return nil
	}

	var link string
	if info.Mode()&fs.ModeSymlink != 0 {
		if link, err = os.Readlink(path); err != nil {
			return nil
		}
	} else if !info.Mode().IsRegular() && !info.IsDir() {
		return nil
	}

	header, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return err
	}
	header.Name = name
	if info.IsDir() {
		header.Name += "/"
	}

	if !info.Mode().IsRegular() {
		return tw.WriteHeader(header)
	}

	f, err := os.Open(path)
	if err != nil {
		// e.g. a file the script chmod'ed to 000
		logging.Logger.Debug("Skipping unreadable file in snapshot", "path", path, "error", err)
		return nil
	}
	defer f.Close()

	if err := tw.WriteHeader(header); err != nil {
		return err
	}
	_, err = io.Copy(tw, f)
	return err
}
