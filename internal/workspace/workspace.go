package workspace

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/appbuilder/internal/logfields"
)

// Output manages one build output directory.
type Output struct {
	dir string
}

// NewOutput returns a manager for dir. Nothing is touched on disk.
func NewOutput(dir string) *Output {
	return &Output{dir: dir}
}

// Empty removes everything inside the output directory and makes sure the
// directory exists. The directory entry itself is never removed.
func (o *Output) Empty() error {
	if err := os.MkdirAll(o.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	entries, err := os.ReadDir(o.dir)
	if err != nil {
		return fmt.Errorf("failed to read output directory: %w", err)
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(o.dir, entry.Name())); err != nil {
			return fmt.Errorf("failed to empty output directory: %w", err)
		}
	}
	slog.Debug("Emptied output directory", logfields.Path(o.dir), logfields.Count(len(entries)))
	return nil
}

// CopyFrom copies the tree at src into the output directory, following
// symlinks. Paths listed in exclude (absolute, as resolved under src) are
// skipped. A missing src is not an error. It returns the number of files copied.
func (o *Output) CopyFrom(src string, exclude ...string) (int, error) {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return 0, nil
	}
	skip := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		skip[filepath.Clean(e)] = true
	}
	n, err := copyDir(src, o.dir, skip)
	if err != nil {
		return n, err
	}
	slog.Debug("Copied static assets", logfields.Path(src), logfields.Count(n))
	return n, nil
}

// copyDir recursively copies a directory tree. os.Stat is used rather than
// Lstat so symlinked files and directories are copied as their targets.
func copyDir(src, dst string, skip map[string]bool) (int, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()|0o700); err != nil {
		return 0, err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return 0, err
	}

	copied := 0
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if skip[srcPath] {
			continue
		}

		info, err := os.Stat(srcPath)
		if err != nil {
			return copied, fmt.Errorf("stat %s: %w", srcPath, err)
		}
		if info.IsDir() {
			n, err := copyDir(srcPath, dstPath, skip)
			copied += n
			if err != nil {
				return copied, err
			}
			continue
		}
		if err := copyFile(srcPath, dstPath, info.Mode().Perm()); err != nil {
			return copied, err
		}
		copied++
	}

	return copied, nil
}

// copyFile copies a single file from src to dst
func copyFile(src, dst string, perm os.FileMode) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return err
	}
	return dstFile.Close()
}
