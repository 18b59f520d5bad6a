// Package filesize measures the gzip size of emitted scripts and stylesheets
// and reports how they changed between two builds.
package filesize

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Sizes maps a hash-stripped asset path (relative to the output directory,
// slash separated) to its gzip size in bytes.
type Sizes map[string]int64

// hashPattern matches the content hash the bundler inserts before the
// extension, e.g. static/js/main.4FQGWJ2Z.js or 12.AB3CD4EF.chunk.js.
var hashPattern = regexp.MustCompile(`^(.*)\.[A-Z2-7]{8}(\.chunk)?(\.js|\.css)$`)

// RemoveFileNameHash turns an absolute or relative artifact path into its
// stable key: relative to buildDir, slash separated, hash removed.
func RemoveFileNameHash(buildDir, fileName string) string {
	rel := fileName
	if filepath.IsAbs(fileName) {
		if r, err := filepath.Rel(buildDir, fileName); err == nil {
			rel = r
		}
	}
	rel = filepath.ToSlash(rel)
	return hashPattern.ReplaceAllString(rel, "$1$3")
}

// IsMeasured reports whether a file takes part in the size report.
func IsMeasured(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".js" || ext == ".css"
}

// GzipSize returns the compressed size of data at best compression.
func GzipSize(data []byte) (int64, error) {
	var cw countingWriter
	zw, err := gzip.NewWriterLevel(&cw, gzip.BestCompression)
	if err != nil {
		return 0, err
	}
	if _, err := zw.Write(data); err != nil {
		return 0, err
	}
	if err := zw.Close(); err != nil {
		return 0, err
	}
	return cw.n, nil
}

// FileGzipSize reads path and returns its gzip size.
func FileGzipSize(path string) (int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return GzipSize(data)
}

// Measure snapshots the gzip size of every script and stylesheet under
// buildDir. A missing directory yields an empty snapshot.
func Measure(buildDir string) (Sizes, error) {
	sizes := Sizes{}
	err := filepath.WalkDir(buildDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == buildDir {
				return fs.SkipDir
			}
			return err
		}
		if d.IsDir() || !IsMeasured(d.Name()) {
			return nil
		}
		size, err := FileGzipSize(path)
		if err != nil {
			return err
		}
		sizes[RemoveFileNameHash(buildDir, path)] = size
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sizes, nil
}

type countingWriter struct{ n int64 }

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}
