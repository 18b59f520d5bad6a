// Package preflight verifies that the inputs of a build exist before any
// output is touched.
package preflight

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/appbuilder/internal/style"
)

// CheckRequiredFiles reports whether every file exists as a non-empty regular
// file. On the first one that does not it prints where it looked to w and
// returns false; the caller must then stop without building.
func CheckRequiredFiles(w io.Writer, files ...string) bool {
	missing := FirstMissing(files...)
	if missing == "" {
		return true
	}
	p := style.For(w)
	_, _ = fmt.Fprintln(w, p.Red("Could not find a required file."))
	_, _ = fmt.Fprintln(w, p.Red("  Name: ")+p.Cyan(filepath.Base(missing)))
	_, _ = fmt.Fprintln(w, p.Red("  Searched in: ")+p.Cyan(filepath.Dir(missing)))
	return false
}

// FirstMissing returns the first file that fails the check, or "".
func FirstMissing(files ...string) string {
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil || !info.Mode().IsRegular() || info.Size() == 0 {
			return f
		}
	}
	return ""
}
