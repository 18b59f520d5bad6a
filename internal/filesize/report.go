package filesize

import (
	"fmt"
	"io"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"git.home.luguber.info/inful/appbuilder/internal/style"
)

// significantGrowth marks a size increase worth highlighting in red.
const significantGrowth = 50 * 1024

// AssetSize is one row of the size report.
type AssetSize struct {
	// Folder is the display folder, e.g. "build/static/js".
	Folder string
	// Name is the file name within Folder.
	Name string
	// Key is the hash-stripped path used to compare builds.
	Key string
	// Size is the gzip size in bytes.
	Size int64
	// Previous is the gzip size in the previous build; HasPrevious is false
	// for new assets.
	Previous    int64
	HasPrevious bool
}

// Difference returns the size change since the previous build.
func (a AssetSize) Difference() int64 {
	if !a.HasPrevious {
		return 0
	}
	return a.Size - a.Previous
}

// Collect computes the gzip size of each emitted asset (paths relative to
// buildDir) that is a script or stylesheet, sorted largest first. Assets that
// cannot be read are skipped.
func Collect(buildDir string, assets []string, previous Sizes) []AssetSize {
	base := filepath.Base(buildDir)
	rows := make([]AssetSize, 0, len(assets))
	for _, asset := range assets {
		asset = filepath.ToSlash(asset)
		if !IsMeasured(asset) {
			continue
		}
		size, err := FileGzipSize(filepath.Join(buildDir, filepath.FromSlash(asset)))
		if err != nil {
			continue
		}
		key := RemoveFileNameHash(buildDir, asset)
		prev, ok := previous[key]
		rows = append(rows, AssetSize{
			Folder:      path.Join(base, path.Dir(asset)),
			Name:        path.Base(asset),
			Key:         key,
			Size:        size,
			Previous:    prev,
			HasPrevious: ok,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Size > rows[j].Size })
	return rows
}

// Print writes the size table. The main bundle is compared against
// maxBundle, every other asset against maxChunk; oversized rows are
// highlighted and oversized scripts add code-splitting advice.
func Print(w io.Writer, p style.Palette, rows []AssetSize, maxBundle, maxChunk int64) {
	labels := make([]string, len(rows))
	widths := make([]int, len(rows))
	longest := 0
	for i, row := range rows {
		plain, coloured := sizeLabel(p, row)
		labels[i] = coloured
		widths[i] = utf8.RuneCountInString(plain)
		if widths[i] > longest {
			longest = widths[i]
		}
	}

	suggestSplitting := false
	for i, row := range rows {
		limit := maxChunk
		if strings.HasPrefix(row.Name, "main.") {
			limit = maxBundle
		}
		isLarge := limit > 0 && row.Size > limit
		if isLarge && path.Ext(row.Name) == ".js" {
			suggestSplitting = true
		}
		label := labels[i] + strings.Repeat(" ", longest-widths[i])
		if isLarge {
			label = p.Yellow(label)
		}
		_, _ = fmt.Fprintf(w, "  %s  %s%s\n", label, p.Dim(row.Folder+"/"), p.Cyan(row.Name))
	}

	if suggestSplitting {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, p.Yellow("The bundle size is significantly larger than recommended."))
		_, _ = fmt.Fprintln(w, p.Yellow("Consider reducing it with code splitting: https://esbuild.github.io/api/#splitting"))
		_, _ = fmt.Fprintln(w, p.Yellow("You can also analyze the project dependencies: https://esbuild.github.io/analyze/"))
	}
}

// sizeLabel returns the label without and with colour.
func sizeLabel(p style.Palette, row AssetSize) (string, string) {
	size := humanize.Bytes(uint64(row.Size))
	diff, coloured := DifferenceLabel(p, row.Difference())
	if diff == "" {
		return size, size
	}
	return size + " (" + diff + ")", size + " (" + coloured + ")"
}

// DifferenceLabel formats a size change: red for growth of 50 KiB or more,
// yellow for smaller growth, green for shrinkage, empty when unchanged.
func DifferenceLabel(p style.Palette, difference int64) (plain, coloured string) {
	switch {
	case difference >= significantGrowth:
		plain = "+" + humanize.Bytes(uint64(difference))
		return plain, p.Red(plain)
	case difference > 0:
		plain = "+" + humanize.Bytes(uint64(difference))
		return plain, p.Yellow(plain)
	case difference < 0:
		plain = "-" + humanize.Bytes(uint64(-difference))
		return plain, p.Green(plain)
	default:
		return "", ""
	}
}
