package filesize

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/appbuilder/internal/style"
)

func write(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestRemoveFileNameHash(t *testing.T) {
	build := filepath.Join("/", "app", "build")
	tests := []struct {
		in   string
		want string
	}{
		{filepath.Join(build, "static", "js", "main.4FQGWJ2Z.js"), "static/js/main.js"},
		{filepath.Join(build, "static", "js", "12.AB3CD4EF.chunk.js"), "static/js/12.js"},
		{filepath.Join(build, "static", "css", "main.ZZZZ2345.css"), "static/css/main.css"},
		{"static/js/vendor.polyfill.js", "static/js/vendor.polyfill.js"},
		{"static/js/plain.js", "static/js/plain.js"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RemoveFileNameHash(build, tt.in), tt.in)
	}
}

func TestGzipSizeCompresses(t *testing.T) {
	data := bytes.Repeat([]byte("console.log('hello');\n"), 500)
	size, err := GzipSize(data)
	require.NoError(t, err)
	assert.Greater(t, size, int64(0))
	assert.Less(t, size, int64(len(data)))
}

func TestMeasure(t *testing.T) {
	build := t.TempDir()
	write(t, filepath.Join(build, "static", "js", "main.ABCDEFGH.js"), []byte("var a = 1;"))
	write(t, filepath.Join(build, "static", "css", "main.ABCDEFG2.css"), []byte("body{}"))
	write(t, filepath.Join(build, "index.html"), []byte("<html>"))

	sizes, err := Measure(build)
	require.NoError(t, err)
	assert.Len(t, sizes, 2)
	assert.Contains(t, sizes, "static/js/main.js")
	assert.Contains(t, sizes, "static/css/main.css")
}

func TestMeasure_MissingDirectory(t *testing.T) {
	sizes, err := Measure(filepath.Join(t.TempDir(), "build"))
	require.NoError(t, err)
	assert.Empty(t, sizes)
}

func TestCollectComparesWithPrevious(t *testing.T) {
	build := filepath.Join(t.TempDir(), "build")
	write(t, filepath.Join(build, "static", "js", "main.NEWHASH2.js"), bytes.Repeat([]byte("x"), 10))
	write(t, filepath.Join(build, "static", "js", "7.CHUNKAB2.chunk.js"), []byte("y"))

	previous := Sizes{"static/js/main.js": 5}
	rows := Collect(build, []string{
		"static/js/main.NEWHASH2.js",
		"static/js/7.CHUNKAB2.chunk.js",
		"static/js/main.NEWHASH2.js.map",
		"static/js/missing.js",
	}, previous)

	require.Len(t, rows, 2)
	byName := map[string]AssetSize{}
	for _, r := range rows {
		byName[r.Name] = r
		assert.Equal(t, "build/static/js", r.Folder)
	}
	main := byName["main.NEWHASH2.js"]
	assert.True(t, main.HasPrevious)
	assert.Equal(t, main.Size-5, main.Difference())
	assert.False(t, byName["7.CHUNKAB2.chunk.js"].HasPrevious)
	assert.Zero(t, byName["7.CHUNKAB2.chunk.js"].Difference())
	assert.GreaterOrEqual(t, rows[0].Size, rows[1].Size)
}

func TestDifferenceLabel(t *testing.T) {
	p := style.Plain()
	plain, _ := DifferenceLabel(p, 0)
	assert.Equal(t, "", plain)
	plain, _ = DifferenceLabel(p, 100)
	assert.Equal(t, "+100 B", plain)
	plain, _ = DifferenceLabel(p, -2000)
	assert.Equal(t, "-2.0 kB", plain)
	plain, _ = DifferenceLabel(p, 60*1024)
	assert.True(t, strings.HasPrefix(plain, "+"))
}

func TestPrint_AlignsAndWarnsOnLargeBundles(t *testing.T) {
	rows := []AssetSize{
		{Folder: "build/static/js", Name: "main.AAAAAAAA.js", Size: 600 * 1024},
		{Folder: "build/static/css", Name: "main.BBBBBBBB.css", Size: 100, Previous: 50, HasPrevious: true},
	}
	var out bytes.Buffer
	Print(&out, style.Plain(), rows, 512*1024, 1024*1024)

	lines := strings.Split(out.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	first := strings.Index(lines[0], "build/")
	second := strings.Index(lines[1], "build/")
	assert.Equal(t, first, second, "folder column should be aligned:\n%s", out.String())
	assert.Contains(t, lines[1], "100 B (+50 B)")
	assert.Contains(t, out.String(), "The bundle size is significantly larger than recommended.")
}

func TestPrint_NoAdviceForSmallBundles(t *testing.T) {
	rows := []AssetSize{{Folder: "build/static/js", Name: "main.AAAAAAAA.js", Size: 1024}}
	var out bytes.Buffer
	Print(&out, style.Plain(), rows, 512*1024, 1024*1024)
	assert.NotContains(t, out.String(), "significantly larger")
	assert.Equal(t, "  1.0 kB  build/static/js/main.AAAAAAAA.js\n", out.String())
}

func TestPrint_ChunkThreshold(t *testing.T) {
	rows := []AssetSize{{Folder: "build/static/js", Name: "3.AAAAAAAA.chunk.js", Size: 700 * 1024}}
	var out bytes.Buffer
	Print(&out, style.Plain(), rows, 512*1024, 1024*1024)
	assert.NotContains(t, out.String(), "significantly larger")
}
