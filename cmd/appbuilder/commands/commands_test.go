package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/appbuilder/internal/bundler"
	apperrors "git.home.luguber.info/inful/appbuilder/internal/errors"
	"git.home.luguber.info/inful/appbuilder/internal/paths"
)

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

func fixtureFiles() map[string]string {
	return map[string]string{
		"package.json":      `{"name": "fixture", "homepage": "https://example.com/shop"}`,
		"public/index.html": `<html><head></head><body></body></html>`,
		"src/index.js":      "console.log(1)\n",
	}
}

func fakeCompiler(warnings ...string) func(bundler.Options) bundler.Compiler {
	return func(opts bundler.Options) bundler.Compiler {
		return bundler.CompilerFunc(func(context.Context) (*bundler.Stats, error) {
			js := "static/js/main.AAAAAAAA.js"
			p := filepath.Join(opts.OutDir, filepath.FromSlash(js))
			if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
				return nil, err
			}
			if err := os.WriteFile(p, []byte("console.log(1)"), 0o644); err != nil {
				return nil, err
			}
			stats := &bundler.Stats{Outputs: []string{js}, Entrypoints: []string{js}}
			for _, w := range warnings {
				stats.Warnings = append(stats.Warnings, bundler.Message{Text: w})
			}
			return stats, nil
		})
	}
}

func globals(out *bytes.Buffer, env ...string) *Global {
	return &Global{
		Ctx:      context.Background(),
		Stdout:   out,
		Environ:  func() []string { return env },
		Compiler: fakeCompiler(),
	}
}

func TestProjectHonoursDotenvPublicURL(t *testing.T) {
	files := fixtureFiles()
	files[".env"] = "PUBLIC_URL=/from-dotenv\n"
	root := writeProject(t, files)

	ps, cfg, err := project(globals(&bytes.Buffer{}), root)
	require.NoError(t, err)
	assert.Equal(t, "/from-dotenv/", ps.ServedPath)
	assert.Equal(t, "production", cfg.Get("NODE_ENV"))
}

func TestProjectMissingRoot(t *testing.T) {
	_, _, err := project(globals(&bytes.Buffer{}), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.True(t, apperrors.IsCategory(err, apperrors.CategoryConfig))
}

func TestBuildCmdSuccess(t *testing.T) {
	root := writeProject(t, fixtureFiles())
	metricsFile := filepath.Join(t.TempDir(), "appbuilder.prom")
	var out bytes.Buffer

	err := (&BuildCmd{MetricsFile: metricsFile}).Run(globals(&out), &CLI{Root: root})
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "Creating an optimized production build...")
	assert.Contains(t, got, "Compiled successfully.")
	assert.Contains(t, got, "File sizes after gzip:")
	assert.Contains(t, got, "main.AAAAAAAA.js")
	assert.Contains(t, got, "hosted at /shop/.")
	assert.FileExists(t, filepath.Join(root, "build", "asset-manifest.json"))

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "appbuilder_build_outcomes_total")
}

func TestBuildCmdWarningsInCI(t *testing.T) {
	root := writeProject(t, fixtureFiles())
	var out bytes.Buffer
	g := globals(&out, "CI=true")
	g.Compiler = fakeCompiler("unused variable")
	metricsFile := filepath.Join(t.TempDir(), "appbuilder.prom")

	err := (&BuildCmd{MetricsFile: metricsFile}).Run(g, &CLI{Root: root})
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.True(t, apperrors.IsCategory(exitErr.Err, apperrors.CategoryCompile))
	assert.Contains(t, out.String(), "Treating warnings as errors")
	assert.Contains(t, out.String(), "Failed to compile.\n\nunused variable\n")

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "appbuilder_compile_warnings 1")
}

func TestBuildCmdMissingEntry(t *testing.T) {
	files := fixtureFiles()
	delete(files, "public/index.html")
	root := writeProject(t, files)
	var out bytes.Buffer

	err := (&BuildCmd{}).Run(globals(&out), &CLI{Root: root})
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Contains(t, out.String(), "Could not find a required file.")
	assert.NotContains(t, out.String(), "Failed to compile.")
	assert.NotContains(t, out.String(), "Creating an optimized production build...")
}

func TestPathsCmd(t *testing.T) {
	root := writeProject(t, fixtureFiles())
	var out bytes.Buffer
	require.NoError(t, (&PathsCmd{}).Run(globals(&out), &CLI{Root: root}))

	var ps paths.PathSet
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &ps))
	canonical, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, canonical, ps.AppPath)
	assert.Equal(t, filepath.Join(canonical, "src", "index.js"), ps.AppIndexJS)
	assert.Equal(t, "/shop/", ps.ServedPath)
}

func TestCLIParsing(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"})
	require.NoError(t, err)

	kctx, err := parser.Parse([]string{"--root", "/tmp/app", "watch", "--debounce", "1s"})
	require.NoError(t, err)
	assert.Equal(t, "watch", kctx.Command())
	assert.Equal(t, "/tmp/app", cli.Root)
	assert.Equal(t, "1s", cli.Watch.Debounce.String())

	var defaults CLI
	parser, err = kong.New(&defaults, kong.Vars{"version": "test"})
	require.NoError(t, err)
	kctx, err = parser.Parse([]string{})
	require.NoError(t, err)
	assert.Equal(t, "build", kctx.Command())
}

func TestExitError(t *testing.T) {
	assert.Equal(t, "build failed", (&ExitError{}).Error())
	inner := apperrors.MissingRequiredFile("/app/public/index.html")
	err := &ExitError{Err: inner}
	assert.ErrorIs(t, err, inner)
}
