package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/appbuilder/internal/build"
	"git.home.luguber.info/inful/appbuilder/internal/bundler"
	"git.home.luguber.info/inful/appbuilder/internal/config"
	apperrors "git.home.luguber.info/inful/appbuilder/internal/errors"
	"git.home.luguber.info/inful/appbuilder/internal/filesize"
	"git.home.luguber.info/inful/appbuilder/internal/manifest"
	"git.home.luguber.info/inful/appbuilder/internal/paths"
	"git.home.luguber.info/inful/appbuilder/internal/style"
)

func project(t *testing.T, pkgJSON string, yarn bool) *paths.PathSet {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"), []byte(pkgJSON), 0o644))
	if yarn {
		require.NoError(t, os.WriteFile(filepath.Join(root, "yarn.lock"), []byte("# yarn"), 0o644))
	}
	ps, err := paths.Resolve(root, "")
	require.NoError(t, err)
	return ps
}

func TestSuccessWithoutWarnings(t *testing.T) {
	ps := project(t, `{"name":"app"}`, false)
	var out bytes.Buffer
	r := New(&out, ps, nil).WithBuildFolder("build")

	err := r.Success(&build.Result{Assets: []filesize.AssetSize{
		{Folder: "build/static/js", Name: "main.AAAAAAAA.js", Size: 1024},
	}})
	require.NoError(t, err)

	got := out.String()
	assert.True(t, strings.HasPrefix(got, "Compiled successfully.\n\nFile sizes after gzip:\n\n"))
	assert.Contains(t, got, "  1.0 kB  build/static/js/main.AAAAAAAA.js\n")
	assert.Contains(t, got, "The project was built assuming it is hosted at the server root.")
	assert.Contains(t, got, "npm install -g serve")
	assert.Contains(t, got, "serve -s build")
	assert.Contains(t, got, DeploymentDocs)
	assert.NotContains(t, got, "Compiled with warnings")
}

func TestSuccessWithWarnings(t *testing.T) {
	ps := project(t, `{"name":"app"}`, true)
	var out bytes.Buffer
	r := New(&out, ps, &config.Config{}).WithBuildFolder("build")

	require.NoError(t, r.Success(&build.Result{Warnings: []string{"w1", "w2"}}))
	got := out.String()
	assert.True(t, strings.HasPrefix(got, "Compiled with warnings.\n\nw1\n\nw2\n"))
	assert.Contains(t, got, "Search for the keywords to learn more about each warning.")
	assert.Contains(t, got, "To ignore, add // eslint-disable-next-line to the line before.")
	assert.Contains(t, got, "yarn global add serve")
}

func TestSuccessUsesBundlerPublicPath(t *testing.T) {
	ps := project(t, `{"name":"app"}`, false)
	require.Equal(t, "/", ps.ServedPath)
	var out bytes.Buffer
	r := New(&out, ps, nil).WithBuildFolder("build")

	require.NoError(t, r.Success(&build.Result{Stats: &bundler.Stats{PublicPath: "/app/"}}))
	got := out.String()
	assert.Contains(t, got, "hosted at /app/.")
	assert.NotContains(t, got, "serve -s build")
}

func TestSuccessMissingPackageJSON(t *testing.T) {
	ps := project(t, `{}`, false)
	require.NoError(t, os.Remove(ps.AppPackageJSON))
	err := New(&bytes.Buffer{}, ps, nil).Success(&build.Result{})
	assert.Error(t, err)
}

func TestSuccessNilInputs(t *testing.T) {
	var out bytes.Buffer
	assert.NotPanics(t, func() {
		require.NoError(t, New(&out, nil, nil).Success(nil))
	})
	assert.Contains(t, out.String(), "Compiled successfully.")
}

func TestFailure(t *testing.T) {
	var out bytes.Buffer
	r := New(&out, nil, nil)
	r.Failure(&build.BuildError{Kind: build.KindCompile, Message: "./src/App.js\nSyntax error: boom"})
	assert.Equal(t, "Failed to compile.\n\n./src/App.js\nSyntax error: boom\n\n", out.String())

	out.Reset()
	r.Failure(apperrors.CompileFailed(&build.BuildError{Kind: build.KindWarningsAsErrors, Message: "w1", Warnings: 1}))
	assert.Equal(t, "Failed to compile.\n\nw1\n\n", out.String())

	out.Reset()
	r.Failure(apperrors.OutputDirError("empty", errors.New("read-only")))
	assert.Contains(t, out.String(), "read-only")

	out.Reset()
	assert.NotPanics(t, func() { r.Failure(nil) })
	assert.Contains(t, out.String(), "Failed to compile.")
}

func TestCrash(t *testing.T) {
	var out bytes.Buffer
	r := New(&out, nil, nil)
	r.Crash(errors.New("disk full"))
	assert.Equal(t, "disk full\n", out.String())

	out.Reset()
	r.Crash(nil)
	r.Crash(&build.BuildError{Kind: build.KindInvocation})
	assert.Empty(t, out.String())
}

func TestHostingInstructionsGitHubPages(t *testing.T) {
	for _, tc := range []struct {
		name     string
		pkg      *manifest.Package
		yarn     bool
		contains []string
		excludes []string
	}{
		{
			name: "npm without deploy script",
			pkg:  &manifest.Package{},
			contains: []string{
				"npm install --save-dev gh-pages",
				`"predeploy": "npm run build",`,
				`"deploy": "gh-pages -d build"`,
				"npm run deploy",
			},
		},
		{
			name:     "yarn with deploy script",
			pkg:      &manifest.Package{Scripts: map[string]string{"deploy": "gh-pages -d build"}},
			yarn:     true,
			contains: []string{"yarn run deploy"},
			excludes: []string{"gh-pages\n", "Add the following script"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			HostingInstructions(&out, style.Plain(), tc.pkg, "https://me.github.io/app", "/app/", "build", tc.yarn)
			got := out.String()
			assert.Contains(t, got, "The project was built assuming it is hosted at /app/.")
			assert.Contains(t, got, "To publish it at https://me.github.io/app , run:")
			for _, s := range tc.contains {
				assert.Contains(t, got, s)
			}
			for _, s := range tc.excludes {
				assert.NotContains(t, got, s)
			}
		})
	}
}

func TestHostingInstructionsSubPath(t *testing.T) {
	var out bytes.Buffer
	HostingInstructions(&out, style.Plain(), nil, "https://example.com/app", "/app/", "build", false)
	got := out.String()
	assert.Contains(t, got, "hosted at /app/.")
	assert.Contains(t, got, "The build folder is ready to be deployed.")
	assert.NotContains(t, got, "serve -s")
	assert.NotContains(t, got, "To publish it")
}

func TestHostingInstructionsServerRoot(t *testing.T) {
	var out bytes.Buffer
	HostingInstructions(&out, style.Plain(), nil, "https://example.com", "/", "build", false)
	got := out.String()
	assert.Contains(t, got, "hosted at https://example.com.")
	assert.Contains(t, got, "serve -s build")
	assert.NotContains(t, got, "For example, add this")

	out.Reset()
	HostingInstructions(&out, style.Plain(), nil, "", "/", "build", false)
	assert.Contains(t, out.String(), `"homepage" : "http://myname.github.io/myapp",`)
}
