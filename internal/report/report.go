// Package report prints the outcome of a production build: the success or
// warning banner, the gzip size table and deployment hints, or the failure
// message.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/appbuilder/internal/build"
	"git.home.luguber.info/inful/appbuilder/internal/config"
	"git.home.luguber.info/inful/appbuilder/internal/filesize"
	"git.home.luguber.info/inful/appbuilder/internal/manifest"
	"git.home.luguber.info/inful/appbuilder/internal/paths"
	"git.home.luguber.info/inful/appbuilder/internal/style"
)

// Reporter writes build reports for one project.
type Reporter struct {
	out       io.Writer
	p         style.Palette
	paths     *paths.PathSet
	maxBundle int64
	maxChunk  int64
	// buildFolder is the output directory as shown to the user.
	buildFolder string
}

// New returns a Reporter writing to out. Colour is enabled only when out is
// a terminal.
func New(out io.Writer, ps *paths.PathSet, cfg *config.Config) *Reporter {
	r := &Reporter{
		out:       out,
		p:         style.For(out),
		paths:     ps,
		maxBundle: config.DefaultBundleWarnSize,
		maxChunk:  config.DefaultChunkWarnSize,
	}
	if cfg != nil && cfg.Project.BundleWarnSize > 0 {
		r.maxBundle = cfg.Project.BundleWarnSize
	}
	if cfg != nil && cfg.Project.ChunkWarnSize > 0 {
		r.maxChunk = cfg.Project.ChunkWarnSize
	}
	if ps != nil {
		r.buildFolder = ps.AppBuild
		if wd, err := os.Getwd(); err == nil {
			if rel, err := filepath.Rel(wd, ps.AppBuild); err == nil {
				r.buildFolder = rel
			}
		}
	}
	return r
}

// WithBuildFolder overrides how the output directory is displayed.
func (r *Reporter) WithBuildFolder(folder string) *Reporter {
	r.buildFolder = folder
	return r
}

func (r *Reporter) println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Success prints the banner, the size table and hosting instructions. It
// fails only when the project manifest cannot be read.
func (r *Reporter) Success(res *build.Result) error {
	var warnings []string
	if res != nil {
		warnings = res.Warnings
	}
	if len(warnings) > 0 {
		r.println(r.p.Yellow("Compiled with warnings.") + "\n")
		r.println(strings.Join(warnings, "\n\n"))
		r.println("\nSearch for the " + r.p.Underline(r.p.Yellow("keywords")) + " to learn more about each warning.")
		r.println("To ignore, add " + r.p.Cyan("// eslint-disable-next-line") + " to the line before.\n")
	} else {
		r.println(r.p.Green("Compiled successfully.") + "\n")
	}

	r.println("File sizes after gzip:\n")
	if res != nil {
		filesize.Print(r.out, r.p, res.Assets, r.maxBundle, r.maxChunk)
	}
	r.println()

	if r.paths == nil {
		return nil
	}
	pkg, err := manifest.ReadPackage(r.paths.AppPackageJSON)
	if err != nil {
		return err
	}
	publicPath := r.paths.ServedPath
	if res != nil && res.Stats != nil && res.Stats.PublicPath != "" {
		publicPath = res.Stats.PublicPath
	}
	HostingInstructions(r.out, r.p, pkg, r.paths.PublicURL, publicPath, r.buildFolder, r.paths.UseYarn())
	return nil
}

// Failure prints a build failure. When err wraps a *build.BuildError only the
// compiler's message is shown.
func (r *Reporter) Failure(err error) {
	r.println(r.p.Red("Failed to compile.") + "\n")
	msg := "<nil>"
	var be *build.BuildError
	switch {
	case errors.As(err, &be):
		msg = be.Error()
	case err != nil:
		msg = err.Error()
	}
	r.println(msg + "\n")
}

// Crash prints an unexpected failure. Errors without a message print nothing.
func (r *Reporter) Crash(err error) {
	if err != nil && err.Error() != "" {
		r.println(err.Error())
	}
}

// DeploymentDocs is printed after the hosting instructions.
const DeploymentDocs = "https://create-react-app.dev/docs/deployment"

// HostingInstructions explains where the build expects to be served from and
// how to deploy it. Three cases are distinguished: a GitHub Pages homepage,
// a sub-path, and the server root.
func HostingInstructions(w io.Writer, p style.Palette, pkg *manifest.Package, publicURL, publicPath, buildFolder string, useYarn bool) {
	line := func(a ...any) { _, _ = fmt.Fprintln(w, a...) }

	switch {
	case strings.Contains(publicURL, ".github.io/"):
		printBaseMessage(w, p, buildFolder, publicPath)
		printDeployInstructions(w, p, publicURL, pkg.HasScript("deploy"), useYarn)
	case publicPath != "/":
		printBaseMessage(w, p, buildFolder, publicPath)
	default:
		printBaseMessage(w, p, buildFolder, publicURL)
		printStaticServerInstructions(w, p, buildFolder, useYarn)
	}
	line()
	line("Find out more about deployment here:")
	line()
	line("  " + p.Yellow(DeploymentDocs))
	line()
}

func printBaseMessage(w io.Writer, p style.Palette, buildFolder, hostingLocation string) {
	location := hostingLocation
	if location == "" {
		location = "the server root"
	}
	_, _ = fmt.Fprintf(w, "The project was built assuming it is hosted at %s.\n", p.Green(location))
	_, _ = fmt.Fprintf(w, "You can control this with the %s field in your %s.\n", p.Green("homepage"), p.Cyan("package.json"))
	if hostingLocation == "" {
		_, _ = fmt.Fprintln(w, "For example, add this to build it for GitHub Pages:")
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintf(w, "  %s %s %s%s\n", p.Green(`"homepage"`), p.Cyan(":"), p.Green(`"http://myname.github.io/myapp"`), p.Cyan(","))
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "The %s folder is ready to be deployed.\n", p.Cyan(buildFolder))
}

func printDeployInstructions(w io.Writer, p style.Palette, publicURL string, hasDeployScript, useYarn bool) {
	tool := "npm"
	if useYarn {
		tool = "yarn"
	}
	_, _ = fmt.Fprintf(w, "To publish it at %s , run:\n\n", p.Green(publicURL))
	if !hasDeployScript {
		if useYarn {
			_, _ = fmt.Fprintf(w, "  %s add --dev gh-pages\n", p.Cyan("yarn"))
		} else {
			_, _ = fmt.Fprintf(w, "  %s install --save-dev gh-pages\n", p.Cyan("npm"))
		}
		predeploy := `"npm run build",`
		if useYarn {
			predeploy = `"yarn build",`
		}
		_, _ = fmt.Fprintf(w, "\nAdd the following script in your %s.\n\n", p.Cyan("package.json"))
		_, _ = fmt.Fprintf(w, "    %s\n", p.Dim("// ..."))
		_, _ = fmt.Fprintf(w, "    %s: {\n", p.Yellow(`"scripts"`))
		_, _ = fmt.Fprintf(w, "      %s\n", p.Dim("// ..."))
		_, _ = fmt.Fprintf(w, "      %s: %s\n", p.Yellow(`"predeploy"`), p.Yellow(predeploy))
		_, _ = fmt.Fprintf(w, "      %s: %s\n", p.Yellow(`"deploy"`), p.Yellow(`"gh-pages -d build"`))
		_, _ = fmt.Fprintln(w, "    }")
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "Then run:")
		_, _ = fmt.Fprintln(w)
	}
	_, _ = fmt.Fprintf(w, "  %s run deploy\n", p.Cyan(tool))
}

func printStaticServerInstructions(w io.Writer, p style.Palette, buildFolder string, useYarn bool) {
	_, _ = fmt.Fprintln(w, "You may serve it with a static server:")
	_, _ = fmt.Fprintln(w)
	if useYarn {
		_, _ = fmt.Fprintf(w, "  %s global add serve\n", p.Cyan("yarn"))
	} else {
		_, _ = fmt.Fprintf(w, "  %s install -g serve\n", p.Cyan("npm"))
	}
	_, _ = fmt.Fprintf(w, "  %s -s %s\n", p.Cyan("serve"), buildFolder)
}
