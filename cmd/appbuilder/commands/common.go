package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/appbuilder/internal/build"
	"git.home.luguber.info/inful/appbuilder/internal/config"
	apperrors "git.home.luguber.info/inful/appbuilder/internal/errors"
	"git.home.luguber.info/inful/appbuilder/internal/logfields"
	"git.home.luguber.info/inful/appbuilder/internal/paths"
)

// Global is shared state handed to every command.
type Global struct {
	Ctx    context.Context
	Stdout io.Writer
	// Environ returns the process environment; os.Environ when nil.
	Environ func() []string
	// Compiler overrides the bundler; esbuild when nil.
	Compiler build.CompilerFactory
}

func (g *Global) context() context.Context {
	if g.Ctx == nil {
		return context.Background()
	}
	return g.Ctx
}

func (g *Global) stdout() io.Writer {
	if g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

func (g *Global) environ() []string {
	if g.Environ == nil {
		return config.OSEnviron()
	}
	return g.Environ()
}

// CLI definition & global flags.
type CLI struct {
	Root    string           `short:"C" help:"Project root directory" default:"." type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" default:"withargs" help:"Create an optimized production build (default)"`
	Watch WatchCmd `cmd:"" help:"Rebuild whenever src/ or public/ change"`
	Paths PathsCmd `cmd:"" help:"Print the resolved project paths as YAML"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := config.ParseLogLevel(c.Verbose, os.Getenv(config.LogLevelEnvVar))
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// ExitError signals a failure that has already been reported to the user;
// the process only needs to exit non-zero.
type ExitError struct {
	Err error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return "build failed"
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// project resolves the project root, prepares the environment and computes
// the paths. The environment is loaded first so PUBLIC_URL from .env files
// is honoured.
func project(g *Global, root string) (*paths.PathSet, *config.Config, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, apperrors.ProjectRootError(root, err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, nil, apperrors.ProjectRootError(root, err)
	}

	cfg, err := config.Prepare(canonical, g.environ())
	if err != nil {
		return nil, nil, apperrors.ConfigError("failed to prepare build environment", err)
	}
	ps, err := paths.Resolve(canonical, cfg.PublicURLOverride())
	if err != nil {
		return nil, nil, apperrors.ProjectRootError(root, err)
	}
	slog.Debug("Resolved project",
		logfields.Path(ps.AppPath),
		slog.String("served_path", ps.ServedPath),
		logfields.Count(len(cfg.EnvFiles)))
	return ps, cfg, nil
}

func newService(g *Global, ps *paths.PathSet, cfg *config.Config) *build.Service {
	svc := build.NewService(ps, cfg, g.stdout())
	if g.Compiler != nil {
		svc.WithCompilerFactory(g.Compiler)
	}
	return svc
}
