package build

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"git.home.luguber.info/inful/appbuilder/internal/bundler"
	"git.home.luguber.info/inful/appbuilder/internal/config"
	"git.home.luguber.info/inful/appbuilder/internal/filesize"
	"git.home.luguber.info/inful/appbuilder/internal/logfields"
	"git.home.luguber.info/inful/appbuilder/internal/observability"
	"git.home.luguber.info/inful/appbuilder/internal/paths"
	"git.home.luguber.info/inful/appbuilder/internal/style"
)

const nodePathDeprecation = "Setting NODE_PATH to resolve modules absolutely has been deprecated in favor of " +
	"setting baseUrl in jsconfig.json (or tsconfig.json if you are using TypeScript) and will be removed " +
	"in a future release."

// CompilerFactory creates the compiler for one build.
type CompilerFactory func(opts bundler.Options) bundler.Compiler

// DefaultCompilerFactory runs esbuild in-process.
func DefaultCompilerFactory(opts bundler.Options) bundler.Compiler {
	return bundler.NewESBuild(opts)
}

// Result is what a successful compilation hands to the reporter.
type Result struct {
	BuildID           string
	Stats             *bundler.Stats
	PreviousFileSizes filesize.Sizes
	// Warnings are the normalised warnings; non-empty means "compiled with
	// warnings".
	Warnings []string
	// Assets are the gzip-measured scripts and stylesheets, largest first.
	Assets   []filesize.AssetSize
	Duration time.Duration
}

// Driver compiles a project once.
type Driver struct {
	paths       *paths.PathSet
	cfg         *config.Config
	out         io.Writer
	newCompiler CompilerFactory
}

// NewDriver returns a Driver printing progress to out.
func NewDriver(ps *paths.PathSet, cfg *config.Config, out io.Writer) *Driver {
	return &Driver{paths: ps, cfg: cfg, out: out, newCompiler: DefaultCompilerFactory}
}

// WithCompilerFactory replaces the bundler (for testing).
func (d *Driver) WithCompilerFactory(f CompilerFactory) *Driver {
	d.newCompiler = f
	return d
}

type compileOutcome struct {
	stats *bundler.Stats
	err   error
}

// Build runs the compiler once and classifies the outcome. Every failure is a
// *BuildError.
func (d *Driver) Build(ctx context.Context, previous filesize.Sizes) (*Result, error) {
	p := style.For(d.out)
	if d.cfg.NodePath() != "" {
		_, _ = fmt.Fprintln(d.out, p.Yellow(nodePathDeprecation))
		_, _ = fmt.Fprintln(d.out)
	}
	_, _ = fmt.Fprintln(d.out, "Creating an optimized production build...")

	compiler := d.newCompiler(bundler.ProductionOptions(d.paths, d.cfg))
	start := time.Now()

	done := make(chan compileOutcome, 1)
	go func() {
		stats, err := compiler.Run(ctx)
		done <- compileOutcome{stats: stats, err: err}
	}()
	res := <-done

	var messages CompileMessages
	if res.err != nil {
		if res.err.Error() == "" {
			return nil, &BuildError{Kind: KindInvocation, Err: res.err}
		}
		messages = NormalizeMessages(RawMessages{Errors: []string{res.err.Error()}})
	} else {
		errs, warnings := res.stats.Raw()
		messages = NormalizeMessages(RawMessages{Errors: errs, Warnings: warnings})
	}
	observability.DebugContext(ctx, "Compilation finished",
		logfields.Errors(len(messages.Errors)),
		logfields.Warnings(len(messages.Warnings)),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))

	if len(messages.Errors) > 0 {
		// Later errors are usually caused by the first one.
		messages.Errors = messages.Errors[:1]
		return nil, &BuildError{Kind: KindCompile, Message: strings.Join(messages.Errors, "\n\n"), Err: res.err}
	}

	if d.cfg.CIEnabled() && len(messages.Warnings) > 0 {
		_, _ = fmt.Fprintln(d.out, p.Yellow("\nTreating warnings as errors because process.env.CI = true.\n"+
			"Most CI servers set it automatically.\n"))
		return nil, &BuildError{
			Kind:     KindWarningsAsErrors,
			Message:  strings.Join(messages.Warnings, "\n\n"),
			Warnings: len(messages.Warnings),
		}
	}

	return &Result{
		Stats:             res.stats,
		PreviousFileSizes: previous,
		Warnings:          messages.Warnings,
		Duration:          time.Since(start),
	}, nil
}
