package build

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/appbuilder/internal/config"
	apperrors "git.home.luguber.info/inful/appbuilder/internal/errors"
	"git.home.luguber.info/inful/appbuilder/internal/filesize"
	"git.home.luguber.info/inful/appbuilder/internal/git"
	"git.home.luguber.info/inful/appbuilder/internal/logfields"
	"git.home.luguber.info/inful/appbuilder/internal/manifest"
	"git.home.luguber.info/inful/appbuilder/internal/metrics"
	"git.home.luguber.info/inful/appbuilder/internal/observability"
	"git.home.luguber.info/inful/appbuilder/internal/paths"
	"git.home.luguber.info/inful/appbuilder/internal/preflight"
	"git.home.luguber.info/inful/appbuilder/internal/version"
	"git.home.luguber.info/inful/appbuilder/internal/workspace"
)

// Stage names used for logging and metrics.
const (
	StagePreflight = "preflight"
	StageMeasure   = "measure"
	StagePrepare   = "prepare"
	StageCompile   = "compile"
	StageManifest  = "manifest"
)

// Service runs the whole production build workflow for one project.
type Service struct {
	paths    *paths.PathSet
	cfg      *config.Config
	out      io.Writer
	driver   *Driver
	recorder metrics.Recorder
	// headCommit resolves the commit recorded in the asset manifest.
	headCommit func(dir string) (string, error)
	now        func() time.Time
}

// NewService creates a Service with the esbuild compiler and no metrics.
func NewService(ps *paths.PathSet, cfg *config.Config, out io.Writer) *Service {
	return &Service{
		paths:      ps,
		cfg:        cfg,
		out:        out,
		driver:     NewDriver(ps, cfg, out),
		recorder:   metrics.NoopRecorder{},
		headCommit: git.HeadCommit,
		now:        time.Now,
	}
}

// WithCompilerFactory replaces the bundler (for testing).
func (s *Service) WithCompilerFactory(f CompilerFactory) *Service {
	s.driver.WithCompilerFactory(f)
	return s
}

// WithRecorder sets the metrics recorder.
func (s *Service) WithRecorder(r metrics.Recorder) *Service {
	if r != nil {
		s.recorder = r
	}
	return s
}

// WithCommitResolver replaces the git HEAD lookup.
func (s *Service) WithCommitResolver(f func(dir string) (string, error)) *Service {
	s.headCommit = f
	return s
}

// Run validates the project, empties and repopulates the output directory,
// compiles and writes the asset manifest. A pre-flight failure has already
// been printed when Run returns; it is a validation AppError. Compilation
// failures are compile AppErrors wrapping a *BuildError.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	start := s.now()
	buildID := uuid.NewString()
	ctx = observability.WithBuildID(ctx, buildID)
	observability.InfoContext(ctx, "Starting production build",
		logfields.Path(s.paths.AppPath), logfields.Mode(string(s.cfg.Mode)))

	// Pre-flight
	stageCtx, span := observability.StartStage(ctx, StagePreflight)
	if !preflight.CheckRequiredFiles(s.out, s.paths.RequiredFiles()...) {
		err := apperrors.MissingRequiredFile(preflight.FirstMissing(s.paths.RequiredFiles()...))
		return nil, s.fail(stageCtx, span, err)
	}
	s.pass(span, metrics.ResultSuccess)

	// Measure the previous output before it is removed.
	stageCtx, span = observability.StartStage(ctx, StageMeasure)
	previous, err := filesize.Measure(s.paths.AppBuild)
	if err != nil {
		observability.WarnContext(stageCtx, "Previous build could not be measured; sizes will not be compared",
			logfields.Path(s.paths.AppBuild), logfields.Error(err))
		previous = filesize.Sizes{}
	}
	s.pass(span, metrics.ResultSuccess)

	// Empty the output directory and merge the public folder into it.
	stageCtx, span = observability.StartStage(ctx, StagePrepare)
	output := workspace.NewOutput(s.paths.AppBuild)
	if err := output.Empty(); err != nil {
		return nil, s.fail(stageCtx, span, apperrors.OutputDirError("empty", err))
	}
	if _, err := output.CopyFrom(s.paths.AppPublic, s.paths.AppHTML); err != nil {
		return nil, s.fail(stageCtx, span, apperrors.OutputDirError("copy public", err))
	}
	s.pass(span, metrics.ResultSuccess)

	stageCtx, span = observability.StartStage(ctx, StageCompile)
	result, err := s.driver.Build(stageCtx, previous)
	if err != nil {
		return nil, s.fail(stageCtx, span, apperrors.CompileFailed(err))
	}
	if len(result.Warnings) > 0 {
		s.pass(span, metrics.ResultWarning)
	} else {
		s.pass(span, metrics.ResultSuccess)
	}
	result.BuildID = buildID

	stageCtx, span = observability.StartStage(ctx, StageManifest)
	if result.Stats != nil {
		if err := s.writeManifest(stageCtx, buildID, result); err != nil {
			return nil, s.fail(stageCtx, span, apperrors.OutputDirError("write asset manifest", err))
		}
		result.Assets = filesize.Collect(s.paths.AppBuild, result.Stats.Outputs, previous)
	}
	s.pass(span, metrics.ResultSuccess)

	for _, a := range result.Assets {
		s.recorder.SetAssetGzipSize(a.Key, a.Size)
	}
	s.recorder.SetCompileMessages(0, len(result.Warnings))
	outcome := metrics.BuildOutcomeSuccess
	if len(result.Warnings) > 0 {
		outcome = metrics.BuildOutcomeWarning
	}
	s.recorder.IncBuildOutcome(outcome)
	s.recorder.ObserveBuildDuration(s.now().Sub(start))

	observability.InfoContext(ctx, "Production build finished",
		logfields.Outcome(string(outcome)),
		logfields.Warnings(len(result.Warnings)),
		logfields.Count(len(result.Assets)))
	return result, nil
}

func (s *Service) writeManifest(ctx context.Context, buildID string, result *Result) error {
	commit, err := s.headCommit(s.paths.AppPath)
	if err != nil {
		observability.DebugContext(ctx, "No commit recorded in asset manifest", logfields.Error(err))
		commit = ""
	}
	m := &manifest.AssetManifest{
		Files:       result.Stats.Files,
		Entrypoints: result.Stats.Entrypoints,
		BuildInfo: manifest.BuildInfo{
			ID:        buildID,
			Timestamp: s.now().UTC(),
			Commit:    commit,
			Version:   version.Version,
		},
	}
	if err := m.HashArtifacts(s.paths.AppBuild, result.Stats.Outputs); err != nil {
		return err
	}
	if err := m.Write(s.paths.AppBuild); err != nil {
		return err
	}
	observability.DebugContext(ctx, "Wrote asset manifest", logfields.File(manifest.AssetManifestName), logfields.Commit(commit))
	return nil
}

func (s *Service) pass(span *observability.StageSpan, result metrics.ResultLabel) {
	s.recorder.ObserveStageDuration(span.Name(), span.End(nil))
	s.recorder.IncStageResult(span.Name(), result)
}

func (s *Service) fail(ctx context.Context, span *observability.StageSpan, err error) error {
	s.recorder.ObserveStageDuration(span.Name(), span.End(err))
	s.recorder.IncStageResult(span.Name(), metrics.ResultFatal)
	s.recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
	var be *BuildError
	if errors.As(err, &be) {
		switch be.Kind {
		case KindCompile:
			s.recorder.SetCompileMessages(1, 0)
		case KindWarningsAsErrors:
			s.recorder.SetCompileMessages(0, be.Warnings)
		}
	}
	observability.DebugContext(ctx, "Production build failed", logfields.Error(err))
	return err
}
