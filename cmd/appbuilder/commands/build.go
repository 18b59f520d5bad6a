package commands

import (
	"context"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/appbuilder/internal/config"
	apperrors "git.home.luguber.info/inful/appbuilder/internal/errors"
	"git.home.luguber.info/inful/appbuilder/internal/logfields"
	"git.home.luguber.info/inful/appbuilder/internal/metrics"
	"git.home.luguber.info/inful/appbuilder/internal/observability"
	"git.home.luguber.info/inful/appbuilder/internal/paths"
	"git.home.luguber.info/inful/appbuilder/internal/report"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics for this build to a textfile (overrides metrics_file in appbuilder.yaml)" type:"path"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	ps, cfg, err := project(g, root.Root)
	if err != nil {
		return err
	}
	metricsFile := b.MetricsFile
	if metricsFile == "" {
		metricsFile = cfg.Project.MetricsFile
	}
	return RunBuild(g.context(), g, ps, cfg, metricsFile)
}

// RunBuild performs one build and prints its report. Every failure has been
// printed by the time it returns an *ExitError.
func RunBuild(ctx context.Context, g *Global, ps *paths.PathSet, cfg *config.Config, metricsFile string) error {
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var prometheus *metrics.PrometheusRecorder
	if metricsFile != "" {
		prometheus = metrics.NewPrometheusRecorder(prom.NewRegistry())
		recorder = prometheus
	}

	out := g.stdout()
	reporter := report.New(out, ps, cfg)
	result, err := newService(g, ps, cfg).WithRecorder(recorder).Run(ctx)

	if prometheus != nil {
		if werr := prometheus.WriteTextfile(metricsFile); werr != nil {
			observability.WarnContext(ctx, "Failed to write metrics textfile", logfields.Path(metricsFile), logfields.Error(werr))
		}
	}

	if err != nil {
		// Missing required files were already explained by the pre-flight check.
		if !apperrors.IsCategory(err, apperrors.CategoryValidation) {
			reporter.Failure(err)
		}
		return &ExitError{Err: err}
	}
	if err := reporter.Success(result); err != nil {
		observability.ErrorContext(ctx, "Build report could not be completed", logfields.Error(err))
		reporter.Crash(err)
		return &ExitError{Err: err}
	}
	return nil
}
