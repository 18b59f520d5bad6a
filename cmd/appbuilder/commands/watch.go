package commands

import (
	"context"
	"errors"
	"time"

	"git.home.luguber.info/inful/appbuilder/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Debounce time.Duration `help:"Quiet period after the last change before rebuilding" default:"300ms"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	ps, cfg, err := project(g, root.Root)
	if err != nil {
		return err
	}
	rebuild := func(ctx context.Context) error {
		return RunBuild(ctx, g, ps, cfg, cfg.Project.MetricsFile)
	}

	// A failed first build is reported like any other; keep watching.
	var exitErr *ExitError
	if err := rebuild(g.context()); err != nil && !errors.As(err, &exitErr) {
		return err
	}
	return watch.New(rebuild, w.Debounce, ps.AppSrc, ps.AppPublic).Run(g.context())
}
