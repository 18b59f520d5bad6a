package observability

import (
	"context"
	"time"

	"git.home.luguber.info/inful/appbuilder/internal/logfields"
)

// StageSpan times one pipeline stage.
type StageSpan struct {
	ctx   context.Context
	name  string
	start time.Time
}

// StartStage tags ctx with the stage name and starts timing it.
func StartStage(ctx context.Context, name string) (context.Context, *StageSpan) {
	ctx = WithStage(ctx, name)
	DebugContext(ctx, "Stage started")
	return ctx, &StageSpan{ctx: ctx, name: name, start: time.Now()}
}

// Name returns the stage name.
func (s *StageSpan) Name() string { return s.name }

// End logs completion (or the failure) and returns the elapsed time.
func (s *StageSpan) End(err error) time.Duration {
	d := time.Since(s.start)
	ms := logfields.DurationMS(float64(d.Microseconds()) / 1000)
	if err != nil {
		DebugContext(s.ctx, "Stage failed", ms, logfields.Error(err))
		return d
	}
	DebugContext(s.ctx, "Stage completed", ms)
	return d
}
