package poll

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"relief/internal/logging"
)

// DefaultInterval is the refresh period when none is configured.
const DefaultInterval = 5 * time.Second

// Loop refreshes a fixed set of tasks until its context ends.
type Loop struct {
	tasks    []Refresher
	interval time.Duration
	logger   *slog.Logger
	triggers []chan struct{}
}

// NewLoop returns a loop over tasks. A non-positive interval uses
// DefaultInterval.
func NewLoop(interval time.Duration, logger *slog.Logger, tasks ...Refresher) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	triggers := make([]chan struct{}, len(tasks))
	for i := range triggers {
		triggers[i] = make(chan struct{}, 1)
	}
	return &Loop{
		tasks:    tasks,
		interval: interval,
		logger:   logging.NewComponentLogger(logger, "poll"),
		triggers: triggers,
	}
}

// Run refreshes every task immediately and then on each tick. Failures are
// logged and do not stop the loop. Run returns nil once ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for i, task := range l.tasks {
		trigger := l.triggers[i]
		g.Go(func() error {
			l.drive(gctx, task, trigger)
			return nil
		})
	}
	return g.Wait()
}

// RefreshAll asks every task to refresh now. A task that already has a
// refresh pending or running is not queued twice.
func (l *Loop) RefreshAll() {
	for _, trigger := range l.triggers {
		select {
		case trigger <- struct{}{}:
		default:
		}
	}
}

func (l *Loop) drive(ctx context.Context, task Refresher, trigger <-chan struct{}) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.refresh(ctx, task)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.refresh(ctx, task)
		case <-trigger:
			l.refresh(ctx, task)
		}
	}
}

func (l *Loop) refresh(ctx context.Context, task Refresher) {
	if err := task.Refresh(ctx); err != nil && ctx.Err() == nil {
		logging.WarnWithContext(l.logger, "poll refresh failed", "poll_failed",
			slog.String("resource", task.Name()),
			logging.Error(err),
			slog.String(logging.FieldErrorHint, "the view keeps its last snapshot; check the server"),
		)
	}
}

// RefreshOnce refreshes every task concurrently and returns the joined
// failures.
func RefreshOnce(ctx context.Context, tasks ...Refresher) error {
	errs := make([]error, len(tasks))
	var g errgroup.Group
	for i, task := range tasks {
		g.Go(func() error {
			errs[i] = task.Refresh(ctx)
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}
