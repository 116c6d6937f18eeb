package poll

import (
	"context"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"relief/internal/logging"
)

// Sink receives the outcome of each refresh.
type Sink[T any] interface {
	// Replace swaps the rendered view for snapshot.
	Replace(snapshot T)
	// Failed reports a refresh that produced no snapshot. The previous view
	// stays in place.
	Failed(err error)
}

// Refresher is a task with its type parameter erased.
type Refresher interface {
	Name() string
	Refresh(ctx context.Context) error
}

// Task pairs a fetch with the sink that renders it.
type Task[T any] struct {
	name   string
	fetch  func(context.Context) (T, error)
	sink   Sink[T]
	group  singleflight.Group
	logger *slog.Logger
}

// NewTask returns a task named name.
func NewTask[T any](name string, fetch func(context.Context) (T, error), sink Sink[T], logger *slog.Logger) *Task[T] {
	return &Task[T]{
		name:   name,
		fetch:  fetch,
		sink:   sink,
		logger: logging.NewComponentLogger(logger, "poll").With(slog.String("resource", name)),
	}
}

// Name identifies the polled resource.
func (t *Task[T]) Name() string {
	return t.name
}

// Refresh fetches and renders the resource. Calls made while a refresh is
// running wait for it and share its result.
func (t *Task[T]) Refresh(ctx context.Context) error {
	_, err, shared := t.group.Do(t.name, func() (any, error) {
		snapshot, err := t.fetch(ctx)
		if err != nil {
			t.sink.Failed(err)
			return nil, err
		}
		t.sink.Replace(snapshot)
		return nil, nil
	})
	if err != nil {
		t.logger.Debug("refresh failed", slog.Bool("shared", shared), logging.Error(err))
	}
	return err
}
