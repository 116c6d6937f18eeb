// Package session owns the state one client process works against: the
// staging list, the job builder, the service client and the per-kind
// submission guards.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"relief/internal/job"
	"relief/internal/logging"
	"relief/internal/staging"
)

// ErrSubmissionInFlight reports that a submission of the same kind is
// already running.
var ErrSubmissionInFlight = errors.New("submission already in flight")

// Result describes a successful submission.
type Result struct {
	Descriptor job.Descriptor
	Consumed   int
	// ConsumedIDs are the staged file ids the job was built from, in order.
	ConsumedIDs []string
	Remaining   int
}

// Option configures a Session.
type Option func(*Session)

// WithKindLocks adds a cross-process guard taken after the in-process one.
func WithKindLocks(locker KindLocker) Option {
	return func(s *Session) {
		s.locks = locker
	}
}

// snapshot is a fixed view of the staged files taken when a submission
// starts, so concurrent edits to the list never change what is posted.
type snapshot []staging.File

func (s snapshot) Files() []staging.File { return append([]staging.File(nil), s...) }

// Session is created once per process and shared by every command.
type Session struct {
	list   *staging.List
	poster job.Poster
	logger *slog.Logger

	// Each kind has its own builder so a descriptor is only touched while
	// its kind's guard is held.
	builders map[job.Kind]*job.Builder
	inFlight map[job.Kind]*atomic.Bool
	locks    KindLocker
	setup    sync.Once
}

// New returns a session over list that submits through poster.
func New(list *staging.List, poster job.Poster, logger *slog.Logger, opts ...Option) *Session {
	kinds := job.Kinds()
	builders := make(map[job.Kind]*job.Builder, len(kinds))
	guards := make(map[job.Kind]*atomic.Bool, len(kinds))
	for _, kind := range kinds {
		builders[kind] = job.NewBuilder()
		guards[kind] = &atomic.Bool{}
	}
	s := &Session{
		list:     list,
		poster:   poster,
		logger:   logging.NewComponentLogger(logger, "session"),
		builders: builders,
		inFlight: guards,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Setup registers the staging observer. Further calls are no-ops.
func (s *Session) Setup(observer func(staging.View)) {
	s.setup.Do(func() {
		s.list.Subscribe(observer)
	})
}

// List returns the staging list.
func (s *Session) List() *staging.List {
	return s.list
}

// Descriptor returns a copy of kind's current descriptor.
func (s *Session) Descriptor(kind job.Kind) job.Descriptor {
	builder, ok := s.builders[kind]
	if !ok {
		return job.EmptyDescriptor()
	}
	return builder.Descriptor()
}

// InFlight reports whether a submission of kind is running.
func (s *Session) InFlight(kind job.Kind) bool {
	guard, ok := s.inFlight[kind]
	return ok && guard.Load()
}

// Submit builds a descriptor from spec and a snapshot of the staged files,
// posts it, and on success removes exactly the consumed files by id. On any
// failure the list and descriptor are left as they were.
func (s *Session) Submit(ctx context.Context, spec job.Spec, filename string) (Result, error) {
	if spec == nil {
		return Result{}, job.ErrInvalidJobType
	}
	kind := spec.Kind()
	guard, ok := s.inFlight[kind]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", job.ErrInvalidJobType, kind)
	}
	if !guard.CompareAndSwap(false, true) {
		return Result{}, fmt.Errorf("%w: %s", ErrSubmissionInFlight, kind)
	}
	defer guard.Store(false)

	if s.locks != nil {
		unlock, locked, err := s.locks.TryLock(kind)
		if err != nil {
			return Result{}, err
		}
		if !locked {
			return Result{}, fmt.Errorf("%w: %s", ErrSubmissionInFlight, kind)
		}
		defer unlock()
	}
	builder := s.builders[kind]

	files := snapshot(s.list.Files())
	desc, err := builder.Select(files, spec, filename)
	if err != nil {
		return Result{}, err
	}

	logger := logging.WithContext(ctx, s.logger)
	consumed, err := builder.Submit(ctx, s.poster)
	if err != nil {
		logging.WarnWithContext(logger, "job submission failed", "submission_failed",
			slog.String("job_type", string(kind)),
			slog.String("filename", desc.Meta.Filename),
			logging.Error(err),
			slog.String(logging.FieldErrorHint, "check the server is reachable and retry"),
		)
		return Result{}, err
	}

	consumedIDs := make([]string, 0, consumed)
	for _, f := range files[:consumed] {
		consumedIDs = append(consumedIDs, f.ID)
	}
	s.list.RemoveIDs(consumedIDs)
	logger.Info("job submitted",
		slog.String("job_type", string(kind)),
		slog.String("filename", desc.Meta.Filename),
		slog.Int("consumed", consumed),
	)
	return Result{
		Descriptor:  desc,
		Consumed:    consumed,
		ConsumedIDs: consumedIDs,
		Remaining:   s.list.Len(),
	}, nil
}
