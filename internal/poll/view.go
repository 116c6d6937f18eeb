package poll

import (
	"sync"
	"time"
)

// View is a Sink that keeps the latest snapshot and the latest failure.
// A failure leaves the snapshot in place.
type View[T any] struct {
	mu       sync.Mutex
	snapshot T
	loaded   bool
	err      error
	updated  time.Time

	onChange func()
	now      func() time.Time
}

// NewView returns an empty view. onChange, if set, runs after every
// Replace or Failed, outside the view's lock.
func NewView[T any](onChange func()) *View[T] {
	return &View[T]{onChange: onChange, now: time.Now}
}

// Replace implements Sink.
func (v *View[T]) Replace(snapshot T) {
	v.mu.Lock()
	v.snapshot = snapshot
	v.loaded = true
	v.err = nil
	v.updated = v.now()
	v.mu.Unlock()
	v.changed()
}

// Failed implements Sink.
func (v *View[T]) Failed(err error) {
	v.mu.Lock()
	v.err = err
	v.mu.Unlock()
	v.changed()
}

// Snapshot returns the latest snapshot and whether one has been loaded.
func (v *View[T]) Snapshot() (T, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshot, v.loaded
}

// Err returns the failure of the latest refresh, or nil if it succeeded.
func (v *View[T]) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

// Updated returns when the snapshot was last replaced.
func (v *View[T]) Updated() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.updated
}

func (v *View[T]) changed() {
	if v.onChange != nil {
		v.onChange()
	}
}
