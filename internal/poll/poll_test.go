package poll

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type recordingSink struct {
	mu       sync.Mutex
	replaced []int
	failures []error
	notify   chan struct{}
}

func newRecordingSink() *recordingSink {
	return &recordingSink{notify: make(chan struct{}, 64)}
}

func (s *recordingSink) Replace(snapshot int) {
	s.mu.Lock()
	s.replaced = append(s.replaced, snapshot)
	s.mu.Unlock()
	s.signal()
}

func (s *recordingSink) Failed(err error) {
	s.mu.Lock()
	s.failures = append(s.failures, err)
	s.mu.Unlock()
	s.signal()
}

func (s *recordingSink) signal() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *recordingSink) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.replaced), len(s.failures)
}

func waitFor(t *testing.T, ch <-chan struct{}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for notification %d of %d", i+1, n)
		}
	}
}

func TestOverlappingRefreshesShareOneFetch(t *testing.T) {
	var fetches atomic.Int32
	release := make(chan struct{})
	started := make(chan struct{})
	sink := newRecordingSink()

	task := NewTask("pending", func(context.Context) (int, error) {
		n := fetches.Add(1)
		if n == 1 {
			close(started)
		}
		<-release
		return int(n), nil
	}, sink, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = task.Refresh(context.Background())
	}()
	<-started

	const joiners = 4
	for i := 0; i < joiners; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = task.Refresh(context.Background())
		}()
	}
	// Give the joiners time to attach to the running flight.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	replaced, failed := sink.counts()
	if fetches.Load() != 1 {
		t.Fatalf("expected one fetch, got %d", fetches.Load())
	}
	if replaced != 1 || failed != 0 {
		t.Fatalf("expected exactly one render, got %d replaces %d failures", replaced, failed)
	}
}

func TestFailureKeepsPreviousView(t *testing.T) {
	fail := errors.New("http 500")
	calls := 0
	view := NewView[[]string](nil)
	task := NewTask("finished", func(context.Context) ([]string, error) {
		calls++
		if calls == 2 {
			return nil, fail
		}
		return []string{"a.stl"}, nil
	}, view, nil)

	if err := task.Refresh(context.Background()); err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	if err := task.Refresh(context.Background()); !errors.Is(err, fail) {
		t.Fatalf("expected failure, got %v", err)
	}

	snapshot, ok := view.Snapshot()
	if !ok || len(snapshot) != 1 || snapshot[0] != "a.stl" {
		t.Fatalf("previous snapshot lost: %v %v", snapshot, ok)
	}
	if !errors.Is(view.Err(), fail) {
		t.Fatalf("expected failure recorded, got %v", view.Err())
	}

	if err := task.Refresh(context.Background()); err != nil {
		t.Fatalf("third refresh: %v", err)
	}
	if view.Err() != nil {
		t.Fatalf("expected failure cleared, got %v", view.Err())
	}
}

func TestLoopTasksAreIndependent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hung := NewTask("workers", func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	}, newRecordingSink(), nil)

	healthy := newRecordingSink()
	var n atomic.Int32
	ok := NewTask("pending", func(context.Context) (int, error) {
		return int(n.Add(1)), nil
	}, healthy, nil)

	failing := newRecordingSink()
	broken := NewTask("finished", func(context.Context) (int, error) {
		return 0, errors.New("boom")
	}, failing, nil)

	loop := NewLoop(20*time.Millisecond, nil, hung, ok, broken)
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	waitFor(t, healthy.notify, 3)
	waitFor(t, failing.notify, 2)

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop after cancel")
	}
}

func TestRefreshAllTriggersEveryTask(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, b := newRecordingSink(), newRecordingSink()
	taskA := NewTask("a", func(context.Context) (int, error) { return 1, nil }, a, nil)
	taskB := NewTask("b", func(context.Context) (int, error) { return 2, nil }, b, nil)

	loop := NewLoop(time.Hour, nil, taskA, taskB)
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	waitFor(t, a.notify, 1)
	waitFor(t, b.notify, 1)

	loop.RefreshAll()
	waitFor(t, a.notify, 1)
	waitFor(t, b.notify, 1)

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run returned %v", err)
	}
}

func TestRefreshOnceJoinsFailures(t *testing.T) {
	boom := errors.New("boom")
	good := NewTask("good", func(context.Context) (int, error) { return 1, nil }, NewView[int](nil), nil)
	bad := NewTask("bad", func(context.Context) (int, error) { return 0, boom }, NewView[int](nil), nil)

	if err := RefreshOnce(context.Background(), good); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if err := RefreshOnce(context.Background(), good, bad); !errors.Is(err, boom) {
		t.Fatalf("expected joined failure, got %v", err)
	}
}

func TestViewNotifiesOnChange(t *testing.T) {
	var changes int
	view := NewView[int](func() { changes++ })
	view.Replace(3)
	view.Failed(errors.New("x"))
	if changes != 2 {
		t.Fatalf("expected 2 change notifications, got %d", changes)
	}
	if v, ok := view.Snapshot(); !ok || v != 3 {
		t.Fatalf("unexpected snapshot %d %v", v, ok)
	}
	if view.Updated().IsZero() {
		t.Fatal("expected update time")
	}
}
