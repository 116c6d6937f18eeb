package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"relief/internal/api"
	"relief/internal/poll"
	"relief/internal/staging"
)

// board renders the watch screen. Each section shows the latest snapshot of
// its own view; a failed refresh adds a notice under the section and keeps
// the previous snapshot on screen.
type board struct {
	mu       sync.Mutex
	out      io.Writer
	style    style
	clear    bool
	server   string
	now      func() time.Time

	staging  *poll.View[staging.View]
	pending  *poll.View[api.PendingJobs]
	finished *poll.View[api.FinishedJobs]
	workers  *poll.View[api.WorkerStats]

	// muted suppresses rendering until every view exists.
	muted bool
}

func newBoard(out io.Writer, server string, live bool) *board {
	st := styleFor(out)
	b := &board{
		out:      out,
		style:    st,
		clear:    live && st.color,
		server:   server,
		now:      time.Now,
		muted:    true,
	}
	b.staging = poll.NewView[staging.View](b.render)
	b.pending = poll.NewView[api.PendingJobs](b.render)
	b.finished = poll.NewView[api.FinishedJobs](b.render)
	b.workers = poll.NewView[api.WorkerStats](b.render)
	return b
}

func (b *board) setMuted(muted bool) {
	b.mu.Lock()
	b.muted = muted
	b.mu.Unlock()
}

func (b *board) render() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.muted {
		return
	}

	var s strings.Builder
	if b.clear {
		s.WriteString(ansiClearScreen)
	}
	fmt.Fprintf(&s, "relief watch  %s  %s\n", b.server, b.now().Format("15:04:05"))
	if b.clear {
		s.WriteString("Press Enter to refresh, q then Enter to quit.\n")
	}
	s.WriteString("\n")

	now := b.now()
	writeSection(&s, b.style, now, "Staged files", b.staging, renderStaging)
	writeSection(&s, b.style, now, "Queued jobs", b.pending, renderPending)
	writeSection(&s, b.style, now, "Finished jobs", b.finished, renderFinished)
	writeSection(&s, b.style, now, "Workers", b.workers, renderWorkers)

	_, _ = io.WriteString(b.out, s.String())
}

func writeSection[T any](s *strings.Builder, st style, now time.Time, title string, view *poll.View[T], render func(T) string) {
	var age string
	if updated := view.Updated(); !updated.IsZero() {
		age = "(updated " + humanize.RelTime(updated, now, "ago", "from now") + ")"
	}
	s.WriteString(st.heading(title, age))

	snapshot, loaded := view.Snapshot()
	if loaded {
		s.WriteString(render(snapshot))
	} else if view.Err() == nil {
		s.WriteString("Loading...\n")
	}
	if err := view.Err(); err != nil {
		s.WriteString(st.notice("Refresh failed", err))
		s.WriteString("\n")
	}
	s.WriteString("\n")
}
