package notifications

import (
	"context"
	"log/slog"
	"sync"

	"relief/internal/api"
	"relief/internal/logging"
)

// Announcer sends one alert per job that appears in a finished snapshot
// after the first.
type Announcer struct {
	svc    Service
	logger *slog.Logger

	mu     sync.Mutex
	seen   map[string]struct{}
	seeded bool
}

// NewAnnouncer returns an Announcer delivering through svc.
func NewAnnouncer(svc Service, logger *slog.Logger) *Announcer {
	if svc == nil {
		svc = noopService{}
	}
	return &Announcer{
		svc:    svc,
		logger: logging.NewComponentLogger(logger, "notifications"),
		seen:   make(map[string]struct{}),
	}
}

// Observe compares jobs with the previous snapshot and alerts for each new
// id. It returns how many alerts were attempted. Ids that left the snapshot
// are forgotten, since the server drops a job once it is downloaded.
func (a *Announcer) Observe(ctx context.Context, jobs api.FinishedJobs) int {
	a.mu.Lock()
	var fresh []api.FinishedRow
	for _, row := range api.FinishedSlice(jobs) {
		if _, ok := a.seen[row.ID]; !ok && a.seeded {
			fresh = append(fresh, row)
		}
	}
	a.seen = make(map[string]struct{}, len(jobs))
	for id := range jobs {
		a.seen[id] = struct{}{}
	}
	a.seeded = true
	a.mu.Unlock()

	for _, row := range fresh {
		if err := a.svc.NotifyJobFinished(ctx, row.ID, row.FinishedJob); err != nil {
			logging.WarnWithContext(a.logger, "job notification failed", "notification_failed",
				slog.String("job_id", row.ID),
				logging.Error(err),
				slog.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
			)
		}
	}
	return len(fresh)
}
