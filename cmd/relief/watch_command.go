package main

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"relief/internal/api"
	"relief/internal/client"
	"relief/internal/notifications"
	"relief/internal/poll"
	"relief/internal/staging"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live view of staged files, queued and finished jobs, and workers",
		Long: `Show staged files, the server's queue, finished jobs, and workers, refreshing
each independently every poll.interval_seconds. When notifications.ntfy_topic
is set, each job that finishes while watching is announced there.

Press Enter to refresh immediately. Type q and press Enter, or interrupt, to
quit. A failed refresh is shown as a notice; the last good view stays on
screen.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			c, err := ctx.newClient()
			if err != nil {
				return err
			}
			store, err := staging.Open(cfg.StagingDBPath(), cfg.StagingLockPath())
			if err != nil {
				return err
			}
			defer store.Close()
			list, err := ctx.newList()
			if err != nil {
				return err
			}

			logger := ctx.loggerValue()
			b := newBoard(cmd.OutOrStdout(), c.BaseURL(), !once)
			var announcer *notifications.Announcer
			if svc := notifications.NewService(cfg); !once && notifications.Enabled(svc) {
				announcer = notifications.NewAnnouncer(svc, logger)
			}
			tasks := watchTasks(cmd.Context(), c, store, list, b, announcer, logger)

			if once {
				// Failures are rendered as notices, not returned.
				_ = poll.RefreshOnce(cmd.Context(), tasks...)
				b.setMuted(false)
				b.render()
				return nil
			}

			runCtx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			loop := poll.NewLoop(cfg.PollInterval(), logger, tasks...)
			b.setMuted(false)
			go readControls(cmd.InOrStdin(), loop.RefreshAll, cancel)
			return loop.Run(runCtx)
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "Refresh every view once, print, and exit")
	return cmd
}

func watchTasks(ctx context.Context, c *client.Client, store *staging.Store, list *staging.List, b *board, announcer *notifications.Announcer, logger *slog.Logger) []poll.Refresher {
	loadStaging := func(ctx context.Context) (staging.View, error) {
		if err := store.Load(ctx, list); err != nil {
			return staging.View{}, err
		}
		return list.View(), nil
	}
	var finished poll.Sink[api.FinishedJobs] = b.finished
	if announcer != nil {
		finished = announceAfter{ctx: ctx, next: b.finished, announcer: announcer}
	}
	return []poll.Refresher{
		poll.NewTask("staging", loadStaging, b.staging, logger),
		poll.NewTask[api.PendingJobs]("pending", c.PendingJobs, b.pending, logger),
		poll.NewTask[api.FinishedJobs]("finished", c.FinishedJobs, finished, logger),
		poll.NewTask[api.WorkerStats]("workers", c.WorkerStats, b.workers, logger),
	}
}

// announceAfter updates the board first and only then posts notifications
// for newly finished jobs, so a slow ntfy server never delays rendering.
type announceAfter struct {
	ctx       context.Context
	next      poll.Sink[api.FinishedJobs]
	announcer *notifications.Announcer
}

func (a announceAfter) Replace(jobs api.FinishedJobs) {
	a.next.Replace(jobs)
	a.announcer.Observe(a.ctx, jobs)
}

func (a announceAfter) Failed(err error) {
	a.next.Failed(err)
}

// readControls treats each line on in as a manual refresh, and "q" as quit.
func readControls(in io.Reader, refresh func(), quit func()) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "q", "quit":
			quit()
			return
		default:
			refresh()
		}
	}
}
