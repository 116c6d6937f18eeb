package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"relief/internal/api"
	"relief/internal/config"
	"relief/internal/download"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect the server's job queue",
	}

	jobsCmd.AddCommand(&cobra.Command{
		Use:   "pending",
		Short: "List jobs waiting for a worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := ctx.newClient()
			if err != nil {
				return err
			}
			pending, err := c.PendingJobs(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, pending)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderPending(pending))
			return nil
		},
	})

	jobsCmd.AddCommand(&cobra.Command{
		Use:   "finished",
		Short: "List finished jobs and their results",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := ctx.newClient()
			if err != nil {
				return err
			}
			finished, err := c.FinishedJobs(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.JSONMode() {
				rows := api.FinishedSlice(finished)
				if rows == nil {
					rows = []api.FinishedRow{}
				}
				return writeJSON(cmd, rows)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderFinished(finished))
			return nil
		},
	})

	return jobsCmd
}

func newWorkersCommand(ctx *commandContext) *cobra.Command {
	workersCmd := &cobra.Command{
		Use:   "workers",
		Short: "Show the server's worker pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := ctx.newClient()
			if err != nil {
				return err
			}
			stats, err := c.WorkerStats(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.JSONMode() {
				rows := api.WorkerSlice(stats)
				if rows == nil {
					rows = []api.WorkerRow{}
				}
				return writeJSON(cmd, rows)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderWorkers(stats))
			return nil
		},
	}

	workersCmd.AddCommand(newWorkersConfigCommand(ctx))
	return workersCmd
}

func newWorkersConfigCommand(ctx *commandContext) *cobra.Command {
	var cfg api.WorkerConfig

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Set the server's worker scaling bounds",
		Long: `Set how many workers the server keeps alive.

The server scales between --min and --max workers, aiming for one worker per
--ratio queued jobs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Min < 0 || cfg.Max < 1 || cfg.Min > cfg.Max {
				return fmt.Errorf("invalid worker bounds: min %d, max %d", cfg.Min, cfg.Max)
			}
			if cfg.Ratio <= 0 {
				return errors.New("ratio must be positive")
			}
			c, err := ctx.newClient()
			if err != nil {
				return err
			}
			if err := c.ConfigureWorkers(cmd.Context(), cfg); err != nil {
				return err
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, cfg)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Worker pool set to %d-%d (ratio %g)\n", cfg.Min, cfg.Max, cfg.Ratio)
			return nil
		},
	}

	cmd.Flags().IntVar(&cfg.Min, "min", 1, "Minimum number of workers")
	cmd.Flags().IntVar(&cfg.Max, "max", 4, "Maximum number of workers")
	cmd.Flags().Float64Var(&cfg.Ratio, "ratio", 2, "Queued jobs per worker")
	return cmd
}

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "download <id>",
		Short: "Download a finished job's output",
		Long: `Download a finished job's output into the download directory.

The server forgets a job once its output has been downloaded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			c, err := ctx.newClient()
			if err != nil {
				return err
			}

			id := strings.TrimSpace(args[0])
			fallback := download.DefaultFilename
			if finished, err := c.FinishedJobs(cmd.Context()); err == nil {
				if entry, ok := finished[id]; ok && entry.Filename != "" {
					fallback = entry.Filename
				}
			}

			payload, err := c.Download(cmd.Context(), id, fallback)
			if err != nil {
				return err
			}
			dir, err := resolveOutputDir(outputDir, cfg)
			if err != nil {
				return err
			}
			path, err := download.Save(dir, payload.Filename, payload.Data)
			if err != nil {
				return err
			}
			return reportSaved(cmd, ctx, path, len(payload.Data))
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "d", "", "Directory to save into (default paths.download_dir)")
	return cmd
}

func resolveOutputDir(flag string, cfg *config.Config) (string, error) {
	if strings.TrimSpace(flag) == "" {
		return cfg.Paths.DownloadDir, nil
	}
	dir, err := config.ExpandPath(flag)
	if err != nil {
		return "", fmt.Errorf("resolve output directory: %w", err)
	}
	return dir, nil
}

func reportSaved(cmd *cobra.Command, ctx *commandContext, path string, size int) error {
	if ctx.JSONMode() {
		return writeJSON(cmd, map[string]any{"path": path, "size_bytes": size})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", path, size)
	return nil
}
