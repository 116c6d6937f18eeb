package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"relief/internal/config"
	"relief/internal/job"
	"relief/internal/session"
	"relief/internal/staging"
)

type jobFlags struct {
	filename       string
	x, y, z        float64
	blackThickness float64
}

func (f *jobFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.filename, "filename", "o", "", "Output filename (extension is set from the job type)")
	cmd.Flags().Float64Var(&f.x, "x", 0, "Model width in mm (0 lets the server decide)")
	cmd.Flags().Float64Var(&f.y, "y", 0, "Model depth in mm (0 lets the server decide)")
	cmd.Flags().Float64Var(&f.z, "z", 0, "Model height in mm (default job.default_z)")
	cmd.Flags().Float64Var(&f.blackThickness, "black-thickness", 0, "Backing plate thickness in mm (backed_3mf only)")
}

// dimensions fills in the configured height when --z was not given.
func (f *jobFlags) dimensions(cmd *cobra.Command, cfg *config.Config) job.Dimensions {
	z := f.z
	if !cmd.Flags().Changed("z") {
		z = cfg.Job.DefaultZ
	}
	return job.Dimensions{X: f.x, Y: f.y, Z: z}
}

func kindList() string {
	names := make([]string, 0, len(job.Kinds()))
	for _, kind := range job.Kinds() {
		names = append(names, kind.String())
	}
	return strings.Join(names, ", ")
}

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var flags jobFlags

	cmd := &cobra.Command{
		Use:   "submit <type>",
		Short: "Submit staged files as a conversion job",
		Long: fmt.Sprintf(`Submit the staged files as one job of the given type (%s).

Single-image types use the first staged file and remove it from staging once
the server accepts the job. stacked_3mf uses every staged file in order and
clears staging. When the server rejects the job nothing is removed.`, kindList()),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			kind, err := job.ParseKind(args[0])
			if err != nil {
				return fmt.Errorf("%w (expected one of %s)", err, kindList())
			}
			spec, err := job.SpecFor(kind, flags.dimensions(cmd, cfg), flags.blackThickness)
			if err != nil {
				return err
			}

			filename := flags.filename
			if strings.TrimSpace(filename) == "" {
				filename = cfg.Job.DefaultFilename
			}

			c, err := ctx.newClient()
			if err != nil {
				return err
			}

			var (
				result    session.Result
				remaining *staging.List
			)
			err = ctx.withStaging(func(store *staging.Store, list *staging.List) error {
				if err := store.Snapshot(cmd.Context(), list); err != nil {
					return err
				}
				logger := ctx.loggerValue()
				s := session.New(list, c, logger, session.WithKindLocks(session.NewFileKindLocks(cfg.SubmitLockDir())))
				s.Setup(func(view staging.View) {
					logger.Debug("staging updated", slog.Int("staged", len(view.Rows)))
				})
				// The staging lock is not held while the job is posted.
				var submitErr error
				if result, submitErr = s.Submit(cmd.Context(), spec, filename); submitErr != nil {
					return submitErr
				}

				fresh, err := ctx.newList()
				if err != nil {
					return err
				}
				remaining = fresh
				if err := store.Update(cmd.Context(), fresh, func(l *staging.List) error {
					l.RemoveIDs(result.ConsumedIDs)
					return nil
				}); err != nil {
					return fmt.Errorf("job submitted but staging was not updated: %w", err)
				}
				result.Remaining = remaining.Len()
				return nil
			})
			if errors.Is(err, job.ErrNoFileSelected) {
				return errors.New("no file selected: stage a file with `relief stage add <file>` first")
			}
			if errors.Is(err, session.ErrSubmissionInFlight) {
				return fmt.Errorf("a %s submission is already running: %w", kind, err)
			}
			if err != nil {
				return err
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]any{
					"type":      result.Descriptor.Type,
					"filename":  result.Descriptor.Meta.Filename,
					"consumed":  result.Consumed,
					"remaining": result.Remaining,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Submitted %s job %s (%d file(s) consumed, %d still staged)\n",
				kind.DisplayName(), result.Descriptor.Meta.Filename, result.Consumed, result.Remaining)
			if remaining != nil && remaining.Len() > 0 {
				fmt.Fprint(out, renderStaging(remaining.View()))
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
