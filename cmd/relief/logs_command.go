package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"relief/internal/logging"
	"relief/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var follow bool
	var lines int
	var grep []string
	var requestID string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Display relief's log file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir := strings.TrimSpace(cfg.Paths.LogDir)
			if dir == "" {
				return errors.New("no log directory configured")
			}
			path := filepath.Join(dir, logging.LogFileName)

			filter := logs.Filter{Terms: append([]string(nil), grep...)}
			if requestID != "" {
				filter.Terms = append(filter.Terms, requestID)
			}

			var (
				initial []string
				offset  int64
			)
			if lines > 0 {
				initial, offset, err = logs.Last(path, lines)
			} else {
				initial, offset, err = logs.ReadFrom(path, 0)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			initial = filter.Apply(initial)
			for _, line := range initial {
				fmt.Fprintln(out, line)
			}
			if !follow {
				if len(initial) == 0 {
					fmt.Fprintln(out, "No log entries available")
				}
				return nil
			}

			return logs.Follow(cmd.Context(), path, offset, logs.DefaultPollInterval, func(line string) {
				if filter.Match(line) {
					fmt.Fprintln(out, line)
				}
			})
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow log output")
	cmd.Flags().IntVarP(&lines, "lines", "n", 10, "Number of lines to show (0 for all)")
	cmd.Flags().StringArrayVar(&grep, "grep", nil, "Only show lines containing this text (repeatable)")
	cmd.Flags().StringVar(&requestID, "request", "", "Only show lines for this request correlation id")
	return cmd
}
