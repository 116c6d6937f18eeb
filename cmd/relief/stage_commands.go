package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"relief/internal/staging"
)

func newStageCommand(ctx *commandContext) *cobra.Command {
	stageCmd := &cobra.Command{
		Use:   "stage",
		Short: "Manage the list of staged input files",
	}

	stageCmd.AddCommand(newStageAddCommand(ctx))
	stageCmd.AddCommand(newStageListCommand(ctx))
	stageCmd.AddCommand(newStageRemoveCommand(ctx))
	stageCmd.AddCommand(newStageMoveCommand(ctx, "up", "Move a staged file one place earlier"))
	stageCmd.AddCommand(newStageMoveCommand(ctx, "down", "Move a staged file one place later"))
	stageCmd.AddCommand(newStageClearCommand(ctx))

	return stageCmd
}

func newStageAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <file>...",
		Short: "Stage one or more files, in the order given",
		RunE: func(cmd *cobra.Command, args []string) error {
			var added []staging.File
			list, err := ctx.updateStaging(cmd.Context(), func(list *staging.List) error {
				var addErr error
				added, addErr = list.Add(args)
				return addErr
			})
			if errors.Is(err, staging.ErrEmptySelection) {
				fmt.Fprintln(cmd.ErrOrStderr(), "No files selected; nothing staged")
				return nil
			}
			if err != nil {
				return err
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, list.View())
			}
			out := cmd.OutOrStdout()
			for _, f := range added {
				fmt.Fprintf(out, "Staged %s as %s\n", f.Name, f.ID)
			}
			fmt.Fprint(out, renderStaging(list.View()))
			return nil
		},
	}
}

func newStageListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show staged files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStaging(func(store *staging.Store, list *staging.List) error {
				if err := store.Load(cmd.Context(), list); err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, list.View())
				}
				fmt.Fprint(cmd.OutOrStdout(), renderStaging(list.View()))
				return nil
			})
		},
	}
}

func newStageRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id|position>...",
		Aliases: []string{"rm"},
		Short:   "Remove staged files",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var removed []string
			list, err := ctx.updateStaging(cmd.Context(), func(list *staging.List) error {
				// Resolve every reference before removing so positions refer to
				// the list as shown.
				ids := make([]string, 0, len(args))
				for _, arg := range args {
					id, err := resolveFileRef(list, arg)
					if err != nil {
						return err
					}
					ids = append(ids, id)
				}
				for _, id := range ids {
					if list.Remove(id) {
						removed = append(removed, id)
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, list.View())
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Removed %d file(s)\n", len(removed))
			fmt.Fprint(out, renderStaging(list.View()))
			return nil
		},
	}
}

func newStageMoveCommand(ctx *commandContext, direction, short string) *cobra.Command {
	return &cobra.Command{
		Use:   direction + " <id|position>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			moved := false
			list, err := ctx.updateStaging(cmd.Context(), func(list *staging.List) error {
				id, err := resolveFileRef(list, args[0])
				if err != nil {
					return err
				}
				if direction == "up" {
					moved = list.MoveUp(id)
				} else {
					moved = list.MoveDown(id)
				}
				return nil
			})
			if err != nil {
				return err
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, list.View())
			}
			out := cmd.OutOrStdout()
			if !moved {
				fmt.Fprintf(out, "%s cannot move %s\n", args[0], direction)
			}
			fmt.Fprint(out, renderStaging(list.View()))
			return nil
		},
	}
}

func newStageClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every staged file",
		RunE: func(cmd *cobra.Command, args []string) error {
			removed := 0
			if _, err := ctx.updateStaging(cmd.Context(), func(list *staging.List) error {
				removed = list.Clear()
				return nil
			}); err != nil {
				return err
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]int{"removed": removed})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d file(s)\n", removed)
			return nil
		},
	}
}

// resolveFileRef accepts a file id or a 1-based position.
func resolveFileRef(list *staging.List, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if _, ok := list.Get(ref); ok {
		return ref, nil
	}
	if pos, err := strconv.Atoi(ref); err == nil {
		files := list.Files()
		if pos < 1 || pos > len(files) {
			return "", fmt.Errorf("position %d out of range (%d staged)", pos, len(files))
		}
		return files[pos-1].ID, nil
	}
	return "", fmt.Errorf("no staged file %q", ref)
}
