package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"relief/internal/preflight"
)

func newServerCommand(ctx *commandContext) *cobra.Command {
	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Inspect the conversion server",
	}

	serverCmd.AddCommand(&cobra.Command{
		Use:   "info",
		Short: "Show the server's versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := ctx.newClient()
			if err != nil {
				return err
			}
			info, err := c.ServerInfo(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, info)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Server:           %s\n", c.BaseURL())
			fmt.Fprintf(out, "API version:      %s\n", info.APIVersion)
			fmt.Fprintf(out, "Frontend version: %s\n", info.FrontendVersion)
			return nil
		},
	})

	return serverCmd
}

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check directories and server reachability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			c, err := ctx.newClient()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg, c)
			if ctx.JSONMode() {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				st := styleFor(out)
				fmt.Fprint(out, st.heading("relief doctor", ""))
				for _, r := range results {
					fmt.Fprintln(out, st.check(r.Name, r.Passed, r.Detail))
				}
			}
			if preflight.Failed(results) {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}
}
