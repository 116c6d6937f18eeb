package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"relief/internal/client"
	"relief/internal/download"
	"relief/internal/job"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	convertCmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert one image immediately, bypassing the job queue",
	}

	convertCmd.AddCommand(newConvertKindCommand(ctx, "stl", job.KindSTL, "Extrude an image into an STL mesh"))
	convertCmd.AddCommand(newConvertKindCommand(ctx, "svg", job.KindSVG, "Trace an image into an SVG"))
	convertCmd.AddCommand(newConvertKindCommand(ctx, "3mf", job.Kind3MF, "Extrude an image into a multi-colour 3MF"))
	convertCmd.AddCommand(newConvertKindCommand(ctx, "backed3mf", job.KindBacked3MF, "Extrude an image into a 3MF with a black backing plate"))

	return convertCmd
}

func newConvertKindCommand(ctx *commandContext, use string, kind job.Kind, short string) *cobra.Command {
	var flags jobFlags
	var outputDir string

	cmd := &cobra.Command{
		Use:   use + " <image>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			image, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}
			c, err := ctx.newClient()
			if err != nil {
				return err
			}

			filename := flags.filename
			if filename == "" {
				filename = filepath.Base(args[0])
			}
			payload, err := c.Convert(cmd.Context(), kind, client.ConvertRequest{
				Image:          image,
				Filename:       filename,
				Dimensions:     flags.dimensions(cmd, cfg),
				BlackThickness: flags.blackThickness,
			})
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

	flags.register(cmd)
	if kind == job.KindSVG {
		for _, name := range []string{"x", "y", "z", "black-thickness"} {
			_ = cmd.Flags().MarkHidden(name)
		}
	} else if kind != job.KindBacked3MF {
		_ = cmd.Flags().MarkHidden("black-thickness")
	}
	cmd.Flags().StringVarP(&outputDir, "output", "d", "", "Directory to save into (default paths.download_dir)")
	return cmd
}

func newColoursCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "colours <image>",
		Aliases: []string{"colors"},
		Short:   "Identify the palette of an image",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}
			c, err := ctx.newClient()
			if err != nil {
				return err
			}
			colours, err := c.IdentifyColours(cmd.Context(), image)
			if err != nil {
				return err
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, colours)
			}
			if len(colours) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No colours identified")
				return nil
			}
			rows := make([][]string, 0, len(colours))
			for i, hex := range colours {
				rows = append(rows, []string{fmt.Sprintf("%d", i+1), hex})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"#", "Colour"}, rows, []columnAlignment{alignRight, alignLeft}))
			return nil
		},
	}
}
