package main

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/spf13/cobra"
)

func extractCmd(g *globalFlags) *cobra.Command {
	var (
		input   string
		output  string
		workers int
		format  string
	)
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Write one outline file per PDF in a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" || output == "" {
				return errors.New("--input and --output are required")
			}
			log := g.newLogger()
			ex, err := g.newExtractor(log)
			if err != nil {
				return err
			}
			report, err := pipeline.RunBatch(cmd.Context(), ex, pipeline.BatchOptions{
				InputDir:  input,
				OutputDir: output,
				Workers:   workers,
				Format:    format,
			}, log)
			log.Info("batch finished",
				"total", report.Total,
				"succeeded", report.Succeeded,
				"failed", len(report.Failed),
			)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d documents written to %s\n", report.Succeeded, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "directory of PDF files")
	cmd.Flags().StringVarP(&output, "output", "o", "", "directory for the outline files")
	cmd.Flags().IntVarP(&workers, "workers", "w", runtime.NumCPU(), "documents processed in parallel")
	cmd.Flags().StringVar(&format, "format", pipeline.FormatJSON, "output format: json|markdown")
	return cmd
}
