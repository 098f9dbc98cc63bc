package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/spf13/cobra"
)

func evalCmd(g *globalFlags) *cobra.Command {
	var (
		input   string
		labels  string
		asJSON  bool
		minimum float64
	)
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Score extracted outlines against labeled ones",
		Long: "Extracts every PDF in --input that has a label file of the same base name in --labels\n" +
			"(.json, .md, .html, .docx, .csv or .txt) and reports precision, recall and F1.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" {
				return errors.New("--input is required")
			}
			if labels == "" {
				labels = input
			}
			log := g.newLogger()
			ex, err := g.newExtractor(log)
			if err != nil {
				return err
			}
			report, err := pipeline.Evaluate(cmd.Context(), ex, input, labels, log)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "FILE\tEXPECTED\tFOUND\tMATCHED\tPRECISION\tRECALL\tF1\tTITLE")
				for _, s := range report.Documents {
					fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.3f\t%.3f\t%.3f\t%t\n",
						s.File, s.Expected, s.Found, s.Matched, s.Precision, s.Recall, s.F1, s.TitleMatch)
				}
				fmt.Fprintf(tw, "TOTAL\t%d\t%d\t%d\t%.3f\t%.3f\t%.3f\t%.3f\n",
					report.Expected, report.Found, report.Matched, report.Precision, report.Recall, report.F1, report.TitleAccuracy)
				if err := tw.Flush(); err != nil {
					return err
				}
			}

			if len(report.Documents) == 0 {
				return errors.New("no labeled documents found")
			}
			if report.F1 < minimum {
				return fmt.Errorf("f1 %.3f below minimum %.3f", report.F1, minimum)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "directory of PDF files")
	cmd.Flags().StringVarP(&labels, "labels", "l", "", "directory of label files (defaults to --input)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().Float64Var(&minimum, "min-f1", 0, "fail when the aggregate F1 is below this")
	return cmd
}
