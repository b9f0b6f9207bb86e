package main

import (
	"fmt"
	"os"

	"github.com/a3tai/taxdoc-binder/internal/pipeline"
	"github.com/spf13/cobra"
)

func bindCmd() *cobra.Command {
	var (
		manifest   string
		dryRun     bool
		noProgress bool
	)

	cmd := &cobra.Command{
		Use:   "bind <input-dir> <output.pdf>",
		Short: "Classify every page and write one bookmarked PDF",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var observer pipeline.Observer
			if !noProgress {
				observer = newProgress(os.Stderr)
			}

			svc, err := newServices(cfg, observer)
			if err != nil {
				return err
			}
			defer svc.Close()

			report, err := svc.pipeline.Run(cmd.Context(), args[0], args[1], pipeline.RunOptions{
				Manifest: manifest,
				DryRun:   dryRun,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, renderPreview(report.Plan.Root))
			fmt.Fprintln(out, renderSummary(report.Plan.Summary))
			if !dryRun {
				fmt.Fprintf(out, "Wrote %s\n", report.Output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&manifest, "manifest", "", "Write the outline as YAML to this file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Plan the outline without writing a PDF")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")
	return cmd
}
