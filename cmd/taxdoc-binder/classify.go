package main

import (
	"fmt"
	"log/slog"

	"github.com/a3tai/taxdoc-binder/internal/classify"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <file>",
		Short: "Show how each page of one document is classified",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newServices(cfg, nil)
			if err != nil {
				return err
			}
			defer svc.Close()
			ws := svc.scanner.NewWorkspace()
			defer func() {
				if err := ws.Close(); err != nil {
					slog.Warn("failed to remove converted images", "error", err)
				}
			}()

			docs, errs := svc.scanner.Load(ws, args)
			if len(docs) == 0 {
				if len(errs) > 0 {
					return errs[0]
				}
				return fmt.Errorf("nothing to classify in %s", args[0])
			}

			pages, err := svc.pipeline.Pages(cmd.Context(), docs[0])
			if err != nil {
				return err
			}

			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
			dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render(docs[0].Name()))
			for _, p := range pages {
				fmt.Fprintf(out, "  p%-3d %-28s %s\n", p.Ref.Index+1, p.Result.String(), dimStyle.Render(p.Rule+" via "+p.Source))
				if p.Account != "" {
					fmt.Fprintf(out, "       %s\n", dimStyle.Render("account "+p.Account))
				}
				if labels := classify.ClassifyMulti(p.Text); len(labels) > 1 {
					fmt.Fprintf(out, "       %s\n", dimStyle.Render(fmt.Sprintf("forms %v", labels)))
				}
			}
			return nil
		},
	}
}
