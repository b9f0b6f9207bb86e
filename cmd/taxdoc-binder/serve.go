package main

import (
	"log/slog"

	"github.com/a3tai/taxdoc-binder/internal/mcp"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server (stdio or HTTP, see --mode)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := newServices(cfg, nil)
			if err != nil {
				return err
			}
			defer svc.Close()

			server, err := mcp.NewServer(cfg, svc.pipeline, slog.Default())
			if err != nil {
				return err
			}
			if err := server.Run(cmd.Context()); err != nil {
				return err
			}
			slog.Info("server stopped")
			return nil
		},
	}
}
