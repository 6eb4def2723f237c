package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pluginforge.dev/cli/internal/interfaces/api"
	"pluginforge.dev/cli/internal/interfaces/di"
)

// newServeCommand creates the serve command exposing the marketplace
// actions as a JSON HTTP API.
func newServeCommand(container *di.Container) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the marketplace actions as an HTTP API",
		Long: `Serve the marketplace API over HTTP.

Endpoints:
  GET  /api/marketplace/registry   merged catalog/local plugin view
  POST /api/marketplace/install    {"plugin_id", "repo_url", "plugin_path", "branch"}
  POST /api/marketplace/uninstall  {"plugin_id"}
  POST /api/marketplace/toggle     {"plugin_id", "enabled"}`,
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := addr
			if listenAddr == "" {
				listenAddr = container.Config.ListenAddr
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			server := api.NewServer(container.Service, container.Logger, listenAddr)
			return server.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")

	return cmd
}
