package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/crudforge/internal/cli/formatter"
	"github.com/alexanderramin/crudforge/internal/contract"
	"github.com/spf13/cobra"
)

func newSyncCmd(app *App) *cobra.Command {
	var modules, packages []string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Replay queued writes and refresh the local snapshots",
		Long: "Replay writes queued while the backend was unreachable, oldest first, " +
			"then refresh the menu and feature trees plus the column trees and " +
			"package selections named by --module and --package.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := app.Sync.Sync(cmd.Context(), contract.SyncRequest{
				ModuleIDs:  modules,
				PackageIDs: packages,
			})
			if resp != nil {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSync(resp))
			}
			return err
		},
	}

	cmd.Flags().StringSliceVar(&modules, "module", nil, "CRUD module ids whose columns to refresh")
	cmd.Flags().StringSliceVar(&packages, "package", nil, "package ids whose selections to refresh")

	return cmd
}

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the trees over HTTP with Prometheus metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.Serve == nil {
				return errors.New("serve is not available")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.Serve(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
