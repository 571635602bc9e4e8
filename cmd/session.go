package cmd

import (
	"context"
	"fmt"

	"github.com/merijn/sync-history/internal/application"
	"github.com/merijn/sync-history/internal/domain"
	"github.com/spf13/cobra"
)

// exitReload tells the calling shell to re-read the whole history file.
const exitReload = 2

func newUpdateCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update <pid> [line]",
		Short: "Record a command line and print history added by other shells",
		Long: "update records line (when given) for the shell with the given pid and prints the " +
			"history entries added since the previous update. It exits with status 2 when the " +
			"shell must reload the full history file instead.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseSessionID(args[0])
			if err != nil {
				return err
			}
			var line string
			if len(args) == 2 {
				line = args[1]
			}

			return app.withClient(cmd.Context(), id, func(ctx context.Context, client *application.Client) error {
				res, err := client.Update(ctx, id, line)
				if err != nil {
					return err
				}
				if res.Reload {
					return domain.Exit(exitReload)
				}
				if _, err := cmd.OutOrStdout().Write(res.History); err != nil {
					return fmt.Errorf("write history: %w", err)
				}
				return nil
			})
		},
	}
}

func newDeregisterCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "deregister <pid>",
		Short: "Forget the session of an exiting shell",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseSessionID(args[0])
			if err != nil {
				return err
			}
			return app.withClient(cmd.Context(), id, func(ctx context.Context, client *application.Client) error {
				return client.Deregister(ctx, id)
			})
		},
	}
}

func newShutdownCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shutdown",
		Short: "Stop the daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.withClient(cmd.Context(), selfSession(), func(ctx context.Context, client *application.Client) error {
				return client.Shutdown(ctx)
			})
		},
	}
}
