package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/merijn/sync-history/internal/application"
	"github.com/spf13/cobra"
)

func newLogCmd(app *app) *cobra.Command {
	logCmd := &cobra.Command{
		Use:   "log",
		Short: "Control the daemon's diagnostic log",
	}

	logCmd.AddCommand(
		&cobra.Command{
			Use:   "start <path>",
			Short: "Write daemon diagnostics to path",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				// The daemon runs from "/", so relative paths are resolved here.
				path, err := filepath.Abs(args[0])
				if err != nil {
					return fmt.Errorf("resolve log path: %w", err)
				}
				return app.withClient(cmd.Context(), selfSession(), func(ctx context.Context, client *application.Client) error {
					return client.StartLog(ctx, path)
				})
			},
		},
		&cobra.Command{
			Use:   "stop",
			Short: "Stop writing daemon diagnostics",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return app.withClient(cmd.Context(), selfSession(), func(ctx context.Context, client *application.Client) error {
					return client.StopLog(ctx)
				})
			},
		},
	)

	return logCmd
}
