package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

func Execute() error {
	return ExecuteContext(context.Background())
}

func ExecuteContext(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sync-history",
		Short: "Share shell history between concurrently running shells",
		Long: "sync-history appends every command line to a shared history file and " +
			"hands each shell the lines the other shells added since it last asked. " +
			"A per-user daemon is started on first use.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newConfigCmd(app),
		newHistoryPathCmd(app),
		newUpdateCmd(app),
		newDeregisterCmd(app),
		newShutdownCmd(app),
		newLogCmd(app),
		newDaemonCmd(app),
	)

	return rootCmd
}
