package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := app.cfg.TOML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newHistoryPathCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history-path",
		Short: "Print the path of the shared history file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), app.cfg.HistoryPath)
			return err
		},
	}
}
