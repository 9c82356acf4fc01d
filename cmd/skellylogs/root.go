package main

import (
	"github.com/spf13/cobra"

	"skellylogs/internal/logging"
	"skellylogs/internal/relayq"
)

func newRootCommand() *cobra.Command {
	return newRootCommandWith(logging.Default(), relayq.Default())
}

func newRootCommandWith(pipeline *logging.Pipeline, manager *relayq.Manager) *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag, pipeline, manager)

	rootCmd := &cobra.Command{
		Use:           "skellylogs",
		Short:         "skellylogs pipeline tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newLevelsCommand())
	rootCmd.AddCommand(newColorsCommand())
	rootCmd.AddCommand(newDemoCommand(ctx))
	rootCmd.AddCommand(newWorkerCommand(ctx))
	rootCmd.AddCommand(newTailCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
