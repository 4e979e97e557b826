package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var colorFlag string

	ctx := newCommandContext(&configFlag, &colorFlag)

	rootCmd := &cobra.Command{
		Use:           "rawconvert",
		Short:         "Batch convert Nikon NEF raw files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				ctx.configureColor()
				return nil
			}
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			ctx.configureColor()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "", "Color output: auto, always, or never")

	rootCmd.AddCommand(newConvertCommand(ctx))
	rootCmd.AddCommand(newInfoCommand(ctx))
	rootCmd.AddCommand(newFormatsCommand())
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newDepsCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
