package main

import "github.com/spf13/cobra"

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "taxon",
		Short:         "Taxon classifies field metadata without sending field names to the classifier.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default config.toml in the working directory)")

	cmd.AddCommand(newServeCmd(opts), newClassifyCmd(opts), newVersionCmd(opts))
	return cmd
}
