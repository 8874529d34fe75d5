package cmd

import (
	"github.com/spf13/cobra"
)

func newAlgorithmsCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "Describe the supported algorithms.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printCatalog(cmd.OutOrStdout())
		},
	}
}
