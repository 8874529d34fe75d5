package cmd

import (
	"github.com/sarchlab/pagesim/paging"
	"github.com/spf13/cobra"
)

func newBeladyCmd(a *app) *cobra.Command {
	beladyCmd := &cobra.Command{
		Use:   "belady",
		Short: "Count faults over a range of frame counts.",
		Long: `belady simulates the reference string with every frame count ` +
			`in [--min, --max] and reports where more frames caused more ` +
			`faults.`,
		Args: cobra.NoArgs,
		RunE: a.belady,
	}

	flags := beladyCmd.Flags()
	flags.StringP("algorithm", "a", "", "algorithm to scan (default fifo)")
	flags.StringP("refs", "r", "", "comma-separated reference string")
	flags.String("refs-file", "", "file holding the reference string")
	flags.Int("min", 1, "smallest frame count")
	flags.Int("max", 10, "largest frame count")

	return beladyCmd
}

func (a *app) belady(cmd *cobra.Command, _ []string) error {
	refs, err := a.references(cmd)
	if err != nil {
		return err
	}

	strategy, err := paging.StrategyByName(a.cfg.Algorithm)
	if err != nil {
		return err
	}

	minFrames, _ := cmd.Flags().GetInt("min")
	maxFrames, _ := cmd.Flags().GetInt("max")

	points, err := paging.BeladyScan(refs, minFrames, maxFrames, strategy)
	if err != nil {
		return err
	}

	return printFaultPoints(cmd.OutOrStdout(), points)
}
