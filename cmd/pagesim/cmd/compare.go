package cmd

import (
	"strconv"

	"github.com/sarchlab/pagesim/paging"
	"github.com/spf13/cobra"
)

func newCompareCmd(a *app) *cobra.Command {
	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "Run several algorithms on the same input and compare faults.",
		Args:  cobra.NoArgs,
		RunE:  a.compare,
	}

	addInputFlags(compareCmd)
	addExportFlags(compareCmd)

	compareCmd.Flags().StringSlice("algorithms", nil,
		"algorithms to compare (default all)")

	return compareCmd
}

func (a *app) compare(cmd *cobra.Command, _ []string) error {
	refs, err := a.references(cmd)
	if err != nil {
		return err
	}

	names, _ := cmd.Flags().GetStringSlice("algorithms")

	strategies, err := paging.StrategiesByName(names)
	if err != nil {
		return err
	}

	traces, err := paging.Compare(refs, a.cfg.Frames, strategies...)
	if err != nil {
		return err
	}

	if err := printComparison(cmd.OutOrStdout(), traces); err != nil {
		return err
	}

	runIDs := make([]string, len(traces))
	for i := range traces {
		runIDs[i] = strconv.Itoa(i + 1)
	}

	return a.export(cmd, runIDs, traces)
}
