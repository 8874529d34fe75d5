package cmd

import (
	"github.com/sarchlab/pagesim/datarecording"
	"github.com/spf13/cobra"
)

func newShowCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <database> [run-id]",
		Short: "Show the runs recorded in a SQLite database.",
		Long: `show lists the runs of a database created with --record, or ` +
			`prints the steps of one run if a run ID is given.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, err := datarecording.NewReader(args[0])
			if err != nil {
				return err
			}
			defer reader.Close()

			datarecording.MapRunTables(reader)

			out := cmd.OutOrStdout()

			if len(args) == 1 {
				runs, err := datarecording.ListRuns(cmd.Context(), reader)
				if err != nil {
					return err
				}

				return printRuns(out, runs)
			}

			run, steps, err := datarecording.LoadRun(
				cmd.Context(), reader, args[1])
			if err != nil {
				return err
			}

			if err := printRuns(out, []datarecording.RunEntry{run}); err != nil {
				return err
			}

			return printRecordedSteps(out, steps)
		},
	}
}
