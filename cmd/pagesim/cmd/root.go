// Package cmd provides the command-line interface of pagesim.
package cmd

import (
	"github.com/sarchlab/pagesim/config"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// app is the state shared by the commands of one invocation.
type app struct {
	envFiles []string
	cfg      *config.Config
}

// NewRootCommand builds the pagesim command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "pagesim",
		Short: "Simulate page-replacement algorithms.",
		Long: `pagesim runs the FIFO, LRU, LFU, and Optimal page-replacement ` +
			`algorithms over a reference string, compares them, and serves ` +
			`the results over HTTP.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.loadConfig,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringSliceVar(&a.envFiles, "env", nil,
		"env files to load, defaults to .env if it exists")
	flags.BoolP("verbose", "v", false, "log every step")

	rootCmd.AddCommand(
		newRunCmd(a),
		newCompareCmd(a),
		newBeladyCmd(a),
		newAlgorithmsCmd(a),
		newServeCmd(a),
		newShowCmd(a),
	)

	return rootCmd
}

func (a *app) loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.envFiles...)
	if err != nil {
		return err
	}

	if err := applyFlags(cmd.Flags(), cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg

	return nil
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := NewRootCommand().Execute()
	if err != nil {
		atexit.Exit(1)
	}
}
