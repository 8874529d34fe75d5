package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/sarchlab/pagesim/datarecording"
	"github.com/sarchlab/pagesim/idgen"
	"github.com/sarchlab/pagesim/paging"
	"github.com/sarchlab/pagesim/playback"
	"github.com/sarchlab/pagesim/tracing"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate one algorithm and print every step.",
		Args:  cobra.NoArgs,
		RunE:  a.run,
	}

	addInputFlags(runCmd)
	addExportFlags(runCmd)

	flags := runCmd.Flags()
	flags.StringP("algorithm", "a", "",
		"fifo, lru, lfu, or optimal (default from config, fifo)")
	flags.Bool("play", false, "print the steps one by one on a timer")
	flags.Int("speed", 0, "milliseconds between two played steps (200-2000)")
	flags.String("record", "", "record the run into this SQLite database")

	return runCmd
}

func (a *app) run(cmd *cobra.Command, _ []string) error {
	refs, err := a.references(cmd)
	if err != nil {
		return err
	}

	strategy, err := paging.StrategyByName(a.cfg.Algorithm)
	if err != nil {
		return err
	}

	sim := paging.NewSimulator(strategy)

	if a.cfg.Verbose {
		sim.AcceptHook(paging.NewStepLogger(log.New(cmd.ErrOrStderr(), "", 0)))
	}

	var (
		recorder    datarecording.DataRecorder
		runRecorder *datarecording.RunRecorder
	)

	if a.cfg.RecordPath != "" {
		recorder, err = datarecording.New(a.cfg.RecordPath)
		if err != nil {
			return err
		}
		defer recorder.Close()

		runRecorder, err = datarecording.NewRunRecorder(
			recorder, idgen.NewUniqueGenerator())
		if err != nil {
			return err
		}

		sim.AcceptHook(runRecorder)
	}

	trace, err := sim.Run(refs, a.cfg.Frames)
	if err != nil {
		return err
	}

	runID := "1"
	if runRecorder != nil {
		if err := recordingError(runRecorder); err != nil {
			return err
		}

		runID = runRecorder.LastRunID()
		fmt.Fprintf(cmd.ErrOrStderr(), "Recorded run %s in %s\n",
			runID, datarecording.FileName(a.cfg.RecordPath))
	}

	out := cmd.OutOrStdout()

	if play, _ := cmd.Flags().GetBool("play"); play {
		if err := a.play(cmd, trace); err != nil {
			return err
		}
	} else if err := printSteps(out, trace); err != nil {
		return err
	}

	fmt.Fprintln(out)
	printSummary(out, trace)

	return a.export(cmd, []string{runID}, []paging.Trace{trace})
}

func (a *app) play(cmd *cobra.Command, trace paging.Trace) error {
	out := cmd.OutOrStdout()
	tw := newTabWriter(out)

	fmt.Fprintln(tw, stepHeader(trace.FrameCount))

	player := playback.NewPlayer(trace, func(s paging.Step) {
		if s.IsInitial() {
			return
		}

		fmt.Fprintln(tw, stepRow(s))
		_ = tw.Flush()
	}).WithInterval(time.Duration(a.cfg.SpeedMs) * time.Millisecond)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	err := player.Play(ctx)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Playback stopped after step %d\n",
			player.Position()-1)
		return nil
	}

	return err
}

// export writes the traces into a trace file if --export is set. The traces
// are stored under the run IDs of the same index.
func (a *app) export(
	cmd *cobra.Command,
	runIDs []string,
	traces []paging.Trace,
) error {
	flags := cmd.Flags()
	if !flags.Changed("export") {
		return nil
	}

	base, _ := flags.GetString("export")

	format, err := tracing.ParseFormat(a.cfg.ExportFormat)
	if err != nil {
		return err
	}

	compression, err := tracing.ParseCompression(a.cfg.Compression)
	if err != nil {
		return err
	}

	w, filename, err := tracing.CreateFile(fileBase(base), format, compression)
	if err != nil {
		return err
	}

	for i, trace := range traces {
		if err := w.Write(runIDs[i], trace); err != nil {
			w.Close()
			return err
		}
	}

	if err := w.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Trace exported to %s\n", filename)

	return nil
}
