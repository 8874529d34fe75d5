package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/sarchlab/pagesim/datarecording"
	"github.com/sarchlab/pagesim/idgen"
	"github.com/sarchlab/pagesim/monitoring"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulator over HTTP.",
		Args:  cobra.NoArgs,
		RunE:  a.serve,
	}

	flags := serveCmd.Flags()
	flags.Int("port", 0, "port to listen on (default random)")
	flags.Bool("open", false, "open the page in the default browser")
	flags.String("record", "", "record every run into this SQLite database")
	flags.String("recording", "",
		"SQLite database file whose runs are served")

	return serveCmd
}

func (a *app) serve(cmd *cobra.Command, _ []string) error {
	monitor := monitoring.NewMonitor().
		WithPortNumber(a.cfg.Port).
		WithIDGenerator(idgen.NewUniqueGenerator())

	var runRecorder *datarecording.RunRecorder

	if a.cfg.RecordPath != "" {
		recorder, err := datarecording.New(a.cfg.RecordPath)
		if err != nil {
			return err
		}
		defer recorder.Close()

		runRecorder, err = datarecording.NewRunRecorder(
			recorder, idgen.NewUniqueGenerator())
		if err != nil {
			return err
		}

		monitor.RegisterHook(runRecorder)
	}

	if path, _ := cmd.Flags().GetString("recording"); path != "" {
		reader, err := datarecording.NewReader(path)
		if err != nil {
			return err
		}
		defer reader.Close()

		monitor.RegisterRecording(reader)
	}

	url := monitor.StartServer()

	if a.cfg.OpenBrowser {
		if err := monitoring.OpenInBrowser(url); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open browser: %v\n", err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	<-ctx.Done()

	return recordingError(runRecorder)
}

// recordingError reports the first failure of a run recorder. A nil recorder
// never fails.
func recordingError(runRecorder *datarecording.RunRecorder) error {
	if runRecorder == nil {
		return nil
	}

	if err := runRecorder.Err(); err != nil {
		return fmt.Errorf("recording runs: %w", err)
	}

	return nil
}
