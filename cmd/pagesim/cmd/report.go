package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/sarchlab/pagesim/datarecording"
	"github.com/sarchlab/pagesim/paging"
)

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func stepHeader(frameCount int) string {
	cols := []string{"STEP", "PAGE"}
	for i := 1; i <= frameCount; i++ {
		cols = append(cols, fmt.Sprintf("F%d", i))
	}

	cols = append(cols, "RESULT", "VICTIM", "STATE")

	return strings.Join(cols, "\t")
}

func stepRow(s paging.Step) string {
	cols := []string{fmt.Sprint(s.Index), s.Page.String()}
	cols = append(cols, s.Frames.Strings()...)

	victim := ""
	if s.Evicted {
		victim = s.Victim.String()
	}

	state := ""
	if s.State != nil {
		state = s.State.String()
	}

	cols = append(cols, s.Outcome(), victim, state)

	return strings.Join(cols, "\t")
}

func printSteps(w io.Writer, trace paging.Trace) error {
	tw := newTabWriter(w)

	fmt.Fprintln(tw, stepHeader(trace.FrameCount))
	for _, s := range trace.Steps {
		if s.IsInitial() {
			continue
		}

		fmt.Fprintln(tw, stepRow(s))
	}

	return tw.Flush()
}

func printSummary(w io.Writer, trace paging.Trace) {
	title := trace.Algorithm
	for _, info := range paging.Catalog() {
		if info.Name == trace.Algorithm {
			title = info.Title
		}
	}

	fmt.Fprintf(w, "Algorithm:  %s\n", title)
	fmt.Fprintf(w, "Frames:     %d\n", trace.FrameCount)
	fmt.Fprintf(w, "References: %d\n", len(trace.References))
	fmt.Fprintf(w, "Faults:     %d (%.2f%%)\n", trace.Faults, trace.FaultRate())
	fmt.Fprintf(w, "Hits:       %d (%.2f%%)\n", trace.Hits, trace.HitRate())
}

func printComparison(w io.Writer, traces []paging.Trace) error {
	tw := newTabWriter(w)

	fmt.Fprintln(tw, "ALGORITHM\tFAULTS\tHITS\tFAULT RATE\tHIT RATE")
	for _, t := range traces {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f%%\t%.2f%%\n",
			t.Algorithm, t.Faults, t.Hits, t.FaultRate(), t.HitRate())
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	if best := paging.Best(traces); best >= 0 {
		fmt.Fprintf(w, "Fewest faults: %s\n", traces[best].Algorithm)
	}

	return nil
}

func printFaultPoints(w io.Writer, points []paging.FaultPoint) error {
	tw := newTabWriter(w)

	fmt.Fprintln(tw, "FRAMES\tFAULTS")
	for _, p := range points {
		fmt.Fprintf(tw, "%d\t%d\n", p.Frames, p.Faults)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	anomalies := paging.Anomalies(points)
	if len(anomalies) == 0 {
		fmt.Fprintln(w, "No Belady's anomaly.")
		return nil
	}

	for _, a := range anomalies {
		fmt.Fprintf(w, "Belady's anomaly: %d faults with %d frames.\n",
			a.Faults, a.Frames)
	}

	return nil
}

func printCatalog(w io.Writer) error {
	tw := newTabWriter(w)

	fmt.Fprintln(tw, "NAME\tPOLICY\tSTRENGTH\tBELADY\tOVERHEAD")
	for _, info := range paging.Catalog() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n",
			info.Name, info.Policy, info.Strength,
			info.BeladyAnomaly, info.Overhead)
	}

	return tw.Flush()
}

func printRuns(w io.Writer, runs []datarecording.RunEntry) error {
	tw := newTabWriter(w)

	fmt.Fprintln(tw, "RUN\tALGORITHM\tFRAMES\tFAULTS\tHITS\tREFERENCES")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n",
			r.RunID, r.Algorithm, r.FrameCount, r.Faults, r.Hits, r.RefString)
	}

	return tw.Flush()
}

func printRecordedSteps(w io.Writer, steps []datarecording.StepEntry) error {
	tw := newTabWriter(w)

	fmt.Fprintln(tw, "STEP\tPAGE\tFRAMES\tRESULT\tVICTIM\tSTATE")
	for _, s := range steps {
		if s.StepIndex == 0 {
			continue
		}

		result := "HIT"
		if s.Fault {
			result = "FAULT"
		}

		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			s.StepIndex, s.Page, s.Frames, result, s.Victim, s.State)
	}

	return tw.Flush()
}
