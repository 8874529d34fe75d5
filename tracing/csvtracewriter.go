package tracing

import (
	"fmt"
	"io"
	"strings"

	"github.com/sarchlab/pagesim/paging"
)

// CSVTraceWriter writes one line per step.
type CSVTraceWriter struct {
	w io.Writer

	headerWritten bool
	lines         []string
	bufferSize    int
}

// NewCSVTraceWriter creates a new CSVTraceWriter.
func NewCSVTraceWriter(w io.Writer) *CSVTraceWriter {
	return &CSVTraceWriter{
		w:          w,
		bufferSize: 1000,
	}
}

// Write buffers the steps of the trace.
func (t *CSVTraceWriter) Write(runID string, trace paging.Trace) error {
	for _, step := range trace.Steps {
		t.lines = append(t.lines, fmt.Sprintf(
			"%s, %s, %d, %d, %s, %s, %s, %s, %s\n",
			runID,
			trace.Algorithm,
			trace.FrameCount,
			step.Index,
			step.Page,
			strings.Join(step.Frames.Strings(), " "),
			step.Outcome(),
			victimOf(step),
			stateOf(step),
		))

		if len(t.lines) >= t.bufferSize {
			if err := t.Flush(); err != nil {
				return err
			}
		}
	}

	return nil
}

// Flush writes the buffered lines.
func (t *CSVTraceWriter) Flush() error {
	if !t.headerWritten {
		_, err := fmt.Fprintf(t.w,
			"Run, Algorithm, FrameCount, Step, Page, Frames, Outcome, Victim, State\n")
		if err != nil {
			return err
		}

		t.headerWritten = true
	}

	for _, line := range t.lines {
		if _, err := io.WriteString(t.w, line); err != nil {
			return err
		}
	}

	t.lines = nil

	return nil
}

// Close flushes the buffered lines.
func (t *CSVTraceWriter) Close() error {
	return t.Flush()
}

func victimOf(step paging.Step) string {
	if !step.Evicted {
		return ""
	}

	return step.Victim.String()
}

func stateOf(step paging.Step) string {
	if step.State == nil {
		return ""
	}

	return step.State.String()
}
