package tracing

import (
	"encoding/json"
	"io"

	"github.com/sarchlab/pagesim/paging"
)

// JSONTraceWriter writes traces as the elements of a JSON array.
type JSONTraceWriter struct {
	w       io.Writer
	started bool
}

// NewJSONTraceWriter creates a new JSONTraceWriter.
func NewJSONTraceWriter(w io.Writer) *JSONTraceWriter {
	return &JSONTraceWriter{w: w}
}

// Record is the JSON form of a trace.
type Record struct {
	ID        string  `json:"id"`
	FaultRate float64 `json:"fault_rate"`
	HitRate   float64 `json:"hit_rate"`
	paging.Trace
}

// NewRecord wraps a trace with its run ID and rates.
func NewRecord(runID string, trace paging.Trace) Record {
	return Record{
		ID:        runID,
		FaultRate: trace.FaultRate(),
		HitRate:   trace.HitRate(),
		Trace:     trace,
	}
}

// Write appends the trace to the array.
func (t *JSONTraceWriter) Write(runID string, trace paging.Trace) error {
	sep := ",\n"
	if !t.started {
		sep = "[\n"
		t.started = true
	}

	if _, err := io.WriteString(t.w, sep); err != nil {
		return err
	}

	b, err := json.Marshal(NewRecord(runID, trace))
	if err != nil {
		return err
	}

	_, err = t.w.Write(b)

	return err
}

// Close terminates the array.
func (t *JSONTraceWriter) Close() error {
	end := "\n]\n"
	if !t.started {
		end = "[]\n"
		t.started = true
	}

	_, err := io.WriteString(t.w, end)

	return err
}
