package datarecording

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sarchlab/pagesim/idgen"
	"github.com/sarchlab/pagesim/paging"
)

// Names of the tables written by a RunRecorder.
const (
	RunTable  = "pagesim_run"
	StepTable = "pagesim_step"
)

// ErrRunNotFound is returned when a run ID is not in the database.
var ErrRunNotFound = errors.New("run not found")

// RunEntry is the row stored for every simulation run.
type RunEntry struct {
	RunID      string
	Algorithm  string
	FrameCount int
	RefString  string
	Faults     int
	Hits       int
}

// StepEntry is the row stored for every step of a run.
type StepEntry struct {
	RunID     string
	StepIndex int
	Page      string
	Frames    string
	Fault     bool
	Hit       bool
	Victim    string
	State     string
}

// RunRecorder is a hook that records the runs of a paging.Simulator.
type RunRecorder struct {
	recorder DataRecorder
	ids      idgen.IDGenerator

	runID  string
	runIDs []string
	err    error
}

// NewRunRecorder creates the run tables and returns a hook that fills them.
func NewRunRecorder(
	recorder DataRecorder,
	ids idgen.IDGenerator,
) (*RunRecorder, error) {
	if err := recorder.CreateTable(RunTable, RunEntry{}); err != nil {
		return nil, err
	}

	if err := recorder.CreateTable(StepTable, StepEntry{}); err != nil {
		return nil, err
	}

	return &RunRecorder{
		recorder: recorder,
		ids:      ids,
	}, nil
}

// Func records steps and runs.
func (r *RunRecorder) Func(ctx paging.HookCtx) {
	switch ctx.Pos {
	case paging.HookPosStepDone:
		step, ok := ctx.Item.(paging.Step)
		if !ok {
			return
		}

		if step.IsInitial() {
			r.runID = r.newRunID(ctx)
		}

		r.keep(r.recorder.InsertData(StepTable, NewStepEntry(r.runID, step)))
	case paging.HookPosRunDone:
		trace, ok := ctx.Item.(paging.Trace)
		if !ok {
			return
		}

		r.keep(r.recorder.InsertData(RunTable, NewRunEntry(r.runID, trace)))
		r.keep(r.recorder.Flush())
		r.runIDs = append(r.runIDs, r.runID)
	}
}

// newRunID reuses the run ID chosen by the caller of the simulator, if any.
func (r *RunRecorder) newRunID(ctx paging.HookCtx) string {
	if id, ok := ctx.Detail.(string); ok && id != "" {
		return id
	}

	return r.ids.Generate()
}

func (r *RunRecorder) keep(err error) {
	if err != nil && r.err == nil {
		r.err = err
	}
}

// Err returns the first error met while recording.
func (r *RunRecorder) Err() error {
	return r.err
}

// LastRunID returns the ID of the most recently completed run.
func (r *RunRecorder) LastRunID() string {
	if len(r.runIDs) == 0 {
		return ""
	}

	return r.runIDs[len(r.runIDs)-1]
}

// RunIDs returns the IDs of all completed runs in completion order.
func (r *RunRecorder) RunIDs() []string {
	ids := make([]string, len(r.runIDs))
	copy(ids, r.runIDs)

	return ids
}

// NewRunEntry summarizes a trace.
func NewRunEntry(runID string, trace paging.Trace) RunEntry {
	refs := make([]string, len(trace.References))
	for i, p := range trace.References {
		refs[i] = string(p)
	}

	return RunEntry{
		RunID:      runID,
		Algorithm:  trace.Algorithm,
		FrameCount: trace.FrameCount,
		RefString:  strings.Join(refs, ","),
		Faults:     trace.Faults,
		Hits:       trace.Hits,
	}
}

// NewStepEntry flattens a step.
func NewStepEntry(runID string, step paging.Step) StepEntry {
	e := StepEntry{
		RunID:     runID,
		StepIndex: step.Index,
		Page:      string(step.Page),
		Frames:    strings.Join(step.Frames.Strings(), " "),
		Fault:     step.Fault,
		Hit:       step.Hit,
	}

	if step.Evicted {
		e.Victim = string(step.Victim)
	}

	if step.State != nil {
		e.State = step.State.String()
	}

	return e
}

// MapRunTables prepares a reader for the run tables.
func MapRunTables(reader DataReader) {
	reader.MapTable(RunTable, RunEntry{})
	reader.MapTable(StepTable, StepEntry{})
}

// ListRuns returns every recorded run.
func ListRuns(ctx context.Context, reader DataReader) ([]RunEntry, error) {
	results, _, err := reader.Query(ctx, RunTable, QueryParams{OrderBy: "rowid"})
	if err != nil {
		return nil, err
	}

	runs := make([]RunEntry, 0, len(results))
	for _, r := range results {
		runs = append(runs, *r.(*RunEntry))
	}

	return runs, nil
}

// LoadRun returns a recorded run and its steps in order.
func LoadRun(
	ctx context.Context,
	reader DataReader,
	runID string,
) (RunEntry, []StepEntry, error) {
	runs, _, err := reader.Query(ctx, RunTable, QueryParams{
		Where: "RunID = ?",
		Args:  []any{runID},
		Limit: 1,
	})
	if err != nil {
		return RunEntry{}, nil, err
	}

	if len(runs) == 0 {
		return RunEntry{}, nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	results, _, err := reader.Query(ctx, StepTable, QueryParams{
		Where:   "RunID = ?",
		Args:    []any{runID},
		OrderBy: "StepIndex",
	})
	if err != nil {
		return RunEntry{}, nil, err
	}

	steps := make([]StepEntry, 0, len(results))
	for _, r := range results {
		steps = append(steps, *r.(*StepEntry))
	}

	return *runs[0].(*RunEntry), steps, nil
}
