package paging

import "log"

// StepLogger is a hook that prints every step of a run.
type StepLogger struct {
	*log.Logger
}

// NewStepLogger returns a StepLogger that writes into the logger.
func NewStepLogger(logger *log.Logger) *StepLogger {
	h := new(StepLogger)
	h.Logger = logger

	return h
}

// Func writes the step information into the logger.
func (h *StepLogger) Func(ctx HookCtx) {
	switch ctx.Pos {
	case HookPosStepDone:
		step, ok := ctx.Item.(Step)
		if !ok || step.IsInitial() {
			return
		}

		if step.Evicted {
			h.Printf("step %d, page %s, %s, frames %s, victim %s, %s",
				step.Index, step.Page, step.Outcome(), step.Frames,
				step.Victim, step.State)
		} else {
			h.Printf("step %d, page %s, %s, frames %s, %s",
				step.Index, step.Page, step.Outcome(), step.Frames, step.State)
		}
	case HookPosRunDone:
		trace, ok := ctx.Item.(Trace)
		if !ok {
			return
		}

		h.Printf("%s with %d frames: %d faults, %d hits",
			trace.Algorithm, trace.FrameCount, trace.Faults, trace.Hits)
	}
}
