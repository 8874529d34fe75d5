package paging

import "fmt"

// Simulate runs the reference sequence through frameCount frames and returns
// the full trace. It has no side effects, so concurrent calls are safe.
func Simulate(refs []Page, frameCount int, strategy Strategy) (Trace, error) {
	return NewSimulator(strategy).Run(refs, frameCount)
}

// A Simulator runs reference sequences with a fixed strategy and reports
// every step to its hooks.
type Simulator struct {
	*HookableBase

	strategy Strategy
}

// NewSimulator creates a Simulator that uses the given strategy.
func NewSimulator(strategy Strategy) *Simulator {
	return &Simulator{
		HookableBase: NewHookableBase(),
		strategy:     strategy,
	}
}

// Strategy returns the strategy used by the simulator.
func (s *Simulator) Strategy() Strategy {
	return s.strategy
}

// Run simulates the reference sequence. It fails with a *ConfigError if the
// frame count is below 1. An empty sequence yields a trace that only holds
// the initial step.
func (s *Simulator) Run(refs []Page, frameCount int) (Trace, error) {
	return s.RunWithID("", refs, frameCount)
}

// RunWithID is Run with a caller-chosen run ID. Hooks receive the ID as the
// Detail of every HookCtx of the run, so that all observers agree on it.
func (s *Simulator) RunWithID(
	runID string,
	refs []Page,
	frameCount int,
) (Trace, error) {
	err := s.validate(refs, frameCount)
	if err != nil {
		return Trace{}, err
	}

	refs = append([]Page(nil), refs...)
	frames := NewFrames(frameCount)
	state := s.strategy.NewState()

	trace := Trace{
		Algorithm:  s.strategy.Name(),
		FrameCount: frameCount,
		References: refs,
		Steps:      make([]Step, 0, len(refs)+1),
	}

	s.record(runID, &trace, Step{
		Index:  0,
		Page:   Empty,
		Frames: frames.Clone(),
		State:  state.Clone(),
		Slot:   -1,
	})

	for i := range refs {
		step := s.access(frames, state, refs, i)

		if step.Fault {
			trace.Faults++
		} else {
			trace.Hits++
		}

		s.record(runID, &trace, step)
	}

	s.InvokeHook(HookCtx{
		Domain: s,
		Pos:    HookPosRunDone,
		Item:   trace,
		Detail: runID,
	})

	return trace, nil
}

func (s *Simulator) validate(refs []Page, frameCount int) error {
	if s.strategy == nil {
		return configError("simulate", ErrNilStrategy)
	}

	if frameCount < 1 {
		return configError("simulate",
			fmt.Errorf("%w, got %d", ErrInvalidFrameCount, frameCount))
	}

	for i, p := range refs {
		if p.IsEmpty() {
			return configError("simulate",
				fmt.Errorf("%w at position %d", ErrEmptyPage, i))
		}
	}

	return nil
}

func (s *Simulator) record(runID string, trace *Trace, step Step) {
	trace.Steps = append(trace.Steps, step)

	s.InvokeHook(HookCtx{
		Domain: s,
		Pos:    HookPosStepDone,
		Item:   step,
		Detail: runID,
	})
}

// access processes the reference at position i, updating frames and state in
// place, and returns the resulting snapshot.
func (s *Simulator) access(
	frames Frames,
	state StrategyState,
	refs []Page,
	i int,
) Step {
	page := refs[i]
	step := Step{Index: i + 1, Page: page}

	if slot := frames.IndexOf(page); slot >= 0 {
		step.Hit = true
		step.Slot = slot
		state.Touched(page, i)
	} else if slot := frames.FirstEmpty(); slot >= 0 {
		step.Fault = true
		step.Slot = slot
		frames[slot] = page
		state.Loaded(page, i)
	} else {
		step.Fault = true
		step.Slot = s.evict(frames, state, refs, i)
		step.Victim = frames[step.Slot]
		step.Evicted = true
		frames[step.Slot] = page
		state.Loaded(page, i)
	}

	step.Frames = frames.Clone()
	step.State = state.Clone()

	return step
}

// evict asks the strategy for a victim and returns the slot it occupies. The
// victim is removed from the strategy bookkeeping but stays in the frame.
func (s *Simulator) evict(
	frames Frames,
	state StrategyState,
	refs []Page,
	i int,
) int {
	victim, ok := state.FindVictim(frames, i, refs)
	if !ok {
		panic(fmt.Errorf("%s: %w at step %d", s.strategy.Name(), ErrNoVictim, i))
	}

	slot := frames.IndexOf(victim)
	if victim.IsEmpty() || slot < 0 {
		panic(fmt.Errorf("%s: %w: %q at step %d",
			s.strategy.Name(), ErrVictimNotResident, victim, i))
	}

	state.Evicted(victim)

	return slot
}
