package paging

// A Step is the memory state after processing one reference. The initial
// Step has index 0, no page, and all frames empty.
type Step struct {
	Index   int           `json:"index"`
	Page    Page          `json:"page"`
	Frames  Frames        `json:"frames"`
	State   StrategyState `json:"state"`
	Fault   bool          `json:"fault"`
	Hit     bool          `json:"hit"`
	Victim  Page          `json:"victim"`
	Evicted bool          `json:"evicted"`

	// Slot is the frame touched by the step, or -1 for the initial step.
	Slot int `json:"slot"`
}

// IsInitial tells if the step is the record made before any reference.
func (s Step) IsInitial() bool {
	return s.Index == 0
}

// Outcome returns "FAULT", "HIT", or "" for the initial step.
func (s Step) Outcome() string {
	switch {
	case s.Fault:
		return "FAULT"
	case s.Hit:
		return "HIT"
	default:
		return ""
	}
}

// A Trace is the full history of one simulation run.
type Trace struct {
	Algorithm  string `json:"algorithm"`
	FrameCount int    `json:"frame_count"`
	References []Page `json:"references"`
	Steps      []Step `json:"steps"`
	Faults     int    `json:"faults"`
	Hits       int    `json:"hits"`
}

// Final returns the last step.
func (t Trace) Final() Step {
	return t.Steps[len(t.Steps)-1]
}

// HitRate returns the percentage of references that hit.
func (t Trace) HitRate() float64 {
	return percent(t.Hits, t.Hits+t.Faults)
}

// FaultRate returns the percentage of references that faulted.
func (t Trace) FaultRate() float64 {
	return percent(t.Faults, t.Hits+t.Faults)
}

// Victims returns the evicted pages in eviction order.
func (t Trace) Victims() []Page {
	var victims []Page

	for _, s := range t.Steps {
		if s.Evicted {
			victims = append(victims, s.Victim)
		}
	}

	return victims
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}

	return float64(n) / float64(total) * 100
}
