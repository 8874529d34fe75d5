package paging

import "encoding/json"

// NoFutureUse is the next-use distance of a page that is never referenced
// again.
const NoFutureUse = -1

// Optimal evicts the page whose next reference lies furthest in the future.
// It needs the whole reference sequence and keeps no bookkeeping between
// faults.
type Optimal struct{}

// Name returns "optimal".
func (Optimal) Name() string {
	return "optimal"
}

// NewState returns a state with no lookahead.
func (Optimal) NewState() StrategyState {
	return &OptimalState{
		lookaheadStep: -1,
		lastRef:       make(map[Page]int),
	}
}

// OptimalState holds the lookahead computed by the most recent eviction. It
// is only meaningful on the step that performed the eviction.
type OptimalState struct {
	lookaheadStep int
	nextUse       map[Page]int

	// lastRef is the latest position of every resident page.
	lastRef map[Page]int

	// nextRef[i] is the next position that references refs[i], or -1. It is
	// built on the first eviction and shared by all the clones.
	nextRef []int
}

// NextUse returns the distance from the current step to the next reference of
// every resident page, or NoFutureUse. It is empty unless the current step
// evicted a page.
func (s *OptimalState) NextUse() map[Page]int {
	return copyPageInts(s.nextUse)
}

// Loaded clears a stale lookahead.
func (s *OptimalState) Loaded(page Page, step int) {
	s.expire(step)
	s.lastRef[page] = step
}

// Touched clears a stale lookahead.
func (s *OptimalState) Touched(page Page, step int) {
	s.expire(step)
	s.lastRef[page] = step
}

// Evicted forgets the position of the victim.
func (s *OptimalState) Evicted(page Page) {
	delete(s.lastRef, page)
}

func (s *OptimalState) expire(step int) {
	if s.lookaheadStep != step {
		s.nextUse = nil
		s.lookaheadStep = -1
	}
}

// FindVictim scans the references after step. The first page in slot order
// that is never used again is evicted at once. Otherwise the page with the
// furthest next use is evicted, ties going to the lower slot.
func (s *OptimalState) FindVictim(
	frames Frames,
	step int,
	refs []Page,
) (Page, bool) {
	s.lookaheadStep = step
	s.nextUse = make(map[Page]int, len(frames))

	if len(s.nextRef) != len(refs) {
		s.nextRef = buildNextRef(refs)
	}

	victim := Empty
	furthest := -1
	unused := Empty

	for _, p := range frames {
		if p.IsEmpty() {
			continue
		}

		d := s.distance(p, step, refs)
		s.nextUse[p] = d

		if d == NoFutureUse {
			if unused.IsEmpty() {
				unused = p
			}

			continue
		}

		if d > furthest {
			victim, furthest = p, d
		}
	}

	if !unused.IsEmpty() {
		return unused, true
	}

	return victim, !victim.IsEmpty()
}

// distance looks the next use of p up in nextRef. Pages without a known
// position fall back to a scan.
func (s *OptimalState) distance(p Page, step int, refs []Page) int {
	pos, ok := s.lastRef[p]
	if !ok || pos > step || pos >= len(refs) || refs[pos] != p {
		return nextUseDistance(p, step, refs)
	}

	next := s.nextRef[pos]
	if next < 0 {
		return NoFutureUse
	}

	return next - step
}

func buildNextRef(refs []Page) []int {
	nextRef := make([]int, len(refs))
	seen := make(map[Page]int)

	for i := len(refs) - 1; i >= 0; i-- {
		next, ok := seen[refs[i]]
		if !ok {
			next = -1
		}

		nextRef[i] = next
		seen[refs[i]] = i
	}

	return nextRef
}

func nextUseDistance(p Page, step int, refs []Page) int {
	for j := step + 1; j < len(refs); j++ {
		if refs[j] == p {
			return j - step
		}
	}

	return NoFutureUse
}

// Clone copies the lookahead.
func (s *OptimalState) Clone() StrategyState {
	c := &OptimalState{
		lookaheadStep: s.lookaheadStep,
		lastRef:       copyPageInts(s.lastRef),
		nextRef:       s.nextRef,
	}
	if s.nextUse != nil {
		c.nextUse = copyPageInts(s.nextUse)
	}

	return c
}

func (s *OptimalState) String() string {
	if len(s.nextUse) == 0 {
		return "next_use={}"
	}

	return "next_use=" + formatPageInts(s.nextUse)
}

// MarshalJSON encodes the lookahead.
func (s *OptimalState) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		NextUse map[Page]int `json:"next_use"`
	}{NextUse: s.NextUse()})
}
