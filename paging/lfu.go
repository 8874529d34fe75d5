package paging

import "encoding/json"

// LFU evicts the page referenced the fewest times since it was loaded.
type LFU struct{}

// Name returns "lfu".
func (LFU) Name() string {
	return "lfu"
}

// NewState returns an empty frequency table.
func (LFU) NewState() StrategyState {
	return &LFUState{counts: make(map[Page]int)}
}

// LFUState counts the references to each resident page. A count starts at 1
// when the page is loaded and is dropped when the page is evicted.
type LFUState struct {
	counts map[Page]int
}

// Counts returns a copy of the frequency table.
func (s *LFUState) Counts() map[Page]int {
	return copyPageInts(s.counts)
}

// Loaded starts the page count at 1.
func (s *LFUState) Loaded(page Page, _ int) {
	s.counts[page] = 1
}

// Touched increments the page count.
func (s *LFUState) Touched(page Page, _ int) {
	s.counts[page]++
}

// Evicted forgets the page.
func (s *LFUState) Evicted(page Page) {
	delete(s.counts, page)
}

// FindVictim returns the resident page with the smallest count. On a tie the
// page in the lowest frame slot wins.
func (s *LFUState) FindVictim(frames Frames, _ int, _ []Page) (Page, bool) {
	victim := Empty
	lowest := 0
	found := false

	for _, p := range frames {
		if p.IsEmpty() {
			continue
		}

		c, ok := s.counts[p]
		if !ok {
			continue
		}

		if !found || c < lowest {
			victim, lowest, found = p, c, true
		}
	}

	return victim, found
}

// Clone copies the frequency table.
func (s *LFUState) Clone() StrategyState {
	return &LFUState{counts: s.Counts()}
}

func (s *LFUState) String() string {
	return "counts=" + formatPageInts(s.counts)
}

// MarshalJSON encodes the frequency table.
func (s *LFUState) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Counts map[Page]int `json:"counts"`
	}{Counts: s.counts})
}
