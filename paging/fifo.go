package paging

import (
	"encoding/json"
	"strings"
)

// FIFO evicts the page that has been resident the longest.
type FIFO struct{}

// Name returns "fifo".
func (FIFO) Name() string {
	return "fifo"
}

// NewState returns an empty arrival queue.
func (FIFO) NewState() StrategyState {
	return &FIFOState{}
}

// FIFOState keeps the resident pages in arrival order.
type FIFOState struct {
	queue []Page
}

// Queue returns the resident pages, oldest first.
func (s *FIFOState) Queue() []Page {
	q := make([]Page, len(s.queue))
	copy(q, s.queue)

	return q
}

// Loaded appends the page to the tail of the queue.
func (s *FIFOState) Loaded(page Page, _ int) {
	s.queue = append(s.queue, page)
}

// Touched does nothing. A hit does not change the arrival order.
func (s *FIFOState) Touched(Page, int) {}

// Evicted removes the page from the queue.
func (s *FIFOState) Evicted(page Page) {
	for i, p := range s.queue {
		if p == page {
			s.queue = append(s.queue[:i:i], s.queue[i+1:]...)
			return
		}
	}
}

// FindVictim returns the head of the queue.
func (s *FIFOState) FindVictim(Frames, int, []Page) (Page, bool) {
	if len(s.queue) == 0 {
		return Empty, false
	}

	return s.queue[0], true
}

// Clone copies the queue.
func (s *FIFOState) Clone() StrategyState {
	return &FIFOState{queue: s.Queue()}
}

func (s *FIFOState) String() string {
	names := make([]string, len(s.queue))
	for i, p := range s.queue {
		names[i] = p.String()
	}

	return "queue=[" + strings.Join(names, " ") + "]"
}

// MarshalJSON encodes the queue.
func (s *FIFOState) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Queue []Page `json:"queue"`
	}{Queue: s.Queue()})
}
