package paging

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// LRU evicts the page that has gone unreferenced for the longest time.
type LRU struct{}

// Name returns "lru".
func (LRU) Name() string {
	return "lru"
}

// NewState returns an empty recency table.
func (LRU) NewState() StrategyState {
	return &LRUState{lastUsed: make(map[Page]int)}
}

// LRUState maps every resident page to the step it was last referenced at.
type LRUState struct {
	lastUsed map[Page]int
}

// LastUsed returns a copy of the recency table.
func (s *LRUState) LastUsed() map[Page]int {
	return copyPageInts(s.lastUsed)
}

// Loaded stamps the page with the current step.
func (s *LRUState) Loaded(page Page, step int) {
	s.lastUsed[page] = step
}

// Touched stamps the page with the current step.
func (s *LRUState) Touched(page Page, step int) {
	s.lastUsed[page] = step
}

// Evicted forgets the page.
func (s *LRUState) Evicted(page Page) {
	delete(s.lastUsed, page)
}

// FindVictim returns the resident page with the oldest stamp. Stamps are
// unique among resident pages, so there are no ties.
func (s *LRUState) FindVictim(frames Frames, _ int, _ []Page) (Page, bool) {
	victim := Empty
	oldest := 0
	found := false

	for _, p := range frames {
		if p.IsEmpty() {
			continue
		}

		t, ok := s.lastUsed[p]
		if !ok {
			continue
		}

		if !found || t < oldest {
			victim, oldest, found = p, t, true
		}
	}

	return victim, found
}

// Clone copies the recency table.
func (s *LRUState) Clone() StrategyState {
	return &LRUState{lastUsed: s.LastUsed()}
}

func (s *LRUState) String() string {
	return "last_used=" + formatPageInts(s.lastUsed)
}

// MarshalJSON encodes the recency table.
func (s *LRUState) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		LastUsed map[Page]int `json:"last_used"`
	}{LastUsed: s.lastUsed})
}

func copyPageInts(m map[Page]int) map[Page]int {
	c := make(map[Page]int, len(m))
	for k, v := range m {
		c[k] = v
	}

	return c
}

// formatPageInts renders a page table with keys in lexical order so that the
// output is stable.
func formatPageInts(m map[Page]int) string {
	keys := make([]Page, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s:%d", k, m[k])
	}

	return "{" + strings.Join(parts, " ") + "}"
}
