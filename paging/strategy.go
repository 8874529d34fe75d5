package paging

import (
	"fmt"
	"strings"
)

// A Strategy decides which resident page to evict. Strategies are stateless
// factories. All bookkeeping lives in the StrategyState they create, so a
// single Strategy can serve any number of concurrent runs.
type Strategy interface {
	// Name returns the canonical algorithm name, such as "fifo".
	Name() string

	// NewState creates empty bookkeeping for a new run.
	NewState() StrategyState
}

// StrategyState is the per-run bookkeeping of a strategy. The simulator
// treats it as an opaque handle and only talks to it through these methods.
//
// The step argument is the 0-based position of the current reference in the
// reference sequence.
type StrategyState interface {
	fmt.Stringer

	// Loaded is called after a page is placed into a frame.
	Loaded(page Page, step int)

	// Touched is called when a reference hits a resident page.
	Touched(page Page, step int)

	// Evicted is called after the victim leaves its frame.
	Evicted(page Page)

	// FindVictim selects the resident page to evict. It is only called when
	// every frame is occupied. It returns false if there is nothing to evict.
	FindVictim(frames Frames, step int, refs []Page) (Page, bool)

	// Clone returns a deep copy used as the snapshot of a Step.
	Clone() StrategyState
}

// Strategies returns all the built-in strategies in canonical order.
func Strategies() []Strategy {
	return []Strategy{
		FIFO{},
		LRU{},
		LFU{},
		Optimal{},
	}
}

// StrategyByName finds a built-in strategy. Names are case-insensitive.
func StrategyByName(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fifo":
		return FIFO{}, nil
	case "lru":
		return LRU{}, nil
	case "lfu":
		return LFU{}, nil
	case "optimal", "opt":
		return Optimal{}, nil
	default:
		return nil, configError("lookup strategy",
			fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name))
	}
}

// StrategiesByName resolves a list of names. An empty list selects every
// built-in strategy.
func StrategiesByName(names []string) ([]Strategy, error) {
	if len(names) == 0 {
		return Strategies(), nil
	}

	strategies := make([]Strategy, 0, len(names))
	for _, n := range names {
		s, err := StrategyByName(n)
		if err != nil {
			return nil, err
		}

		strategies = append(strategies, s)
	}

	return strategies, nil
}
