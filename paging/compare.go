package paging

import "sync"

// Compare simulates the same input with several strategies. Each strategy
// runs in its own goroutine with its own state. The traces are returned in
// the order of the strategies.
func Compare(
	refs []Page,
	frameCount int,
	strategies ...Strategy,
) ([]Trace, error) {
	if len(strategies) == 0 {
		strategies = Strategies()
	}

	traces := make([]Trace, len(strategies))
	errs := make([]error, len(strategies))

	var wg sync.WaitGroup
	for i, s := range strategies {
		wg.Add(1)

		go func(i int, s Strategy) {
			defer wg.Done()
			traces[i], errs[i] = Simulate(refs, frameCount, s)
		}(i, s)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return traces, nil
}

// Best returns the index of the trace with the fewest faults. Ties go to the
// earlier trace. It returns -1 for an empty list.
func Best(traces []Trace) int {
	best := -1

	for i, t := range traces {
		if best < 0 || t.Faults < traces[best].Faults {
			best = i
		}
	}

	return best
}
