package paging

import (
	"encoding/json"
	"strconv"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("FIFO", func() {
	It("should fault 9 times on the classic sequence with 3 frames", func() {
		trace, err := Simulate(beladySequence, 3, FIFO{})

		Expect(err).NotTo(HaveOccurred())
		Expect(trace.Faults).To(Equal(9))
		Expect(trace.Hits).To(Equal(3))
		Expect(trace.Victims()).To(Equal(pages("1", "2", "3", "4", "1", "2")))
		Expect(trace.Final().Frames).To(Equal(frames("5", "3", "4")))
	})

	It("should evict in arrival order", func() {
		trace, err := Simulate(beladySequence, 3, FIFO{})
		Expect(err).NotTo(HaveOccurred())

		for i := 1; i < len(trace.Steps); i++ {
			step := trace.Steps[i]
			if !step.Evicted {
				continue
			}

			before := trace.Steps[i-1].State.(*FIFOState).Queue()
			Expect(step.Victim).To(Equal(before[0]))
		}
	})

	It("should not reorder the queue on a hit", func() {
		trace, err := Simulate(pages("1", "2", "1", "3"), 2, FIFO{})

		Expect(err).NotTo(HaveOccurred())
		Expect(trace.Final().Frames).To(Equal(frames("3", "2")))
		Expect(trace.Final().State.(*FIFOState).Queue()).
			To(Equal(pages("2", "3")))
	})

	It("should render and encode its queue", func() {
		s := FIFO{}.NewState()
		s.Loaded("1", 0)
		s.Loaded("2", 1)

		Expect(s.String()).To(Equal("queue=[1 2]"))

		b, err := json.Marshal(s)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(b)).To(Equal(`{"queue":["1","2"]}`))
	})
})

var _ = Describe("LRU", func() {
	It("should fault 10 times on the classic sequence with 3 frames", func() {
		trace, err := Simulate(beladySequence, 3, LRU{})

		Expect(err).NotTo(HaveOccurred())
		Expect(trace.Faults).To(Equal(10))
		Expect(trace.Hits).To(Equal(2))
		Expect(trace.Victims()).
			To(Equal(pages("1", "2", "3", "4", "5", "1", "2")))
		Expect(trace.Final().Frames).To(Equal(frames("3", "4", "5")))
	})

	It("should stamp hits and drop victims", func() {
		trace, err := Simulate(pages("1", "2", "1", "3"), 2, LRU{})
		Expect(err).NotTo(HaveOccurred())

		Expect(trace.Steps[3].State.(*LRUState).LastUsed()).
			To(Equal(map[Page]int{"1": 2, "2": 1}))
		Expect(trace.Final().Victim).To(Equal(Page("2")))
		Expect(trace.Final().State.(*LRUState).LastUsed()).
			To(Equal(map[Page]int{"1": 2, "3": 3}))
	})

	It("should render its table in a stable order", func() {
		s := LRU{}.NewState()
		s.Loaded("b", 0)
		s.Loaded("a", 1)

		Expect(s.String()).To(Equal("last_used={a:1 b:0}"))
	})
})

var _ = Describe("LFU", func() {
	It("should evict the less frequently used page", func() {
		trace, err := Simulate(pages("1", "2", "1", "3"), 2, LFU{})
		Expect(err).NotTo(HaveOccurred())

		Expect(trace.Steps[3].State.(*LFUState).Counts()).
			To(Equal(map[Page]int{"1": 2, "2": 1}))

		last := trace.Final()
		Expect(last.Fault).To(BeTrue())
		Expect(last.Victim).To(Equal(Page("2")))
		Expect(last.Frames.Resident()).To(ConsistOf(Page("1"), Page("3")))
		Expect(last.State.(*LFUState).Counts()).
			To(Equal(map[Page]int{"1": 2, "3": 1}))
	})

	It("should break ties by frame slot order", func() {
		trace, err := Simulate(pages("1", "2", "3"), 2, LFU{})

		Expect(err).NotTo(HaveOccurred())
		Expect(trace.Final().Victim).To(Equal(Page("1")))
		Expect(trace.Final().Frames).To(Equal(frames("3", "2")))
	})

	It("should pick the first slot among the least frequent pages", func() {
		trace, err := Simulate(pages("1", "2", "3", "1", "4"), 3, LFU{})

		Expect(err).NotTo(HaveOccurred())
		Expect(trace.Final().Victim).To(Equal(Page("2")))
		Expect(trace.Final().Frames).To(Equal(frames("1", "4", "3")))
	})

	It("should restart the count of a reloaded page", func() {
		trace, err := Simulate(pages("1", "1", "2", "3", "2"), 2, LFU{})
		Expect(err).NotTo(HaveOccurred())

		// 1 reaches 2, 2 is evicted by 3, then 3 is evicted by 2.
		Expect(trace.Victims()).To(Equal(pages("2", "3")))
		Expect(trace.Final().State.(*LFUState).Counts()).
			To(Equal(map[Page]int{"1": 2, "2": 1}))
	})
})

var _ = Describe("Optimal", func() {
	It("should fault 7 times on the classic sequence with 3 frames", func() {
		trace, err := Simulate(beladySequence, 3, Optimal{})

		Expect(err).NotTo(HaveOccurred())
		Expect(trace.Faults).To(Equal(7))
		Expect(trace.Hits).To(Equal(5))
		Expect(trace.Victims()).To(Equal(pages("3", "4", "1", "3")))
		Expect(trace.Final().Frames).To(Equal(frames("4", "2", "5")))
	})

	It("should never fault more than the other strategies", func() {
		sequences := [][]Page{
			beladySequence,
			pages("7", "0", "1", "2", "0", "3", "0", "4", "2", "3", "0", "3",
				"2", "1", "2", "0", "1", "7", "0", "1"),
			pages("a", "b", "c", "a", "b", "d", "a", "b", "c", "d", "e"),
		}

		for _, refs := range sequences {
			for f := 1; f <= 5; f++ {
				opt, err := Simulate(refs, f, Optimal{})
				Expect(err).NotTo(HaveOccurred())

				for _, s := range []Strategy{FIFO{}, LRU{}, LFU{}} {
					other, err := Simulate(refs, f, s)
					Expect(err).NotTo(HaveOccurred())
					Expect(opt.Faults).To(BeNumerically("<=", other.Faults))
				}
			}
		}
	})

	It("should record the lookahead of an eviction", func() {
		trace, err := Simulate(beladySequence, 3, Optimal{})
		Expect(err).NotTo(HaveOccurred())

		Expect(trace.Steps[4].State.(*OptimalState).NextUse()).
			To(Equal(map[Page]int{"1": 1, "2": 2, "3": 6}))
		Expect(trace.Steps[10].State.(*OptimalState).NextUse()).
			To(Equal(map[Page]int{"1": NoFutureUse, "2": NoFutureUse, "5": 2}))
	})

	It("should clear the lookahead on steps without eviction", func() {
		trace, err := Simulate(beladySequence, 3, Optimal{})
		Expect(err).NotTo(HaveOccurred())

		Expect(trace.Steps[5].Hit).To(BeTrue())
		Expect(trace.Steps[5].State.(*OptimalState).NextUse()).To(BeEmpty())
		Expect(trace.Steps[5].State.String()).To(Equal("next_use={}"))
	})

	It("should evict the first unused page in slot order", func() {
		trace, err := Simulate(pages("1", "2", "3", "4"), 3, Optimal{})

		Expect(err).NotTo(HaveOccurred())
		Expect(trace.Final().Victim).To(Equal(Page("1")))
	})

	It("should match a full scan of the future references", func() {
		refs := make([]Page, 2000)
		for i := range refs {
			refs[i] = Page(strconv.Itoa((i*i + 3*i) % 23))
		}

		trace, err := Simulate(refs, 7, Optimal{})
		Expect(err).NotTo(HaveOccurred())

		evictions := 0
		for k, step := range trace.Steps {
			if !step.Evicted {
				continue
			}

			evictions++
			expected := make(map[Page]int)
			for _, p := range trace.Steps[k-1].Frames {
				expected[p] = nextUseDistance(p, k-1, refs)
			}

			Expect(step.State.(*OptimalState).NextUse()).To(Equal(expected))
		}
		Expect(evictions).To(BeNumerically(">", 100))
	})

	It("should handle long sequences with many frames quickly", func() {
		refs := make([]Page, 10000)
		for i := range refs {
			refs[i] = Page(strconv.Itoa(i))
		}

		start := time.Now()
		trace, err := Simulate(refs, 64, Optimal{})

		Expect(err).NotTo(HaveOccurred())
		Expect(trace.Faults).To(Equal(10000))
		Expect(time.Since(start)).To(BeNumerically("<", 5*time.Second))
	})
})

var _ = Describe("StrategyByName", func() {
	It("should find the built-in strategies", func() {
		for _, name := range []string{"fifo", "LRU", " lfu ", "Optimal", "opt"} {
			s, err := StrategyByName(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(s).NotTo(BeNil())
		}
	})

	It("should reject unknown names", func() {
		_, err := StrategyByName("clock")

		Expect(err).To(MatchError(ErrUnknownAlgorithm))
		Expect(IsConfigError(err)).To(BeTrue())
	})

	It("should select every strategy for an empty list", func() {
		strategies, err := StrategiesByName(nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(strategies).To(HaveLen(4))
	})

	It("should describe every strategy", func() {
		for _, s := range Strategies() {
			info, ok := InfoOf(s)
			Expect(ok).To(BeTrue())
			Expect(info.Name).To(Equal(s.Name()))
		}
	})
})
