package paging

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Compare", func() {
	It("should run every strategy on the same input", func() {
		traces, err := Compare(beladySequence, 3)

		Expect(err).NotTo(HaveOccurred())
		Expect(traces).To(HaveLen(4))

		faults := map[string]int{}
		for _, t := range traces {
			faults[t.Algorithm] = t.Faults
		}

		Expect(faults).To(Equal(map[string]int{
			"fifo":    9,
			"lru":     10,
			"lfu":     9,
			"optimal": 7,
		}))
		Expect(traces[Best(traces)].Algorithm).To(Equal("optimal"))
	})

	It("should keep the order of the strategies", func() {
		traces, err := Compare(beladySequence, 3, Optimal{}, FIFO{})

		Expect(err).NotTo(HaveOccurred())
		Expect(traces[0].Algorithm).To(Equal("optimal"))
		Expect(traces[1].Algorithm).To(Equal("fifo"))
	})

	It("should match sequential runs", func() {
		traces, err := Compare(beladySequence, 4)
		Expect(err).NotTo(HaveOccurred())

		for i, s := range Strategies() {
			expected, err := Simulate(beladySequence, 4, s)
			Expect(err).NotTo(HaveOccurred())
			Expect(traces[i]).To(Equal(expected))
		}
	})

	It("should report configuration errors", func() {
		_, err := Compare(beladySequence, 0)

		Expect(err).To(MatchError(ErrInvalidFrameCount))
	})

	It("should not find a best trace in an empty list", func() {
		Expect(Best(nil)).To(Equal(-1))
	})
})

var _ = Describe("Belady's anomaly", func() {
	It("should reproduce the FIFO anomaly", func() {
		points, err := BeladyScan(beladySequence, 3, 4, FIFO{})

		Expect(err).NotTo(HaveOccurred())
		Expect(points).To(Equal([]FaultPoint{
			{Frames: 3, Faults: 9},
			{Frames: 4, Faults: 10},
		}))
		Expect(Anomalies(points)).To(Equal([]FaultPoint{{Frames: 4, Faults: 10}}))
	})

	It("should not find an anomaly for LRU", func() {
		points, err := BeladyScan(beladySequence, 1, 6, LRU{})

		Expect(err).NotTo(HaveOccurred())
		Expect(points).To(HaveLen(6))
		Expect(Anomalies(points)).To(BeEmpty())
	})

	It("should reject an invalid range", func() {
		_, err := BeladyScan(beladySequence, 0, 3, FIFO{})
		Expect(err).To(MatchError(ErrInvalidFrameRange))

		_, err = BeladyScan(beladySequence, 4, 3, FIFO{})
		Expect(err).To(MatchError(ErrInvalidFrameRange))
	})
})
