package paging

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("Simulator", func() {
	var (
		mockCtrl     *gomock.Controller
		strategy     *MockStrategy
		state        *MockStrategyState
		hook         *MockHook
		simulator    *Simulator
		referenceSeq []Page
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		strategy = NewMockStrategy(mockCtrl)
		state = NewMockStrategyState(mockCtrl)
		hook = NewMockHook(mockCtrl)

		strategy.EXPECT().Name().Return("mock").AnyTimes()
		strategy.EXPECT().NewState().Return(state).AnyTimes()
		state.EXPECT().Clone().Return(state).AnyTimes()

		simulator = NewSimulator(strategy)
		referenceSeq = pages("a", "b", "a", "c")
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should reject a frame count below 1", func() {
		trace, err := simulator.Run(referenceSeq, 0)

		Expect(err).To(MatchError(ErrInvalidFrameCount))
		Expect(IsConfigError(err)).To(BeTrue())
		Expect(trace.Steps).To(BeEmpty())
	})

	It("should reject the empty page as a reference", func() {
		_, err := simulator.Run(pages("a", ""), 2)

		Expect(err).To(MatchError(ErrEmptyPage))
	})

	It("should reject a nil strategy", func() {
		_, err := Simulate(referenceSeq, 2, nil)

		Expect(err).To(MatchError(ErrNilStrategy))
	})

	It("should only produce the initial step for an empty sequence", func() {
		trace, err := simulator.Run(nil, 3)

		Expect(err).NotTo(HaveOccurred())
		Expect(trace.Steps).To(HaveLen(1))
		Expect(trace.Steps[0].Frames).To(Equal(NewFrames(3)))
		Expect(trace.Steps[0].Fault).To(BeFalse())
		Expect(trace.Steps[0].Hit).To(BeFalse())
		Expect(trace.Faults).To(Equal(0))
		Expect(trace.Hits).To(Equal(0))
	})

	It("should drive the strategy bookkeeping", func() {
		gomock.InOrder(
			state.EXPECT().Loaded(Page("a"), 0),
			state.EXPECT().Loaded(Page("b"), 1),
			state.EXPECT().Touched(Page("a"), 2),
			state.EXPECT().
				FindVictim(frames("a", "b"), 3, referenceSeq).
				Return(Page("b"), true),
			state.EXPECT().Evicted(Page("b")),
			state.EXPECT().Loaded(Page("c"), 3),
		)

		trace, err := simulator.Run(referenceSeq, 2)

		Expect(err).NotTo(HaveOccurred())
		Expect(trace.Algorithm).To(Equal("mock"))
		Expect(trace.Faults).To(Equal(3))
		Expect(trace.Hits).To(Equal(1))

		last := trace.Final()
		Expect(last.Frames).To(Equal(frames("a", "c")))
		Expect(last.Victim).To(Equal(Page("b")))
		Expect(last.Evicted).To(BeTrue())
		Expect(last.Slot).To(Equal(1))
	})

	It("should panic if the strategy finds no victim", func() {
		state.EXPECT().Loaded(gomock.Any(), gomock.Any()).AnyTimes()
		state.EXPECT().Touched(gomock.Any(), gomock.Any()).AnyTimes()
		state.EXPECT().
			FindVictim(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(Empty, false)

		Expect(func() { _, _ = simulator.Run(referenceSeq, 1) }).
			To(PanicWith(MatchError(ErrNoVictim)))
	})

	It("should panic if the victim is not resident", func() {
		state.EXPECT().Loaded(gomock.Any(), gomock.Any()).AnyTimes()
		state.EXPECT().
			FindVictim(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(Page("z"), true)

		Expect(func() { _, _ = simulator.Run(referenceSeq, 1) }).
			To(PanicWith(MatchError(ErrVictimNotResident)))
	})

	It("should invoke hooks for every step and at the end", func() {
		state.EXPECT().Loaded(gomock.Any(), gomock.Any()).AnyTimes()
		state.EXPECT().Touched(gomock.Any(), gomock.Any()).AnyTimes()

		var positions []*HookPos
		hook.EXPECT().Func(gomock.Any()).
			Do(func(ctx HookCtx) {
				Expect(ctx.Domain).To(BeIdenticalTo(simulator))
				positions = append(positions, ctx.Pos)
			}).
			Times(len(referenceSeq[:3]) + 2)

		simulator.AcceptHook(hook)
		_, err := simulator.Run(referenceSeq[:3], 3)

		Expect(err).NotTo(HaveOccurred())
		Expect(positions).To(Equal([]*HookPos{
			HookPosStepDone,
			HookPosStepDone,
			HookPosStepDone,
			HookPosStepDone,
			HookPosRunDone,
		}))
	})

	It("should pass the run ID to hooks", func() {
		state.EXPECT().Loaded(gomock.Any(), gomock.Any()).AnyTimes()

		var details []interface{}
		hook.EXPECT().Func(gomock.Any()).
			Do(func(ctx HookCtx) { details = append(details, ctx.Detail) }).
			Times(3)

		simulator.AcceptHook(hook)
		_, err := simulator.RunWithID("run-7", referenceSeq[:1], 2)

		Expect(err).NotTo(HaveOccurred())
		Expect(details).To(Equal([]interface{}{"run-7", "run-7", "run-7"}))
	})

	It("should report every run of a scan to hooks", func() {
		state.EXPECT().Loaded(gomock.Any(), gomock.Any()).AnyTimes()
		state.EXPECT().Touched(gomock.Any(), gomock.Any()).AnyTimes()

		var frameCounts []int
		simulator.AcceptHook(HookFunc(func(ctx HookCtx) {
			if ctx.Pos == HookPosRunDone {
				frameCounts = append(frameCounts, ctx.Item.(Trace).FrameCount)
			}
		}))

		points, err := simulator.Scan(referenceSeq[:3], 2, 4)

		Expect(err).NotTo(HaveOccurred())
		Expect(points).To(HaveLen(3))
		Expect(frameCounts).To(Equal([]int{2, 3, 4}))
	})

	It("should not accept the same hook twice", func() {
		simulator.AcceptHook(hook)

		Expect(func() { simulator.AcceptHook(hook) }).To(Panic())
	})

	It("should accept several hook functions", func() {
		simulator.AcceptHook(HookFunc(func(HookCtx) {}))
		simulator.AcceptHook(HookFunc(func(HookCtx) {}))

		Expect(simulator.NumHooks()).To(Equal(2))
	})
})

var _ = Describe("Simulate", func() {
	It("should keep the trace invariants for every strategy", func() {
		for _, s := range Strategies() {
			for f := 1; f <= 5; f++ {
				trace, err := Simulate(beladySequence, f, s)
				Expect(err).NotTo(HaveOccurred())

				Expect(trace.Steps).To(HaveLen(len(beladySequence) + 1))
				Expect(trace.Faults + trace.Hits).To(Equal(len(beladySequence)))

				faults, hits := 0, 0
				for i, step := range trace.Steps {
					Expect(step.Index).To(Equal(i))
					Expect(step.Frames).To(HaveLen(f))

					if i == 0 {
						continue
					}

					Expect(step.Fault).NotTo(Equal(step.Hit))
					Expect(step.Page).To(Equal(beladySequence[i-1]))
					Expect(step.Frames.Contains(step.Page)).To(BeTrue())

					if step.Fault {
						faults++
					} else {
						hits++
					}
				}

				Expect(faults).To(Equal(trace.Faults))
				Expect(hits).To(Equal(trace.Hits))
			}
		}
	})

	It("should never empty an occupied slot", func() {
		for _, s := range Strategies() {
			trace, err := Simulate(beladySequence, 4, s)
			Expect(err).NotTo(HaveOccurred())

			for i := 1; i < len(trace.Steps); i++ {
				prev, curr := trace.Steps[i-1].Frames, trace.Steps[i].Frames
				for slot := range prev {
					if !prev[slot].IsEmpty() {
						Expect(curr[slot].IsEmpty()).To(BeFalse())
					}
				}
			}
		}
	})

	It("should fill the lowest empty slot first", func() {
		trace, err := Simulate(pages("x", "y"), 3, FIFO{})

		Expect(err).NotTo(HaveOccurred())
		Expect(trace.Steps[1].Frames).To(Equal(frames("x", "", "")))
		Expect(trace.Steps[2].Frames).To(Equal(frames("x", "y", "")))
	})

	It("should be deterministic", func() {
		for _, s := range Strategies() {
			a, err := Simulate(beladySequence, 3, s)
			Expect(err).NotTo(HaveOccurred())

			b, err := Simulate(beladySequence, 3, s)
			Expect(err).NotTo(HaveOccurred())

			Expect(a).To(Equal(b))
		}
	})

	It("should not modify the input sequence", func() {
		refs := pages("1", "2", "3", "1")
		original := append([]Page(nil), refs...)

		_, err := Simulate(refs, 2, LRU{})

		Expect(err).NotTo(HaveOccurred())
		Expect(refs).To(Equal(original))
	})

	It("should give every step its own snapshot", func() {
		trace, err := Simulate(beladySequence, 3, FIFO{})
		Expect(err).NotTo(HaveOccurred())

		trace.Steps[4].Frames[0] = "changed"

		Expect(trace.Steps[5].Frames[0]).NotTo(Equal(Page("changed")))
		Expect(trace.Steps[3].State.(*FIFOState).Queue()).
			To(Equal(pages("1", "2", "3")))
		Expect(trace.Steps[4].State.(*FIFOState).Queue()).
			To(Equal(pages("2", "3", "4")))
	})

	It("should compute hit and fault rates", func() {
		trace, err := Simulate(beladySequence, 3, FIFO{})
		Expect(err).NotTo(HaveOccurred())

		Expect(trace.HitRate()).To(BeNumerically("~", 25.0, 1e-9))
		Expect(trace.FaultRate()).To(BeNumerically("~", 75.0, 1e-9))

		empty, err := Simulate(nil, 3, FIFO{})
		Expect(err).NotTo(HaveOccurred())
		Expect(empty.HitRate()).To(BeZero())
		Expect(empty.FaultRate()).To(BeZero())
	})
})
