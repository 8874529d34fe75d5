package playback

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/pagesim/paging"
)

var _ = Describe("Player", func() {
	var (
		trace    paging.Trace
		lock     sync.Mutex
		received []int
		player   *Player
	)

	indexes := func() []int {
		lock.Lock()
		defer lock.Unlock()

		return append([]int(nil), received...)
	}

	BeforeEach(func() {
		var err error
		trace, err = paging.Simulate(
			[]paging.Page{"1", "2", "1"}, 2, paging.FIFO{})
		Expect(err).NotTo(HaveOccurred())

		received = nil
		player = NewPlayer(trace, func(s paging.Step) {
			lock.Lock()
			defer lock.Unlock()

			received = append(received, s.Index)
		}).WithInterval(MinInterval)
	})

	It("should clamp the interval", func() {
		Expect(ClampInterval(time.Millisecond)).To(Equal(MinInterval))
		Expect(ClampInterval(time.Minute)).To(Equal(MaxInterval))
		Expect(ClampInterval(time.Second)).To(Equal(time.Second))

		player.SetInterval(5 * time.Second)
		Expect(player.Interval()).To(Equal(MaxInterval))
	})

	It("should step manually", func() {
		Expect(player.Next()).To(BeTrue())
		Expect(player.Next()).To(BeTrue())
		Expect(player.Position()).To(Equal(2))
		Expect(indexes()).To(Equal([]int{0, 1}))

		Expect(player.Next()).To(BeTrue())
		Expect(player.Next()).To(BeTrue())
		Expect(player.Done()).To(BeTrue())
		Expect(player.Next()).To(BeFalse())
	})

	It("should play all the steps in order", func() {
		start := time.Now()

		err := player.Play(context.Background())

		Expect(err).NotTo(HaveOccurred())
		Expect(indexes()).To(Equal([]int{0, 1, 2, 3}))
		Expect(time.Since(start)).To(BeNumerically(">=", 3*MinInterval))
		Expect(player.Done()).To(BeTrue())
	})

	It("should pause on cancellation and resume later", func() {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error)

		go func() { done <- player.Play(ctx) }()

		Eventually(indexes).Should(Equal([]int{0, 1}))
		cancel()
		Eventually(done).Should(Receive(MatchError(context.Canceled)))

		position := player.Position()
		Expect(position).To(BeNumerically(">=", 2))

		Expect(player.Play(context.Background())).To(Succeed())
		Expect(indexes()).To(Equal([]int{0, 1, 2, 3}))
	})

	It("should not emit steps with a cancelled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Expect(player.Play(ctx)).To(MatchError(context.Canceled))
		Expect(indexes()).To(BeEmpty())
		Expect(player.Position()).To(Equal(0))
	})

	It("should restart after a reset", func() {
		Expect(player.Play(context.Background())).To(Succeed())

		player.Reset()
		Expect(player.Position()).To(Equal(0))
		Expect(player.Next()).To(BeTrue())

		Expect(indexes()).To(Equal([]int{0, 1, 2, 3, 0}))
	})

	It("should return at once when there is nothing left", func() {
		for player.Next() {
		}

		Expect(player.Play(context.Background())).To(Succeed())
		Expect(indexes()).To(HaveLen(4))
	})
})
