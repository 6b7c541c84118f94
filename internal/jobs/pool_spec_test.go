package jobs

import (
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Pool", func() {
	var pool *Pool

	BeforeEach(func() {
		var err error
		pool, err = New(4)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(pool.Close)
	})

	Describe("dispatch and wait", func() {
		It("returns from Dispatch before the work finishes", func() {
			release := make(chan struct{})
			var started atomic.Int32

			Expect(pool.Configure(TaskFunc(func(begin, end int) {
				started.Add(1)
				<-release
			}))).To(Succeed())
			Expect(pool.SetWork(4, 1)).To(Succeed())

			Expect(pool.Dispatch()).To(Succeed())
			Eventually(started.Load).Should(BeNumerically(">", 0))

			waited := make(chan struct{})
			go func() {
				pool.Wait()
				close(waited)
			}()
			Consistently(waited, 50*time.Millisecond).ShouldNot(BeClosed())

			close(release)
			Eventually(waited).Should(BeClosed())
		})

		It("spreads chunks across more than one worker", func() {
			var mu sync.Mutex
			var barrier sync.WaitGroup
			barrier.Add(2)
			seen := map[int]bool{}

			pool.Configure(TaskFunc(func(begin, end int) {
				mu.Lock()
				seen[begin] = true
				mu.Unlock()
				if begin < 2 {
					// two chunks rendezvous; a single worker would deadlock here
					barrier.Done()
					barrier.Wait()
				}
			}))
			pool.SetWork(8, 1)

			pool.Dispatch()
			pool.Wait()

			Expect(seen).To(HaveLen(8))
		})
	})

	DescribeTable("job counts",
		func(total, chunk, jobs int) {
			var calls, badWidth, pastEnd atomic.Int32
			pool.Configure(TaskFunc(func(begin, end int) {
				if end-begin != chunk {
					badWidth.Add(1)
				}
				if end > total {
					pastEnd.Add(1)
				}
				calls.Add(1)
			}))
			Expect(pool.SetWork(total, chunk)).To(Succeed())
			Expect(pool.TotalJobs()).To(Equal(jobs))

			pool.Dispatch()
			pool.Wait()

			Expect(int(calls.Load())).To(Equal(jobs))
			Expect(badWidth.Load()).To(BeZero())
			Expect(pastEnd.Load()).To(BeZero())
		},
		Entry("even split", 256, 16, 16),
		Entry("remainder dropped", 10, 4, 2),
		Entry("chunk wider than range", 3, 8, 0),
		Entry("unit chunks", 5, 1, 5),
	)

	Describe("shutdown", func() {
		It("rejects dispatch after Close", func() {
			pool.Configure(TaskFunc(func(begin, end int) {}))
			pool.Close()
			Expect(pool.Dispatch()).To(MatchError(ErrClosed))
		})
	})
})
