// Package jobs runs one task over disjoint chunks of an index range on a
// fixed set of long-lived worker goroutines.
//
// A Pool is driven in cycles: SetWork and Configure describe the work,
// Dispatch wakes the workers and returns at once, and Wait blocks until
// every chunk has been executed. Chunks carry no ordering between them.
// Dispatch must not be called again until Wait has returned, and Close
// must not be called while a dispatch is outstanding.
package jobs

import (
	"math"
	"sync"
	"sync/atomic"
)

// Task is the per-chunk callback. Execute is called with [begin, end)
// and may run concurrently with other chunks of the same dispatch.
type Task interface {
	Execute(begin, end int)
}

// TaskFunc adapts a plain function to Task.
type TaskFunc func(begin, end int)

func (f TaskFunc) Execute(begin, end int) { f(begin, end) }

// batch is the work shape frozen into a single dispatch.
type batch struct {
	task      Task
	chunkSize int
	totalJobs int
	gen       uint32
}

type Pool struct {
	mu      sync.Mutex
	wake    *sync.Cond
	running bool
	hasWork bool
	gen     uint32
	pending batch
	current batch

	doneMu sync.Mutex
	done   *sync.Cond

	// cursor packs the dispatch generation (high 32 bits) with the next
	// unclaimed job index (low 32 bits).
	cursor    atomic.Uint64
	remaining atomic.Int64

	workers int
	wg      sync.WaitGroup
}

// New starts a pool with the given number of worker goroutines. The
// workers live until Close.
func New(workers int) (*Pool, error) {
	if workers <= 0 {
		return nil, ErrInvalidWorkers
	}

	p := &Pool{
		running: true,
		workers: workers,
	}
	p.wake = sync.NewCond(&p.mu)
	p.done = sync.NewCond(&p.doneMu)

	p.wg.Add(workers)
	for w := 0; w < workers; w++ {
		go p.loop()
	}

	return p, nil
}

// Configure registers the task run for every chunk. It must not be
// called while a dispatch is in flight.
func (p *Pool) Configure(t Task) error {
	if t == nil {
		return ErrNilTask
	}
	p.mu.Lock()
	p.pending.task = t
	p.mu.Unlock()
	return nil
}

// MaxJobs is the largest number of jobs one dispatch can carry; job
// indices share the cursor word with the dispatch generation.
const MaxJobs = math.MaxUint32

// SetWork records the work shape. The number of jobs is
// totalRange / chunkSize; a remainder is never executed.
func (p *Pool) SetWork(totalRange, chunkSize int) error {
	if totalRange < 0 || chunkSize <= 0 {
		return ErrInvalidShape
	}
	if uint64(totalRange/chunkSize) > MaxJobs {
		return ErrInvalidShape
	}
	p.mu.Lock()
	p.pending.chunkSize = chunkSize
	p.pending.totalJobs = totalRange / chunkSize
	p.mu.Unlock()
	return nil
}

func (p *Pool) Workers() int { return p.workers }

func (p *Pool) ChunkSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending.chunkSize
}

func (p *Pool) TotalJobs() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending.totalJobs
}

// Dispatch starts executing the configured work and returns immediately.
func (p *Pool) Dispatch() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return ErrClosed
	}
	if p.pending.task == nil {
		return ErrNoTask
	}

	p.gen++
	if p.gen == 0 {
		p.gen = 1
	}
	p.current = p.pending
	p.current.gen = p.gen

	p.remaining.Store(int64(p.current.totalJobs))
	p.cursor.Store(uint64(p.gen) << 32)

	if p.current.totalJobs == 0 {
		p.hasWork = false
		return nil
	}

	p.hasWork = true
	p.wake.Broadcast()
	return nil
}

// Wait blocks until every job of the last dispatch has returned.
func (p *Pool) Wait() {
	p.doneMu.Lock()
	for p.remaining.Load() > 0 {
		p.done.Wait()
	}
	p.doneMu.Unlock()
}

// Close stops the workers and waits for them to exit. It is safe to call
// more than once.
func (p *Pool) Close() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.wake.Broadcast()
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Pool) loop() {
	defer p.wg.Done()

	var seen uint32
	for {
		p.mu.Lock()
		for p.running && (!p.hasWork || p.current.gen == seen) {
			p.wake.Wait()
		}
		if !p.running {
			p.mu.Unlock()
			return
		}
		b := p.current
		p.mu.Unlock()

		seen = b.gen
		p.drain(b)
	}
}

func (p *Pool) drain(b batch) {
	for {
		idx, ok := p.claim(b)
		if !ok {
			return
		}

		begin := idx * b.chunkSize
		b.task.Execute(begin, begin+b.chunkSize)

		if p.remaining.Add(-1) == 0 {
			p.finish(b.gen)
		}
	}
}

// claim takes the next job index of dispatch b. It fails once the
// dispatch is exhausted or a newer dispatch has replaced it.
func (p *Pool) claim(b batch) (int, bool) {
	for {
		v := p.cursor.Load()
		if uint32(v>>32) != b.gen {
			return 0, false
		}
		idx := int(uint32(v))
		if idx >= b.totalJobs {
			return 0, false
		}
		if p.cursor.CompareAndSwap(v, v+1) {
			return idx, true
		}
	}
}

func (p *Pool) finish(gen uint32) {
	p.mu.Lock()
	if p.current.gen == gen {
		p.hasWork = false
	}
	p.mu.Unlock()

	p.doneMu.Lock()
	p.done.Broadcast()
	p.doneMu.Unlock()
}
