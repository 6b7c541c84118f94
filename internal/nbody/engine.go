package nbody

import (
	"errors"
	"fmt"
	"time"

	"github.com/san-kum/particlesim/internal/jobs"
)

const (
	DefaultWorkers    = 8
	DefaultTargetJobs = 256
)

type Options struct {
	Bodies int
	Width  float32
	Height float32

	// Workers is the size of the job pool. Zero selects DefaultWorkers.
	Workers int
	// TargetJobs sets chunk = Bodies / TargetJobs. Zero selects DefaultTargetJobs.
	TargetJobs int

	Params Params
	// Source seeds initial positions. Nil selects NewSource(Seed).
	Source Source
	Seed   int64
}

func DefaultOptions() Options {
	return Options{
		Bodies:     3400,
		Width:      1280,
		Height:     720,
		Workers:    DefaultWorkers,
		TargetJobs: DefaultTargetJobs,
		Params:     DefaultParams(),
	}
}

// StepInfo describes a completed step.
type StepInfo struct {
	Step    int
	Dt      float32
	Elapsed time.Duration
}

// Observer is notified serially after every Step.
type Observer interface {
	OnStep(info StepInfo, s State)
}

// Engine owns the particle set and advances it with a parallel force
// phase followed by a serial position update.
type Engine struct {
	set       *ParticleSet
	kernel    *Kernel
	pool      *jobs.Pool
	chunk     int
	steps     int
	closed    bool
	observers []Observer
}

// New seeds bodies uniformly at random within the bounds and starts the
// worker pool.
func New(opts Options) (*Engine, error) {
	if opts.Bodies <= 0 {
		return nil, fmt.Errorf("%w: bodies must be positive, got %d", ErrInvalidOptions, opts.Bodies)
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: bounds must be positive, got %gx%g", ErrInvalidOptions, opts.Width, opts.Height)
	}

	src := opts.Source
	if src == nil {
		src = NewSource(opts.Seed)
	}

	set := newParticleSet(opts.Bodies)
	set.seed(src, opts.Width, opts.Height)

	return start(set, opts)
}

// NewFromState builds an engine over a copy of explicit state. Bounds and
// Source in opts are ignored.
func NewFromState(x, y, vx, vy []float32, opts Options) (*Engine, error) {
	n := len(x)
	if len(y) != n || len(vx) != n || len(vy) != n {
		return nil, ErrStateMismatch
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: empty state", ErrInvalidOptions)
	}

	set := newParticleSet(n)
	copy(set.x, x)
	copy(set.y, y)
	copy(set.vx, vx)
	copy(set.vy, vy)

	return start(set, opts)
}

func start(set *ParticleSet, opts Options) (*Engine, error) {
	workers := opts.Workers
	if workers == 0 {
		workers = DefaultWorkers
	}
	target := opts.TargetJobs
	if target == 0 {
		target = DefaultTargetJobs
	}
	if workers < 0 || target < 0 {
		return nil, fmt.Errorf("%w: workers=%d target_jobs=%d", ErrInvalidOptions, workers, target)
	}

	params := opts.Params
	if params == (Params{}) {
		params = DefaultParams()
	}

	chunk := ChunkSize(set.Len(), target)

	pool, err := jobs.New(workers)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		set:    set,
		kernel: NewKernel(set, params),
		pool:   pool,
		chunk:  chunk,
	}

	if err := pool.Configure(e.kernel); err != nil {
		pool.Close()
		return nil, err
	}
	if err := pool.SetWork(set.Len(), chunk); err != nil {
		pool.Close()
		return nil, err
	}

	return e, nil
}

// ChunkSize derives the per-job width for n bodies. Systems smaller than
// targetJobs fall back to one body per job instead of a zero-width chunk.
func ChunkSize(n, targetJobs int) int {
	if targetJobs <= 0 {
		return n
	}
	chunk := n / targetJobs
	if chunk < 1 {
		chunk = 1
	}
	return chunk
}

func (e *Engine) AddObserver(o Observer) { e.observers = append(e.observers, o) }

// Step runs the parallel force phase for dt and then integrates
// positions serially.
func (e *Engine) Step(dt float32) error {
	if e.closed {
		return ErrClosed
	}

	began := time.Now()

	e.kernel.SetDt(dt)
	if err := e.pool.Dispatch(); err != nil {
		if errors.Is(err, jobs.ErrClosed) {
			return ErrClosed
		}
		return err
	}
	e.pool.Wait()

	s := e.set
	for i := range s.x {
		s.x[i] += s.vx[i] * dt
		s.y[i] += s.vy[i] * dt
	}

	e.steps++

	if len(e.observers) > 0 {
		info := StepInfo{Step: e.steps, Dt: dt, Elapsed: time.Since(began)}
		st := e.State()
		for _, o := range e.observers {
			o.OnStep(info, st)
		}
	}

	return nil
}

// Validate reports the first particle with a NaN or Inf component.
func (e *Engine) Validate() error {
	if i := e.set.firstNonFinite(); i >= 0 {
		return &StepError{Step: e.steps, Particle: i, Wrapped: ErrNonFinite}
	}
	return nil
}

// Positions returns read-only views of the position arrays. The views
// alias engine storage and change on the next Step.
func (e *Engine) Positions() (x, y View) {
	return View{e.set.x}, View{e.set.y}
}

func (e *Engine) Velocities() (vx, vy View) {
	return View{e.set.vx}, View{e.set.vy}
}

func (e *Engine) State() State {
	return State{
		X:  View{e.set.x},
		Y:  View{e.set.y},
		VX: View{e.set.vx},
		VY: View{e.set.vy},
	}
}

func (e *Engine) Bodies() int    { return e.set.Len() }
func (e *Engine) ChunkSize() int { return e.chunk }
func (e *Engine) Workers() int   { return e.pool.Workers() }
func (e *Engine) Steps() int     { return e.steps }
func (e *Engine) Params() Params { return e.kernel.Params() }
func (e *Engine) Jobs() int      { return e.set.Len() / e.chunk }

// Dropped is the number of trailing bodies not covered by any chunk.
// They keep their velocity forever.
func (e *Engine) Dropped() int {
	return e.set.Len() - e.Jobs()*e.chunk
}

// Close stops the worker pool. The engine cannot step afterwards.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.pool.Close()
}
