package nbody

import (
	"math"

	"golang.org/x/exp/rand"
)

// ParticleSet is the shared simulation state. All four arrays have the
// same length for the lifetime of the set.
type ParticleSet struct {
	x, y   []float32
	vx, vy []float32
}

func newParticleSet(n int) *ParticleSet {
	return &ParticleSet{
		x:  make([]float32, n),
		y:  make([]float32, n),
		vx: make([]float32, n),
		vy: make([]float32, n),
	}
}

func (p *ParticleSet) Len() int { return len(p.x) }

// Source supplies uniform draws in [0, 1).
type Source interface {
	Float32() float32
}

// NewSource returns a deterministic source for the given seed.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(uint64(seed)))
}

// seed places every particle uniformly in [0,width) x [0,height), drawing
// x then y for each particle. Velocities are left at zero.
func (p *ParticleSet) seed(src Source, width, height float32) {
	for i := range p.x {
		p.x[i] = src.Float32() * width
		p.y[i] = src.Float32() * height
	}
}

func (p *ParticleSet) firstNonFinite() int {
	for i := range p.x {
		if !finite(p.x[i]) || !finite(p.y[i]) || !finite(p.vx[i]) || !finite(p.vy[i]) {
			return i
		}
	}
	return -1
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// View is a read-only window onto one particle array. It aliases engine
// storage and reflects the state after the most recent Step.
type View struct {
	s []float32
}

// NewView wraps caller-owned data.
func NewView(s []float32) View { return View{s} }

func (v View) Len() int { return len(v.s) }

func (v View) At(i int) float32 { return v.s[i] }

// CopyTo copies the view into dst and returns the number of elements copied.
func (v View) CopyTo(dst []float32) int { return copy(dst, v.s) }

// Slice returns a fresh copy of the view.
func (v View) Slice() []float32 {
	out := make([]float32, len(v.s))
	copy(out, v.s)
	return out
}

func (v View) Sum() float64 {
	sum := 0.0
	for _, f := range v.s {
		sum += float64(f)
	}
	return sum
}

// State bundles read-only views of every particle array.
type State struct {
	X, Y   View
	VX, VY View
}

func (s State) Len() int { return s.X.Len() }
