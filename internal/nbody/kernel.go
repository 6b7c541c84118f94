package nbody

import "github.com/san-kum/particlesim/internal/simd"

const (
	DefaultG       = 10.0
	DefaultMass    = 50.0
	DefaultEpsilon = 0.0001
)

// Params holds the constants of the force law. Every particle has the
// same mass.
type Params struct {
	G       float32
	Mass    float32
	Epsilon float32
}

func DefaultParams() Params {
	return Params{G: DefaultG, Mass: DefaultMass, Epsilon: DefaultEpsilon}
}

// Kernel accumulates gravitational velocity change for a range of
// particles. It implements jobs.Task.
//
// Execute(begin, end) writes only vx[begin:end] and vy[begin:end] and
// only reads x and y, so disjoint ranges may run concurrently as long as
// positions are not modified during the dispatch.
type Kernel struct {
	x, y   []float32
	vx, vy []float32
	params Params
	dt     float32
}

// NewKernel borrows the arrays of set; the kernel must not outlive it.
func NewKernel(set *ParticleSet, params Params) *Kernel {
	return &Kernel{
		x:      set.x,
		y:      set.y,
		vx:     set.vx,
		vy:     set.vy,
		params: params,
	}
}

func (k *Kernel) SetDt(dt float32) { k.dt = dt }

func (k *Kernel) Params() Params { return k.params }

func (k *Kernel) Execute(begin, end int) { k.Apply(begin, end) }

// Apply adds to each owned particle i in [begin, end) the pull of every
// particle j, including i itself; the self term is damped by Epsilon.
func (k *Kernel) Apply(begin, end int) {
	x, y := k.x, k.y
	n := len(x)
	full := n - n%simd.Lanes

	gm := k.params.G * k.params.Mass
	gmV := simd.Splat(gm)
	epsV := simd.Splat(k.params.Epsilon)
	dt := k.dt

	for i := begin; i < end; i++ {
		xiV := simd.Splat(x[i])
		yiV := simd.Splat(y[i])

		var accX, accY simd.Vec4
		for j := 0; j < full; j += simd.Lanes {
			dx := simd.Load(x[j:]).Sub(xiV)
			dy := simd.Load(y[j:]).Sub(yiV)

			r2 := dx.Mul(dx).Add(dy.Mul(dy)).Add(epsV)
			invR := r2.Rsqrt()

			f := gmV.Div(r2).Mul(invR).Scale(dt)

			accX = accX.Add(f.Mul(dx))
			accY = accY.Add(f.Mul(dy))
		}

		fx, fy := accX.Sum(), accY.Sum()

		// partial trailing group
		for j := full; j < n; j++ {
			dx := x[j] - x[i]
			dy := y[j] - y[i]
			r2 := dx*dx + dy*dy + k.params.Epsilon
			f := gm / r2 * simd.Rsqrt(r2) * dt
			fx += f * dx
			fy += f * dy
		}

		k.vx[i] += fx
		k.vy[i] += fy
	}
}
