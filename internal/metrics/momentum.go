package metrics

import (
	"math"

	"github.com/san-kum/particlesim/internal/nbody"
)

// Momentum reports the magnitude of the total linear momentum. With
// pairwise forces it should stay close to its initial value.
type Momentum struct {
	name   string
	mass   float64
	px, py float64
}

func NewMomentum(mass float32) *Momentum {
	return &Momentum{name: "momentum", mass: float64(mass)}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) OnStep(info nbody.StepInfo, s nbody.State) {
	m.px, m.py = Linear(s, m.mass)
}

func (m *Momentum) Value() float64 { return math.Hypot(m.px, m.py) }

func (m *Momentum) Components() (px, py float64) { return m.px, m.py }

func (m *Momentum) Reset() { m.px, m.py = 0, 0 }

func Linear(s nbody.State, mass float64) (px, py float64) {
	px = mass * s.VX.Sum()
	py = mass * s.VY.Sum()
	return px, py
}

// PositionSum reports the sum of every x and y coordinate.
type PositionSum struct {
	name string
	sum  float64
}

func NewPositionSum() *PositionSum {
	return &PositionSum{name: "position_sum"}
}

func (p *PositionSum) Name() string { return p.name }

func (p *PositionSum) OnStep(info nbody.StepInfo, s nbody.State) {
	p.sum = s.X.Sum() + s.Y.Sum()
}

func (p *PositionSum) Value() float64 { return p.sum }

func (p *PositionSum) Reset() { p.sum = 0 }

// Centroid returns the mean particle position.
func Centroid(s nbody.State) (cx, cy float64) {
	n := float64(s.Len())
	if n == 0 {
		return 0, 0
	}
	return s.X.Sum() / n, s.Y.Sum() / n
}
