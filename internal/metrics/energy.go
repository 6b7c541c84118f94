package metrics

import (
	"math"

	"github.com/san-kum/particlesim/internal/nbody"
)

// KineticEnergy tracks the total kinetic energy of the particle set after
// the latest step.
type KineticEnergy struct {
	name    string
	mass    float64
	current float64
	peak    float64
	samples int
}

func NewKineticEnergy(mass float32) *KineticEnergy {
	return &KineticEnergy{
		name: "kinetic_energy",
		mass: float64(mass),
	}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) OnStep(info nbody.StepInfo, s nbody.State) {
	k.current = Kinetic(s, k.mass)
	k.peak = math.Max(k.peak, k.current)
	k.samples++
}

func (k *KineticEnergy) Value() float64 { return k.current }

func (k *KineticEnergy) Peak() float64 { return k.peak }

func (k *KineticEnergy) Reset() {
	k.current = 0
	k.peak = 0
	k.samples = 0
}

// Kinetic returns sum(0.5 * mass * |v|^2) over every particle.
func Kinetic(s nbody.State, mass float64) float64 {
	sum := 0.0
	for i := 0; i < s.Len(); i++ {
		vx, vy := float64(s.VX.At(i)), float64(s.VY.At(i))
		sum += vx*vx + vy*vy
	}
	return 0.5 * mass * sum
}
