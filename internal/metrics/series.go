package metrics

import "github.com/san-kum/particlesim/internal/nbody"

// Sample is one row of a recorded run.
type Sample struct {
	Step          int
	Time          float64
	PositionSum   float64
	KineticEnergy float64
	MomentumX     float64
	MomentumY     float64
	StepNanos     int64
}

// Series records a Sample every Every steps (every step when Every <= 1).
type Series struct {
	Every   int
	mass    float64
	t       float64
	Samples []Sample
}

func NewSeries(mass float32, every int) *Series {
	return &Series{Every: every, mass: float64(mass)}
}

func (r *Series) OnStep(info nbody.StepInfo, s nbody.State) {
	r.t += float64(info.Dt)
	if r.Every > 1 && info.Step%r.Every != 0 {
		return
	}

	px, py := Linear(s, r.mass)
	r.Samples = append(r.Samples, Sample{
		Step:          info.Step,
		Time:          r.t,
		PositionSum:   s.X.Sum() + s.Y.Sum(),
		KineticEnergy: Kinetic(s, r.mass),
		MomentumX:     px,
		MomentumY:     py,
		StepNanos:     info.Elapsed.Nanoseconds(),
	})
}

// Column extracts one field of every sample.
func (r *Series) Column(field func(Sample) float64) []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = field(s)
	}
	return out
}
