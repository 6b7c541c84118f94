package metrics

import (
	"time"

	"github.com/san-kum/particlesim/internal/nbody"
)

// Metric is an engine observer that reduces each step to one number.
type Metric interface {
	nbody.Observer
	Name() string
	Value() float64
	Reset()
}

// Defaults returns the standard metric set for an engine.
func Defaults(mass, width, height float32) []Metric {
	return []Metric{
		NewPositionSum(),
		NewKineticEnergy(mass),
		NewMomentum(mass),
		NewContainment(width, height),
		NewStepTimer(),
	}
}

// Values collects the current value of every metric by name.
func Values(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// StepTimer reports the mean wall time per step in milliseconds.
type StepTimer struct {
	name    string
	total   time.Duration
	last    time.Duration
	samples int
}

func NewStepTimer() *StepTimer {
	return &StepTimer{name: "step_ms"}
}

func (s *StepTimer) Name() string { return s.name }

func (s *StepTimer) OnStep(info nbody.StepInfo, _ nbody.State) {
	s.total += info.Elapsed
	s.last = info.Elapsed
	s.samples++
}

func (s *StepTimer) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.total.Microseconds()) / 1000 / float64(s.samples)
}

func (s *StepTimer) Last() time.Duration { return s.last }

func (s *StepTimer) Reset() {
	s.total = 0
	s.last = 0
	s.samples = 0
}
