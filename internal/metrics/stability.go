package metrics

import "github.com/san-kum/particlesim/internal/nbody"

// Containment is the fraction of particles still inside the initial
// bounds after the latest step.
type Containment struct {
	name          string
	width, height float32
	inside        int
	samples       int
	total         int
}

func NewContainment(width, height float32) *Containment {
	return &Containment{
		name:   "containment",
		width:  width,
		height: height,
	}
}

func (c *Containment) Name() string { return c.name }

func (c *Containment) OnStep(info nbody.StepInfo, s nbody.State) {
	c.samples++
	c.total = s.Len()
	c.inside = 0
	for i := 0; i < s.Len(); i++ {
		x, y := s.X.At(i), s.Y.At(i)
		if x >= 0 && x < c.width && y >= 0 && y < c.height {
			c.inside++
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 || c.total == 0 {
		return 1.0
	}
	return float64(c.inside) / float64(c.total)
}

func (c *Containment) Reset() {
	c.inside = 0
	c.total = 0
	c.samples = 0
}
