package metrics

import (
	"math"

	"github.com/san-kum/boxsim/internal/sim"
)

// Containment is the fraction of frames in which the particle stayed inside the box.
type Containment struct {
	name       string
	tolerance  float64
	violations int
	samples    int
}

func NewContainment(tolerance float64) *Containment {
	return &Containment{
		name:      "containment",
		tolerance: tolerance,
	}
}

func (c *Containment) Name() string { return c.name }

func (c *Containment) Observe(f sim.Frame) {
	c.samples++
	b := f.Params.Box
	p := f.Position
	if math.Abs(p.X) > b.Width/2+c.tolerance ||
		math.Abs(p.Y) > b.Height/2+c.tolerance ||
		math.Abs(p.Z) > b.Depth/2+c.tolerance {
		c.violations++
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
