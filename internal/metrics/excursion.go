package metrics

import (
	"math"

	"github.com/san-kum/boxsim/internal/sim"
)

// Excursion tracks the largest distance from the centre reached on any axis,
// as a fraction of that axis' half-extent. Values above 1 mean the particle left the box.
type Excursion struct {
	name string
	max  float64
}

func NewExcursion() *Excursion {
	return &Excursion{name: "excursion"}
}

func (e *Excursion) Name() string { return e.name }

func (e *Excursion) Observe(f sim.Frame) {
	b := f.Params.Box
	for _, r := range [3]float64{
		ratio(f.Position.X, b.Width),
		ratio(f.Position.Y, b.Height),
		ratio(f.Position.Z, b.Depth),
	} {
		e.max = math.Max(e.max, r)
	}
}

func ratio(v, side float64) float64 {
	if side <= 0 {
		return 0
	}
	return math.Abs(v) / (side / 2)
}

func (e *Excursion) Value() float64 { return e.max }
func (e *Excursion) Reset()         { e.max = 0 }

// Speed is the mean distance travelled per second over the observed frames.
type Speed struct {
	name     string
	last     sim.Frame
	has      bool
	distance float64
	elapsed  float64
}

func NewSpeed() *Speed {
	return &Speed{name: "speed"}
}

func (s *Speed) Name() string { return s.name }

func (s *Speed) Observe(f sim.Frame) {
	if s.has && !f.Cleared {
		s.distance += f.Position.Sub(s.last.Position).Length()
		s.elapsed += f.Delta
	}
	s.last = f
	s.has = true
}

func (s *Speed) Value() float64 {
	if s.elapsed == 0 {
		return 0
	}
	return s.distance / s.elapsed
}

func (s *Speed) Reset() {
	s.has = false
	s.distance = 0
	s.elapsed = 0
}
