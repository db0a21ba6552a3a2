package metrics

import (
	"github.com/san-kum/boxsim/internal/sim"
	"github.com/san-kum/boxsim/internal/trail"
)

// TrailFill is how full the trail buffer is, from 0 to 1. The capacity
// carried by each frame wins; the constructor's capacity is used for frames
// that do not set one.
type TrailFill struct {
	name     string
	capacity int
	fill     float64
}

func NewTrailFill(capacity int) *TrailFill {
	if capacity <= 0 {
		capacity = trail.DefaultCapacity
	}
	return &TrailFill{name: "trail", capacity: capacity}
}

func (t *TrailFill) Name() string { return t.name }

func (t *TrailFill) Observe(f sim.Frame) {
	capacity := t.capacity
	if f.TrailCap > 0 {
		capacity = f.TrailCap
	}
	t.fill = float64(len(f.Trail)) / float64(capacity)
	if t.fill > 1 {
		t.fill = 1
	}
}

func (t *TrailFill) Value() float64 { return t.fill }
func (t *TrailFill) Reset()         { t.fill = 0 }
