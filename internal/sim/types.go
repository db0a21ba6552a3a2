package sim

import (
	"github.com/san-kum/boxsim/internal/dynamo"
	"github.com/san-kum/boxsim/internal/trail"
)

type Status int

const (
	Idle Status = iota
	Running
)

func (s Status) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// TrailPoint is a past position with its opacity.
type TrailPoint struct {
	Position dynamo.Vec3
	Fade     float64
}

// Frame is everything a renderer needs to draw one tick.
type Frame struct {
	Index    uint64
	Time     float64
	Delta    float64
	Model    string
	Params   dynamo.Params
	Position dynamo.Vec3
	Color    dynamo.Color
	Trail    []TrailPoint
	TrailCap int
	Labels   [3]dynamo.Label
	// Cleared is set when the trail was discarded during this tick.
	Cleared bool
}

type Observer interface {
	OnFrame(f Frame)
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

// Renderer draws frames. When Ready reports false the tick is skipped.
type Renderer interface {
	Ready() bool
	Render(f Frame) error
}

type Options struct {
	TrailLength int
	// TrailStride pushes one trail point every TrailStride ticks.
	TrailStride int
	// MaxDelta caps a single tick's time step in seconds.
	MaxDelta  float64
	TimeScale float64
}

func DefaultOptions() Options {
	return Options{
		TrailLength: trail.DefaultCapacity,
		TrailStride: 1,
		MaxDelta:    0.1,
		TimeScale:   1.0,
	}
}
