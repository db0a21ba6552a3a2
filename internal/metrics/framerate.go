package metrics

import "github.com/san-kum/boxsim/internal/sim"

// FrameRate is an exponential moving average of ticks per second.
type FrameRate struct {
	name  string
	alpha float64
	fps   float64
}

func NewFrameRate(alpha float64) *FrameRate {
	if alpha <= 0 || alpha > 1 {
		alpha = 0.1
	}
	return &FrameRate{name: "fps", alpha: alpha}
}

func (r *FrameRate) Name() string { return r.name }

func (r *FrameRate) Observe(f sim.Frame) {
	if f.Delta <= 0 {
		return
	}
	inst := 1 / f.Delta
	if r.fps == 0 {
		r.fps = inst
		return
	}
	r.fps += r.alpha * (inst - r.fps)
}

func (r *FrameRate) Value() float64 { return r.fps }
func (r *FrameRate) Reset()         { r.fps = 0 }

// Defaults returns the metrics shown by the interactive frontends.
func Defaults() []sim.Metric {
	return []sim.Metric{
		NewFrameRate(0.1),
		NewExcursion(),
		NewContainment(1e-9),
		NewSpeed(),
		NewTrailFill(0),
	}
}
