package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/boxsim/internal/dynamo"
	"github.com/san-kum/boxsim/internal/params"
	"github.com/san-kum/boxsim/internal/physics"
	"github.com/san-kum/boxsim/internal/sim"
)

func frame(p dynamo.Vec3, dt float64) sim.Frame {
	return sim.Frame{
		Params:   dynamo.DefaultParams(),
		Position: p,
		Delta:    dt,
	}
}

func TestContainment(t *testing.T) {
	m := NewContainment(0)
	if m.Value() != 1.0 {
		t.Errorf("expected 1.0 with no samples, got %f", m.Value())
	}

	m.Observe(frame(dynamo.Vec3{X: 0.5}, 0.016))
	m.Observe(frame(dynamo.Vec3{X: 1.5}, 0.016))

	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("expected 0.5, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 1.0 {
		t.Error("reset should restore full containment")
	}
}

func TestExcursion(t *testing.T) {
	m := NewExcursion()
	m.Observe(frame(dynamo.Vec3{X: 0.5, Y: -0.8}, 0.016))
	m.Observe(frame(dynamo.Vec3{Z: 0.2}, 0.016))

	if math.Abs(m.Value()-0.8) > 1e-12 {
		t.Errorf("expected 0.8, got %f", m.Value())
	}
}

func TestFrameRate(t *testing.T) {
	m := NewFrameRate(0.5)
	m.Observe(frame(dynamo.Vec3{}, 0.02))
	if math.Abs(m.Value()-50) > 1e-9 {
		t.Errorf("expected 50 fps, got %f", m.Value())
	}

	m.Observe(frame(dynamo.Vec3{}, 0.01))
	if math.Abs(m.Value()-75) > 1e-9 {
		t.Errorf("expected 75 fps, got %f", m.Value())
	}

	m.Observe(frame(dynamo.Vec3{}, 0))
	if math.Abs(m.Value()-75) > 1e-9 {
		t.Error("zero delta should be ignored")
	}
}

func TestSpeedSkipsClearedFrames(t *testing.T) {
	m := NewSpeed()
	m.Observe(frame(dynamo.Vec3{}, 0.1))
	m.Observe(frame(dynamo.Vec3{X: 1}, 0.1))

	jump := frame(dynamo.Vec3{X: 100}, 0.1)
	jump.Cleared = true
	m.Observe(jump)

	if math.Abs(m.Value()-10) > 1e-9 {
		t.Errorf("expected 10 units/s, got %f", m.Value())
	}
}

func TestProductSineStaysContained(t *testing.T) {
	store := params.NewStore(dynamo.Params{Energy: 3, Box: dynamo.Box{Width: 2, Height: 3, Depth: 1.5}}, params.DefaultLimits())
	s, err := sim.New(physics.NewProductSine(), store, sim.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	c := NewContainment(1e-9)
	e := NewExcursion()
	s.AddMetric(c)
	s.AddMetric(e)

	for i := 0; i < 1000; i++ {
		s.Tick(0.016)
	}

	if c.Value() != 1.0 {
		t.Errorf("expected particle always inside box, got %f", c.Value())
	}
	if e.Value() > 1.0 {
		t.Errorf("excursion %f exceeds half-extent", e.Value())
	}
	if got := s.Metrics()["containment"]; got != 1.0 {
		t.Errorf("Metrics()[containment] = %f", got)
	}
}

func TestTrailFill(t *testing.T) {
	m := NewTrailFill(4)
	f := frame(dynamo.Vec3{}, 0.016)
	f.Trail = make([]sim.TrailPoint, 2)
	m.Observe(f)
	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %f", m.Value())
	}

	f.Trail = make([]sim.TrailPoint, 9)
	m.Observe(f)
	if m.Value() != 1 {
		t.Errorf("fill should saturate at 1, got %f", m.Value())
	}

	f.Trail = make([]sim.TrailPoint, 9)
	f.TrailCap = 36
	m.Observe(f)
	if m.Value() != 0.25 {
		t.Errorf("frame capacity should win, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("reset should empty the fill")
	}
}

func TestTrailFillFollowsConfiguredLength(t *testing.T) {
	opts := sim.DefaultOptions()
	opts.TrailLength = 300
	s, err := sim.New(physics.NewProductSine(), params.NewStore(dynamo.DefaultParams(), params.DefaultLimits()), opts)
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range Defaults() {
		s.AddMetric(m)
	}

	for i := 0; i < 150; i++ {
		if _, err := s.Tick(0.016); err != nil {
			t.Fatal(err)
		}
	}
	if got := s.Metrics()["trail"]; got != 0.5 {
		t.Errorf("trail fill = %f, want 0.5 of 300", got)
	}

	s.ResizeTrail(604)
	if _, err := s.Tick(0.016); err != nil {
		t.Fatal(err)
	}
	if got := s.Metrics()["trail"]; got != 0.25 {
		t.Errorf("trail fill after resize = %f, want 151/604", got)
	}
}
