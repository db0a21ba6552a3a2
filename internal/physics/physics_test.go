package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/boxsim/internal/dynamo"
)

func models() []dynamo.Model {
	return []dynamo.Model{NewProductSine(), NewCoupled()}
}

func TestProductSineOriginAtStart(t *testing.T) {
	m := NewProductSine()
	p := m.Position(0, 1, dynamo.Box{Width: 2, Height: 2, Depth: 2})

	if p.Length() > 1e-12 {
		t.Errorf("expected origin at t=0, got %v", p)
	}
}

func TestProductSineKnownPoint(t *testing.T) {
	m := NewProductSine()
	box := dynamo.Box{Width: 2, Height: 2, Depth: 2}

	// sin(π/2) = 1 on every static term, so each axis is 0.5·2·sin(π·1/2) = 1.
	p := m.Position(1, 1, box)
	for _, v := range []float64{p.X, p.Y, p.Z} {
		if math.Abs(v-1) > 1e-9 {
			t.Fatalf("expected (1,1,1), got %v", p)
		}
	}

	c := m.Color(p, 1, 1, box)
	if math.Abs(c.R-0.5) > 1e-9 || math.Abs(c.G-0.5) > 1e-9 || math.Abs(c.B-0.5) > 1e-9 {
		t.Errorf("expected grey 0.5, got %+v", c)
	}
}

func TestProductSineStaysInsideBox(t *testing.T) {
	m := NewProductSine()
	box := dynamo.Box{Width: 3, Height: 1.5, Depth: 2.25}

	for n := dynamo.EnergyLevel(1); n <= 10; n++ {
		for i := 0; i < 500; i++ {
			tm := float64(i) * 0.037
			p := m.Position(tm, n, box)
			if math.Abs(p.X) > box.Width/2+1e-12 || math.Abs(p.Y) > box.Height/2+1e-12 || math.Abs(p.Z) > box.Depth/2+1e-12 {
				t.Fatalf("n=%d t=%.3f: %v outside box %v", n, tm, p, box)
			}
		}
	}
}

func TestPositionFiniteForDegenerateBoxes(t *testing.T) {
	boxes := []dynamo.Box{
		{Width: 0, Height: 2, Depth: 2},
		{Width: -1, Height: 2, Depth: 2},
		{Width: 2, Height: 0, Depth: 0},
		{Width: math.NaN(), Height: 1, Depth: 1},
		{Width: math.Inf(1), Height: 1, Depth: 1},
		{Width: 1e-9, Height: 1e9, Depth: 1},
	}

	for _, m := range models() {
		for _, box := range boxes {
			for _, tm := range []float64{0, 0.5, 17.3, 1e4} {
				p := m.Position(tm, 3, box)
				if !p.IsValid() {
					t.Errorf("%s: position(%v, %v) not finite: %v", m.Name(), tm, box, p)
				}
				c := m.Color(p, 3, tm, box)
				if c != c.Clamp() {
					t.Errorf("%s: color %+v outside [0,1]", m.Name(), c)
				}
			}
		}
	}
}

func TestColorInUnitRange(t *testing.T) {
	box := dynamo.Box{Width: 2, Height: 4, Depth: 1}
	for _, m := range models() {
		for n := dynamo.EnergyLevel(1); n <= 10; n++ {
			for i := 0; i < 200; i++ {
				tm := float64(i) * 0.05
				c := m.Color(m.Position(tm, n, box), n, tm, box)
				for _, ch := range []float64{c.R, c.G, c.B} {
					if ch < 0 || ch > 1 {
						t.Fatalf("%s n=%d t=%.2f: channel %f outside [0,1]", m.Name(), n, tm, ch)
					}
				}
			}
		}
	}
}

func TestFrequencyIncreasesWithEnergy(t *testing.T) {
	box := dynamo.Box{Width: 2, Height: 3, Depth: 5}
	for _, m := range models() {
		prev := m.Frequency(1, box)
		for n := dynamo.EnergyLevel(2); n <= 20; n++ {
			f := m.Frequency(n, box)
			if f <= prev {
				t.Errorf("%s: frequency(%d)=%f not above frequency(%d)=%f", m.Name(), n, f, n-1, prev)
			}
			prev = f
		}
	}
}

func TestCoupledColor(t *testing.T) {
	m := NewCoupled()
	c := m.Color(dynamo.Vec3{}, 5, 0, dynamo.Box{Width: 1, Height: 1, Depth: 1})

	// intensity = 0.5 at t=0
	if c.R != 1 || math.Abs(c.G-0.5) > 1e-9 || math.Abs(c.B-0.45) > 1e-9 {
		t.Errorf("unexpected color %+v", c)
	}
}

func TestCoupledAmplitudeBound(t *testing.T) {
	m := NewCoupled()
	box := dynamo.Box{Width: 2, Height: 2, Depth: 2}
	limit := m.Amplitude * 2

	for i := 0; i < 1000; i++ {
		p := m.Position(float64(i)*0.01, 4, box)
		if math.Abs(p.X) > limit || math.Abs(p.Y) > limit || math.Abs(p.Z) > limit {
			t.Fatalf("position %v exceeds amplitude bound %f", p, limit)
		}
	}
}

func TestSetParam(t *testing.T) {
	m := NewProductSine()
	if err := m.SetParam("amplitude", 0.25); err != nil {
		t.Fatalf("SetParam failed: %v", err)
	}
	if m.GetParams()["amplitude"] != 0.25 {
		t.Error("amplitude not updated")
	}
	if err := m.SetParam("bogus", 1); !errors.Is(err, dynamo.ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
	if err := m.SetParam("min_dim", 0); err == nil {
		t.Error("expected error for zero min_dim")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	names := r.Names()
	if len(names) != 2 || names[0] != "coupled" || names[1] != "product_sine" {
		t.Errorf("unexpected names %v", names)
	}

	m, err := r.Get("")
	if err != nil || m.Name() != DefaultModel {
		t.Errorf("empty name should give default model, got %v, %v", m, err)
	}

	if _, err := r.Get("harmonic"); !errors.Is(err, dynamo.ErrUnknownModel) {
		t.Errorf("expected ErrUnknownModel, got %v", err)
	}

	m, err = r.GetConfigured("coupled", map[string]float64{"amplitude": 0.2})
	if err != nil {
		t.Fatalf("GetConfigured failed: %v", err)
	}
	if m.(*Coupled).Amplitude != 0.2 {
		t.Error("amplitude param not applied")
	}

	if _, err := r.GetConfigured("coupled", map[string]float64{"nope": 1}); err == nil {
		t.Error("expected error for unknown param")
	}
}

func BenchmarkProductSine(b *testing.B) {
	m := NewProductSine()
	box := dynamo.Box{Width: 2, Height: 3, Depth: 4}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.Position(float64(i)*0.016, 3, box)
	}
}
