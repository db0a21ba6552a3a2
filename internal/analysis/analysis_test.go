package analysis

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/boxsim/internal/dynamo"
	"github.com/san-kum/boxsim/internal/physics"
)

var oddBox = dynamo.Box{Width: 2.3, Height: 2.7, Depth: 3.1}

func TestSpectrumFindsSine(t *testing.T) {
	const dt, f = 0.05, 0.25
	x := make([]float64, 4096)
	for i := range x {
		x[i] = 3 + math.Sin(2*math.Pi*f*float64(i)*dt)
	}

	bins, err := Spectrum(x, dt)
	if err != nil {
		t.Fatal(err)
	}
	if len(bins) != 2049 {
		t.Errorf("expected 2049 bins, got %d", len(bins))
	}
	if got := DominantFrequency(bins); math.Abs(got-f) > 0.002 {
		t.Errorf("dominant = %f, want %f", got, f)
	}
}

func TestSpectrumErrors(t *testing.T) {
	if _, err := Spectrum([]float64{1, 2}, 0.1); !errors.Is(err, ErrTooFewSamples) {
		t.Errorf("expected ErrTooFewSamples, got %v", err)
	}
	if _, err := Spectrum(make([]float64, 8), 0); err == nil {
		t.Error("expected error for zero interval")
	}
}

func TestDominantFrequencyFlat(t *testing.T) {
	bins, _ := Spectrum(make([]float64, 64), 0.1)
	if got := DominantFrequency(bins); got != 0 {
		t.Errorf("flat signal dominant = %f, want 0", got)
	}
}

func TestProductSineAxisFrequency(t *testing.T) {
	m := physics.NewProductSine()
	p := dynamo.Params{Energy: 1, Box: oddBox}

	for _, axis := range []dynamo.Axis{dynamo.AxisX, dynamo.AxisY, dynamo.AxisZ} {
		x := SampleAxis(m, p, axis, 0.05, 8192)
		bins, err := Spectrum(x, 0.05)
		if err != nil {
			t.Fatal(err)
		}
		want := ExpectedFrequency(1, oddBox.Dim(axis))
		if got := DominantFrequency(bins); math.Abs(got-want) > 0.005 {
			t.Errorf("%s: dominant %f, want %f", axis, got, want)
		}
	}
}

func TestSweepEnergy(t *testing.T) {
	m := physics.NewProductSine()
	levels := []int{1, 2, 3, 4}

	results, err := SweepEnergy(context.Background(), m, oddBox, dynamo.AxisX, levels, 0.02, 8192)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(levels) {
		t.Fatalf("got %d results", len(results))
	}
	for i, r := range results {
		if int(r.N) != levels[i] {
			t.Errorf("result %d is for n=%d", i, r.N)
		}
		if math.Abs(r.Dominant-r.Expected) > 0.01 {
			t.Errorf("n=%d: dominant %f, expected %f", r.N, r.Dominant, r.Expected)
		}
	}
	if !Monotonic(results) {
		t.Error("frequency should increase with n")
	}
}

func TestSweepEnergyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := SweepEnergy(ctx, physics.NewProductSine(), oddBox, dynamo.AxisX, []int{1, 2}, 0.05, 64)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestMonotonic(t *testing.T) {
	ok := []SweepResult{{N: 1, Frequency: 1}, {N: 2, Frequency: 2}}
	bad := []SweepResult{{N: 1, Frequency: 2}, {N: 2, Frequency: 2}}
	if !Monotonic(ok) || Monotonic(bad) {
		t.Error("Monotonic gave the wrong answer")
	}
}

func TestPortrait(t *testing.T) {
	m := physics.NewProductSine()
	p := dynamo.Params{Energy: 2, Box: oddBox}

	pts := Portrait(m, p, dynamo.AxisX, dynamo.AxisY, 0.1, 10)
	if len(pts) < 100 {
		t.Fatalf("expected about 101 points, got %d", len(pts))
	}
	for _, pt := range pts {
		if math.Abs(pt.X) > oddBox.Width/2 || math.Abs(pt.Y) > oddBox.Height/2 {
			t.Fatalf("point %v outside the box", pt)
		}
	}

	art := PortraitToASCII(pts, oddBox.Width, oddBox.Height, 40, 20)
	if strings.Count(art, "\n") != 20 || !strings.Contains(art, "•") {
		t.Errorf("unexpected portrait:\n%s", art)
	}
	if PortraitToASCII(nil, 1, 1, 10, 10) != "" {
		t.Error("empty input should give empty output")
	}
}
