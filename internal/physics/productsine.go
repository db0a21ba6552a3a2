package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/boxsim/internal/dynamo"
)

// ProductSine moves each axis with its own time-dependent sine, modulated by
// static sines of the other two sides:
//
//	x = W·sin(nπt/W)·sin(nπ/H)·sin(nπ/D)
//	y = H·sin(nπ/W)·sin(nπt/H)·sin(nπ/D)
//	z = D·sin(nπ/W)·sin(nπ/H)·sin(nπt/D)
//
// scaled by Amplitude. With Amplitude 0.5 the particle never leaves the box.
type ProductSine struct {
	Amplitude float64
	// MinDim replaces any side at or below zero before dividing.
	MinDim float64
}

func NewProductSine() *ProductSine {
	return &ProductSine{
		Amplitude: 0.5,
		MinDim:    dynamo.MinDimension,
	}
}

func (p *ProductSine) Name() string { return "product_sine" }

func (p *ProductSine) Position(t float64, n dynamo.EnergyLevel, box dynamo.Box) dynamo.Vec3 {
	b := guard(box, p.MinDim)
	k := float64(n) * math.Pi

	sw, sh, sd := math.Sin(k/b.Width), math.Sin(k/b.Height), math.Sin(k/b.Depth)

	x := b.Width * math.Sin(k*t/b.Width) * sh * sd
	y := b.Height * sw * math.Sin(k*t/b.Height) * sd
	z := b.Depth * sw * sh * math.Sin(k*t/b.Depth)

	return dynamo.Vec3{X: x, Y: y, Z: z}.Scale(p.Amplitude)
}

// Color maps the normalised distance from the centre on each axis to a channel.
func (p *ProductSine) Color(pos dynamo.Vec3, _ dynamo.EnergyLevel, _ float64, box dynamo.Box) dynamo.Color {
	b := guard(box, p.MinDim)
	return dynamo.Color{
		R: math.Abs(pos.X / b.Width),
		G: math.Abs(pos.Y / b.Height),
		B: math.Abs(pos.Z / b.Depth),
	}.Clamp()
}

// Frequency returns the fastest of the three per-axis angular frequencies, nπ/min(W,H,D).
func (p *ProductSine) Frequency(n dynamo.EnergyLevel, box dynamo.Box) float64 {
	b := guard(box, p.MinDim)
	return float64(n) * math.Pi / b.Min()
}

func (p *ProductSine) GetParams() map[string]float64 {
	return map[string]float64{
		"amplitude": p.Amplitude,
		"min_dim":   p.MinDim,
	}
}

func (p *ProductSine) SetParam(name string, value float64) error {
	switch name {
	case "amplitude":
		p.Amplitude = value
	case "min_dim":
		if value <= 0 {
			return fmt.Errorf("min_dim must be positive, got %f: %w", value, dynamo.ErrInvalidBox)
		}
		p.MinDim = value
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
	}
	return nil
}

// guard clamps non-positive or non-finite sides so no division produces Inf or NaN.
func guard(box dynamo.Box, minDim float64) dynamo.Box {
	if minDim <= 0 {
		minDim = dynamo.MinDimension
	}
	fix := func(v float64) float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < minDim {
			return minDim
		}
		return v
	}
	return dynamo.Box{Width: fix(box.Width), Height: fix(box.Height), Depth: fix(box.Depth)}
}
