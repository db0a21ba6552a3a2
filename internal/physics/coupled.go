package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/boxsim/internal/dynamo"
)

// Coupled drives all three axes from one phase φ = nπ·t·f with f = Base + Slope·n.
// Each axis mixes two harmonics of φ with its own multipliers.
type Coupled struct {
	Base      float64
	Slope     float64
	Amplitude float64
	MinDim    float64
}

func NewCoupled() *Coupled {
	return &Coupled{
		Base:      0.5,
		Slope:     0.3,
		Amplitude: 0.3,
		MinDim:    dynamo.MinDimension,
	}
}

func (c *Coupled) Name() string { return "coupled" }

func (c *Coupled) frequency(n dynamo.EnergyLevel) float64 {
	return c.Base + c.Slope*float64(n)
}

func (c *Coupled) Position(t float64, n dynamo.EnergyLevel, box dynamo.Box) dynamo.Vec3 {
	b := guard(box, c.MinDim)
	phi := float64(n) * math.Pi * t * c.frequency(n)

	return dynamo.Vec3{
		X: c.Amplitude * b.Width * math.Sin(0.7*phi) * math.Cos(0.5*phi),
		Y: c.Amplitude * b.Height * math.Sin(0.9*phi) * math.Sin(0.6*phi),
		Z: c.Amplitude * b.Depth * math.Cos(0.8*phi) * math.Sin(0.5*phi),
	}
}

// Color is a warm hue whose green rises with n and whose blue pulses with time.
func (c *Coupled) Color(_ dynamo.Vec3, n dynamo.EnergyLevel, t float64, _ dynamo.Box) dynamo.Color {
	intensity := 0.5 + 0.5*math.Sin(2*t)
	return dynamo.Color{
		R: 1,
		G: 0.2 + 0.3*(float64(n)/5),
		B: 0.2 + 0.5*intensity,
	}.Clamp()
}

func (c *Coupled) Frequency(n dynamo.EnergyLevel, _ dynamo.Box) float64 {
	return float64(n) * math.Pi * c.frequency(n)
}

func (c *Coupled) GetParams() map[string]float64 {
	return map[string]float64{
		"base":      c.Base,
		"slope":     c.Slope,
		"amplitude": c.Amplitude,
		"min_dim":   c.MinDim,
	}
}

func (c *Coupled) SetParam(name string, value float64) error {
	switch name {
	case "base":
		c.Base = value
	case "slope":
		if value < 0 {
			return fmt.Errorf("slope must be non-negative, got %f", value)
		}
		c.Slope = value
	case "amplitude":
		c.Amplitude = value
	case "min_dim":
		if value <= 0 {
			return fmt.Errorf("min_dim must be positive, got %f: %w", value, dynamo.ErrInvalidBox)
		}
		c.MinDim = value
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
	}
	return nil
}
