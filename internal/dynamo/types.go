package dynamo

import (
	"fmt"
	"math"
)

const (
	// MinDimension is the smallest box side any model divides by.
	MinDimension = 0.1
	// LabelMargin is the distance past the half-extent at which axis labels sit.
	LabelMargin = 0.3
)

// Vec3 is a point in box-centred world space.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Length() float64      { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// Axis returns the component selected by a (0=x, 1=y, 2=z).
func (v Vec3) Axis(a Axis) float64 {
	switch a {
	case AxisY:
		return v.Y
	case AxisZ:
		return v.Z
	default:
		return v.X
	}
}

func (v Vec3) IsValid() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func (v Vec3) String() string {
	return fmt.Sprintf("X: %.3f | Y: %.3f | Z: %.3f", v.X, v.Y, v.Z)
}

// Color is an RGB triple with channels in [0, 1].
type Color struct {
	R, G, B float64
}

// Clamp limits every channel to [0, 1]. NaN channels become 0.
func (c Color) Clamp() Color {
	return Color{clamp01(c.R), clamp01(c.G), clamp01(c.B)}
}

// RGBA8 converts the colour to 8-bit channels.
func (c Color) RGBA8() (r, g, b uint8) {
	c = c.Clamp()
	return uint8(math.Round(c.R * 255)), uint8(math.Round(c.G * 255)), uint8(math.Round(c.B * 255))
}

// Hex renders the colour as #rrggbb.
func (c Color) Hex() string {
	r, g, b := c.RGBA8()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "width"
	case AxisY:
		return "height"
	case AxisZ:
		return "depth"
	}
	return fmt.Sprintf("axis(%d)", int(a))
}

// Box is the container's extent along x (Width), y (Height) and z (Depth).
type Box struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Depth  float64 `yaml:"depth"`
}

func (b Box) Max() float64 { return math.Max(b.Width, math.Max(b.Height, b.Depth)) }
func (b Box) Min() float64 { return math.Min(b.Width, math.Min(b.Height, b.Depth)) }

// Dim returns the side selected by a.
func (b Box) Dim(a Axis) float64 {
	switch a {
	case AxisY:
		return b.Height
	case AxisZ:
		return b.Depth
	default:
		return b.Width
	}
}

// WithDim returns a copy of b with the side selected by a replaced.
func (b Box) WithDim(a Axis, v float64) Box {
	switch a {
	case AxisY:
		b.Height = v
	case AxisZ:
		b.Depth = v
	default:
		b.Width = v
	}
	return b
}

// Finite reports whether no side is NaN or infinite.
func (b Box) Finite() bool {
	for _, v := range [3]float64{b.Width, b.Height, b.Depth} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Valid reports whether every side is finite and strictly positive.
func (b Box) Valid() bool {
	return b.Finite() && b.Width > 0 && b.Height > 0 && b.Depth > 0
}

// Clamp replaces non-positive sides with lo and caps sides above hi.
// A hi of zero or less means no upper bound.
func (b Box) Clamp(lo, hi float64) Box {
	c := func(v float64) float64 {
		if v <= 0 || v < lo {
			return lo
		}
		if hi > 0 && v > hi {
			return hi
		}
		return v
	}
	return Box{c(b.Width), c(b.Height), c(b.Depth)}
}

func (b Box) String() string {
	return fmt.Sprintf("%.2f x %.2f x %.2f", b.Width, b.Height, b.Depth)
}

// EnergyLevel is the quantum number n. It controls oscillation frequency.
type EnergyLevel int

// Params is the user-controlled input for one frame.
type Params struct {
	Energy EnergyLevel `yaml:"energy_level"`
	Box    Box         `yaml:"box"`
}

func DefaultParams() Params {
	return Params{
		Energy: 1,
		Box:    Box{Width: 2, Height: 2, Depth: 2},
	}
}

// Model maps time and parameters to a position and a colour.
type Model interface {
	Name() string
	Position(t float64, n EnergyLevel, box Box) Vec3
	Color(p Vec3, n EnergyLevel, t float64, box Box) Color
	// Frequency is the angular-frequency term fed into the sinusoids.
	// It is strictly increasing in n for a fixed box.
	Frequency(n EnergyLevel, box Box) float64
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Label anchors an axis caption in world space.
type Label struct {
	Text     string
	Position Vec3
	Color    Color
	// RotationY is the label's rotation about the vertical axis in radians.
	RotationY float64
}

// AxisLabels places X, Y and Z captions just outside the largest half-extent.
func AxisLabels(box Box) [3]Label {
	off := box.Max()/2 + LabelMargin
	return [3]Label{
		{Text: "X", Position: Vec3{off, 0, 0}, Color: Color{1, 0, 0}},
		{Text: "Y", Position: Vec3{0, off, 0}, Color: Color{0, 1, 0}},
		{Text: "Z", Position: Vec3{0, 0, off}, Color: Color{0, 0, 1}, RotationY: math.Pi / 2},
	}
}

// Corners returns the eight vertices of the box centred on the origin.
func (b Box) Corners() [8]Vec3 {
	w, h, d := b.Width/2, b.Height/2, b.Depth/2
	return [8]Vec3{
		{-w, -h, -d}, {w, -h, -d}, {w, h, -d}, {-w, h, -d},
		{-w, -h, d}, {w, -h, d}, {w, h, d}, {-w, h, d},
	}
}

// BoxEdges lists vertex index pairs for the twelve edges returned by Corners.
var BoxEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}
