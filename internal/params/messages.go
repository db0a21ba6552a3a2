package params

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/boxsim/internal/dynamo"
)

// Message is a state transition requested by an input surface.
type Message interface {
	apply(p dynamo.Params, lim Limits) (dynamo.Params, error)
	String() string
}

// SetEnergyLevel sets n directly.
type SetEnergyLevel struct{ N int }

// StepEnergy moves n by Delta.
type StepEnergy struct{ Delta int }

// SetBoxDimensions replaces all three sides.
type SetBoxDimensions struct{ Width, Height, Depth float64 }

// SetBoxAxis replaces one side, as a single slider would.
type SetBoxAxis struct {
	Axis  dynamo.Axis
	Value float64
}

// ScaleBoxAxis multiplies one side by Factor.
type ScaleBoxAxis struct {
	Axis   dynamo.Axis
	Factor float64
}

// Reset restores the given parameters.
type Reset struct{ To dynamo.Params }

func (m SetEnergyLevel) apply(p dynamo.Params, lim Limits) (dynamo.Params, error) {
	p.Energy = lim.clampEnergy(m.N)
	return p, nil
}

func (m StepEnergy) apply(p dynamo.Params, lim Limits) (dynamo.Params, error) {
	p.Energy = lim.clampEnergy(int(p.Energy) + m.Delta)
	return p, nil
}

func (m SetBoxDimensions) apply(p dynamo.Params, lim Limits) (dynamo.Params, error) {
	box := dynamo.Box{Width: m.Width, Height: m.Height, Depth: m.Depth}
	if !box.Finite() {
		return p, fmt.Errorf("%w: %v", dynamo.ErrInvalidBox, box)
	}
	p.Box = lim.clampBox(box)
	return p, nil
}

func (m SetBoxAxis) apply(p dynamo.Params, lim Limits) (dynamo.Params, error) {
	box := p.Box.WithDim(m.Axis, m.Value)
	if !box.Finite() {
		return p, fmt.Errorf("%w: %s=%v", dynamo.ErrInvalidBox, m.Axis, m.Value)
	}
	p.Box = lim.clampBox(box)
	return p, nil
}

func (m ScaleBoxAxis) apply(p dynamo.Params, lim Limits) (dynamo.Params, error) {
	return SetBoxAxis{Axis: m.Axis, Value: p.Box.Dim(m.Axis) * m.Factor}.apply(p, lim)
}

func (m Reset) apply(_ dynamo.Params, lim Limits) (dynamo.Params, error) {
	if !m.To.Box.Finite() {
		return m.To, fmt.Errorf("%w: %v", dynamo.ErrInvalidBox, m.To.Box)
	}
	return dynamo.Params{
		Energy: lim.clampEnergy(int(m.To.Energy)),
		Box:    lim.clampBox(m.To.Box),
	}, nil
}

func (m SetEnergyLevel) String() string { return fmt.Sprintf("set energy %d", m.N) }
func (m StepEnergy) String() string     { return fmt.Sprintf("step energy %+d", m.Delta) }
func (m SetBoxDimensions) String() string {
	return fmt.Sprintf("set box %gx%gx%g", m.Width, m.Height, m.Depth)
}
func (m SetBoxAxis) String() string   { return fmt.Sprintf("set %s %g", m.Axis, m.Value) }
func (m ScaleBoxAxis) String() string { return fmt.Sprintf("scale %s x%g", m.Axis, m.Factor) }
func (m Reset) String() string        { return "reset" }

// ParseEnergy reads an energy level typed by the user.
func ParseEnergy(s string) (SetEnergyLevel, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return SetEnergyLevel{}, fmt.Errorf("%w: %q", dynamo.ErrInvalidEnergy, s)
	}
	return SetEnergyLevel{N: n}, nil
}

// ParseDimension reads one box side typed by the user.
// Non-positive values parse fine; the store clamps them.
func ParseDimension(axis dynamo.Axis, s string) (SetBoxAxis, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return SetBoxAxis{}, fmt.Errorf("%w: %s %q", dynamo.ErrInvalidBox, axis, s)
	}
	return SetBoxAxis{Axis: axis, Value: v}, nil
}
