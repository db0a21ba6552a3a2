// Package optim searches box dimensions for a target oscillation.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/boxsim/internal/analysis"
	"github.com/san-kum/boxsim/internal/dynamo"
)

var ErrNoCandidate = errors.New("optim: no candidate could be evaluated")

// Objective scores a candidate box; lower is better.
type Objective func(ctx context.Context, box dynamo.Box) (float64, error)

type GridSearch struct {
	axes   []dynamo.Axis
	ranges [][]float64
}

// NewGridSearch searches the cartesian product of ranges, one range per
// axis. Axes not listed keep the base box's value.
func NewGridSearch(axes []dynamo.Axis, ranges [][]float64) (*GridSearch, error) {
	if len(axes) != len(ranges) {
		return nil, fmt.Errorf("optim: %d axes but %d ranges", len(axes), len(ranges))
	}
	return &GridSearch{axes: axes, ranges: ranges}, nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// Search returns the best box and its score. Candidates whose objective
// fails are skipped.
func (g *GridSearch) Search(ctx context.Context, base dynamo.Box, obj Objective) (dynamo.Box, float64, error) {
	best := math.Inf(1)
	var bestBox dynamo.Box
	found := false

	err := g.searchRecursive(ctx, 0, base, obj, &best, &bestBox, &found)
	if err != nil {
		return dynamo.Box{}, 0, err
	}
	if !found {
		return dynamo.Box{}, 0, ErrNoCandidate
	}
	return bestBox, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current dynamo.Box,
	obj Objective,
	best *float64,
	bestBox *dynamo.Box,
	found *bool,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.axes) {
		val, err := obj(ctx, current)
		if err != nil || math.IsNaN(val) {
			return nil
		}
		if val < *best {
			*best = val
			*bestBox = current
			*found = true
		}
		return nil
	}

	for _, v := range g.ranges[depth] {
		if err := g.searchRecursive(ctx, depth+1, current.WithDim(g.axes[depth], v), obj, best, bestBox, found); err != nil {
			return err
		}
	}
	return nil
}

// FrequencyObjective measures how far the dominant frequency along axis is
// from target when model m runs at energy level n.
func FrequencyObjective(m dynamo.Model, n dynamo.EnergyLevel, axis dynamo.Axis, target, dt float64, samples int) Objective {
	return func(_ context.Context, box dynamo.Box) (float64, error) {
		p := dynamo.Params{Energy: n, Box: box}
		bins, err := analysis.Spectrum(analysis.SampleAxis(m, p, axis, dt, samples), dt)
		if err != nil {
			return 0, err
		}
		return math.Abs(analysis.DominantFrequency(bins) - target), nil
	}
}
