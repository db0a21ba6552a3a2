package analysis

import (
	"context"
	"runtime"

	"github.com/san-kum/boxsim/internal/dynamo"
	"golang.org/x/sync/errgroup"
)

// SweepResult is the measured motion on one axis at one energy level.
type SweepResult struct {
	N         dynamo.EnergyLevel
	Dominant  float64 // Hz, from the spectrum
	Expected  float64 // Hz, n/(2L)
	Frequency float64 // the model's own frequency term, rad/s
	RMS       float64
}

// SweepEnergy measures the dominant frequency on axis for every level in
// levels. Levels are evaluated concurrently; results keep the input order.
func SweepEnergy(ctx context.Context, m dynamo.Model, box dynamo.Box, axis dynamo.Axis, levels []int, dt float64, samples int) ([]SweepResult, error) {
	results := make([]SweepResult, len(levels))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, lvl := range levels {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p := dynamo.Params{Energy: dynamo.EnergyLevel(lvl), Box: box}
			x := SampleAxis(m, p, axis, dt, samples)
			bins, err := Spectrum(x, dt)
			if err != nil {
				return err
			}
			results[i] = SweepResult{
				N:         p.Energy,
				Dominant:  DominantFrequency(bins),
				Expected:  ExpectedFrequency(p.Energy, box.Dim(axis)),
				Frequency: m.Frequency(p.Energy, box),
				RMS:       RMS(x),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Monotonic reports whether the model frequency rises strictly with n across
// results ordered by increasing n.
func Monotonic(results []SweepResult) bool {
	for i := 1; i < len(results); i++ {
		if results[i].N <= results[i-1].N {
			continue
		}
		if results[i].Frequency <= results[i-1].Frequency {
			return false
		}
	}
	return true
}
