package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
	"github.com/san-kum/boxsim/internal/dynamo"
)

var ErrTooFewSamples = errors.New("analysis: need at least 4 samples")

// Bin is one frequency bin of a spectrum.
type Bin struct {
	Freq  float64 // Hz
	Power float64
}

// SampleAxis evaluates the model at t = 0, dt, 2dt... and returns n values of
// one coordinate.
func SampleAxis(m dynamo.Model, p dynamo.Params, axis dynamo.Axis, dt float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = m.Position(float64(i)*dt, p.Energy, p.Box).Axis(axis)
	}
	return out
}

// Spectrum returns the one-sided magnitude spectrum of samples taken every dt
// seconds. The mean is removed and a Hann window applied before the FFT.
func Spectrum(samples []float64, dt float64) ([]Bin, error) {
	n := len(samples)
	if n < 4 {
		return nil, ErrTooFewSamples
	}
	if dt <= 0 {
		return nil, errors.New("analysis: sample interval must be positive")
	}

	x := make([]float64, n)
	var mean float64
	for _, v := range samples {
		mean += v
	}
	mean /= float64(n)
	for i, v := range samples {
		x[i] = v - mean
	}
	window.Apply(x, window.Hann)

	coeffs := fft.FFTReal(x)
	bins := make([]Bin, n/2+1)
	for k := range bins {
		bins[k] = Bin{
			Freq:  float64(k) / (float64(n) * dt),
			Power: cmplx.Abs(coeffs[k]),
		}
	}
	return bins, nil
}

// DominantFrequency returns the frequency of the strongest non-DC bin,
// refined by parabolic interpolation over its neighbours. It returns 0 for a
// flat spectrum.
func DominantFrequency(bins []Bin) float64 {
	best := 0
	for k := 1; k < len(bins); k++ {
		if bins[k].Power > bins[best].Power || best == 0 {
			best = k
		}
	}
	if best == 0 || bins[best].Power < 1e-12 {
		return 0
	}
	if best == len(bins)-1 {
		return bins[best].Freq
	}

	a, b, c := bins[best-1].Power, bins[best].Power, bins[best+1].Power
	shift := 0.0
	if d := a - 2*b + c; d != 0 {
		shift = 0.5 * (a - c) / d
	}
	step := bins[1].Freq - bins[0].Freq
	return bins[best].Freq + shift*step
}

// ExpectedFrequency is the oscillation frequency in Hz of the time-dependent
// sine on axis for the product-sine model: nπ/L rad/s.
func ExpectedFrequency(n dynamo.EnergyLevel, side float64) float64 {
	if side <= 0 {
		side = dynamo.MinDimension
	}
	return float64(n) / (2 * side)
}

// RMS is the root mean square of the samples.
func RMS(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var s float64
	for _, v := range samples {
		s += v * v
	}
	return math.Sqrt(s / float64(len(samples)))
}
