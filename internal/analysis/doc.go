// Package analysis measures the motion produced by a position model.
//
//   - [SampleAxis]: one coordinate sampled at a fixed rate
//   - [Spectrum] and [DominantFrequency]: FFT of the samples
//   - [SweepEnergy]: dominant frequency for a range of energy levels
//   - [Portrait]: 2D projection of the path, with an ASCII renderer
//
// # Frequency Check
//
// For the product-sine model the dominant frequency on an axis of side L is
// n/(2L) Hz, so it must rise strictly with n:
//
//	results, _ := analysis.SweepEnergy(ctx, model, box, dynamo.AxisX, []int{1, 2, 3}, 0.05, 4096)
//	ok := analysis.Monotonic(results)
package analysis
