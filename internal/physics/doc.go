// Package physics provides the position and colour models for the particle.
//
// Each model implements [dynamo.Model]:
//
//   - [ProductSine]: per-axis sine products; the default model
//   - [Coupled]: a single phase shared by all axes with per-axis harmonics
//
// Both also implement [dynamo.Configurable] so their constants can be tuned
// from the config file. Zero, negative or non-finite box sides are replaced
// by the model's MinDim before any division, so positions are always finite.
//
//	reg := physics.NewRegistry()
//	m, _ := reg.Get("coupled")
//	p := m.Position(t, 3, box)
package physics
