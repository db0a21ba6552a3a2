// Package dynamo provides the core types shared by every part of boxsim.
//
// A single particle moves inside a rectangular box. Its position is a pure
// function of elapsed time, the energy level n and the box dimensions:
//
//   - [Vec3]: a point in box-centred world space
//   - [Box]: the container's width, height and depth
//   - [Params]: energy level plus box, the only user-controlled input
//   - [Model]: strategy computing position, colour and frequency
//   - [Label]: axis caption anchors derived from the box
//
// # Example
//
//	m := physics.NewProductSine()
//	p := m.Position(t, 2, dynamo.Box{Width: 2, Height: 3, Depth: 2})
//	c := m.Color(p, 2, t, box)
//
// Models hold no mutable state once configured, so a single instance may be
// evaluated from several goroutines.
package dynamo
