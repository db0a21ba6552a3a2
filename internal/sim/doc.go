// Package sim drives the per-frame update of the particle.
//
// A [Simulator] owns the clock and the trail. Each call to [Simulator.Tick]
// reads one snapshot of the parameter store, advances the clock, evaluates
// the model and returns a [Frame]. Parameter changes arrive as messages via
// [Simulator.Dispatch]; any change discards the trail.
//
// The simulator starts [Idle] and becomes [Running] on its first tick. There
// is no paused or stopped state: frontends that pause simply stop ticking.
//
// # Scheduling
//
// The terminal and window frontends call Tick from their own frame loop.
// [Simulator.Run] is a ticker-driven loop for any other [Renderer]:
//
//	s, _ := sim.New(physics.NewProductSine(), store, sim.DefaultOptions())
//	stats, err := s.Run(ctx, renderer, time.Second/60)
package sim
