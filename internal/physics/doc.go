// Package physics models a charged particle gyrating in a uniform magnetic
// field aligned with +z.
//
// Two forms of the same motion are provided:
//
//   - [Helix]: the closed-form cyclotron trajectory, evaluated directly
//     from elapsed time. This is what the renderers draw every frame.
//   - [Lorentz]: the equivalent first-order ODE system, for use with any
//     [dynamo.Integrator] when cross-checking numerical steppers.
//
// # Degenerate Motion
//
// When the cyclotron frequency is zero (zero charge, zero field or zero
// mass) or the perpendicular speed is zero, the particle drifts in a straight
// line. Any non-finite intermediate result also falls back to that drift, so
// a finite time never yields NaN geometry:
//
//	h := physics.NewHelix(params)
//	p := h.Position(t) // always finite for finite t
package physics
