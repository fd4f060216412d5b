// Package dynamo provides the shared value types of the simulator.
//
// The package defines the vocabulary every other package speaks:
//
//   - [Vec3]: a point or direction in world space
//   - [Params]: the user-adjustable physical parameters of one particle
//   - [State]: a flat vector for the ODE form of the motion
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: numerical stepper interface, and [AdaptiveIntegrator]
//     for steppers that choose their own step size
//
// # Example
//
//	p := dynamo.DefaultParams()
//	if err := p.Set("field", 2.5); err != nil {
//	    return err
//	}
//	omega := physics.NewHelix(p).Omega()
//
// # Thread Safety
//
// Values are plain data. Nothing in this package synchronises access; the
// simulation that owns a [Params] is expected to be driven from one goroutine.
package dynamo
