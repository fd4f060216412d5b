package integrators

import (
	"github.com/san-kum/gyrosim/internal/dynamo"
)

// Trajectory integrates steps fixed-size steps from x0 and records the
// position after each one, starting with x0 itself. Integration stops at the
// first non-finite state and returns the samples gathered so far together
// with a *dynamo.StepError.
func Trajectory(integ dynamo.Integrator, dyn dynamo.System, x0 dynamo.State, dt float64, steps int) ([]dynamo.Sample, dynamo.State, error) {
	if dt <= 0 || steps < 0 || len(x0) != dyn.StateDim() {
		return nil, x0, dynamo.ErrInvalidConfig
	}

	samples := make([]dynamo.Sample, 0, steps+1)
	x := x0.Clone()
	t := 0.0
	samples = append(samples, dynamo.Sample{Time: t, Position: x.Position()})

	for i := 0; i < steps; i++ {
		next := integ.Step(dyn, x, t, dt)
		if !next.IsValid() {
			return samples, x, &dynamo.StepError{Step: i, Time: t, State: x, Wrapped: dynamo.ErrInvalidState}
		}
		x = next
		t = float64(i+1) * dt
		samples = append(samples, dynamo.Sample{Time: t, Position: x.Position()})
	}
	return samples, x, nil
}
