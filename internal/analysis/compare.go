package analysis

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/gyrosim/internal/dynamo"
	"github.com/san-kum/gyrosim/internal/integrators"
	"github.com/san-kum/gyrosim/internal/metrics"
	"github.com/san-kum/gyrosim/internal/physics"
)

// Comparison scores one integrator on the Lorentz ODE against the closed
// form.
type Comparison struct {
	Integrator  string
	Adaptive    bool
	Steps       int
	MaxError    float64
	FinalError  float64
	EnergyDrift float64
	Elapsed     time.Duration
	Err         error
}

// CompareIntegrators runs each named integrator for duration with step dt.
// Adaptive integrators start at dt and pick their own steps after that.
// An unknown name is returned as an error; a diverging run is reported in
// its Comparison.
func CompareIntegrators(p dynamo.Params, names []string, dt, duration float64) ([]Comparison, error) {
	if dt <= 0 || duration <= 0 {
		return nil, fmt.Errorf("compare dt=%g duration=%g: %w", dt, duration, dynamo.ErrInvalidConfig)
	}
	if len(names) == 0 {
		names = integrators.Names()
	}

	h := physics.NewHelix(p)
	steps := int(math.Round(duration / dt))
	out := make([]Comparison, 0, len(names))

	for _, name := range names {
		integ, err := integrators.Get(name)
		if err != nil {
			return nil, err
		}

		sys := physics.NewLorentz(p)
		path := metrics.NewPathError(h)
		energy := metrics.NewEnergyDrift(sys)

		c := Comparison{Integrator: name, Steps: steps}
		start := time.Now()
		x := sys.InitialState()
		path.Observe(x, 0)
		energy.Observe(x, 0)
		end := float64(steps) * dt
		if adaptive, ok := integ.(dynamo.AdaptiveIntegrator); ok {
			c.Adaptive = true
			x, end, c.Steps, c.Err = runAdaptive(adaptive, sys, x, dt, end, func(x dynamo.State, t float64) {
				path.Observe(x, t)
				energy.Observe(x, t)
			})
		} else {
			for i := 0; i < steps; i++ {
				t := float64(i) * dt
				next := integ.Step(sys, x, t, dt)
				if !next.IsValid() {
					c.Err = &dynamo.StepError{Step: i, Time: t, State: x, Wrapped: dynamo.ErrInvalidState}
					break
				}
				x = next
				path.Observe(x, t+dt)
				energy.Observe(x, t+dt)
			}
		}
		c.Elapsed = time.Since(start)

		c.MaxError = path.Value()
		c.FinalError = x.Position().Sub(h.Position(end)).Length()
		c.EnergyDrift = energy.Value()
		out = append(out, c)
	}
	return out, nil
}

// maxAdaptiveSteps bounds runAdaptive when the step size collapses.
const maxAdaptiveSteps = 1_000_000

// runAdaptive steps from t=0 to end, never overshooting end. It returns the
// last state, the time reached and the number of steps taken.
func runAdaptive(integ dynamo.AdaptiveIntegrator, sys dynamo.System, x dynamo.State, dt, end float64, observe func(dynamo.State, float64)) (dynamo.State, float64, int, error) {
	t := 0.0
	n := 0
	for t < end && n < maxAdaptiveSteps {
		h := math.Min(dt, end-t)
		next, suggested, err := integ.StepAdaptive(sys, x, t, h, 0)
		if err != nil {
			var se *dynamo.StepError
			if errors.As(err, &se) {
				se.Step = n
			}
			return x, t, n, err
		}
		x = next
		t += h
		n++
		observe(x, t)
		dt = suggested
	}
	return x, t, n, nil
}
