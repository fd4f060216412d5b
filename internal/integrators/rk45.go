package integrators

import (
	"math"

	"github.com/san-kum/gyrosim/internal/dynamo"
)

// Dormand-Prince 5(4) tableau with the embedded fourth-order error estimate.
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

// RK45 is the Dormand-Prince embedded pair. Step uses a fixed step and
// discards the error estimate; StepAdaptive also proposes the next step size.
type RK45 struct {
	Tolerance float64

	safety   float64
	minScale float64
	maxScale float64
}

func NewRK45() *RK45 {
	return &RK45{
		Tolerance: 1e-6,
		safety:    0.9,
		minScale:  0.2,
		maxScale:  10.0,
	}
}

func (r *RK45) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	next, _, err := r.StepAdaptive(dyn, x, t, dt, r.Tolerance)
	if err != nil {
		return x.Clone()
	}
	return next
}

func combine(x dynamo.State, dt float64, ks []dynamo.State, ws []float64) dynamo.State {
	out := make(dynamo.State, len(x))
	for i := range x {
		acc := 0.0
		for j, k := range ks {
			acc += ws[j] * k[i]
		}
		out[i] = x[i] + dt*acc
	}
	return out
}

// StepAdaptive advances one step of size dt and returns the suggested size
// for the next one. A non-finite result is reported as a *dynamo.StepError
// wrapping dynamo.ErrInvalidState.
func (r *RK45) StepAdaptive(dyn dynamo.System, x dynamo.State, t, dt, tol float64) (dynamo.State, float64, error) {
	if tol <= 0 {
		tol = r.Tolerance
	}

	k1 := dyn.Derive(x, t)
	k2 := dyn.Derive(combine(x, dt, []dynamo.State{k1}, []float64{b21}), t+a2*dt)
	k3 := dyn.Derive(combine(x, dt, []dynamo.State{k1, k2}, []float64{b31, b32}), t+a3*dt)
	k4 := dyn.Derive(combine(x, dt, []dynamo.State{k1, k2, k3}, []float64{b41, b42, b43}), t+a4*dt)
	k5 := dyn.Derive(combine(x, dt, []dynamo.State{k1, k2, k3, k4}, []float64{b51, b52, b53, b54}), t+a5*dt)
	k6 := dyn.Derive(combine(x, dt, []dynamo.State{k1, k2, k3, k4, k5}, []float64{b61, b62, b63, b64, b65}), t+dt)

	xNew := combine(x, dt, []dynamo.State{k1, k3, k4, k5, k6}, []float64{c1, c3, c4, c5, c6})
	if !xNew.IsValid() {
		return nil, dt, &dynamo.StepError{Time: t, State: x.Clone(), Wrapped: dynamo.ErrInvalidState}
	}
	k7 := dyn.Derive(xNew, t+dt)

	errMax := 0.0
	for i := range x {
		est := dt * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i])
		scale := math.Abs(x[i]) + math.Abs(dt*k1[i]) + 1e-10
		errMax = math.Max(errMax, math.Abs(est)/scale)
	}

	ratio := errMax / tol
	var factor float64
	switch {
	case ratio > 1:
		factor = math.Max(r.minScale, r.safety*math.Pow(ratio, -0.25))
	case ratio > 0:
		factor = math.Min(r.maxScale, r.safety*math.Pow(ratio, -0.2))
	default:
		factor = r.maxScale
	}
	return xNew, dt * factor, nil
}
