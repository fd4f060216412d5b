package integrators

import (
	"github.com/san-kum/gyrosim/internal/dynamo"
)

// Gyrating is implemented by systems whose acceleration is v x W for a fixed
// rotation vector W, such as a charge in a uniform magnetic field.
type Gyrating interface {
	Gyration() dynamo.Vec3
}

// Boris is the standard particle pusher for magnetised motion. The velocity
// is rotated about W by exactly the angle 2*atan(|W|dt/2), so speed is
// conserved to rounding for any step size. Systems that do not implement
// Gyrating fall back to a kick-drift-kick leapfrog step.
type Boris struct {
	fallback Leapfrog
}

func NewBoris() *Boris {
	return &Boris{}
}

func (b *Boris) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	g, ok := dyn.(Gyrating)
	if !ok || len(x) != 6 {
		return b.fallback.Step(dyn, x, t, dt)
	}

	v := dynamo.Vec3{X: x[3], Y: x[4], Z: x[5]}
	tv := g.Gyration().Scale(0.5 * dt)
	sv := tv.Scale(2 / (1 + tv.Dot(tv)))

	vPrime := v.Add(v.Cross(tv))
	vNew := v.Add(vPrime.Cross(sv))

	p := dynamo.Vec3{X: x[0], Y: x[1], Z: x[2]}.Add(vNew.Scale(dt))
	return dynamo.State{p.X, p.Y, p.Z, vNew.X, vNew.Y, vNew.Z}
}

// Leapfrog treats the first half of the state as positions and the second
// half as their velocities.
type Leapfrog struct {
	scratch dynamo.State
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)
	half := n / 2
	if len(l.scratch) != n {
		l.scratch = make(dynamo.State, n)
	}

	kick := 0.5 * dt
	dx := dyn.Derive(x, t)
	for i := 0; i < half; i++ {
		vHalf := x[half+i] + kick*dx[half+i]
		l.scratch[half+i] = vHalf
		l.scratch[i] = x[i] + dt*vHalf
	}

	out := make(dynamo.State, n)
	dxNew := dyn.Derive(l.scratch, t+dt)
	for i := 0; i < half; i++ {
		out[i] = l.scratch[i]
		out[half+i] = l.scratch[half+i] + kick*dxNew[half+i]
	}
	return out
}
