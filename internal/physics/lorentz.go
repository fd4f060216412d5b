package physics

import (
	"github.com/san-kum/gyrosim/internal/dynamo"
)

// Lorentz is the ODE form of Helix. State is {x, y, z, vx, vy, vz}.
//
// The gyration sense is fixed (clockwise seen from +z) for either sign of
// qB, matching the closed form which only uses |qB/m|.
type Lorentz struct {
	Params dynamo.Params
}

func NewLorentz(p dynamo.Params) *Lorentz { return &Lorentz{Params: p} }

func (l *Lorentz) StateDim() int { return 6 }

func (l *Lorentz) Derive(s dynamo.State, _ float64) dynamo.State {
	if len(s) < 6 {
		return make(dynamo.State, 6)
	}
	w := NewHelix(l.Params).Omega()
	vx, vy, vz := s[3], s[4], s[5]
	return dynamo.State{vx, vy, vz, w * vy, -w * vx, 0}
}

// InitialState places the particle at the origin with the same velocity the
// closed form has at t=0.
func (l *Lorentz) InitialState() dynamo.State {
	v := NewHelix(l.Params).Velocity(0)
	return dynamo.State{0, 0, 0, v.X, v.Y, v.Z}
}

// Energy is the kinetic energy, conserved by the exact motion.
func (l *Lorentz) Energy(s dynamo.State) float64 {
	if len(s) < 6 {
		return 0
	}
	return 0.5 * l.Params.Mass * (s[3]*s[3] + s[4]*s[4] + s[5]*s[5])
}

// Gyration is the vector W with dv/dt = v x W. The Boris pusher rotates the
// velocity about it exactly.
func (l *Lorentz) Gyration() dynamo.Vec3 {
	return dynamo.Vec3{Z: NewHelix(l.Params).Omega()}
}
