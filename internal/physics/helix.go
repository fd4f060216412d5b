package physics

import (
	"math"

	"github.com/san-kum/gyrosim/internal/dynamo"
)

// Helix evaluates the analytic trajectory of a particle that starts at the
// origin moving along +x with speed VPerp and along +z with speed VPar.
type Helix struct {
	dynamo.Params
}

func NewHelix(p dynamo.Params) Helix { return Helix{Params: p} }

// Omega is the angular cyclotron frequency |qB/m|. A zero mass yields zero
// so that the motion is treated as linear drift.
func (h Helix) Omega() float64 {
	if h.Mass == 0 {
		return 0
	}
	w := math.Abs(h.Charge * h.Field / h.Mass)
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return 0
	}
	return w
}

// Degenerate reports whether the particle moves on a straight line.
func (h Helix) Degenerate() bool {
	return h.Omega() == 0 || h.VPerp == 0
}

// Gyroradius is VPerp/omega, or zero for degenerate motion. It carries the
// sign of VPerp.
func (h Helix) Gyroradius() float64 {
	if h.Degenerate() {
		return 0
	}
	r := h.VPerp / h.Omega()
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// Period is the time for one full gyration; +Inf when there is none.
func (h Helix) Period() float64 {
	w := h.Omega()
	if w == 0 {
		return math.Inf(1)
	}
	return 2 * math.Pi / w
}

// Pitch is the axial distance covered during one gyration.
func (h Helix) Pitch() float64 {
	if h.Degenerate() {
		return math.Inf(1)
	}
	return h.VPar * h.Period()
}

// Center is the guiding-center position at time t.
func (h Helix) Center(t float64) dynamo.Vec3 {
	return clampVec(dynamo.Vec3{X: 0, Y: -h.Gyroradius(), Z: h.VPar * t})
}

// Position returns the particle position at time t. Components that
// overflow saturate at the largest finite float of the same sign.
func (h Helix) Position(t float64) dynamo.Vec3 {
	if h.Degenerate() {
		return clampVec(h.drift(t))
	}
	w := h.Omega()
	r := h.VPerp / w
	s, c := math.Sincos(w * t)
	p := dynamo.Vec3{X: r * s, Y: -r * (1 - c), Z: h.VPar * t}
	if !(dynamo.Vec3{X: p.X, Y: p.Y}).IsFinite() {
		p = h.drift(t)
	}
	return clampVec(p)
}

// Velocity returns the time derivative of Position.
func (h Helix) Velocity(t float64) dynamo.Vec3 {
	if h.Degenerate() {
		return dynamo.Vec3{X: h.VPerp, Z: h.VPar}
	}
	s, c := math.Sincos(h.Omega() * t)
	v := dynamo.Vec3{X: h.VPerp * c, Y: -h.VPerp * s, Z: h.VPar}
	if !v.IsFinite() {
		return dynamo.Vec3{X: h.VPerp, Z: h.VPar}
	}
	return v
}

func (h Helix) drift(t float64) dynamo.Vec3 {
	return dynamo.Vec3{X: h.VPerp * t, Y: 0, Z: h.VPar * t}
}

func clampVec(v dynamo.Vec3) dynamo.Vec3 {
	return dynamo.Vec3{X: clamp(v.X), Y: clamp(v.Y), Z: clamp(v.Z)}
}

func clamp(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Max(-math.MaxFloat64, math.Min(math.MaxFloat64, x))
}
