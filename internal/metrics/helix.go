package metrics

import (
	"math"

	"github.com/san-kum/gyrosim/internal/dynamo"
	"github.com/san-kum/gyrosim/internal/physics"
)

// PathError is the largest distance between an observed position and the
// closed-form position at the same time.
type PathError struct {
	model physics.Helix
	max   float64
}

func NewPathError(h physics.Helix) *PathError {
	return &PathError{model: h}
}

func (p *PathError) Name() string { return "path_error" }

func (p *PathError) Observe(x dynamo.State, t float64) {
	d := x.Position().Sub(p.model.Position(t)).Length()
	p.max = math.Max(p.max, d)
}

func (p *PathError) Value() float64 { return p.max }

func (p *PathError) Reset() { p.max = 0 }

// GyroradiusError is the largest deviation of the in-plane distance from the
// guiding center away from |r|.
type GyroradiusError struct {
	model physics.Helix
	max   float64
}

func NewGyroradiusError(h physics.Helix) *GyroradiusError {
	return &GyroradiusError{model: h}
}

func (g *GyroradiusError) Name() string { return "gyroradius_error" }

func (g *GyroradiusError) Observe(x dynamo.State, t float64) {
	if g.model.Degenerate() {
		return
	}
	c := g.model.Center(t)
	p := x.Position()
	d := math.Hypot(p.X-c.X, p.Y-c.Y)
	g.max = math.Max(g.max, math.Abs(d-math.Abs(g.model.Gyroradius())))
}

func (g *GyroradiusError) Value() float64 { return g.max }

func (g *GyroradiusError) Reset() { g.max = 0 }

// AxialError is the largest deviation of z from vPar*t.
type AxialError struct {
	vpar float64
	max  float64
}

func NewAxialError(h physics.Helix) *AxialError {
	return &AxialError{vpar: h.VPar}
}

func (a *AxialError) Name() string { return "axial_error" }

func (a *AxialError) Observe(x dynamo.State, t float64) {
	a.max = math.Max(a.max, math.Abs(x.Position().Z-a.vpar*t))
}

func (a *AxialError) Value() float64 { return a.max }

func (a *AxialError) Reset() { a.max = 0 }

// Turns counts completed gyrations by unwrapping the angle swept around the
// guiding center between consecutive samples. Samples must be closer than
// half a turn apart.
type Turns struct {
	model  physics.Helix
	angle  float64
	last   float64
	seeded bool
}

func NewTurns(h physics.Helix) *Turns {
	return &Turns{model: h}
}

func (tr *Turns) Name() string { return "turns" }

func (tr *Turns) Observe(x dynamo.State, t float64) {
	if tr.model.Degenerate() {
		return
	}
	c := tr.model.Center(t)
	p := x.Position()
	a := math.Atan2(p.Y-c.Y, p.X-c.X)
	if !tr.seeded {
		tr.last, tr.seeded = a, true
		return
	}
	d := a - tr.last
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d < -math.Pi {
		d += 2 * math.Pi
	}
	tr.angle += d
	tr.last = a
}

func (tr *Turns) Value() float64 { return math.Abs(tr.angle) / (2 * math.Pi) }

func (tr *Turns) Reset() {
	tr.angle, tr.last, tr.seeded = 0, 0, false
}
