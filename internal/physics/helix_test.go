package physics

import (
	"math"
	"testing"

	"github.com/san-kum/gyrosim/internal/dynamo"
)

const eps = 1e-9

func params(m, q, b, vperp, vpar float64) dynamo.Params {
	return dynamo.Params{Mass: m, Charge: q, Field: b, VPerp: vperp, VPar: vpar, TimeScale: 1}
}

var times = []float64{0, 0.1, 0.5, 1, math.Pi, 7.3, 100, 1234.5}

func TestHelixQuarterTurns(t *testing.T) {
	h := NewHelix(params(1, 1, 1, 1, 0))

	if h.Omega() != 1 || h.Gyroradius() != 1 {
		t.Fatalf("omega=%v r=%v, want 1, 1", h.Omega(), h.Gyroradius())
	}

	p := h.Position(math.Pi)
	if math.Abs(p.X) > eps || math.Abs(p.Y+2) > eps || p.Z != 0 {
		t.Errorf("Position(pi) = %v, want (0, -2, 0)", p)
	}

	p = h.Position(math.Pi / 2)
	if math.Abs(p.X-1) > eps || math.Abs(p.Y+1) > eps {
		t.Errorf("Position(pi/2) = %v, want (1, -1, 0)", p)
	}
}

func TestHelixZeroPerpendicularVelocity(t *testing.T) {
	h := NewHelix(params(2, 3, 4, 0, 1.5))

	for _, tm := range times {
		p := h.Position(tm)
		if p.X != 0 || p.Y != 0 {
			t.Errorf("t=%v: got %v, want pure axial drift", tm, p)
		}
	}
}

func TestHelixAxialMotionDecoupled(t *testing.T) {
	cases := []dynamo.Params{
		params(1, 1, 1, 1, 0.7),
		params(0.3, -2, 5, 4, -1.1),
		params(1, 0, 1, 2, 3),
		params(0, 1, 1, 2, 0.25),
		params(1e-300, 1e300, 1e300, 1, 2),
	}

	for _, p := range cases {
		h := NewHelix(p)
		for _, tm := range times {
			if got := h.Position(tm).Z; got != p.VPar*tm {
				t.Errorf("%+v t=%v: z=%v, want %v", p, tm, got, p.VPar*tm)
			}
		}
	}
}

func TestHelixDegenerateBranch(t *testing.T) {
	tests := []struct {
		name string
		p    dynamo.Params
	}{
		{"zero charge", params(1, 0, 2, 1.5, 0.5)},
		{"zero field", params(1, 2, 0, 1.5, 0.5)},
		{"zero mass", params(0, 2, 2, 1.5, 0.5)},
		{"overflowing omega", params(1e-300, 1e300, 1e300, 1.5, 0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHelix(tt.p)
			if !h.Degenerate() {
				t.Fatalf("expected degenerate motion, omega=%v", h.Omega())
			}
			for _, tm := range times {
				want := dynamo.Vec3{X: tt.p.VPerp * tm, Y: 0, Z: tt.p.VPar * tm}
				if got := h.Position(tm); got != want {
					t.Errorf("t=%v: got %v, want %v", tm, got, want)
				}
			}
		})
	}
}

func TestHelixGyroradiusInvariant(t *testing.T) {
	cases := []dynamo.Params{
		params(1, 1, 1, 1, 0),
		params(2, 0.5, 3, 4, 1),
		params(1, -1, 2, 3, 0),
		params(1, 1, 1, -2, 0),
	}

	for _, p := range cases {
		h := NewHelix(p)
		r := h.Gyroradius()
		for _, tm := range times {
			pos := h.Position(tm)
			d := math.Hypot(pos.X, pos.Y+r)
			if math.Abs(d-math.Abs(r)) > 1e-9*math.Max(1, math.Abs(r)) {
				t.Errorf("%+v t=%v: distance from center %v, want %v", p, tm, d, math.Abs(r))
			}
		}
	}
}

func TestHelixNeverNaN(t *testing.T) {
	cases := []dynamo.Params{
		params(0, 0, 0, 0, 0),
		params(0, 1, 1, 1, 1),
		params(-1, 1, 1, 1, 1),
		params(1e-320, 1, 1, 1, 1),
		params(1, math.MaxFloat64, math.MaxFloat64, 1, 1),
		params(1, 1, 1, 1, 1e308),
		params(1, 1, 1, 1, -1e308),
		params(0, 1, 1, 1e308, 1e308),
		params(1e-300, 1e-300, 1, 1e308, 1),
	}

	for _, p := range cases {
		h := NewHelix(p)
		for _, tm := range times {
			if pos := h.Position(tm); !pos.IsFinite() {
				t.Errorf("%+v t=%v: non-finite position %v", p, tm, pos)
			}
			if v := h.Velocity(tm); !v.IsFinite() {
				t.Errorf("%+v t=%v: non-finite velocity %v", p, tm, v)
			}
		}
	}
}

func TestHelixVelocityMatchesPosition(t *testing.T) {
	h := NewHelix(params(1.5, 2, 1.2, 3, 0.4))
	const dt = 1e-6

	for _, tm := range []float64{0.2, 1, 3.3} {
		a, b := h.Position(tm-dt), h.Position(tm+dt)
		fd := b.Sub(a).Scale(1 / (2 * dt))
		if diff := fd.Sub(h.Velocity(tm)).Length(); diff > 1e-5 {
			t.Errorf("t=%v: finite difference %v vs velocity %v", tm, fd, h.Velocity(tm))
		}
	}
}

func TestHelixPeriodAndPitch(t *testing.T) {
	h := NewHelix(params(1, 2, 1, 1, 3))

	if math.Abs(h.Period()-math.Pi) > eps {
		t.Errorf("period = %v, want pi", h.Period())
	}
	if math.Abs(h.Pitch()-3*math.Pi) > eps {
		t.Errorf("pitch = %v, want 3pi", h.Pitch())
	}

	start, end := h.Position(0), h.Position(h.Period())
	if math.Abs(end.X-start.X) > eps || math.Abs(end.Y-start.Y) > eps {
		t.Errorf("one period should return to the same x-y point: %v vs %v", start, end)
	}

	if !math.IsInf(NewHelix(params(1, 0, 1, 1, 1)).Period(), 1) {
		t.Error("degenerate period should be +Inf")
	}
}

func TestHelixPositionSaturates(t *testing.T) {
	h := NewHelix(params(1, 1, 1, 1, 1e308))
	pos := h.Position(10)
	if pos.Z != math.MaxFloat64 {
		t.Errorf("z = %v, want MaxFloat64", pos.Z)
	}
	want := NewHelix(params(1, 1, 1, 1, 0)).Position(10)
	if math.Abs(pos.X-want.X) > eps || math.Abs(pos.Y-want.Y) > eps {
		t.Errorf("gyration (%v, %v) changed by axial overflow, want (%v, %v)", pos.X, pos.Y, want.X, want.Y)
	}

	drift := NewHelix(params(0, 1, 1, -1e308, 0)).Position(10)
	if drift.X != -math.MaxFloat64 {
		t.Errorf("drift x = %v, want -MaxFloat64", drift.X)
	}
	if c := h.Center(10); !c.IsFinite() {
		t.Errorf("center %v not finite", c)
	}
}
