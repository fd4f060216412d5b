package metrics

import (
	"github.com/san-kum/gyrosim/internal/dynamo"
	"github.com/san-kum/gyrosim/internal/physics"
)

// Metric accumulates a score over a sampled trajectory. x holds at least the
// position; ODE runs pass the full {x, y, z, vx, vy, vz} state.
type Metric interface {
	Name() string
	Observe(x dynamo.State, t float64)
	Value() float64
	Reset()
}

// Standard returns the metrics recorded for every saved run.
func Standard(h physics.Helix) []Metric {
	return []Metric{
		NewPathError(h),
		NewGyroradiusError(h),
		NewAxialError(h),
		NewTurns(h),
	}
}

// Collect feeds every sample to every metric and returns their values by
// name. The metrics are reset first.
func Collect(ms []Metric, samples []dynamo.Sample) map[string]float64 {
	for _, m := range ms {
		m.Reset()
	}
	for _, s := range samples {
		x := dynamo.State{s.Position.X, s.Position.Y, s.Position.Z}
		for _, m := range ms {
			m.Observe(x, s.Time)
		}
	}
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
