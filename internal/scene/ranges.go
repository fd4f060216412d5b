package scene

import (
	"math"

	"github.com/san-kum/gyrosim/internal/dynamo"
)

// Range bounds interactive edits of one parameter. Step is one key press.
type Range struct {
	Min, Max, Step float64
}

var Ranges = map[string]Range{
	dynamo.ParamMass:      {Min: 0.1, Max: 10, Step: 0.1},
	dynamo.ParamCharge:    {Min: -5, Max: 5, Step: 0.1},
	dynamo.ParamField:     {Min: 0, Max: 10, Step: 0.1},
	dynamo.ParamVPerp:     {Min: 0, Max: 5, Step: 0.05},
	dynamo.ParamVPar:      {Min: -2, Max: 2, Step: 0.05},
	dynamo.ParamTimeScale: {Min: 0, Max: 5, Step: 0.1},
}

// RangeOf returns the range for name, or [0, 1] in steps of 0.01 for names
// without one.
func RangeOf(name string) Range {
	if r, ok := Ranges[name]; ok {
		return r
	}
	return Range{Min: 0, Max: 1, Step: 0.01}
}

// Nudge moves v by dir steps, snapped to the step grid and clamped.
func (r Range) Nudge(v float64, dir int) float64 {
	v += float64(dir) * r.Step
	v = math.Round(v/r.Step) * r.Step
	return r.Clamp(v)
}

func (r Range) Clamp(v float64) float64 {
	return math.Max(r.Min, math.Min(r.Max, v))
}

// Fraction maps v onto [0, 1] across the range.
func (r Range) Fraction(v float64) float64 {
	return math.Max(0, math.Min(1, (v-r.Min)/(r.Max-r.Min)))
}
