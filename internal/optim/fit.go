package optim

import (
	"context"
	"math"

	"github.com/san-kum/gyrosim/internal/dynamo"
	"github.com/san-kum/gyrosim/internal/physics"
	"github.com/san-kum/gyrosim/internal/scene"
)

// TrajectoryCost scores parameters by the RMS distance between the closed
// form and the observed samples.
func TrajectoryCost(samples []dynamo.Sample) CostFunc {
	return func(p dynamo.Params) float64 {
		if len(samples) == 0 {
			return math.Inf(1)
		}
		h := physics.NewHelix(p)
		sum := 0.0
		for _, s := range samples {
			d := h.Position(s.Time).Sub(s.Position).Length()
			sum += d * d
		}
		return math.Sqrt(sum / float64(len(samples)))
	}
}

// FitOptions configures FitTrajectory. Bounds default to the interactive
// slider ranges.
type FitOptions struct {
	Params []string
	Points int
	Rounds int
	Lo, Hi []float64
}

// FitTrajectory recovers the named parameters from an observed trajectory,
// holding the others at base. Only the ratios charge*field/mass and vperp
// are observable, so fit a subset that pins them down.
func FitTrajectory(ctx context.Context, samples []dynamo.Sample, base dynamo.Params, opts FitOptions) (Result, error) {
	if opts.Points == 0 {
		opts.Points = 11
	}
	if opts.Rounds == 0 {
		opts.Rounds = 6
	}
	lo, hi := opts.Lo, opts.Hi
	if lo == nil || hi == nil {
		lo = make([]float64, len(opts.Params))
		hi = make([]float64, len(opts.Params))
		for i, name := range opts.Params {
			r := scene.RangeOf(name)
			lo[i], hi[i] = r.Min, r.Max
		}
	}
	return Refine(ctx, base, opts.Params, lo, hi, opts.Points, opts.Rounds, TrajectoryCost(samples))
}
