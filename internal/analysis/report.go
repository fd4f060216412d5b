package analysis

import (
	"math"

	"github.com/san-kum/gyrosim/internal/dynamo"
	"github.com/san-kum/gyrosim/internal/physics"
)

// Report compares what a sampled run shows with what the closed form
// predicts for its parameters.
type Report struct {
	Samples int

	ExpectedFrequency float64
	MeasuredFrequency float64
	ExpectedPeriod    float64
	CrossingPeriod    float64

	ExpectedRadius float64
	Fit            Circle
	FitErr         error

	ExpectedVPar float64
	MeasuredVPar float64
}

// Analyze builds a Report for samples taken at a uniform rate.
func Analyze(samples []dynamo.Sample, p dynamo.Params, sampleRate float64) (Report, error) {
	if len(samples) == 0 {
		return Report{}, dynamo.ErrEmptyRun
	}

	h := physics.NewHelix(p)
	r := Report{
		Samples:           len(samples),
		ExpectedFrequency: h.Omega() / (2 * math.Pi),
		ExpectedPeriod:    h.Period(),
		ExpectedRadius:    math.Abs(h.Gyroradius()),
		ExpectedVPar:      p.VPar,
	}

	xs := Component(samples, AxisX)
	r.MeasuredFrequency = DominantFrequency(xs, sampleRate)

	times := make([]float64, len(samples))
	for i, s := range samples {
		times[i] = s.Time
	}
	r.CrossingPeriod = MeanInterval(Crossings(times, xs, 0))

	r.Fit, r.FitErr = FitCircle(Project(samples, PlaneXY))

	first, last := samples[0], samples[len(samples)-1]
	if span := last.Time - first.Time; span > 0 {
		r.MeasuredVPar = (last.Position.Z - first.Position.Z) / span
	}
	return r, nil
}
