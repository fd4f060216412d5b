package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/gyrosim/internal/analysis"
	"github.com/san-kum/gyrosim/internal/dynamo"
	"github.com/san-kum/gyrosim/internal/metrics"
	"github.com/san-kum/gyrosim/internal/physics"
)

// ParameterSweep varies one parameter over an inclusive range.
type ParameterSweep struct {
	Base      dynamo.Params
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	// SampleRate and Samples control the closed-form signal used to measure
	// the gyration frequency. Zero values use 32 and 4096.
	SampleRate float64
	Samples    int
}

type SweepResult struct {
	ParamValue        float64
	Omega             float64
	Gyroradius        float64
	Period            float64
	Pitch             float64
	MeasuredFrequency float64
}

// RunSweep evaluates every sweep point in parallel. Results are in sweep
// order.
func RunSweep(ctx context.Context, sw *ParameterSweep, logger *zap.Logger) ([]SweepResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sw.NumSteps < 1 {
		return nil, fmt.Errorf("steps=%d: %w", sw.NumSteps, dynamo.ErrInvalidConfig)
	}
	if _, err := sw.Base.Get(sw.ParamName); err != nil {
		return nil, err
	}
	rate, n := sw.SampleRate, sw.Samples
	if rate <= 0 {
		rate = 32
	}
	if n <= 0 {
		n = 4096
	}

	step := 0.0
	if sw.NumSteps > 1 {
		step = (sw.ParamMax - sw.ParamMin) / float64(sw.NumSteps-1)
	}

	results := make([]SweepResult, sw.NumSteps)
	start := time.Now()
	dynamo.ParallelFor(sw.NumSteps, 1, func(lo, hi int) {
		xs := make([]float64, n)
		for i := lo; i < hi; i++ {
			if ctx.Err() != nil {
				return
			}
			v := sw.ParamMin + float64(i)*step
			p := sw.Base
			_ = p.Set(sw.ParamName, v)
			h := physics.NewHelix(p)

			for k := range xs {
				xs[k] = h.Position(float64(k) / rate).X
			}
			results[i] = SweepResult{
				ParamValue:        v,
				Omega:             h.Omega(),
				Gyroradius:        h.Gyroradius(),
				Period:            h.Period(),
				Pitch:             h.Pitch(),
				MeasuredFrequency: analysis.DominantFrequency(xs, rate),
			}
		}
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Info("sweep finished",
		zap.String("param", sw.ParamName),
		zap.Int("points", sw.NumSteps),
		zap.Duration("elapsed", time.Since(start)))
	return results, nil
}

// MonteCarloConfig perturbs every physical parameter by up to Perturbation
// (relative) and checks that the closed form stays finite and on its
// gyration circle.
type MonteCarloConfig struct {
	Base         dynamo.Params
	Perturbation float64
	NumTrials    int
	Duration     float64
	Samples      int
	Seed         int64
}

type MonteCarloResult struct {
	TrialID   int
	Params    dynamo.Params
	Finite    bool
	MaxRadial float64
}

func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, logger *zap.Logger) ([]MonteCarloResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.NumTrials < 1 || cfg.Duration <= 0 {
		return nil, fmt.Errorf("trials=%d duration=%g: %w", cfg.NumTrials, cfg.Duration, dynamo.ErrInvalidConfig)
	}
	samples := cfg.Samples
	if samples <= 0 {
		samples = 500
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	// Draw every trial up front so results do not depend on scheduling.
	trials := make([]dynamo.Params, cfg.NumTrials)
	for i := range trials {
		p := cfg.Base
		for _, name := range []string{dynamo.ParamMass, dynamo.ParamCharge, dynamo.ParamField, dynamo.ParamVPerp, dynamo.ParamVPar} {
			v, _ := p.Get(name)
			_ = p.Set(name, v*(1+(rng.Float64()*2-1)*cfg.Perturbation))
		}
		trials[i] = p
	}

	results := make([]MonteCarloResult, cfg.NumTrials)
	dynamo.ParallelFor(cfg.NumTrials, 4, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			if ctx.Err() != nil {
				return
			}
			p := trials[i]
			h := physics.NewHelix(p)
			radial := metrics.NewGyroradiusError(h)

			finite := true
			for k := 0; k <= samples; k++ {
				t := cfg.Duration * float64(k) / float64(samples)
				pos := h.Position(t)
				if !pos.IsFinite() {
					finite = false
					break
				}
				radial.Observe(dynamo.State{pos.X, pos.Y, pos.Z}, t)
			}
			results[i] = MonteCarloResult{
				TrialID:   i,
				Params:    p,
				Finite:    finite,
				MaxRadial: radial.Value(),
			}
		}
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stable, _ := MonteCarloStats(results, 1e-9)
	logger.Info("monte carlo finished",
		zap.Int("trials", cfg.NumTrials),
		zap.Int("on_circle", stable),
		zap.Int64("seed", seed))
	return results, nil
}

// MonteCarloStats counts trials that stayed finite with a radial residual
// below tol relative to the gyroradius.
func MonteCarloStats(results []MonteCarloResult, tol float64) (good int, bad int) {
	for _, r := range results {
		scale := math.Max(1, math.Abs(physics.NewHelix(r.Params).Gyroradius()))
		if r.Finite && r.MaxRadial <= tol*scale {
			good++
		} else {
			bad++
		}
	}
	return
}
