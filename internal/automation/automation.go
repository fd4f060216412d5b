package automation

import (
	"context"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gyrosim/internal/config"
	"github.com/san-kum/gyrosim/internal/dynamo"
	"github.com/san-kum/gyrosim/internal/scene"
)

// Scenario is a scripted headless session: a starting configuration and a
// list of timed edits, replayed at a fixed frame rate.
type Scenario struct {
	Name          string             `yaml:"name"`
	Description   string             `yaml:"description"`
	Preset        string             `yaml:"preset"`
	Params        map[string]float64 `yaml:"params"`
	Follow        bool               `yaml:"follow"`
	FPS           int                `yaml:"fps"`
	Duration      float64            `yaml:"duration"`
	TrailCapacity int                `yaml:"trail_capacity"`
	Events        []Event            `yaml:"events"`
}

// Event fires once wall-clock playback time reaches At seconds. Set is
// applied in name order, then Follow, then Reset.
type Event struct {
	At     float64            `yaml:"at"`
	Set    map[string]float64 `yaml:"set"`
	Follow *bool              `yaml:"follow"`
	Reset  bool               `yaml:"reset"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &sc, nil
}

// Validate fills defaults and checks names and ranges.
func (sc *Scenario) Validate() error {
	if sc.FPS == 0 {
		sc.FPS = config.DefaultFPS
	}
	if sc.FPS < 1 || sc.FPS > 240 {
		return fmt.Errorf("fps=%d: %w", sc.FPS, dynamo.ErrInvalidConfig)
	}
	if sc.Duration <= 0 {
		return fmt.Errorf("duration=%g: %w", sc.Duration, dynamo.ErrInvalidConfig)
	}
	if sc.Preset != "" && config.GetPreset(sc.Preset) == nil {
		return fmt.Errorf("preset %q: %w", sc.Preset, dynamo.ErrInvalidConfig)
	}

	var p dynamo.Params
	for name, v := range sc.Params {
		if err := p.Set(name, v); err != nil {
			return fmt.Errorf("params: %w", err)
		}
	}
	for i, ev := range sc.Events {
		if ev.At < 0 {
			return fmt.Errorf("event %d at=%g: %w", i, ev.At, dynamo.ErrInvalidConfig)
		}
		for name, v := range ev.Set {
			if err := p.Set(name, v); err != nil {
				return fmt.Errorf("event %d: %w", i, err)
			}
		}
	}

	sort.SliceStable(sc.Events, func(i, j int) bool { return sc.Events[i].At < sc.Events[j].At })
	return nil
}

// InitialParams resolves the preset and parameter overrides.
func (sc *Scenario) InitialParams() dynamo.Params {
	p := dynamo.DefaultParams()
	if pr := config.GetPreset(sc.Preset); pr != nil {
		p = pr.Params
	}
	for name, v := range sc.Params {
		_ = p.Set(name, v)
	}
	if sc.Follow {
		p.Follow = true
	}
	return p
}

// Frames is the number of ticks the scenario plays.
func (sc *Scenario) Frames() int {
	return int(sc.Duration*float64(sc.FPS) + 0.5)
}

type ScenarioResult struct {
	Samples []dynamo.Sample
	Final   dynamo.Params
	Fired   int
	Resets  int
}

// RunScenario replays sc through a fresh simulation. Cancelling ctx stops
// playback and returns what was recorded so far along with ctx.Err().
func RunScenario(ctx context.Context, sc *Scenario, opts scene.Options, logger *zap.Logger) (*ScenarioResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sc.TrailCapacity > 0 {
		opts.TrailCapacity = sc.TrailCapacity
	}

	sim := scene.New(sc.InitialParams(), opts)
	frames := sc.Frames()
	elapsed := 1.0 / float64(sc.FPS)

	res := &ScenarioResult{Samples: make([]dynamo.Sample, 0, frames+1)}
	res.Samples = append(res.Samples, dynamo.Sample{Time: sim.Time(), Position: sim.Position()})

	logger.Info("scenario started",
		zap.String("name", sc.Name),
		zap.Int("frames", frames),
		zap.Int("events", len(sc.Events)))

	next := 0
	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			res.Final = sim.Params()
			return res, err
		}

		wall := float64(i) * elapsed
		for next < len(sc.Events) && sc.Events[next].At <= wall+1e-9 {
			reset, err := applyEvent(sim, sc.Events[next])
			if err != nil {
				res.Final = sim.Params()
				return res, fmt.Errorf("event %d: %w", next, err)
			}
			if reset {
				res.Resets++
			}
			res.Fired++
			logger.Debug("scenario event",
				zap.Int("index", next),
				zap.Float64("at", sc.Events[next].At),
				zap.Bool("reset", reset))
			next++
		}

		f := sim.Tick(elapsed)
		res.Samples = append(res.Samples, dynamo.Sample{Time: f.Time, Position: f.Particle})
	}

	res.Final = sim.Params()
	logger.Info("scenario finished",
		zap.String("name", sc.Name),
		zap.Int("fired", res.Fired),
		zap.Int("resets", res.Resets))
	return res, nil
}

func applyEvent(sim *scene.Simulation, ev Event) (bool, error) {
	names := make([]string, 0, len(ev.Set))
	for name := range ev.Set {
		names = append(names, name)
	}
	sort.Strings(names)

	didReset := false
	for _, name := range names {
		reset, err := sim.Apply(scene.Change{Name: name, Value: ev.Set[name]})
		if err != nil {
			return didReset, err
		}
		didReset = didReset || reset
	}
	if ev.Follow != nil {
		sim.SetFollow(*ev.Follow)
	}
	if ev.Reset {
		sim.Reset()
		didReset = true
	}
	return didReset, nil
}
