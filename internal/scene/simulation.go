package scene

import (
	"fmt"
	"math"

	"github.com/san-kum/gyrosim/internal/dynamo"
	"github.com/san-kum/gyrosim/internal/physics"
	"github.com/san-kum/gyrosim/internal/trail"
)

// Frame is the per-tick snapshot handed to renderers. Trail is a copy and
// may be retained. Camera is nil when follow is off.
type Frame struct {
	Time     float64
	Particle dynamo.Vec3
	Trail    []dynamo.Vec3
	Camera   *CameraPose
	Params   dynamo.Params
}

type Options struct {
	TrailCapacity int
	Follow        FollowRig
	Policy        Policy
}

type Simulation struct {
	params dynamo.Params
	model  physics.Helix
	time   float64
	trail  *trail.Buffer
	rig    FollowRig
	policy Policy
}

func New(params dynamo.Params, opts Options) *Simulation {
	if opts.Follow == (FollowRig{}) {
		opts.Follow = DefaultFollowRig()
	}
	if opts.Policy == nil {
		opts.Policy = DefaultPolicy()
	}
	return &Simulation{
		params: params,
		model:  physics.NewHelix(params),
		trail:  trail.New(opts.TrailCapacity),
		rig:    opts.Follow,
		policy: opts.Policy,
	}
}

// Tick advances the clock by elapsed wall-clock seconds scaled by the time
// scale, records the new position in the trail and returns the frame.
// Negative elapsed time or a negative time scale leave the clock where it is.
func (s *Simulation) Tick(elapsed float64) Frame {
	if dt := s.params.TimeScale * elapsed; dt > 0 && !math.IsInf(dt, 0) {
		s.time = math.Min(s.time+dt, math.MaxFloat64)
	}
	s.trail.Append(s.Position())
	return s.Frame()
}

// Frame builds a snapshot of the current state without advancing time.
func (s *Simulation) Frame() Frame {
	p := s.Position()
	f := Frame{
		Time:     s.time,
		Particle: p,
		Trail:    s.trail.Points(),
		Params:   s.params,
	}
	if s.params.Follow {
		pose := s.rig.Pose(p)
		f.Camera = &pose
	}
	return f
}

// Record ticks frames times with a fixed elapsed step and returns the
// sampled positions, starting from the current state.
func (s *Simulation) Record(frames int, elapsed float64) []dynamo.Sample {
	samples := make([]dynamo.Sample, 0, frames+1)
	samples = append(samples, dynamo.Sample{Time: s.time, Position: s.Position()})
	for i := 0; i < frames; i++ {
		f := s.Tick(elapsed)
		samples = append(samples, dynamo.Sample{Time: f.Time, Position: f.Particle})
	}
	return samples
}

func (s *Simulation) Reset() {
	s.time = 0
	s.trail.Clear()
}

// Apply sets one named parameter. It reports whether the change restarted
// the trajectory. Unknown names and non-finite values leave the simulation
// untouched.
func (s *Simulation) Apply(c Change) (bool, error) {
	if math.IsNaN(c.Value) || math.IsInf(c.Value, 0) {
		return false, fmt.Errorf("set %s: %w", c, dynamo.ErrInvalidConfig)
	}
	if c.Name == NameFollow {
		s.SetFollow(c.Value != 0)
		return false, nil
	}

	next := s.params
	if err := next.Set(c.Name, c.Value); err != nil {
		return false, fmt.Errorf("set %s: %w", c.Name, err)
	}
	s.SetParams(next)
	if s.policy.Resets(c.Name) {
		s.Reset()
		return true, nil
	}
	return false, nil
}

func (s *Simulation) SetFollow(on bool) {
	s.params.Follow = on
}

// ToggleFollow flips follow and returns the frame under the new setting.
func (s *Simulation) ToggleFollow() Frame {
	s.SetFollow(!s.params.Follow)
	return s.Frame()
}

// SetParams replaces every parameter without touching the clock.
func (s *Simulation) SetParams(p dynamo.Params) {
	s.params = p
	s.model = physics.NewHelix(p)
}

func (s *Simulation) Position() dynamo.Vec3 { return s.model.Position(s.time) }

func (s *Simulation) Time() float64 { return s.time }

func (s *Simulation) Params() dynamo.Params { return s.params }

func (s *Simulation) Model() physics.Helix { return s.model }

func (s *Simulation) Trail() *trail.Buffer { return s.trail }

func (s *Simulation) Rig() FollowRig { return s.rig }

func (s *Simulation) Policy() Policy { return s.policy }
