package scene_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gyrosim/internal/dynamo"
	"github.com/san-kum/gyrosim/internal/scene"
)

var _ = Describe("FollowRig", func() {
	It("sits behind and above the particle", func() {
		rig := scene.DefaultFollowRig()
		pose := rig.Pose(dynamo.Vec3{X: 5})

		Expect(pose.Position.X).To(BeNumerically("~", -5, 1e-12))
		Expect(pose.Position.Y).To(BeNumerically("~", 3.6397, 1e-4))
		Expect(pose.Position.Z).To(BeZero())
		Expect(pose.Target).To(Equal(dynamo.Vec3{X: 5}))
	})

	It("keeps a constant offset", func() {
		rig := scene.NewFollowRig(4, 45)
		a := rig.Pose(dynamo.Vec3{X: 1, Y: 2, Z: 3})
		b := rig.Pose(dynamo.Vec3{X: -7, Y: 0.5, Z: 9})

		Expect(a.Position.Sub(a.Target).Sub(rig.Offset()).Length()).To(BeNumerically("<", 1e-12))
		Expect(b.Position.Sub(b.Target).Sub(rig.Offset()).Length()).To(BeNumerically("<", 1e-12))
		Expect(rig.Offset().Y).To(BeNumerically("~", 4, 1e-12))
	})
})

var _ = Describe("Policy", func() {
	It("resets on physical parameters only", func() {
		p := scene.DefaultPolicy()
		for _, name := range []string{"mass", "charge", "field", "vperp", "vpar"} {
			Expect(p.Resets(name)).To(BeTrue(), name)
		}
		Expect(p.Resets("timescale")).To(BeFalse())
		Expect(p.Resets(scene.NameFollow)).To(BeFalse())
	})

	It("applies overrides without touching the original", func() {
		base := scene.DefaultPolicy()
		p, err := base.With(map[string]bool{"mass": false, "timescale": true})
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Resets("mass")).To(BeFalse())
		Expect(p.Resets("timescale")).To(BeTrue())
		Expect(base.Resets("mass")).To(BeTrue())
	})

	It("rejects unknown names", func() {
		_, err := scene.DefaultPolicy().With(map[string]bool{"spin": true})
		Expect(err).To(MatchError(dynamo.ErrUnknownParam))
	})
})

var _ = Describe("Simulation", func() {
	var sim *scene.Simulation

	BeforeEach(func() {
		sim = scene.New(dynamo.DefaultParams(), scene.Options{})
	})

	Describe("Tick", func() {
		It("advances time by timescale times elapsed", func() {
			p := dynamo.DefaultParams()
			p.TimeScale = 2.5
			sim.SetParams(p)

			f := sim.Tick(0.1)
			Expect(f.Time).To(BeNumerically("~", 0.25, 1e-15))
			Expect(sim.Time()).To(Equal(f.Time))
		})

		It("never moves time backwards", func() {
			sim.Tick(1)
			sim.Tick(-0.5)
			Expect(sim.Time()).To(Equal(1.0))

			p := sim.Params()
			p.TimeScale = -3
			sim.SetParams(p)
			sim.Tick(1)
			Expect(sim.Time()).To(Equal(1.0))
		})

		It("saturates time and position instead of overflowing", func() {
			p := dynamo.DefaultParams()
			p.TimeScale = 1e308
			p.VPar = 1e308
			sim.SetParams(p)

			for i := 0; i < 8; i++ {
				f := sim.Tick(1)
				Expect(math.IsInf(f.Time, 0)).To(BeFalse())
				Expect(f.Particle.IsFinite()).To(BeTrue())
				for _, pt := range f.Trail {
					Expect(pt.IsFinite()).To(BeTrue())
				}
			}
			Expect(sim.Time()).To(Equal(math.MaxFloat64))
		})

		It("still records the trail while paused", func() {
			_, err := sim.Apply(scene.Change{Name: "timescale", Value: 0})
			Expect(err).NotTo(HaveOccurred())
			sim.Tick(1)
			sim.Tick(1)
			Expect(sim.Time()).To(BeZero())
			Expect(sim.Trail().Len()).To(Equal(2))
		})

		It("places the particle on the closed-form helix", func() {
			p := dynamo.DefaultParams()
			p.VPar = 0
			sim.SetParams(p)

			f := sim.Tick(math.Pi)
			Expect(f.Particle.X).To(BeNumerically("~", 0, 1e-12))
			Expect(f.Particle.Y).To(BeNumerically("~", -2, 1e-12))
			Expect(f.Particle.Z).To(BeZero())
			Expect(f.Trail).To(HaveLen(1))
			Expect(f.Trail[0]).To(Equal(f.Particle))
		})

		It("caps the trail at its capacity", func() {
			small := scene.New(dynamo.DefaultParams(), scene.Options{TrailCapacity: 50})
			for i := 0; i < 120; i++ {
				small.Tick(0.01)
			}
			f := small.Frame()
			Expect(f.Trail).To(HaveLen(50))
			Expect(f.Trail[49]).To(Equal(f.Particle))
		})

		It("uses the default capacity of 1000", func() {
			Expect(sim.Trail().Cap()).To(Equal(1000))
		})
	})

	Describe("follow", func() {
		It("omits the camera when off", func() {
			Expect(sim.Tick(0.1).Camera).To(BeNil())
		})

		It("returns a frame without the stale pose when toggled off", func() {
			sim.SetFollow(true)
			Expect(sim.Tick(0.1).Camera).NotTo(BeNil())

			off := sim.ToggleFollow()
			Expect(off.Camera).To(BeNil())
			Expect(sim.Params().Follow).To(BeFalse())
			Expect(off.Time).To(Equal(sim.Time()))

			on := sim.ToggleFollow()
			Expect(on.Camera).NotTo(BeNil())
			Expect(on.Camera.Target).To(Equal(on.Particle))
		})

		It("adds a pose aimed at the particle when on", func() {
			sim.SetFollow(true)
			f := sim.Tick(0.1)
			Expect(f.Camera).NotTo(BeNil())
			Expect(f.Camera.Target).To(Equal(f.Particle))
			Expect(f.Camera.Position).To(Equal(f.Particle.Add(sim.Rig().Offset())))
		})

		It("toggles through Apply without resetting", func() {
			sim.Tick(1)
			reset, err := sim.Apply(scene.Change{Name: scene.NameFollow, Value: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(reset).To(BeFalse())
			Expect(sim.Params().Follow).To(BeTrue())
			Expect(sim.Time()).To(Equal(1.0))
		})
	})

	Describe("Reset", func() {
		It("zeroes time and clears the trail", func() {
			for i := 0; i < 10; i++ {
				sim.Tick(0.1)
			}
			sim.Reset()
			Expect(sim.Time()).To(BeZero())
			Expect(sim.Trail().Len()).To(BeZero())
			Expect(sim.Position()).To(Equal(dynamo.Vec3{}))
		})
	})

	Describe("Apply", func() {
		BeforeEach(func() {
			for i := 0; i < 5; i++ {
				sim.Tick(0.2)
			}
		})

		It("resets when the mass changes", func() {
			reset, err := sim.Apply(scene.Change{Name: "mass", Value: 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(reset).To(BeTrue())
			Expect(sim.Params().Mass).To(Equal(2.0))
			Expect(sim.Time()).To(BeZero())
			Expect(sim.Trail().Len()).To(BeZero())
		})

		It("keeps time and trail when the timescale changes", func() {
			before := sim.Time()
			reset, err := sim.Apply(scene.Change{Name: "timescale", Value: 4})
			Expect(err).NotTo(HaveOccurred())
			Expect(reset).To(BeFalse())
			Expect(sim.Time()).To(Equal(before))
			Expect(sim.Trail().Len()).To(Equal(5))
			Expect(sim.Params().TimeScale).To(Equal(4.0))
		})

		It("rejects unknown names and leaves state alone", func() {
			before := sim.Params()
			_, err := sim.Apply(scene.Change{Name: "spin", Value: 1})
			Expect(err).To(MatchError(dynamo.ErrUnknownParam))
			Expect(sim.Params()).To(Equal(before))
			Expect(sim.Trail().Len()).To(Equal(5))
		})

		It("rejects non-finite values", func() {
			_, err := sim.Apply(scene.Change{Name: "field", Value: math.NaN()})
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
			Expect(sim.Params().Field).To(Equal(1.0))
		})

		It("honours an overridden policy", func() {
			p, err := scene.DefaultPolicy().With(map[string]bool{"mass": false})
			Expect(err).NotTo(HaveOccurred())
			custom := scene.New(dynamo.DefaultParams(), scene.Options{Policy: p})
			custom.Tick(1)

			reset, err := custom.Apply(scene.Change{Name: "mass", Value: 3})
			Expect(err).NotTo(HaveOccurred())
			Expect(reset).To(BeFalse())
			Expect(custom.Time()).To(Equal(1.0))
		})
	})

	Describe("Record", func() {
		It("returns the initial sample plus one per frame", func() {
			fresh := scene.New(dynamo.DefaultParams(), scene.Options{})
			samples := fresh.Record(30, 0.1)
			Expect(samples).To(HaveLen(31))
			Expect(samples[0].Time).To(BeZero())
			Expect(samples[30].Time).To(BeNumerically("~", 3, 1e-9))
			Expect(fresh.Trail().Len()).To(Equal(30))
		})
	})
})

var _ = Describe("Range", func() {
	It("snaps nudges to the step grid", func() {
		r := scene.RangeOf(dynamo.ParamVPerp)
		Expect(r.Nudge(1.01, 1)).To(BeNumerically("~", 1.05, 1e-12))
		Expect(r.Nudge(1, -2)).To(BeNumerically("~", 0.9, 1e-12))
	})

	It("clamps to the bounds", func() {
		r := scene.RangeOf(dynamo.ParamCharge)
		Expect(r.Nudge(5, 1)).To(Equal(5.0))
		Expect(r.Nudge(-5, -1)).To(Equal(-5.0))
		Expect(r.Fraction(0)).To(BeNumerically("~", 0.5, 1e-12))
		Expect(r.Fraction(100)).To(Equal(1.0))
	})

	It("has a range for every parameter", func() {
		for _, name := range dynamo.ParamNames {
			Expect(scene.Ranges).To(HaveKey(name))
		}
		Expect(scene.RangeOf("bogus")).To(Equal(scene.Range{Min: 0, Max: 1, Step: 0.01}))
	})
})

var _ = Describe("Orbit", func() {
	It("keeps its distance from the target", func() {
		o := scene.NewOrbit()
		o.Target = dynamo.Vec3{X: 1, Y: 2, Z: 3}
		pose := o.Pose()
		Expect(pose.Target).To(Equal(o.Target))
		Expect(pose.Position.Sub(pose.Target).Length()).To(BeNumerically("~", o.Distance, 1e-9))
	})

	It("starts where the default follow rig sits", func() {
		pose := scene.NewOrbit().Pose()
		want := scene.DefaultFollowRig().Offset().Normalize()
		got := pose.Position.Sub(pose.Target).Normalize()
		Expect(got.Sub(want).Length()).To(BeNumerically("<", 1e-9))
	})

	It("clamps zoom and pitch", func() {
		o := scene.NewOrbit()
		o.Zoom(1e-6)
		Expect(o.Distance).To(Equal(scene.MinOrbitDistance))
		o.Zoom(1e9)
		Expect(o.Distance).To(Equal(scene.MaxOrbitDistance))

		o.Rotate(0, 10)
		Expect(o.Pitch).To(BeNumerically("~", scene.MaxOrbitPitch, 1e-12))
		o.Rotate(0, -20)
		Expect(o.Pitch).To(BeNumerically("~", -scene.MaxOrbitPitch, 1e-12))
	})
})
