package scene

import (
	"math"

	"github.com/san-kum/gyrosim/internal/dynamo"
)

const (
	MaxOrbitPitch    = 85 * math.Pi / 180
	MinOrbitDistance = 2.0
	MaxOrbitDistance = 200.0
)

// Orbit is the free camera used when follow is off: it circles Target at
// Distance, Yaw radians around the vertical axis and Pitch above the
// horizon.
type Orbit struct {
	Target   dynamo.Vec3
	Yaw      float64
	Pitch    float64
	Distance float64
}

// NewOrbit starts from the same direction the follow rig uses.
func NewOrbit() *Orbit {
	return &Orbit{Yaw: math.Pi, Pitch: DefaultFollowAngle * math.Pi / 180, Distance: 12}
}

func (o *Orbit) Rotate(dYaw, dPitch float64) {
	o.Yaw = math.Mod(o.Yaw+dYaw, 2*math.Pi)
	o.Pitch = math.Max(-MaxOrbitPitch, math.Min(MaxOrbitPitch, o.Pitch+dPitch))
}

func (o *Orbit) Zoom(factor float64) {
	o.Distance = math.Max(MinOrbitDistance, math.Min(MaxOrbitDistance, o.Distance*factor))
}

func (o *Orbit) Pose() CameraPose {
	cp := math.Cos(o.Pitch)
	offset := dynamo.Vec3{
		X: cp * math.Cos(o.Yaw),
		Y: math.Sin(o.Pitch),
		Z: cp * math.Sin(o.Yaw),
	}.Scale(o.Distance)
	return CameraPose{Position: o.Target.Add(offset), Target: o.Target}
}
