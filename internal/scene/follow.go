package scene

import (
	"math"

	"github.com/san-kum/gyrosim/internal/dynamo"
)

const (
	DefaultFollowDistance = 10.0
	DefaultFollowAngle    = 20.0 // degrees above the particle
)

// CameraPose places a camera and the point it looks at.
type CameraPose struct {
	Position dynamo.Vec3
	Target   dynamo.Vec3
}

// FollowRig keeps the camera at a fixed offset behind and above the
// particle, looking at it. The offset is computed once.
type FollowRig struct {
	Distance float64
	Angle    float64 // degrees
	offset   dynamo.Vec3
}

func NewFollowRig(distance, angleDeg float64) FollowRig {
	rad := angleDeg * math.Pi / 180
	return FollowRig{
		Distance: distance,
		Angle:    angleDeg,
		offset:   dynamo.Vec3{X: -distance, Y: distance * math.Tan(rad), Z: 0},
	}
}

func DefaultFollowRig() FollowRig {
	return NewFollowRig(DefaultFollowDistance, DefaultFollowAngle)
}

func (r FollowRig) Offset() dynamo.Vec3 { return r.offset }

func (r FollowRig) Pose(particle dynamo.Vec3) CameraPose {
	return CameraPose{Position: particle.Add(r.offset), Target: particle}
}
