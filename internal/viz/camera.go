package viz

import (
	"math"

	"github.com/san-kum/gyrosim/internal/dynamo"
	"github.com/san-kum/gyrosim/internal/scene"
)

var worldUp = dynamo.Vec3{Y: 1}

// Camera is a perspective look-at camera. FOV is the vertical field of view
// in radians; Aspect is width over height of the target surface.
type Camera struct {
	Position dynamo.Vec3
	Target   dynamo.Vec3
	FOV      float64
	Aspect   float64
	Near     float64

	right, up, forward dynamo.Vec3
}

func NewCamera(pose scene.CameraPose, aspect float64) *Camera {
	c := &Camera{Position: pose.Position, Target: pose.Target, FOV: math.Pi / 3, Aspect: aspect, Near: 0.05}
	c.basis()
	return c
}

func (c *Camera) basis() {
	c.forward = c.Target.Sub(c.Position).Normalize()
	up := worldUp
	if math.Abs(c.forward.Dot(up)) > 0.999 {
		up = dynamo.Vec3{Z: 1}
	}
	c.right = c.forward.Cross(up).Normalize()
	c.up = c.right.Cross(c.forward)
}

// Project maps a world point to surface coordinates on a w x h grid.
// It returns the depth along the view direction and whether the point is in
// front of the camera and inside the grid.
func (c *Camera) Project(p dynamo.Vec3, w, h int) (int, int, float64, bool) {
	d := p.Sub(c.Position)
	depth := d.Dot(c.forward)
	if depth <= c.Near {
		return 0, 0, depth, false
	}

	aspect := c.Aspect
	if aspect <= 0 {
		aspect = float64(w) / float64(max(h, 1))
	}
	tanHalf := math.Tan(c.FOV / 2)
	nx := d.Dot(c.right) / (depth * tanHalf * aspect)
	ny := d.Dot(c.up) / (depth * tanHalf)

	sx := int(math.Round((nx + 1) / 2 * float64(w-1)))
	sy := int(math.Round((1 - ny) / 2 * float64(h-1)))
	return sx, sy, depth, sx >= 0 && sx < w && sy >= 0 && sy < h
}
