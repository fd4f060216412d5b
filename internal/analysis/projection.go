package analysis

import (
	"strings"

	"github.com/san-kum/gyrosim/internal/dynamo"
)

// Plane selects two coordinates of a 3D trajectory.
type Plane string

const (
	PlaneXY Plane = "xy"
	PlaneXZ Plane = "xz"
	PlaneYZ Plane = "yz"
)

func (p Plane) Valid() bool {
	return p == PlaneXY || p == PlaneXZ || p == PlaneYZ
}

// Of projects a single point.
func (p Plane) Of(v dynamo.Vec3) Point2 {
	switch p {
	case PlaneXZ:
		return Point2{v.X, v.Z}
	case PlaneYZ:
		return Point2{v.Y, v.Z}
	default:
		return Point2{v.X, v.Y}
	}
}

// Project maps every sample onto the plane.
func Project(samples []dynamo.Sample, plane Plane) []Point2 {
	out := make([]Point2, len(samples))
	for i, s := range samples {
		out[i] = plane.Of(s.Position)
	}
	return out
}

// Bounds returns the min and max corners of a point set.
func Bounds(points []Point2) (lo, hi Point2) {
	if len(points) == 0 {
		return
	}
	lo, hi = points[0], points[0]
	for _, p := range points[1:] {
		lo.X = min(lo.X, p.X)
		lo.Y = min(lo.Y, p.Y)
		hi.X = max(hi.X, p.X)
		hi.Y = max(hi.Y, p.Y)
	}
	return lo, hi
}

// ProjectionToASCII plots points on a width x height character grid with 10%
// padding and draws the axes when they are in view.
func ProjectionToASCII(points []Point2, width, height int) string {
	if len(points) == 0 || width < 2 || height < 2 {
		return ""
	}

	lo, hi := Bounds(points)
	rangeX := hi.X - lo.X
	rangeY := hi.Y - lo.Y
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	lo.X -= rangeX * 0.1
	hi.X += rangeX * 0.1
	lo.Y -= rangeY * 0.1
	hi.Y += rangeY * 0.1
	rangeX = hi.X - lo.X
	rangeY = hi.Y - lo.Y

	col := func(x float64) int { return int((x - lo.X) / rangeX * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-lo.Y)/rangeY*float64(height-1)) }

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	if lo.X <= 0 && hi.X >= 0 {
		c := col(0)
		for r := 0; r < height; r++ {
			grid[r][c] = '│'
		}
	}
	if lo.Y <= 0 && hi.Y >= 0 {
		r := row(0)
		for c := 0; c < width; c++ {
			if grid[r][c] == '│' {
				grid[r][c] = '┼'
			} else {
				grid[r][c] = '─'
			}
		}
	}

	for _, p := range points {
		r, c := row(p.Y), col(p.X)
		if r >= 0 && r < height && c >= 0 && c < width {
			grid[r][c] = '•'
		}
	}

	var sb strings.Builder
	for _, line := range grid {
		sb.WriteString(string(line))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// Crossings returns the interpolated times at which values rises through
// threshold. Consecutive crossing times of x(t) are one gyration apart.
func Crossings(times, values []float64, threshold float64) []float64 {
	var out []float64
	for i := 1; i < len(values) && i < len(times); i++ {
		prev, cur := values[i-1], values[i]
		if prev < threshold && cur >= threshold {
			frac := (threshold - prev) / (cur - prev)
			out = append(out, times[i-1]+frac*(times[i]-times[i-1]))
		}
	}
	return out
}

// MeanInterval is the average gap between consecutive times, or zero when
// there are fewer than two.
func MeanInterval(times []float64) float64 {
	if len(times) < 2 {
		return 0
	}
	return (times[len(times)-1] - times[0]) / float64(len(times)-1)
}
