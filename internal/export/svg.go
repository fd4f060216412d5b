package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/gyrosim/internal/analysis"
	"github.com/san-kum/gyrosim/internal/dynamo"
)

// Braille dot bits by sub-row and sub-column.
var brailleBits = [4][2]int{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

func svgHeader(sb *strings.Builder, width, height float64, background string) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

// BrailleToSVG turns a grid of braille runes (one terminal frame) into dots.
// Each character cell becomes a 2x4 block of scale-sized cells.
func BrailleToSVG(grid [][]rune, scale float64, color, background string) string {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return ""
	}

	rows, cols := len(grid), len(grid[0])
	var sb strings.Builder
	svgHeader(&sb, float64(cols)*scale*2, float64(rows)*scale*4, background)
	fmt.Fprintf(&sb, "<g fill=\"%s\">\n", color)

	radius := scale * 0.4
	for row, line := range grid {
		for col, r := range line {
			if r <= 0x2800 || r > 0x28FF {
				continue
			}
			pattern := int(r - 0x2800)
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&brailleBits[dy][dx] == 0 {
						continue
					}
					cx := baseX + float64(dx)*scale + scale/2
					cy := baseY + float64(dy)*scale + scale/2
					fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, radius)
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

type Options struct {
	Width, Height int
	Stroke        string
	Background    string
	// Segments splits the path into pieces of rising opacity so older
	// positions fade out like the live trail. 1 draws a solid path.
	Segments int
	// Marker draws the final position as a dot.
	Marker bool
}

func DefaultOptions() Options {
	return Options{
		Width:      800,
		Height:     600,
		Stroke:     "#00e5ff",
		Background: "#0a0a0a",
		Segments:   8,
		Marker:     true,
	}
}

// TrajectoryToSVG draws points as a polyline scaled to fit with 10% padding.
// The vertical axis points up.
func TrajectoryToSVG(points []analysis.Point2, opts Options) string {
	if len(points) < 2 {
		return ""
	}
	if opts.Segments < 1 {
		opts.Segments = 1
	}

	lo, hi := analysis.Bounds(points)
	rangeX := hi.X - lo.X
	rangeY := hi.Y - lo.Y
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	lo.X -= rangeX * 0.1
	lo.Y -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	w, h := float64(opts.Width), float64(opts.Height)
	toScreen := func(p analysis.Point2) (float64, float64) {
		return (p.X - lo.X) / rangeX * w, h - (p.Y-lo.Y)/rangeY*h
	}

	var sb strings.Builder
	svgHeader(&sb, w, h, opts.Background)

	n := len(points)
	for seg := 0; seg < opts.Segments; seg++ {
		start := seg * (n - 1) / opts.Segments
		end := (seg + 1) * (n - 1) / opts.Segments
		if end <= start {
			continue
		}
		opacity := float64(seg+1) / float64(opts.Segments)
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-opacity="%.2f" stroke-width="1.5" d="`, opts.Stroke, opacity)
		for i := start; i <= end; i++ {
			x, y := toScreen(points[i])
			if i == start {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	if opts.Marker {
		x, y := toScreen(points[n-1])
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"4\" fill=\"%s\"/>\n", x, y, opts.Stroke)
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// WriteTrajectory projects samples onto plane and writes the SVG to w.
func WriteTrajectory(w io.Writer, samples []dynamo.Sample, plane analysis.Plane, opts Options) error {
	if !plane.Valid() {
		return fmt.Errorf("plane %q: %w", plane, dynamo.ErrInvalidConfig)
	}
	if len(samples) < 2 {
		return dynamo.ErrEmptyRun
	}
	_, err := io.WriteString(w, TrajectoryToSVG(analysis.Project(samples, plane), opts))
	return err
}
