package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/san-kum/gyrosim/internal/analysis"
	"github.com/san-kum/gyrosim/internal/dynamo"
	"github.com/san-kum/gyrosim/internal/physics"
)

func helixSamples(n int) []dynamo.Sample {
	h := physics.NewHelix(dynamo.DefaultParams())
	out := make([]dynamo.Sample, n)
	for i := range out {
		t := float64(i) * 0.05
		out[i] = dynamo.Sample{Time: t, Position: h.Position(t)}
	}
	return out
}

func TestTrajectoryToSVG(t *testing.T) {
	opts := DefaultOptions()
	svg := TrajectoryToSVG(analysis.Project(helixSamples(200), analysis.PlaneXY), opts)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Fatal("not a complete svg document")
	}
	if got := strings.Count(svg, "<path"); got != opts.Segments {
		t.Errorf("expected %d path segments, got %d", opts.Segments, got)
	}
	if !strings.Contains(svg, `stroke-opacity="1.00"`) {
		t.Error("newest segment should be opaque")
	}
	if !strings.Contains(svg, "<circle") {
		t.Error("expected a particle marker")
	}
}

func TestTrajectoryToSVGSolid(t *testing.T) {
	opts := DefaultOptions()
	opts.Segments = 0
	opts.Marker = false
	svg := TrajectoryToSVG([]analysis.Point2{{0, 0}, {1, 1}, {2, 0}}, opts)

	if strings.Count(svg, "<path") != 1 {
		t.Error("expected a single path")
	}
	if strings.Contains(svg, "<circle") {
		t.Error("marker disabled")
	}
	if TrajectoryToSVG([]analysis.Point2{{0, 0}}, opts) != "" {
		t.Error("single point should render nothing")
	}
}

func TestWriteTrajectory(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTrajectory(&buf, helixSamples(50), analysis.PlaneXZ, DefaultOptions()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		t.Error("missing svg element")
	}

	if err := WriteTrajectory(&buf, helixSamples(50), analysis.Plane("ab"), DefaultOptions()); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	if err := WriteTrajectory(&buf, nil, analysis.PlaneXY, DefaultOptions()); !errors.Is(err, dynamo.ErrEmptyRun) {
		t.Errorf("expected ErrEmptyRun, got %v", err)
	}
}

func TestBrailleToSVG(t *testing.T) {
	grid := [][]rune{
		{0x2800, 0x2801},
		{0x28FF, 'x'},
	}
	svg := BrailleToSVG(grid, 2, "#fff", "#000")

	if got := strings.Count(svg, "<circle"); got != 9 {
		t.Errorf("expected 9 dots, got %d", got)
	}
	if !strings.Contains(svg, `width="8" height="16"`) {
		t.Error("unexpected dimensions")
	}
	if BrailleToSVG(nil, 2, "#fff", "#000") != "" {
		t.Error("empty grid should render nothing")
	}
}
