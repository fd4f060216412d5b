package analysis

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/gyrosim/internal/dynamo"
	"github.com/san-kum/gyrosim/internal/physics"
)

func sampleHelix(p dynamo.Params, rate float64, n int) []dynamo.Sample {
	h := physics.NewHelix(p)
	out := make([]dynamo.Sample, n)
	for i := range out {
		t := float64(i) / rate
		out[i] = dynamo.Sample{Time: t, Position: h.Position(t)}
	}
	return out
}

func TestDominantFrequencyMatchesCyclotron(t *testing.T) {
	tests := []struct {
		name string
		p    dynamo.Params
	}{
		{"unit", dynamo.DefaultParams()},
		{"strong field", dynamo.Params{Mass: 1, Charge: 1, Field: 3, VPerp: 1, VPar: 0.5, TimeScale: 1}},
		{"negative charge", dynamo.Params{Mass: 2, Charge: -1, Field: 2, VPerp: 2, TimeScale: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate := 60.0
			samples := sampleHelix(tt.p, rate, 3600)
			want := physics.NewHelix(tt.p).Omega() / (2 * math.Pi)

			got := DominantFrequency(Component(samples, AxisX), rate)
			binWidth := rate / 3600
			if math.Abs(got-want) > binWidth/3 {
				t.Errorf("frequency %.5f, want %.5f (bin %.5f)", got, want, binWidth)
			}
		})
	}
}

func TestSpectrumEdgeCases(t *testing.T) {
	if s := Spectrum(nil, 60); len(s.Freqs) != 0 {
		t.Error("expected empty spectrum for no samples")
	}
	if s := Spectrum([]float64{1, 2, 3}, 0); len(s.Freqs) != 0 {
		t.Error("expected empty spectrum for zero rate")
	}
	if f := DominantFrequency(make([]float64, 64), 10); f != 0 {
		t.Errorf("flat signal gave %g", f)
	}
}

func TestFitCircleRecoversGyroradius(t *testing.T) {
	p := dynamo.Params{Mass: 1, Charge: 2, Field: 1, VPerp: 3, VPar: 1, TimeScale: 1}
	h := physics.NewHelix(p)
	samples := sampleHelix(p, 30, 400)

	c, err := FitCircle(Project(samples, PlaneXY))
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if math.Abs(c.R-h.Gyroradius()) > 1e-9 {
		t.Errorf("radius %.9f, want %.9f", c.R, h.Gyroradius())
	}
	center := h.Center(0)
	if math.Abs(c.CX-center.X) > 1e-9 || math.Abs(c.CY-center.Y) > 1e-9 {
		t.Errorf("center (%.6f, %.6f), want (%.6f, %.6f)", c.CX, c.CY, center.X, center.Y)
	}
	if c.RMS > 1e-9 {
		t.Errorf("rms %g", c.RMS)
	}
}

func TestFitCircleDegenerate(t *testing.T) {
	tests := []struct {
		name   string
		points []Point2
	}{
		{"too few", []Point2{{0, 0}, {1, 1}}},
		{"collinear", []Point2{{0, 0}, {1, 1}, {2, 2}, {3, 3}}},
		{"identical", []Point2{{1, 1}, {1, 1}, {1, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FitCircle(tt.points); !errors.Is(err, ErrDegenerateFit) {
				t.Errorf("expected ErrDegenerateFit, got %v", err)
			}
		})
	}
}

func TestCrossingsGivePeriod(t *testing.T) {
	samples := sampleHelix(dynamo.DefaultParams(), 100, 3000)
	times := make([]float64, len(samples))
	for i, s := range samples {
		times[i] = s.Time
	}
	cross := Crossings(times, Component(samples, AxisX), 0)
	if len(cross) != 4 {
		t.Fatalf("expected 4 crossings in 30 time units, got %d", len(cross))
	}
	if p := MeanInterval(cross); math.Abs(p-2*math.Pi) > 1e-3 {
		t.Errorf("period %.5f, want %.5f", p, 2*math.Pi)
	}
}

func TestAnalyze(t *testing.T) {
	p := dynamo.DefaultParams()
	rate := 60.0
	r, err := Analyze(sampleHelix(p, rate, 3600), p, rate)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if math.Abs(r.MeasuredVPar-p.VPar) > 1e-12 {
		t.Errorf("vpar %.6f", r.MeasuredVPar)
	}
	if r.FitErr != nil || math.Abs(r.Fit.R-r.ExpectedRadius) > 1e-9 {
		t.Errorf("fit %+v err %v", r.Fit, r.FitErr)
	}
	if math.Abs(r.CrossingPeriod-r.ExpectedPeriod) > 1e-3 {
		t.Errorf("crossing period %.5f, want %.5f", r.CrossingPeriod, r.ExpectedPeriod)
	}

	if _, err := Analyze(nil, p, rate); !errors.Is(err, dynamo.ErrEmptyRun) {
		t.Errorf("expected ErrEmptyRun, got %v", err)
	}
}

func TestCompareIntegrators(t *testing.T) {
	p := dynamo.DefaultParams()
	res, err := CompareIntegrators(p, []string{"euler", "rk4", "boris"}, 1e-3, 2*math.Pi)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if len(res) != 3 {
		t.Fatalf("expected 3 results, got %d", len(res))
	}

	byName := map[string]Comparison{}
	for _, c := range res {
		if c.Err != nil {
			t.Errorf("%s: %v", c.Integrator, c.Err)
		}
		byName[c.Integrator] = c
	}

	if byName["rk4"].MaxError > 1e-6 {
		t.Errorf("rk4 max error %g", byName["rk4"].MaxError)
	}
	if byName["euler"].MaxError <= byName["rk4"].MaxError {
		t.Error("euler should be less accurate than rk4")
	}
	if byName["boris"].EnergyDrift > 1e-10 {
		t.Errorf("boris energy drift %g", byName["boris"].EnergyDrift)
	}
}

func TestCompareIntegratorsAdaptive(t *testing.T) {
	p := dynamo.DefaultParams()
	dt := 1e-3
	res, err := CompareIntegrators(p, []string{"rk45", "rk4"}, dt, 2*math.Pi)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	rk45, rk4 := res[0], res[1]
	if !rk45.Adaptive || rk4.Adaptive {
		t.Fatalf("adaptive flags: rk45=%v rk4=%v", rk45.Adaptive, rk4.Adaptive)
	}
	if rk45.Err != nil {
		t.Fatalf("rk45: %v", rk45.Err)
	}
	if rk45.Steps >= rk4.Steps {
		t.Errorf("rk45 took %d steps, fixed step took %d", rk45.Steps, rk4.Steps)
	}
	if rk45.MaxError > 1e-3 || rk45.FinalError > 1e-3 {
		t.Errorf("rk45 errors max=%g final=%g", rk45.MaxError, rk45.FinalError)
	}
}

func TestCompareIntegratorsErrors(t *testing.T) {
	p := dynamo.DefaultParams()
	if _, err := CompareIntegrators(p, []string{"nope"}, 0.01, 1); err == nil {
		t.Error("expected error for unknown integrator")
	}
	if _, err := CompareIntegrators(p, nil, 0, 1); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestProjectionToASCII(t *testing.T) {
	samples := sampleHelix(dynamo.DefaultParams(), 30, 200)
	out := ProjectionToASCII(Project(samples, PlaneXY), 40, 12)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 12 {
		t.Fatalf("expected 12 lines, got %d", len(lines))
	}
	if !strings.Contains(out, "•") {
		t.Error("expected plotted points")
	}
	if ProjectionToASCII(nil, 40, 12) != "" {
		t.Error("expected empty plot for no points")
	}
}

func TestPlaneProjection(t *testing.T) {
	v := dynamo.Vec3{X: 1, Y: 2, Z: 3}
	if PlaneXZ.Of(v) != (Point2{1, 3}) || PlaneYZ.Of(v) != (Point2{2, 3}) || PlaneXY.Of(v) != (Point2{1, 2}) {
		t.Error("projection mismatch")
	}
	if Plane("zz").Valid() {
		t.Error("zz should be invalid")
	}
}
