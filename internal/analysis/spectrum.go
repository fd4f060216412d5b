package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/gyrosim/internal/dynamo"
)

type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Component extracts one coordinate from every sample.
func Component(samples []dynamo.Sample, axis Axis) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		switch axis {
		case AxisX:
			out[i] = s.Position.X
		case AxisY:
			out[i] = s.Position.Y
		case AxisZ:
			out[i] = s.Position.Z
		}
	}
	return out
}

// SpectrumResult holds the one-sided magnitude spectrum of a real signal.
type SpectrumResult struct {
	Freqs     []float64
	Magnitude []float64
}

// Spectrum applies a Hann window after removing the mean and returns the
// magnitude of the first half of the FFT. sampleRate is in samples per unit
// of simulation time.
func Spectrum(values []float64, sampleRate float64) SpectrumResult {
	n := len(values)
	if n < 2 || sampleRate <= 0 {
		return SpectrumResult{}
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	buf := make([]complex128, n)
	for i, v := range values {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		buf[i] = complex((v-mean)*w, 0)
	}
	coeffs := fft.FFT(buf)

	half := n / 2
	res := SpectrumResult{
		Freqs:     make([]float64, half),
		Magnitude: make([]float64, half),
	}
	for i := 0; i < half; i++ {
		res.Freqs[i] = float64(i) * sampleRate / float64(n)
		res.Magnitude[i] = cmplx.Abs(coeffs[i])
	}
	return res
}

// Peak returns the bin with the largest magnitude, skipping DC.
func (s SpectrumResult) Peak() int {
	best := -1
	for i := 1; i < len(s.Magnitude); i++ {
		if best < 0 || s.Magnitude[i] > s.Magnitude[best] {
			best = i
		}
	}
	return best
}

// DominantFrequency is the peak frequency refined by fitting a parabola
// through the log magnitudes of the peak bin and its neighbours. It returns
// zero for signals with no usable spectrum.
func DominantFrequency(values []float64, sampleRate float64) float64 {
	s := Spectrum(values, sampleRate)
	k := s.Peak()
	if k < 0 || s.Magnitude[k] == 0 {
		return 0
	}
	df := sampleRate / float64(len(values))
	if k == 0 || k+1 >= len(s.Magnitude) {
		return s.Freqs[k]
	}

	a := math.Log(s.Magnitude[k-1] + 1e-300)
	b := math.Log(s.Magnitude[k] + 1e-300)
	c := math.Log(s.Magnitude[k+1] + 1e-300)
	denom := a - 2*b + c
	if denom == 0 {
		return s.Freqs[k]
	}
	delta := 0.5 * (a - c) / denom
	return (float64(k) + delta) * df
}
