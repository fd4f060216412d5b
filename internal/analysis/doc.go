// Package analysis extracts gyration properties from sampled trajectories
// and checks them against the closed form.
//
//   - [Spectrum] and [DominantFrequency]: FFT of one coordinate, whose peak
//     sits at the cyclotron frequency omega/2pi
//   - [FitCircle]: least-squares circle through the xy projection, whose
//     radius is the gyroradius
//   - [Crossings]: interpolated upward zero crossings, a period estimate
//     independent of the FFT bin width
//   - [CompareIntegrators]: integrates the Lorentz ODE with several
//     integrators and scores each against the closed form
//   - [ProjectionToASCII]: quick text plot of a trajectory projection
//
// Typical use on a stored run:
//
//	xs := analysis.Component(samples, analysis.AxisX)
//	f := analysis.DominantFrequency(xs, fps)
//	c, _ := analysis.FitCircle(analysis.Project(samples, analysis.PlaneXY))
package analysis
