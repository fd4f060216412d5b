package analysis

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Point2 is a point in a projection plane.
type Point2 struct{ X, Y float64 }

// Circle is the result of FitCircle. RMS is the root-mean-square radial
// residual.
type Circle struct {
	CX, CY float64
	R      float64
	RMS    float64
}

var ErrDegenerateFit = errors.New("analysis: points do not determine a circle")

// maxFitCond bounds the condition number of the normal equations; above it
// the points are treated as collinear.
const maxFitCond = 1e12

// FitCircle fits x^2+y^2+Dx+Ey+F=0 by linear least squares (the Kasa fit).
// Collinear or too few points return ErrDegenerateFit.
func FitCircle(points []Point2) (Circle, error) {
	n := len(points)
	if n < 3 {
		return Circle{}, ErrDegenerateFit
	}

	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
	}
	mx, my := stat.Mean(xs, nil), stat.Mean(ys, nil)

	// Centre the data to keep the normal equations well conditioned.
	a := mat.NewDense(n, 3, nil)
	b := mat.NewVecDense(n, nil)
	for i := range xs {
		x, y := xs[i]-mx, ys[i]-my
		a.SetRow(i, []float64{x, y, 1})
		b.SetVec(i, -(x*x + y*y))
	}

	var ata mat.SymDense
	ata.SymOuterK(1, a.T())
	var chol mat.Cholesky
	if !chol.Factorize(&ata) || chol.Cond() > maxFitCond {
		return Circle{}, ErrDegenerateFit
	}
	var atb, coef mat.VecDense
	atb.MulVec(a.T(), b)
	if err := chol.SolveVecTo(&coef, &atb); err != nil {
		return Circle{}, ErrDegenerateFit
	}

	d, e, f := coef.AtVec(0), coef.AtVec(1), coef.AtVec(2)
	cx, cy := -d/2, -e/2
	r2 := cx*cx + cy*cy - f
	if r2 <= 0 || math.IsNaN(r2) {
		return Circle{}, ErrDegenerateFit
	}

	c := Circle{CX: cx + mx, CY: cy + my, R: math.Sqrt(r2)}
	res := make([]float64, n)
	for i := range res {
		res[i] = math.Hypot(xs[i]-c.CX, ys[i]-c.CY) - c.R
	}
	c.RMS = floats.Norm(res, 2) / math.Sqrt(float64(n))
	return c, nil
}
