package geometry

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrDegenerateFit is returned when a circle cannot be fitted, e.g. when
// the input points are collinear or fewer than three are given.
var ErrDegenerateFit = errors.New("geometry: cannot fit circle through points")

// FitCircle fits a circle through three or more points by linear least
// squares (Kasa's method). Each point contributes one row of
// 2x*cx + 2y*cy + k = x^2 + y^2, where r^2 = k + cx^2 + cy^2.
func FitCircle(points []Point2D) (center Point2D, radius float64, err error) {
	if len(points) < 3 {
		return Point2D{}, 0, ErrDegenerateFit
	}

	n := len(points)
	a := mat.NewDense(n, 3, nil)
	b := mat.NewVecDense(n, nil)
	for i, p := range points {
		a.Set(i, 0, 2*p.X)
		a.Set(i, 1, 2*p.Y)
		a.Set(i, 2, 1)
		b.SetVec(i, p.X*p.X+p.Y*p.Y)
	}

	var sol mat.VecDense
	if err := sol.SolveVec(a, b); err != nil {
		return Point2D{}, 0, ErrDegenerateFit
	}

	cx := sol.AtVec(0)
	cy := sol.AtVec(1)
	rsq := sol.AtVec(2) + cx*cx + cy*cy
	if rsq <= 0 || math.IsNaN(rsq) || math.IsInf(rsq, 0) {
		return Point2D{}, 0, ErrDegenerateFit
	}

	return Point2D{X: cx, Y: cy}, math.Sqrt(rsq), nil
}
