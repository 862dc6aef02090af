package grid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// maxCond bounds the condition number of the design matrix. Above it the
// sample positions do not span a plane.
const maxCond = 1e12

// Plane is the model z = A*x + B*y + C.
type Plane struct {
	A, B, C float64
}

// At evaluates the plane at (x, y).
func (p Plane) At(x, y float64) float64 {
	return p.A*x + p.B*y + p.C
}

func (p Plane) String() string {
	return fmt.Sprintf("z = %g*x + %g*y + %g", p.A, p.B, p.C)
}

// RemovePlane fits z = a*x + b*y + c to every cell by ordinary least squares
// and returns the fitted plane with the residual field z - plane(x, y).
// All inputs must be finite; fill missing values first.
func RemovePlane(x, y, z *mat.Dense) (Plane, *mat.Dense, error) {
	rows, cols, err := checkShape(x, y, z)
	if err != nil {
		return Plane{}, nil, err
	}
	n := rows * cols
	if n < 3 {
		return Plane{}, nil, fmt.Errorf("%w: %d samples for 3 parameters", ErrFit, n)
	}

	xs, ys, zs := values(x), values(y), values(z)
	design := mat.NewDense(n, 3, nil)
	for k := 0; k < n; k++ {
		if !finite(xs[k]) || !finite(ys[k]) || !finite(zs[k]) {
			return Plane{}, nil, fmt.Errorf("%w: non-finite value at cell (%d, %d)",
				ErrFit, k/cols, k%cols)
		}
		design.SetRow(k, []float64{xs[k], ys[k], 1})
	}
	if c := mat.Cond(design, 2); math.IsInf(c, 1) || math.IsNaN(c) || c > maxCond {
		return Plane{}, nil, fmt.Errorf("%w: degenerate sample geometry (condition number %g)", ErrFit, c)
	}

	var coef mat.VecDense
	if err := coef.SolveVec(design, mat.NewVecDense(n, zs)); err != nil {
		return Plane{}, nil, fmt.Errorf("%w: %w", ErrFit, err)
	}
	p := Plane{A: coef.AtVec(0), B: coef.AtVec(1), C: coef.AtVec(2)}

	residual := mat.NewDense(rows, cols, nil)
	residual.Apply(func(i, j int, _ float64) float64 {
		return z.At(i, j) - p.At(x.At(i, j), y.At(i, j))
	}, residual)
	return p, residual, nil
}
